package pipeline

import (
	"context"
	"log/slog"

	"github.com/pavlodar-des/fire-danger-etl/internal/domain"
	"github.com/pavlodar-des/fire-danger-etl/internal/observability"
)

// FireTransformer implements Transformer by dispatching each request to the
// matching domain computation, with optional geocoding enrichment.
type FireTransformer struct {
	engine     *domain.IndexEngine
	geocoder   domain.Geocoder
	projection domain.ProjectionOptions
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewTransformer creates a FireTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(engine *domain.IndexEngine, geocoder domain.Geocoder, projection domain.ProjectionOptions, logger *slog.Logger, metrics *observability.Metrics) *FireTransformer {
	return &FireTransformer{
		engine:     engine,
		geocoder:   geocoder,
		projection: projection,
		logger:     logger,
		metrics:    metrics,
	}
}

func (t *FireTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseComputeRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	switch req.Kind {
	case domain.KindObservation:
		return t.transformObservation(ctx, *req.Observation)
	default:
		return t.transformSpread(ctx, *req.Spread)
	}
}

func (t *FireTransformer) transformObservation(ctx context.Context, obs domain.WeatherObservation) (domain.OutputEvent, error) {
	assessment, err := domain.AssessObservation(t.engine, obs)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	assessment = domain.EnrichAssessmentWithGeocoding(ctx, assessment, t.geocoder, t.logger)

	t.metrics.DangerAssessments.WithLabelValues(string(assessment.DangerLevel)).Inc()

	return domain.SerializeAssessment(assessment)
}

func (t *FireTransformer) transformSpread(ctx context.Context, in domain.SpreadInput) (domain.OutputEvent, error) {
	forecast, err := domain.ForecastSpread(in, t.projection)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	forecast = domain.EnrichForecastWithGeocoding(ctx, forecast, t.geocoder, t.logger)

	t.metrics.SpreadForecasts.Inc()

	return domain.SerializeForecast(forecast)
}
