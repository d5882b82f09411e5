package domain

import (
	"context"
	"log/slog"
)

// geoEnrichment is the common geocoding fields of both sink event shapes.
type geoEnrichment struct {
	FormattedAddress string
	PlaceName        string
	GeoConfidence    float64
	GeoSource        string
}

// EnrichAssessmentWithGeocoding resolves the observation site. Sites that
// carry only a name are forward-geocoded to coordinates (so the dashboard can
// pin them); sites with coordinates are reverse-geocoded to a place name.
// A nil geocoder or a provider failure degrades gracefully: the assessment is
// returned unchanged apart from GeoSource.
func EnrichAssessmentWithGeocoding(ctx context.Context, a DangerAssessment, geocoder Geocoder, logger *slog.Logger) DangerAssessment {
	if geocoder == nil {
		return a
	}

	enrichment, lat, lon := resolveSite(ctx, geocoder, logger, a.ID,
		a.Observation.LocationName, a.Observation.Lat, a.Observation.Lon)

	a.FormattedAddress = enrichment.FormattedAddress
	a.PlaceName = enrichment.PlaceName
	a.GeoConfidence = enrichment.GeoConfidence
	a.GeoSource = enrichment.GeoSource
	if lat != nil {
		a.Observation.Lat, a.Observation.Lon = lat, lon
	}
	return a
}

// EnrichForecastWithGeocoding names the ignition point of a forecast that
// carries coordinates. Forecasts without coordinates are left alone: inventing
// an ignition point from a name alone would imply geometry the caller never
// asked for.
func EnrichForecastWithGeocoding(ctx context.Context, f SpreadForecast, geocoder Geocoder, logger *slog.Logger) SpreadForecast {
	if geocoder == nil || !f.Input.HasCoordinates() {
		return f
	}

	result, err := geocoder.ReverseGeocode(ctx, *f.Input.Lat, *f.Input.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"forecast_id", f.ID,
			"lat", *f.Input.Lat,
			"lon", *f.Input.Lon,
			"error", err,
		)
		f.GeoSource = "failed"
		return f
	}
	if result.FormattedAddress == "" {
		f.GeoSource = "original"
		return f
	}

	f.FormattedAddress = result.FormattedAddress
	f.PlaceName = result.PlaceName
	f.GeoConfidence = result.Confidence
	f.GeoSource = "reverse"
	return f
}

// resolveSite runs the forward/reverse decision shared by assessment
// enrichment. It returns replacement coordinates only on a successful forward
// geocode.
func resolveSite(ctx context.Context, geocoder Geocoder, logger *slog.Logger, id, name string, lat, lon *float64) (geoEnrichment, *float64, *float64) {
	hasCoords := lat != nil && lon != nil

	if !hasCoords && name != "" {
		result, err := geocoder.ForwardGeocode(ctx, name)
		if err != nil {
			logger.Warn("forward geocoding failed", "id", id, "location", name, "error", err)
			return geoEnrichment{GeoSource: "failed"}, nil, nil
		}
		if result.Lat == 0 && result.Lon == 0 {
			return geoEnrichment{GeoSource: "original"}, nil, nil
		}
		return geoEnrichment{
			FormattedAddress: result.FormattedAddress,
			PlaceName:        result.PlaceName,
			GeoConfidence:    result.Confidence,
			GeoSource:        "forward",
		}, &result.Lat, &result.Lon
	}

	if hasCoords {
		result, err := geocoder.ReverseGeocode(ctx, *lat, *lon)
		if err != nil {
			logger.Warn("reverse geocoding failed", "id", id, "lat", *lat, "lon", *lon, "error", err)
			return geoEnrichment{GeoSource: "failed"}, nil, nil
		}
		if result.FormattedAddress == "" {
			return geoEnrichment{GeoSource: "original"}, nil, nil
		}
		return geoEnrichment{
			FormattedAddress: result.FormattedAddress,
			PlaceName:        result.PlaceName,
			GeoConfidence:    result.Confidence,
			GeoSource:        "reverse",
		}, nil, nil
	}

	return geoEnrichment{GeoSource: "original"}, nil, nil
}
