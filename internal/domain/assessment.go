package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// DangerAssessment is the sink-topic representation of an index computation.
type DangerAssessment struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"` // always "observation"
	Observation WeatherObservation `json:"input_data"`
	IndexResult

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// SpreadForecast is the sink-topic representation of a spread computation,
// including map geometry when the input carries an ignition point.
type SpreadForecast struct {
	ID    string      `json:"id"`
	Kind  string      `json:"kind"` // always "spread"
	Input SpreadInput `json:"input_data"`
	SpreadResult

	// SpreadBearing is the bearing of the fire front in degrees clockwise
	// from north, taken from the wind direction.
	SpreadBearing float64 `json:"spread_bearing"`

	// Geometry, present only when the input has coordinates. Ellipse and
	// ThreatZone are closed rings (first point repeated); ThreatZone is the
	// ellipse scaled by the configured threat buffer factor. The marker
	// points sit at the front, flank and rear travel distances.
	Ellipse    []Geo `json:"ellipse,omitempty"`
	ThreatZone []Geo `json:"threat_zone,omitempty"`
	FrontPoint *Geo  `json:"front_point,omitempty"`
	FlankPoint *Geo  `json:"flank_point,omitempty"`
	RearPoint  *Geo  `json:"rear_point,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// ProjectionOptions are the policy knobs of spread-geometry generation.
type ProjectionOptions struct {
	// EllipsePoints is the polygon resolution, >= 3.
	EllipsePoints int

	// ThreatBufferFactor scales the spread ellipse into the threat zone
	// rendered around it. Historically hard-coded at call sites; now a single
	// named option.
	ThreatBufferFactor float64
}

// DefaultProjectionOptions returns the resolution and buffer the dashboard
// renders with.
func DefaultProjectionOptions() ProjectionOptions {
	return ProjectionOptions{
		EllipsePoints:      DefaultEllipsePoints,
		ThreatBufferFactor: 1.3,
	}
}

// AssessObservation runs the index engine over one observation and wraps the
// result as a sink event with a deterministic ID and processed_at stamp.
func AssessObservation(engine *IndexEngine, obs WeatherObservation) (DangerAssessment, error) {
	result, err := engine.Assess(obs)
	if err != nil {
		return DangerAssessment{}, err
	}
	return DangerAssessment{
		ID:          assessmentID(obs),
		Kind:        KindObservation,
		Observation: obs,
		IndexResult: result,
		ProcessedAt: clock.Now(),
	}, nil
}

// ForecastSpread runs the spread model over one input and, when an ignition
// point is present, attaches the projected ellipse, threat zone and distance
// markers.
func ForecastSpread(in SpreadInput, opts ProjectionOptions) (SpreadForecast, error) {
	result, err := ComputeSpread(in)
	if err != nil {
		return SpreadForecast{}, err
	}

	bearing, err := in.WindDirection.Degrees()
	if err != nil {
		return SpreadForecast{}, err
	}

	f := SpreadForecast{
		ID:            forecastID(in),
		Kind:          KindSpread,
		Input:         in,
		SpreadResult:  result,
		SpreadBearing: bearing,
		ProcessedAt:   clock.Now(),
	}

	if !in.HasCoordinates() {
		return f, nil
	}
	if err := attachGeometry(&f, *in.Lat, *in.Lon, bearing, opts); err != nil {
		return SpreadForecast{}, err
	}
	return f, nil
}

// attachGeometry fills the geographic fields of a forecast from its metric
// results.
func attachGeometry(f *SpreadForecast, lat, lon, bearing float64, opts ProjectionOptions) error {
	r := f.SpreadResult

	ellipse, err := ProjectEllipse(lat, lon, r.SemiMajor, r.SemiMinor, r.CenterOffset, bearing, opts.EllipsePoints)
	if err != nil {
		return fmt.Errorf("project spread ellipse: %w", err)
	}
	f.Ellipse = ellipse

	if opts.ThreatBufferFactor <= 0 {
		return validationErr("threat_buffer_factor", opts.ThreatBufferFactor, "must be > 0")
	}
	zone, err := ProjectEllipse(lat, lon,
		r.SemiMajor*opts.ThreatBufferFactor,
		r.SemiMinor*opts.ThreatBufferFactor,
		r.CenterOffset*opts.ThreatBufferFactor,
		bearing, opts.EllipsePoints)
	if err != nil {
		return fmt.Errorf("project threat zone: %w", err)
	}
	f.ThreatZone = zone

	front, err := ProjectPoint(lat, lon, r.DFront, bearing)
	if err != nil {
		return fmt.Errorf("project front marker: %w", err)
	}
	flank, err := ProjectPoint(lat, lon, r.DFlank, bearing+90)
	if err != nil {
		return fmt.Errorf("project flank marker: %w", err)
	}
	rear, err := ProjectPoint(lat, lon, r.DRear, bearing+180)
	if err != nil {
		return fmt.Errorf("project rear marker: %w", err)
	}
	f.FrontPoint, f.FlankPoint, f.RearPoint = &front, &flank, &rear
	return nil
}

// assessmentID produces a deterministic ID from the observation's key fields,
// enabling idempotent upserts downstream and replay safety.
func assessmentID(obs WeatherObservation) string {
	lat, lon := 0.0, 0.0
	if obs.HasCoordinates() {
		lat, lon = *obs.Lat, *obs.Lon
	}
	input := fmt.Sprintf("%s|%s|%.4f|%.4f|%g|%g|%g|%g",
		KindObservation, obs.LocationName, lat, lon,
		obs.Temperature, obs.Humidity, obs.WindSpeed, obs.Precipitation)
	return shortHash(KindObservation, input)
}

func forecastID(in SpreadInput) string {
	lat, lon := 0.0, 0.0
	if in.HasCoordinates() {
		lat, lon = *in.Lat, *in.Lon
	}
	input := fmt.Sprintf("%s|%s|%.4f|%.4f|%g|%g|%g|%g|%g",
		KindSpread, in.LocationName, lat, lon,
		in.Emissivity, in.WindSpeed, in.FuelDensity, in.FuelMoisture, in.ElapsedHours)
	return shortHash(KindSpread, input)
}

func shortHash(prefix, input string) string {
	hash := sha256.Sum256([]byte(input))
	return prefix + "-" + hex.EncodeToString(hash[:8])
}

// SerializeAssessment marshals a danger assessment into a sink event. The
// danger level travels in a header so downstream routers can filter without
// deserializing the body.
func SerializeAssessment(a DangerAssessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize danger assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.ID),
		Value: data,
		Headers: map[string]string{
			"kind":         a.Kind,
			"danger_level": string(a.DangerLevel),
			"processed_at": a.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// SerializeForecast marshals a spread forecast into a sink event.
func SerializeForecast(f SpreadForecast) (OutputEvent, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize spread forecast: %w", err)
	}
	return OutputEvent{
		Key:   []byte(f.ID),
		Value: data,
		Headers: map[string]string{
			"kind":         f.Kind,
			"processed_at": f.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
