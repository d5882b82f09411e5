package domain

import "fmt"

// ValidationError reports an input field that violates its stated constraint.
// Computation is rejected before any formula runs; the core never clamps an
// out-of-range value silently.
type ValidationError struct {
	Field      string
	Value      any
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v (%s)", e.Field, e.Value, e.Constraint)
}

// validationErr is shorthand used by the Validate methods.
func validationErr(field string, value any, constraint string) error {
	return &ValidationError{Field: field, Value: value, Constraint: constraint}
}

// DegenerateGeometryError reports a coordinate the equirectangular projection
// cannot handle: a latitude too close to a pole (cos(lat)→0 blows up the
// longitude conversion) or a projected longitude escaping [-180, 180].
type DegenerateGeometryError struct {
	Lat    float64
	Lon    float64
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry at (%.4f, %.4f): %s", e.Lat, e.Lon, e.Reason)
}

// ConfigurationError reports an incomplete static table (compass bearings,
// danger-level metadata). Detected by the Verify functions at startup, never
// per call.
type ConfigurationError struct {
	Table   string
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("incomplete %s table: missing entry for %q", e.Table, e.Missing)
}
