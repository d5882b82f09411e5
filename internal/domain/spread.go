package domain

import "math"

// Empirical spread-model constants. Inherited verbatim from the department's
// calibrated calculator; they are the contract, not tunables.
const (
	frontBase       = 26.0 // k1: overall front-speed scale
	frontWindSlope  = 2.7  // k2: wind amplification per m/s
	frontMoistAdd   = 2.0  // k3: fuel-moisture numerator offset
	frontMoistDamp  = 16.0 // k4: fuel-moisture denominator offset
	flankSlope      = 0.35 // a1
	flankIntercept  = 0.17 // a2, m/min
	rearSlope       = 0.10 // a3
	rearIntercept   = 0.20 // a4, m/min
	areaCoefficient = 0.04 // c: area_m2 per perimeter², the original 4·10⁻⁶ ha/m² in m² form
	minutesPerHour  = 60.0
)

// SpreadInput are the fuel/wind/time parameters of a spread forecast.
type SpreadInput struct {
	Emissivity    float64        `json:"E"`              // flame blackness, 0..1
	WindSpeed     float64        `json:"wind_speed"`     // m/s under canopy at 2 m
	WindDirection CompassBearing `json:"wind_direction"` // direction the fire runs toward
	FuelDensity   float64        `json:"rho"`            // kg/m³, > 0
	FuelMoisture  float64        `json:"W"`              // %, >= 0
	ElapsedHours  float64        `json:"t"`              // hours since ignition, > 0

	// Optional ignition point.
	LocationName string   `json:"location_name,omitempty"`
	Lat          *float64 `json:"latitude,omitempty"`
	Lon          *float64 `json:"longitude,omitempty"`
}

// Validate checks every field against its documented range.
func (in SpreadInput) Validate() error {
	switch {
	case in.Emissivity < 0 || in.Emissivity > 1:
		return validationErr("E", in.Emissivity, "must be within 0..1")
	case in.WindSpeed < 0 || in.WindSpeed > 50:
		return validationErr("wind_speed", in.WindSpeed, "must be within 0..50 m/s")
	case !in.WindDirection.Valid():
		return validationErr("wind_direction", in.WindDirection, "must be one of N,NE,E,SE,S,SW,W,NW")
	case in.FuelDensity <= 0:
		return validationErr("rho", in.FuelDensity, "must be > 0 kg/m³")
	case in.FuelMoisture < 0:
		return validationErr("W", in.FuelMoisture, "must be >= 0 %")
	case in.ElapsedHours <= 0:
		return validationErr("t", in.ElapsedHours, "must be > 0 hours")
	}

	if in.Lat != nil && (*in.Lat < -90 || *in.Lat > 90) {
		return validationErr("latitude", *in.Lat, "must be within -90..90")
	}
	if in.Lon != nil && (*in.Lon < -180 || *in.Lon > 180) {
		return validationErr("longitude", *in.Lon, "must be within -180..180")
	}
	return nil
}

// HasCoordinates reports whether the input carries an ignition point.
func (in SpreadInput) HasCoordinates() bool {
	return in.Lat != nil && in.Lon != nil
}

// SpreadResult is the deterministic outcome of the elliptical growth model.
// Speeds are m/min, distances and axes metres, the perimeter metres, areas
// m² and hectares. CenterOffset is the signed displacement of the ellipse
// center from the ignition point along the wind bearing.
type SpreadResult struct {
	VFront float64 `json:"v_front"`
	VFlank float64 `json:"v_flank"`
	VRear  float64 `json:"v_rear"`

	DFront float64 `json:"d_front"`
	DFlank float64 `json:"d_flank"`
	DRear  float64 `json:"d_rear"`

	Perimeter float64 `json:"perimeter"`
	AreaM2    float64 `json:"area_m2"`
	AreaHa    float64 `json:"area_ha"`

	SemiMajor    float64 `json:"semi_major"`
	SemiMinor    float64 `json:"semi_minor"`
	CenterOffset float64 `json:"center_offset"`
}

// ComputeSpread evaluates the elliptical fire-growth model:
//
//	v_front = 26·E·(1+2.7·v)·(2+W) / (ρ·(16+W))      m/min
//	v_flank = 0.35·v_front + 0.17                     m/min
//	v_rear  = 0.10·v_front + 0.20                     m/min
//	d_x     = v_x·t·60                                m
//	P       = 2π·√(((d_front+d_rear)² + d_flank²)/8)  m
//	S       = 0.04·P²                                 m²
//
// The affine flank/rear constants would put those speeds above the front for
// near-zero fronts (e.g. E=0); the flames cannot outrun their own head, so
// both are capped at v_front. The ellipse axes and center offset derive from
// the same three distances as the perimeter, keeping the geometry and the
// scalar outputs mutually consistent.
func ComputeSpread(in SpreadInput) (SpreadResult, error) {
	if err := in.Validate(); err != nil {
		return SpreadResult{}, err
	}

	vFront := frontBase * in.Emissivity * (1 + frontWindSlope*in.WindSpeed) *
		(frontMoistAdd + in.FuelMoisture) / (in.FuelDensity * (frontMoistDamp + in.FuelMoisture))
	vFlank := math.Min(flankSlope*vFront+flankIntercept, vFront)
	vRear := math.Min(rearSlope*vFront+rearIntercept, vFront)

	elapsedMinutes := in.ElapsedHours * minutesPerHour
	dFront := vFront * elapsedMinutes
	dFlank := vFlank * elapsedMinutes
	dRear := vRear * elapsedMinutes

	perimeter := 2 * math.Pi * math.Sqrt(((dFront+dRear)*(dFront+dRear)+dFlank*dFlank)/8)
	areaM2 := areaCoefficient * perimeter * perimeter

	return SpreadResult{
		VFront: vFront,
		VFlank: vFlank,
		VRear:  vRear,

		DFront: dFront,
		DFlank: dFlank,
		DRear:  dRear,

		Perimeter: perimeter,
		AreaM2:    areaM2,
		AreaHa:    areaM2 / 10_000,

		SemiMajor:    (dFront + dRear) / 2,
		SemiMinor:    dFlank,
		CenterOffset: (dFront - dRear) / 2,
	}, nil
}
