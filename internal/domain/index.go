package domain

import "math"

// Index blend and normalization constants. These reproduce the department's
// published calculator and are part of the output contract.
const (
	// nesterovNormalization divides the Nesterov index into the common 0-100
	// range before blending (typical Nesterov range is 0-10000).
	nesterovNormalization = 100.0

	// nesterovWeight and fwiWeight blend the two normalized indices into the
	// composite. They must sum to 1.
	nesterovWeight = 0.5
	fwiWeight      = 0.5

	// windFactorThreshold / windFactorSlope amplify the composite by 5% per
	// m/s of wind above 5 m/s.
	windFactorThreshold = 5.0
	windFactorSlope     = 0.05

	// soilFactorFloor bounds how much wet soil can suppress the composite.
	soilFactorFloor = 0.5
)

// IndexParams holds the classification policy knobs of the danger assessment.
// The formula constants above are fixed; these boundaries are domain policy
// and may be tuned per deployment.
type IndexParams struct {
	// NesterovResetPrecip is the 24h rainfall (mm) at or above which the
	// Nesterov index resets to zero.
	NesterovResetPrecip float64

	// Thresholds are the composite-index cutoffs between danger levels.
	Thresholds DangerThresholds
}

// DefaultIndexParams returns the department's standard policy: 3 mm reset,
// 20/50/75 classification cutoffs.
func DefaultIndexParams() IndexParams {
	return IndexParams{
		NesterovResetPrecip: 3.0,
		Thresholds:          DangerThresholds{Medium: 20, High: 50, Extreme: 75},
	}
}

// IndexResult is the outcome of a danger assessment.
type IndexResult struct {
	NesterovIndex   float64     `json:"nesterov_index"`
	FWIIndex        float64     `json:"fwi_index"`
	CompositeIndex  float64     `json:"composite_index"`
	DangerLevel     DangerLevel `json:"danger_level"`
	DangerLabel     string      `json:"danger_level_text"`
	DangerColor     string      `json:"danger_level_color"`
	Recommendations []string    `json:"recommendations"`
}

// IndexEngine computes fire-danger indices from weather observations.
// It is stateless apart from its immutable params and safe for concurrent use.
type IndexEngine struct {
	params IndexParams
}

// NewIndexEngine validates the policy parameters and returns an engine.
func NewIndexEngine(params IndexParams) (*IndexEngine, error) {
	if params.NesterovResetPrecip <= 0 {
		return nil, validationErr("nesterov_reset_precip", params.NesterovResetPrecip, "must be > 0 mm")
	}
	if err := params.Thresholds.verify(); err != nil {
		return nil, err
	}
	return &IndexEngine{params: params}, nil
}

// Assess computes the full index result for one observation. The observation
// is validated first; an out-of-range field aborts the assessment with a
// ValidationError.
func (e *IndexEngine) Assess(obs WeatherObservation) (IndexResult, error) {
	if err := obs.Validate(); err != nil {
		return IndexResult{}, err
	}

	nesterov := e.nesterovIndex(obs.Temperature, obs.Humidity, obs.Precipitation, 0)
	fwi := fwiIndex(obs.Temperature, obs.Humidity, obs.WindSpeed, obs.Precipitation, obs.VegetationMoisture)

	composite, err := compositeIndex(nesterov, fwi, obs.VegetationType, obs.WindSpeed, obs.SoilMoisture)
	if err != nil {
		return IndexResult{}, err
	}

	level := e.params.Thresholds.Classify(composite)
	meta, err := level.Meta()
	if err != nil {
		return IndexResult{}, err
	}

	return IndexResult{
		NesterovIndex:   nesterov,
		FWIIndex:        fwi,
		CompositeIndex:  composite,
		DangerLevel:     level,
		DangerLabel:     meta.Label,
		DangerColor:     meta.Color,
		Recommendations: Recommendations(level, obs.VegetationType),
	}, nil
}

// humidityDeficit computes the air humidity deficit in hPa: saturation vapour
// pressure (Magnus formula) minus actual vapour pressure. Zero at or below
// freezing, where the Nesterov increment is defined to vanish.
func humidityDeficit(temperature, humidity float64) float64 {
	if temperature <= 0 {
		return 0
	}
	es := 6.11 * math.Pow(10, 7.5*temperature/(237.3+temperature))
	deficit := (100 - humidity) * es / 100
	return math.Max(0, deficit)
}

// nesterovIndex advances the cumulative Nesterov index by one observation:
// previous + t·d on a dry day, reset to zero when rainfall reaches the reset
// threshold. The per-request assessment passes previous=0; callers that keep
// history may chain values day over day.
func (e *IndexEngine) nesterovIndex(temperature, humidity, precipitation, previous float64) float64 {
	if precipitation >= e.params.NesterovResetPrecip {
		return 0
	}
	increment := 0.0
	if temperature > 0 {
		increment = temperature * humidityDeficit(temperature, humidity)
	}
	return round2(previous + increment)
}

// fineFuelMoistureCode is the simplified FFMC of the Canadian FWI system,
// starting from the standard initial fuel moisture of 85 and applying the
// rainfall, drying and wetting phases. Result is bounded to 0-100.
func fineFuelMoistureCode(temperature, humidity, windSpeed, precipitation float64) float64 {
	mo := 85.0

	if precipitation > 0.5 {
		rf := precipitation - 0.5
		wet := 42.5 * rf * math.Exp(-100/(251-mo)) * (1 - math.Exp(-6.93/rf))
		if mo <= 150 {
			mo += wet
		} else {
			mo += wet + 0.0015*(mo-150)*(mo-150)*math.Sqrt(rf)
		}
		mo = math.Min(mo, 250)
	}

	// Equilibrium moisture content for drying (ed) and wetting (ew).
	ed := 0.942*math.Pow(humidity, 0.679) + 11*math.Exp((humidity-100)/10) +
		0.18*(21.1-temperature)*(1-math.Exp(-0.115*humidity))
	ew := 0.618*math.Pow(humidity, 0.753) + 10*math.Exp((humidity-100)/10) +
		0.18*(21.1-temperature)*(1-math.Exp(-0.115*humidity))

	windKmh := windSpeed * 3.6

	var m float64
	switch {
	case mo > ed: // drying
		ko := 0.424*(1-math.Pow(humidity/100, 1.7)) +
			0.0694*math.Sqrt(windKmh)*(1-math.Pow(humidity/100, 8))
		kd := ko * 0.581 * math.Exp(0.0365*temperature)
		m = ed + (mo-ed)*math.Pow(10, -kd)
	case mo < ew: // wetting
		kl := 0.424*(1-math.Pow((100-humidity)/100, 1.7)) +
			0.0694*math.Sqrt(windKmh)*(1-math.Pow((100-humidity)/100, 8))
		kw := kl * 0.581 * math.Exp(0.0365*temperature)
		m = ew - (ew-mo)*math.Pow(10, -kw)
	default:
		m = mo
	}

	ffmc := 59.5 * (250 - m) / (147.2 + m)
	return round2(math.Max(0, math.Min(100, ffmc)))
}

// initialSpreadIndex combines wind with FFMC-derived fuel moisture into the
// Canadian ISI.
func initialSpreadIndex(windSpeed, ffmc float64) float64 {
	m := 147.2 * (101 - ffmc) / (59.5 + ffmc)
	fw := math.Exp(0.05039 * windSpeed * 3.6)
	ff := 91.9 * math.Exp(-0.1386*m) * (1 + math.Pow(m, 5.31)/(4.93e7))
	return round2(0.208 * fw * ff)
}

// fwiIndex is the simplified fire weather index: ISI corrected for vegetation
// moisture, recent rainfall and temperature. The result is monotonic in wind
// speed (never decreasing) and in humidity and vegetation moisture (never
// increasing).
func fwiIndex(temperature, humidity, windSpeed, precipitation, vegetationMoisture float64) float64 {
	ffmc := fineFuelMoistureCode(temperature, humidity, windSpeed, precipitation)
	isi := initialSpreadIndex(windSpeed, ffmc)

	vegetationFactor := math.Max(0.3, 1-vegetationMoisture/200)
	precipitationFactor := math.Max(0, 1-precipitation/10)

	fwi := isi * vegetationFactor * precipitationFactor

	switch {
	case temperature > 25:
		fwi *= 1 + (temperature-25)*0.02
	case temperature < 10:
		fwi *= math.Max(0.3, temperature/10)
	}

	return round2(math.Max(0, fwi))
}

// compositeIndex blends the normalized Nesterov and FWI indices and applies
// the vegetation, wind and soil-moisture corrections.
func compositeIndex(nesterov, fwi float64, vegetation VegetationType, windSpeed, soilMoisture float64) (float64, error) {
	vegCoef, err := vegetation.Coefficient()
	if err != nil {
		return 0, err
	}

	normalizedNesterov := math.Min(100, nesterov/nesterovNormalization)
	normalizedFWI := math.Min(100, fwi)

	base := nesterovWeight*normalizedNesterov + fwiWeight*normalizedFWI
	windFactor := 1 + math.Max(0, windSpeed-windFactorThreshold)*windFactorSlope
	soilFactor := math.Max(soilFactorFloor, 1-soilMoisture/200)

	return round2(base * vegCoef * windFactor * soilFactor), nil
}

// round2 rounds to two decimals, matching the precision the department's
// calculator publishes.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
