package domain

// VegetationType classifies the dominant forest cover at an observation site.
type VegetationType string

const (
	Coniferous VegetationType = "coniferous"
	Deciduous  VegetationType = "deciduous"
	Mixed      VegetationType = "mixed"
)

// vegetationCoefficients scales fire danger by forest type. Coniferous stands
// carry the most fuel and burn hottest; deciduous the least.
var vegetationCoefficients = map[VegetationType]float64{
	Coniferous: 1.5,
	Mixed:      1.25,
	Deciduous:  1.0,
}

// Valid reports whether v is a known vegetation type.
func (v VegetationType) Valid() bool {
	_, ok := vegetationCoefficients[v]
	return ok
}

// Coefficient returns the fire-danger multiplier for the vegetation type.
// Unknown types are a ConfigurationError, not a silent 1.0.
func (v VegetationType) Coefficient() (float64, error) {
	c, ok := vegetationCoefficients[v]
	if !ok {
		return 0, &ConfigurationError{Table: "vegetation coefficient", Missing: string(v)}
	}
	return c, nil
}

// VerifyVegetationTable checks the coefficient table covers all types.
func VerifyVegetationTable() error {
	for _, v := range []VegetationType{Coniferous, Deciduous, Mixed} {
		if _, ok := vegetationCoefficients[v]; !ok {
			return &ConfigurationError{Table: "vegetation coefficient", Missing: string(v)}
		}
	}
	return nil
}

// WeatherObservation is a single weather/fuel reading from a monitored site.
// Constructed per request and discarded after use; identity and persistence
// belong to downstream consumers.
type WeatherObservation struct {
	WindSpeed          float64        `json:"wind_speed"`          // m/s, measured at 2 m
	WindDirection      CompassBearing `json:"wind_direction"`      // direction the wind blows toward
	Temperature        float64        `json:"temperature"`         // °C
	Humidity           float64        `json:"humidity"`            // relative, %
	SoilMoisture       float64        `json:"soil_moisture"`       // %
	VegetationMoisture float64        `json:"vegetation_moisture"` // %
	Precipitation      float64        `json:"precipitation"`       // mm over the last 24h
	VegetationType     VegetationType `json:"vegetation_type"`

	// Optional site identification.
	LocationName string   `json:"location_name,omitempty"`
	Lat          *float64 `json:"latitude,omitempty"`
	Lon          *float64 `json:"longitude,omitempty"`
}

// Validate checks every field against its documented range. The first
// violation is returned as a ValidationError naming the field.
func (o WeatherObservation) Validate() error {
	switch {
	case o.WindSpeed < 0 || o.WindSpeed > 50:
		return validationErr("wind_speed", o.WindSpeed, "must be within 0..50 m/s")
	case !o.WindDirection.Valid():
		return validationErr("wind_direction", o.WindDirection, "must be one of N,NE,E,SE,S,SW,W,NW")
	case o.Temperature < -50 || o.Temperature > 60:
		return validationErr("temperature", o.Temperature, "must be within -50..60 °C")
	case o.Humidity < 0 || o.Humidity > 100:
		return validationErr("humidity", o.Humidity, "must be within 0..100 %")
	case o.SoilMoisture < 0 || o.SoilMoisture > 100:
		return validationErr("soil_moisture", o.SoilMoisture, "must be within 0..100 %")
	case o.VegetationMoisture < 0 || o.VegetationMoisture > 200:
		return validationErr("vegetation_moisture", o.VegetationMoisture, "must be within 0..200 %")
	case o.Precipitation < 0:
		return validationErr("precipitation", o.Precipitation, "must be >= 0 mm")
	case !o.VegetationType.Valid():
		return validationErr("vegetation_type", o.VegetationType, "must be one of coniferous,deciduous,mixed")
	}

	if o.Lat != nil && (*o.Lat < -90 || *o.Lat > 90) {
		return validationErr("latitude", *o.Lat, "must be within -90..90")
	}
	if o.Lon != nil && (*o.Lon < -180 || *o.Lon > 180) {
		return validationErr("longitude", *o.Lon, "must be within -180..180")
	}
	return nil
}

// HasCoordinates reports whether the observation carries a usable position.
func (o WeatherObservation) HasCoordinates() bool {
	return o.Lat != nil && o.Lon != nil
}
