package domain

// CompassBearing is one of the eight compass points used for wind direction.
type CompassBearing string

const (
	North     CompassBearing = "N"
	Northeast CompassBearing = "NE"
	East      CompassBearing = "E"
	Southeast CompassBearing = "SE"
	South     CompassBearing = "S"
	Southwest CompassBearing = "SW"
	West      CompassBearing = "W"
	Northwest CompassBearing = "NW"
)

// compassBearings is the ordered set of valid values.
var compassBearings = []CompassBearing{
	North, Northeast, East, Southeast, South, Southwest, West, Northwest,
}

// bearingDegrees maps each compass point to its bearing in degrees, clockwise
// from geographic north. This is the single owned copy of the table; consumers
// must not duplicate it.
var bearingDegrees = map[CompassBearing]float64{
	North:     0,
	Northeast: 45,
	East:      90,
	Southeast: 135,
	South:     180,
	Southwest: 225,
	West:      270,
	Northwest: 315,
}

// Valid reports whether c is one of the eight compass points.
func (c CompassBearing) Valid() bool {
	_, ok := bearingDegrees[c]
	return ok
}

// Degrees returns the bearing in degrees clockwise from north. A value absent
// from the table is a ConfigurationError, not a silent 0°.
func (c CompassBearing) Degrees() (float64, error) {
	deg, ok := bearingDegrees[c]
	if !ok {
		return 0, &ConfigurationError{Table: "compass bearing", Missing: string(c)}
	}
	return deg, nil
}

// VerifyCompassTable checks that every compass point has a bearing entry.
// Called once at startup so a table edit that drops an entry fails the
// process, not a request.
func VerifyCompassTable() error {
	for _, c := range compassBearings {
		if _, ok := bearingDegrees[c]; !ok {
			return &ConfigurationError{Table: "compass bearing", Missing: string(c)}
		}
	}
	return nil
}
