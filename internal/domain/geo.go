package domain

import "math"

// Geo is a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Equirectangular approximation constants. Error grows with radius; under
// ~20 km it stays below 1% at mid latitudes, which covers every spread
// forecast this system produces.
const (
	metersPerDegreeLat = 111_320.0

	// maxProjectableLat keeps cos(lat) comfortably away from zero in the
	// longitude conversion. Kazakhstan tops out near 56°N; anything beyond
	// this bound is bad data, not a use case.
	maxProjectableLat = 89.9

	// DefaultEllipsePoints is the polygon resolution used when no explicit
	// point count is configured. All call sites share this default.
	DefaultEllipsePoints = 64
)

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

// ProjectPoint offsets a coordinate by distance metres along a bearing
// (degrees clockwise from geographic north) using the equirectangular local
// approximation. Distance 0 returns the input exactly. Latitudes within 0.1°
// of a pole, and offsets that would push the longitude outside [-180, 180],
// are rejected with a DegenerateGeometryError rather than wrapped or clamped.
func ProjectPoint(lat, lon, distanceM, bearingDeg float64) (Geo, error) {
	if math.Abs(lat) > maxProjectableLat {
		return Geo{}, &DegenerateGeometryError{Lat: lat, Lon: lon, Reason: "latitude too close to a pole for equirectangular projection"}
	}
	if distanceM == 0 {
		return Geo{Lat: lat, Lon: lon}, nil
	}

	bearing := degToRad(bearingDeg)
	north := distanceM * math.Cos(bearing)
	east := distanceM * math.Sin(bearing)

	outLat := lat + north/metersPerDegreeLat
	outLon := lon + east/(metersPerDegreeLat*math.Cos(degToRad(lat)))

	if math.Abs(outLat) > maxProjectableLat {
		return Geo{}, &DegenerateGeometryError{Lat: outLat, Lon: outLon, Reason: "projected latitude too close to a pole"}
	}
	if outLon < -180 || outLon > 180 {
		return Geo{}, &DegenerateGeometryError{Lat: outLat, Lon: outLon, Reason: "projected longitude outside [-180, 180]"}
	}
	return Geo{Lat: outLat, Lon: outLon}, nil
}

// ProjectEllipse projects a metric spread ellipse rooted at an ignition point
// onto a closed polygon of coordinates. The ellipse center is first offset
// from the ignition point by centerOffset along the bearing; points are then
// sampled at nPoints uniform angles, rotated so the semi-major axis lies
// along the bearing, and converted to coordinate deltas at the *center's*
// latitude. The ring is explicitly closed: the first point is repeated, so
// the result holds nPoints+1 coordinates. Zero semi-axes produce a valid
// degenerate ring collapsed at the center.
func ProjectEllipse(lat, lon, semiMajor, semiMinor, centerOffset, bearingDeg float64, nPoints int) ([]Geo, error) {
	if nPoints < 3 {
		return nil, validationErr("n_points", nPoints, "must be >= 3")
	}
	if semiMajor < 0 {
		return nil, validationErr("semi_major", semiMajor, "must be >= 0 m")
	}
	if semiMinor < 0 {
		return nil, validationErr("semi_minor", semiMinor, "must be >= 0 m")
	}

	center, err := ProjectPoint(lat, lon, centerOffset, bearingDeg)
	if err != nil {
		return nil, err
	}

	bearing := degToRad(bearingDeg)
	sinB, cosB := math.Sin(bearing), math.Cos(bearing)
	metersPerDegreeLon := metersPerDegreeLat * math.Cos(degToRad(center.Lat))

	ring := make([]Geo, 0, nPoints+1)
	for i := 0; i < nPoints; i++ {
		theta := 2 * math.Pi * float64(i) / float64(nPoints)

		// Local frame: u along the bearing (major axis), w perpendicular.
		u := semiMajor * math.Cos(theta)
		w := semiMinor * math.Sin(theta)

		north := u*cosB - w*sinB
		east := u*sinB + w*cosB

		p := Geo{
			Lat: center.Lat + north/metersPerDegreeLat,
			Lon: center.Lon + east/metersPerDegreeLon,
		}
		if p.Lon < -180 || p.Lon > 180 {
			return nil, &DegenerateGeometryError{Lat: p.Lat, Lon: p.Lon, Reason: "projected longitude outside [-180, 180]"}
		}
		ring = append(ring, p)
	}
	ring = append(ring, ring[0])

	return ring, nil
}
