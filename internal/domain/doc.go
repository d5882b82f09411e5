// Package domain implements the fire-behavior computation core: fire-danger
// indices with classification, an elliptical fire-spread forecast, and the
// geographic projection that places spread geometry on the map.
//
// # Indices
//
// The danger assessment combines two indices:
//
//	Nesterov:  cumulative dryness index Σ(t·d) over days without rain, where
//	           t is the air temperature (°C) and d the humidity deficit
//	           (hPa, Magnus saturation formula). Rainfall at or above the
//	           reset threshold (default 3 mm/24h) zeroes the index.
//	           Unbounded above.
//	FWI:       a simplified Canadian Fire Weather Index: FFMC (fine fuel
//	           moisture) feeds ISI (initial spread), then vegetation-moisture,
//	           precipitation and temperature corrections are applied.
//
// The composite index is a 50/50 blend of the two after normalization to a
// common 0–100 range, scaled by vegetation type (coniferous forests burn
// hottest), wind above 5 m/s and soil dryness. Classification cuts the
// composite at 20/50/75 into four danger levels; a value exactly at a cutoff
// belongs to the higher level.
//
// # Spread model
//
// The spread forecast uses an empirical elliptical growth model: a front
// (downwind) speed from flame emissivity, under-canopy wind, fuel moisture
// and fuel bulk density; affine flank and rear speeds; and closed-form
// perimeter, area and ellipse axes derived from the three travel distances.
// See [ComputeSpread] for the exact formulas. The numeric constants are the
// contract inherited from the department's calibrated calculator and must not
// be "improved" here.
//
// # Geographic projection
//
// [ProjectPoint] and [ProjectEllipse] use an equirectangular local
// approximation: 111 320 m per degree of latitude, scaled by cos(lat) for
// longitude. The error stays small for spread radii up to a few tens of
// kilometres, which covers every fire this system forecasts; this is not a
// general-purpose geodesic library. Latitudes near the poles are rejected
// rather than silently producing garbage longitudes.
//
// All computations are pure functions over immutable inputs: no I/O, no
// shared state, safe to call concurrently. Invalid inputs are rejected
// synchronously with a [ValidationError] naming the offending field; the
// core never clamps silently.
package domain
