package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessObservation(t *testing.T) {
	fixedTime := time.Date(2026, time.July, 14, 13, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	engine := newTestIndexEngine(t)

	t.Run("stamps id, kind and processed_at", func(t *testing.T) {
		a, err := AssessObservation(engine, validObservation())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(a.ID, "observation-"))
		assert.Equal(t, KindObservation, a.Kind)
		assert.Equal(t, fixedTime, a.ProcessedAt)
		assert.Equal(t, DangerLow, a.DangerLevel)
	})

	t.Run("deterministic id", func(t *testing.T) {
		first, err := AssessObservation(engine, validObservation())
		require.NoError(t, err)
		second, err := AssessObservation(engine, validObservation())
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("different observations produce different ids", func(t *testing.T) {
		hot := validObservation()
		hot.Temperature = 40

		a, err := AssessObservation(engine, validObservation())
		require.NoError(t, err)
		b, err := AssessObservation(engine, hot)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		bad := validObservation()
		bad.WindSpeed = -3
		_, err := AssessObservation(engine, bad)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestForecastSpread(t *testing.T) {
	fixedTime := time.Date(2026, time.July, 14, 13, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	opts := DefaultProjectionOptions()

	t.Run("without coordinates carries no geometry", func(t *testing.T) {
		f, err := ForecastSpread(validSpreadInput(), opts)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(f.ID, "spread-"))
		assert.Equal(t, KindSpread, f.Kind)
		assert.Equal(t, 90.0, f.SpreadBearing) // East
		assert.Equal(t, fixedTime, f.ProcessedAt)
		assert.Nil(t, f.Ellipse)
		assert.Nil(t, f.ThreatZone)
		assert.Nil(t, f.FrontPoint)
	})

	t.Run("with coordinates attaches ellipse, zone and markers", func(t *testing.T) {
		in := validSpreadInput()
		lat, lon := bayanaulLat, bayanaulLon
		in.Lat, in.Lon = &lat, &lon

		f, err := ForecastSpread(in, opts)
		require.NoError(t, err)

		require.Len(t, f.Ellipse, opts.EllipsePoints+1)
		require.Len(t, f.ThreatZone, opts.EllipsePoints+1)
		assert.Equal(t, f.Ellipse[0], f.Ellipse[len(f.Ellipse)-1])

		require.NotNil(t, f.FrontPoint)
		require.NotNil(t, f.FlankPoint)
		require.NotNil(t, f.RearPoint)

		// The front marker sits d_front along the spread bearing.
		front, err := ProjectPoint(lat, lon, f.DFront, f.SpreadBearing)
		require.NoError(t, err)
		assert.Equal(t, front, *f.FrontPoint)

		// The threat zone radius at the front tip is buffered by the factor.
		zoneFront := haversineMeters(lat, lon, f.ThreatZone[0].Lat, f.ThreatZone[0].Lon)
		ellipseFront := haversineMeters(lat, lon, f.Ellipse[0].Lat, f.Ellipse[0].Lon)
		assert.InEpsilon(t, opts.ThreatBufferFactor, zoneFront/ellipseFront, 0.01)
	})

	t.Run("rejects a non-positive threat buffer", func(t *testing.T) {
		in := validSpreadInput()
		lat, lon := bayanaulLat, bayanaulLon
		in.Lat, in.Lon = &lat, &lon

		_, err := ForecastSpread(in, ProjectionOptions{EllipsePoints: 16, ThreatBufferFactor: 0})
		require.Error(t, err)
	})

	t.Run("rejects invalid input before projecting", func(t *testing.T) {
		in := validSpreadInput()
		in.FuelDensity = -1
		_, err := ForecastSpread(in, opts)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "rho", vErr.Field)
	})
}

func TestSerializeAssessment(t *testing.T) {
	fixedTime := time.Date(2026, time.July, 14, 13, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	engine := newTestIndexEngine(t)
	a, err := AssessObservation(engine, validObservation())
	require.NoError(t, err)

	out, err := SerializeAssessment(a)
	require.NoError(t, err)

	assert.Equal(t, []byte(a.ID), out.Key)
	assert.Equal(t, KindObservation, out.Headers["kind"])
	assert.Equal(t, "low", out.Headers["danger_level"])
	assert.Equal(t, fixedTime.Format(time.RFC3339), out.Headers["processed_at"])

	var roundtrip DangerAssessment
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	assert.Equal(t, a.ID, roundtrip.ID)
	assert.Equal(t, a.CompositeIndex, roundtrip.CompositeIndex)
	assert.Equal(t, a.Recommendations, roundtrip.Recommendations)
	assert.Equal(t, a.Observation.Temperature, roundtrip.Observation.Temperature)
}

func TestSerializeForecast(t *testing.T) {
	f, err := ForecastSpread(validSpreadInput(), DefaultProjectionOptions())
	require.NoError(t, err)

	out, err := SerializeForecast(f)
	require.NoError(t, err)

	assert.Equal(t, []byte(f.ID), out.Key)
	assert.Equal(t, KindSpread, out.Headers["kind"])
	assert.Contains(t, out.Headers, "processed_at")

	var roundtrip SpreadForecast
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	assert.Equal(t, f.VFront, roundtrip.VFront)
	assert.Equal(t, f.AreaHa, roundtrip.AreaHa)
	assert.Equal(t, f.SpreadBearing, roundtrip.SpreadBearing)
}
