package domain

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	forward    GeocodingResult
	forwardErr error
	reverse    GeocodingResult
	reverseErr error

	forwardCalls int
	reverseCalls int
}

func (s *stubGeocoder) ForwardGeocode(_ context.Context, _ string) (GeocodingResult, error) {
	s.forwardCalls++
	return s.forward, s.forwardErr
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	s.reverseCalls++
	return s.reverse, s.reverseErr
}

func testAssessment(t *testing.T) DangerAssessment {
	t.Helper()
	engine := newTestIndexEngine(t)
	a, err := AssessObservation(engine, validObservation())
	require.NoError(t, err)
	return a
}

func TestEnrichAssessmentWithGeocoding(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("nil geocoder leaves the assessment untouched", func(t *testing.T) {
		a := testAssessment(t)
		enriched := EnrichAssessmentWithGeocoding(ctx, a, nil, logger)
		assert.Equal(t, a, enriched)
	})

	t.Run("forward geocodes a named site without coordinates", func(t *testing.T) {
		geocoder := &stubGeocoder{forward: GeocodingResult{
			Lat: bayanaulLat, Lon: bayanaulLon,
			FormattedAddress: "Bayanaul National Park, Pavlodar Region",
			PlaceName:        "Bayanaul",
			Confidence:       0.92,
		}}

		a := testAssessment(t)
		a.Observation.LocationName = "Bayanaul"

		enriched := EnrichAssessmentWithGeocoding(ctx, a, geocoder, logger)

		assert.Equal(t, 1, geocoder.forwardCalls)
		assert.Equal(t, "forward", enriched.GeoSource)
		assert.Equal(t, "Bayanaul", enriched.PlaceName)
		require.NotNil(t, enriched.Observation.Lat)
		assert.Equal(t, bayanaulLat, *enriched.Observation.Lat)
	})

	t.Run("reverse geocodes a site with coordinates", func(t *testing.T) {
		geocoder := &stubGeocoder{reverse: GeocodingResult{
			FormattedAddress: "Shcherbakty District, Pavlodar Region",
			PlaceName:        "Shcherbakty",
			Confidence:       0.8,
		}}

		a := testAssessment(t)
		lat, lon := 52.38, 78.01
		a.Observation.Lat, a.Observation.Lon = &lat, &lon

		enriched := EnrichAssessmentWithGeocoding(ctx, a, geocoder, logger)

		assert.Equal(t, 1, geocoder.reverseCalls)
		assert.Equal(t, "reverse", enriched.GeoSource)
		assert.Equal(t, "Shcherbakty", enriched.PlaceName)
	})

	t.Run("provider failure degrades gracefully", func(t *testing.T) {
		geocoder := &stubGeocoder{forwardErr: errors.New("rate limited")}

		a := testAssessment(t)
		a.Observation.LocationName = "Bayanaul"

		enriched := EnrichAssessmentWithGeocoding(ctx, a, geocoder, logger)
		assert.Equal(t, "failed", enriched.GeoSource)
		assert.Nil(t, enriched.Observation.Lat)
		assert.Equal(t, a.CompositeIndex, enriched.CompositeIndex)
	})

	t.Run("empty provider result keeps original data", func(t *testing.T) {
		geocoder := &stubGeocoder{}

		a := testAssessment(t)
		a.Observation.LocationName = "Bayanaul"

		enriched := EnrichAssessmentWithGeocoding(ctx, a, geocoder, logger)
		assert.Equal(t, "original", enriched.GeoSource)
	})

	t.Run("no name and no coordinates skips the provider", func(t *testing.T) {
		geocoder := &stubGeocoder{}

		enriched := EnrichAssessmentWithGeocoding(ctx, testAssessment(t), geocoder, logger)
		assert.Equal(t, "original", enriched.GeoSource)
		assert.Zero(t, geocoder.forwardCalls)
		assert.Zero(t, geocoder.reverseCalls)
	})
}

func TestEnrichForecastWithGeocoding(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	newForecast := func(t *testing.T, withCoords bool) SpreadForecast {
		t.Helper()
		in := validSpreadInput()
		if withCoords {
			lat, lon := bayanaulLat, bayanaulLon
			in.Lat, in.Lon = &lat, &lon
		}
		f, err := ForecastSpread(in, DefaultProjectionOptions())
		require.NoError(t, err)
		return f
	}

	t.Run("names the ignition point", func(t *testing.T) {
		geocoder := &stubGeocoder{reverse: GeocodingResult{
			FormattedAddress: "Bayanaul National Park, Pavlodar Region",
			PlaceName:        "Bayanaul",
			Confidence:       0.9,
		}}

		f := EnrichForecastWithGeocoding(ctx, newForecast(t, true), geocoder, logger)
		assert.Equal(t, "reverse", f.GeoSource)
		assert.Equal(t, "Bayanaul", f.PlaceName)
	})

	t.Run("skips forecasts without coordinates", func(t *testing.T) {
		geocoder := &stubGeocoder{}

		f := EnrichForecastWithGeocoding(ctx, newForecast(t, false), geocoder, logger)
		assert.Empty(t, f.GeoSource)
		assert.Zero(t, geocoder.reverseCalls)
	})

	t.Run("provider failure marks the source", func(t *testing.T) {
		geocoder := &stubGeocoder{reverseErr: errors.New("timeout")}

		f := EnrichForecastWithGeocoding(ctx, newForecast(t, true), geocoder, logger)
		assert.Equal(t, "failed", f.GeoSource)
	})
}
