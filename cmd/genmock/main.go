// Command genmock generates mock request fixtures and their computed results
// for the test suites and the dashboard. It uses the actual domain package so
// the expected outputs match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -requests-out data/mock/compute_requests.json \
//	  -results-out data/mock/compute_results.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pavlodar-des/fire-danger-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// site is a monitored location in the Pavlodar region.
type site struct {
	name     string
	lat, lon float64
}

var sites = []site{
	{name: "Bayanaul", lat: 50.7933, lon: 75.7003},
	{name: "Shcherbakty", lat: 52.1840, lon: 78.1508},
	{name: "Pavlodar", lat: 52.2870, lon: 76.9674},
	{name: "Ekibastuz", lat: 51.7298, lon: 75.3266},
}

func run() error {
	requestsOut := flag.String("requests-out", "", "output path for raw request fixture")
	resultsOut := flag.String("results-out", "", "output path for computed result fixture")
	flag.Parse()

	if *requestsOut == "" || *resultsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -requests-out, -results-out")
	}

	// Set a fixed clock for reproducible processed_at timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.July, 14, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	engine, err := domain.NewIndexEngine(domain.DefaultIndexParams())
	if err != nil {
		return fmt.Errorf("initialize index engine: %w", err)
	}

	requests := buildRequests()

	results := make([]any, 0, len(requests))
	levelCounts := map[domain.DangerLevel]int{}
	var forecastCount int

	for i, req := range requests {
		switch req.Kind {
		case domain.KindObservation:
			assessment, err := domain.AssessObservation(engine, *req.Observation)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			levelCounts[assessment.DangerLevel]++
			results = append(results, assessment)
		case domain.KindSpread:
			forecast, err := domain.ForecastSpread(*req.Spread, domain.DefaultProjectionOptions())
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			forecastCount++
			results = append(results, forecast)
		}
	}

	if err := writeJSON(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote request fixture: %s (%d requests)", *requestsOut, len(requests))

	if err := writeJSON(*resultsOut, results); err != nil {
		return fmt.Errorf("writing result fixture: %w", err)
	}
	log.Printf("wrote result fixture: %s", *resultsOut)

	printStats(levelCounts, forecastCount)
	return nil
}

// buildRequests produces one observation per site across a dry-to-wet sweep,
// plus a spread request per site for a summer afternoon wind.
func buildRequests() []domain.ComputeRequest {
	// Weather sweeps, driest first. The spread of humidity/temperature is
	// chosen so the fixtures cover all four danger levels.
	conditions := []domain.WeatherObservation{
		{WindSpeed: 12, Temperature: 34, Humidity: 18, SoilMoisture: 12, VegetationMoisture: 30, Precipitation: 0, VegetationType: domain.Coniferous},
		{WindSpeed: 7, Temperature: 29, Humidity: 35, SoilMoisture: 30, VegetationMoisture: 60, Precipitation: 0, VegetationType: domain.Mixed},
		{WindSpeed: 4, Temperature: 24, Humidity: 55, SoilMoisture: 45, VegetationMoisture: 90, Precipitation: 0.5, VegetationType: domain.Deciduous},
		{WindSpeed: 2, Temperature: 18, Humidity: 75, SoilMoisture: 65, VegetationMoisture: 140, Precipitation: 4, VegetationType: domain.Mixed},
	}

	requests := make([]domain.ComputeRequest, 0, len(sites)*(len(conditions)+1))
	for si, s := range sites {
		for ci := range conditions {
			obs := conditions[ci]
			obs.WindDirection = domain.Southwest
			obs.LocationName = s.name
			lat, lon := s.lat, s.lon
			obs.Lat, obs.Lon = &lat, &lon
			requests = append(requests, domain.ComputeRequest{
				Kind:        domain.KindObservation,
				Observation: &obs,
			})
		}

		lat, lon := s.lat, s.lon
		requests = append(requests, domain.ComputeRequest{
			Kind: domain.KindSpread,
			Spread: &domain.SpreadInput{
				Emissivity:    0.7,
				WindSpeed:     float64(3 + si),
				WindDirection: domain.East,
				FuelDensity:   40,
				FuelMoisture:  25,
				ElapsedHours:  2,
				LocationName:  s.name,
				Lat:           &lat,
				Lon:           &lon,
			},
		})
	}
	return requests
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(levelCounts map[domain.DangerLevel]int, forecastCount int) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("By danger level: low=%d, medium=%d, high=%d, extreme=%d\n",
		levelCounts[domain.DangerLow], levelCounts[domain.DangerMedium],
		levelCounts[domain.DangerHigh], levelCounts[domain.DangerExtreme])
	fmt.Printf("Spread forecasts: %d\n", forecastCount)
}
