package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Request kinds accepted on the source topic.
const (
	KindObservation = "observation"
	KindSpread      = "spread"
)

// RawEvent is an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ComputeRequest is the envelope published by upstream collectors. Kind
// selects the engine; exactly the matching payload field must be present.
type ComputeRequest struct {
	Kind        string              `json:"kind"`
	Observation *WeatherObservation `json:"observation,omitempty"`
	Spread      *SpreadInput        `json:"spread,omitempty"`
}

// ParseComputeRequest deserializes a raw event's value into a ComputeRequest
// and checks the envelope shape. Payload field ranges are validated later by
// the engines, so a malformed envelope and an out-of-range field produce
// distinguishable errors.
func ParseComputeRequest(raw RawEvent) (ComputeRequest, error) {
	var req ComputeRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ComputeRequest{}, fmt.Errorf("parse compute request: %w", err)
	}

	switch req.Kind {
	case KindObservation:
		if req.Observation == nil {
			return ComputeRequest{}, validationErr("observation", nil, "required when kind is \"observation\"")
		}
	case KindSpread:
		if req.Spread == nil {
			return ComputeRequest{}, validationErr("spread", nil, "required when kind is \"spread\"")
		}
	default:
		return ComputeRequest{}, validationErr("kind", req.Kind, "must be \"observation\" or \"spread\"")
	}
	return req, nil
}
