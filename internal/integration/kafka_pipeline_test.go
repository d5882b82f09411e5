//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavlodar-des/fire-danger-etl/internal/adapter/kafka"
	"github.com/pavlodar-des/fire-danger-etl/internal/config"
	"github.com/pavlodar-des/fire-danger-etl/internal/domain"
	"github.com/pavlodar-des/fire-danger-etl/internal/observability"
	"github.com/pavlodar-des/fire-danger-etl/internal/pipeline"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

// readSink reads a single message from the sink consumer.
func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return sinkMessage{
		Key:     string(msg.Key),
		Value:   msg.Value,
		Headers: headers,
	}
}

func testConfig(broker, groupPrefix string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", groupPrefix, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func testTransformer(t *testing.T, metrics *observability.Metrics) *pipeline.FireTransformer {
	t.Helper()
	engine, err := domain.NewIndexEngine(domain.DefaultIndexParams())
	require.NoError(t, err)
	return pipeline.NewTransformer(engine, nil, domain.DefaultProjectionOptions(), discardLogger(), metrics)
}

func observationPayload(t *testing.T, site string) []byte {
	t.Helper()
	lat, lon := 50.7933, 75.7003
	payload, err := json.Marshal(domain.ComputeRequest{
		Kind: domain.KindObservation,
		Observation: &domain.WeatherObservation{
			WindSpeed:          8,
			WindDirection:      domain.Southwest,
			Temperature:        31,
			Humidity:           22,
			SoilMoisture:       18,
			VegetationMoisture: 35,
			VegetationType:     domain.Coniferous,
			LocationName:       site,
			Lat:                &lat,
			Lon:                &lon,
		},
	})
	require.NoError(t, err)
	return payload
}

func spreadPayload(t *testing.T) []byte {
	t.Helper()
	lat, lon := 52.1840, 78.1508
	payload, err := json.Marshal(domain.ComputeRequest{
		Kind: domain.KindSpread,
		Spread: &domain.SpreadInput{
			Emissivity:    0.7,
			WindSpeed:     6,
			WindDirection: domain.East,
			FuelDensity:   40,
			FuelMoisture:  25,
			ElapsedHours:  2,
			LocationName:  "Shcherbakty",
			Lat:           &lat,
			Lon:           &lon,
		},
	})
	require.NoError(t, err)
	return payload
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (Extractor) and
// kafka.Writer (Loader) correctly round-trip a message through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-reader")

	payload := observationPayload(t, "Bayanaul")

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("test-key"),
		Value: payload,
	}))

	// Extract via kafka.Reader.
	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("test-key"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	// Commit the offset.
	require.NoError(t, raw.Commit(ctx))

	// Transform the raw event into an assessment.
	metrics := observability.NewMetricsForTesting()
	out, err := testTransformer(t, metrics).Transform(ctx, raw)
	require.NoError(t, err)

	// Load via kafka.Writer.
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	// Read from the sink topic and verify headers + value.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	sm := readSink(ctx, t, consumer)
	assert.Equal(t, "observation", sm.Headers["kind"])
	assert.Contains(t, sm.Headers, "danger_level")
	assert.Contains(t, sm.Headers, "processed_at")
	_, err = time.Parse(time.RFC3339, sm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	var assessment domain.DangerAssessment
	require.NoError(t, json.Unmarshal(sm.Value, &assessment))
	assert.Equal(t, assessment.ID, sm.Key)
	assert.Equal(t, "Bayanaul", assessment.Observation.LocationName)
	assert.Positive(t, assessment.CompositeIndex)
	assert.NotEmpty(t, assessment.Recommendations)
}

// TestPipelineEndToEnd wires the full pipeline (Reader → Transformer → Writer)
// with real Kafka and verifies both request kinds come out computed.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-pipeline")

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("obs-1"), Value: observationPayload(t, "Bayanaul")},
		kafkago.Message{Key: []byte("spread-1"), Value: spreadPayload(t)},
	))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, testTransformer(t, metrics), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byKind := map[string]sinkMessage{}
	for len(byKind) < 2 {
		sm := readSink(ctx, t, consumer)
		byKind[sm.Headers["kind"]] = sm
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	// Observation result: hot, dry coniferous input should classify high or worse.
	obsMsg, ok := byKind["observation"]
	require.True(t, ok, "expected an observation result on the sink topic")
	var assessment domain.DangerAssessment
	require.NoError(t, json.Unmarshal(obsMsg.Value, &assessment))
	assert.Contains(t, []domain.DangerLevel{domain.DangerHigh, domain.DangerExtreme}, assessment.DangerLevel)
	assert.Equal(t, string(assessment.DangerLevel), obsMsg.Headers["danger_level"])
	assert.NotEmpty(t, assessment.Recommendations)

	// Spread result: geometry must be attached since the input has coordinates.
	spreadMsg, ok := byKind["spread"]
	require.True(t, ok, "expected a spread result on the sink topic")
	var forecast domain.SpreadForecast
	require.NoError(t, json.Unmarshal(spreadMsg.Value, &forecast))
	assert.Positive(t, forecast.VFront)
	assert.Positive(t, forecast.AreaHa)
	assert.Len(t, forecast.Ellipse, domain.DefaultEllipsePoints+1)
	assert.Len(t, forecast.ThreatZone, domain.DefaultEllipsePoints+1)
	require.NotNil(t, forecast.FrontPoint)
	assert.Greater(t, forecast.FrontPoint.Lon, 78.1508, "east wind pushes the front east")
}

// TestPipelineTransformError verifies that an invalid message (poison pill) is
// skipped and the pipeline continues processing valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-poison")

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("good"), Value: observationPayload(t, "Bayanaul")},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, testTransformer(t, metrics), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid message should appear on the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	sm := readSink(ctx, t, consumer)
	assert.Equal(t, "observation", sm.Headers["kind"])

	// Verify no second message arrives (the poison pill was skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
