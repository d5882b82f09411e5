package kafka

import (
	"context"
	"errors"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/pavlodar-des/fire-danger-etl/internal/config"
	"github.com/pavlodar-des/fire-danger-etl/internal/domain"
)

// Reader consumes compute requests from the source topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader       *kafkago.Reader
	logger       *slog.Logger
	flushTimeout func(parent context.Context) (context.Context, context.CancelFunc)
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.KafkaSourceTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	flush := cfg.BatchFlushInterval
	return &Reader{
		reader: r,
		logger: logger,
		flushTimeout: func(parent context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(parent, flush)
		},
	}
}

// ExtractBatch blocks for the first message, then keeps fetching until the
// batch is full or the flush interval elapses with nothing new. A partially
// filled batch is returned rather than held back.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	batch := make([]domain.RawEvent, 0, batchSize)
	batch = append(batch, r.mapMessage(first))

	for len(batch) < batchSize {
		fetchCtx, cancel := r.flushTimeout(ctx)
		msg, err := r.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if ctx.Err() != nil {
				// Parent cancelled mid-batch; hand back what we have so the
				// pipeline can finish the cycle.
				break
			}
			return batch, err
		}
		batch = append(batch, r.mapMessage(msg))
	}

	return batch, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessage converts a Kafka message into a domain raw event with a commit
// closure bound to this reader's consumer group.
func (r *Reader) mapMessage(msg kafkago.Message) domain.RawEvent {
	raw := mapMessageToRawEvent(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

func mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
