package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"coursepanel/internal/domain/models/catalog"
	catalogSvc "coursepanel/internal/domain/services/catalog"

	kafkaGo "github.com/segmentio/kafka-go"
)

// KafkaPublisher writes catalog change events to a kafka topic, keyed by course ID
type KafkaPublisher struct {
	writer *kafkaGo.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	// Writes are synchronous per request; BatchTimeout keeps them from waiting on a fuller batch
	return &KafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkaGo.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

// Publish sends one event. Events of the same course land in the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event catalog.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(event.CourseID),
		Value: payload,
	})
}

// Close flushes pending writes
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher logs events instead of sending them. Used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that only logs at debug level
func NewLogPublisher(logger *slog.Logger) catalogSvc.ChangePublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event catalog.ChangeEvent) error {
	p.logger.Debug("catalog change",
		"type", event.Type,
		"course_id", event.CourseID,
		"ids", event.IDs,
	)
	return nil
}
