// Package events publishes a change feed of finished part synchronizations.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

// PartsSynced is emitted after every synchronization run.
type PartsSynced struct {
	ProductID   int              `json:"product_id"`
	ProductName string           `json:"product_name"`
	Status      models.SyncState `json:"status"`
	Deleted     int              `json:"deleted"`
	Updated     int              `json:"updated"`
	Created     int              `json:"created"`
	Failed      int              `json:"failed"`
	PartCount   int              `json:"part_count"`
	At          time.Time        `json:"at"`
}

type Publisher interface {
	PublishPartsSynced(ctx context.Context, e PartsSynced) error
	Close() error
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishPartsSynced(context.Context, PartsSynced) error { return nil }
func (Noop) Close() error                                         { return nil }

// messageWriter abstracts kafka.Writer for tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by product id so a product's events stay ordered.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

func newKafkaPublisherWith(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (k *KafkaPublisher) PublishPartsSynced(ctx context.Context, e PartsSynced) error {
	b, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(e.ProductID)),
		Value: b,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("parts.synced")},
		},
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
