package events

import (
	"carrier-match-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const DefaultSearchTopic = "carrier-search.completed"

// Writer is the subset of kafka.Writer the publisher needs, so tests can
// inject a fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publishes completed carrier searches to Kafka for outreach consumers.
// Messages are keyed by venture so one venture's searches stay ordered.
type KafkaSearchPublisher struct {
	writer Writer
}

func NewKafkaSearchPublisher(brokers []string, topic string) (*KafkaSearchPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka search publisher: at least one broker is required")
	}
	if topic == "" {
		topic = DefaultSearchTopic
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaSearchPublisher{writer: w}, nil
}

func NewKafkaSearchPublisherWithWriter(w Writer) *KafkaSearchPublisher {
	return &KafkaSearchPublisher{writer: w}
}

func (p *KafkaSearchPublisher) PublishSearchCompleted(ctx context.Context, ev ports.SearchCompletedEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("publish search completed: marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(eventKey(ev)),
		Value: value,
		Time:  ev.CompletedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish search completed search_id=%s: %w", ev.SearchID, err)
	}
	return nil
}

func (p *KafkaSearchPublisher) Close() error {
	return p.writer.Close()
}

func eventKey(ev ports.SearchCompletedEvent) string {
	if ev.VentureID == nil {
		return "venture:all"
	}
	return "venture:" + strconv.Itoa(*ev.VentureID)
}
