package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/lucsky/cuid"
)

// Event is the envelope written to every destination.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"eventType"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:        cuid.New(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}

// Publisher delivers events to a broker. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// WriterPublisher adapts a raw topic writer to Publisher.
type WriterPublisher struct {
	writer      MessageWriter
	topicPrefix string
}

// MessageWriter is implemented by each broker backend.
type MessageWriter interface {
	WriteMessage(ctx context.Context, topic string, key, msg []byte) error
	Close() error
}

func NewWriterPublisher(w MessageWriter, topicPrefix string) *WriterPublisher {
	return &WriterPublisher{writer: w, topicPrefix: topicPrefix}
}

func (p *WriterPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	return p.writer.WriteMessage(ctx, Topic(p.topicPrefix, event.Type), []byte(event.ID), msg)
}

func (p *WriterPublisher) Close() error {
	return p.writer.Close()
}

// Topic maps "order.status_changed" to "<prefix>.order.status_changed".
func Topic(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// LogPublisher writes events to the logger instead of a broker.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info("publish_event", "event published", "event_id", event.ID, "event_type", event.Type)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// New picks the publisher for cfg.Driver.
func New(cfg models.EventsConfig, log *logger.Logger) (Publisher, error) {
	brokers := splitBrokers(cfg.Brokers)
	switch cfg.Driver {
	case "", "none":
		return NopPublisher{}, nil
	case "log":
		return NewLogPublisher(log), nil
	case "sarama":
		w, err := NewSaramaWriter(brokers, log)
		if err != nil {
			return nil, err
		}
		return NewWriterPublisher(w, cfg.TopicPrefix), nil
	case "kafka-go":
		return NewWriterPublisher(NewKafkaWriter(brokers), cfg.TopicPrefix), nil
	case "amqp":
		w, err := NewAMQPWriter(cfg.AMQPURL, cfg.Exchange, log)
		if err != nil {
			return nil, err
		}
		return NewWriterPublisher(w, cfg.TopicPrefix), nil
	}
	return nil, fmt.Errorf("unsupported events driver: %s", cfg.Driver)
}

func splitBrokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// StatusChange is the payload of every *.status_changed event.
type StatusChange struct {
	Entity  string `json:"entity"`
	ID      int64  `json:"id"`
	OrderID int64  `json:"orderId"`
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
}
