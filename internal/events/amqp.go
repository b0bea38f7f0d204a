package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPWriter publishes to a durable topic exchange; the topic is the routing key.
type AMQPWriter struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPWriter(url, exchange string, log *logger.Logger) (*AMQPWriter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	log.Info("events_init", "amqp exchange declared", "exchange", exchange)
	return &AMQPWriter{conn: conn, ch: ch, exchange: exchange}, nil
}

func (a *AMQPWriter) WriteMessage(ctx context.Context, topic string, key, msg []byte) error {
	// amqp channels are not safe for concurrent publishing
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ch.PublishWithContext(ctx, a.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    string(key),
		Timestamp:    time.Now(),
		Body:         msg,
	})
}

func (a *AMQPWriter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ch.Close(); err != nil {
		a.conn.Close()
		return err
	}
	return a.conn.Close()
}
