package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter publishes with segmentio/kafka-go. The topic is set per message.
type KafkaWriter struct {
	writer *kafka.Writer
}

func NewKafkaWriter(brokers []string) *KafkaWriter {
	return &KafkaWriter{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func (k *KafkaWriter) WriteMessage(ctx context.Context, topic string, key, msg []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: msg,
	})
}

func (k *KafkaWriter) Close() error {
	return k.writer.Close()
}
