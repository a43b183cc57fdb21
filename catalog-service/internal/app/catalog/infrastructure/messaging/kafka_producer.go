package messaging

import (
	"context"
	"fmt"
	"time"

	"bazaar/pkg/logger"
	"bazaar/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "catalog-service"

// KafkaProducer отправляет события каталога в Kafka
// Writer асинхронный: запрос не ждёт подтверждения брокера, итог пишется в метрики
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer создает producer для топика событий каталога
// brokers - список брокеров в формате ["host:port"]
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:  kafka.TCP(brokers...),
		Topic: topic,
		// Ключ - id сущности, события одной сущности попадают в одну партицию
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	}
	writer.Completion = func(messages []kafka.Message, err error) {
		for _, msg := range messages {
			if err != nil {
				metrics.RecordKafkaError(serviceName, topic, "produce")
				logger.Error().Err(err).Str("topic", topic).Str("key", string(msg.Key)).Msg("Failed to deliver catalog event")
				continue
			}
			metrics.RecordKafkaMessageProduced(serviceName, topic, time.Since(msg.Time))
		}
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage ставит сообщение в очередь отправки
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, p.topic, "enqueue")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close дожидается отправки буфера и закрывает writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется когда Kafka выключена
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
