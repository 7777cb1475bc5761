package kafka

import (
	"context"
	"fmt"
	"time"

	"ms-facility-booking/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Producer streams booking and order lifecycle events. One writer
// serves all topics; the topic travels on each message.
type Producer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer, log: log}
}

func (p *Producer) Publish(topic string, key string, value []byte) error {
	err := p.writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
	if err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	if p.log != nil {
		p.log.Debug("KAFKA", fmt.Sprintf("published to %s key=%s (%d bytes)", topic, key, len(value)))
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
