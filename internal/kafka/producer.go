package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Writer is the part of kafka.Writer the producer relies on.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return NewProducerWithWriter(w, logger)
}

func NewProducerWithWriter(w Writer, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{writer: w, logger: logger}
}

func (p *Producer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	msg := kafka.Message{Topic: topic, Key: key, Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}
	p.logger.Debug("kafka message sent", zap.String("topic", topic), zap.ByteString("key", key))
	return nil
}

func (p *Producer) Close() error {
	p.logger.Info("closing kafka producer")
	return p.writer.Close()
}
