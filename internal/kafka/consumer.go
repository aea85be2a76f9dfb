package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Reader is the part of kafka.Reader the consumer relies on.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler processes one message. Errors are logged and the loop moves on.
type Handler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader     Reader
	logger     *zap.Logger
	retryDelay time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, logger *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	return NewConsumerWithReader(r, logger)
}

func NewConsumerWithReader(r Reader, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{reader: r, logger: logger, retryDelay: 5 * time.Second}
}

// Run reads until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, handle Handler) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", zap.Error(ctx.Err()))
				return
			}
			c.logger.Warn("failed to read message", zap.Error(err))
			select {
			case <-time.After(c.retryDelay):
				continue
			case <-ctx.Done():
				return
			}
		}

		if err := handle(ctx, m); err != nil {
			c.logger.Error("failed to handle message",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
