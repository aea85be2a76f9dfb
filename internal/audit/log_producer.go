package audit

import (
	"context"

	"go.uber.org/zap"
)

// LogProducer writes audit messages to the application log instead of a
// broker.
type LogProducer struct {
	logger *zap.Logger
}

func NewLogProducer(logger *zap.Logger) *LogProducer {
	return &LogProducer{logger: logger.Named("audit")}
}

func (p *LogProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Info("audit entry",
		zap.String("topic", topic),
		zap.ByteString("key", key),
		zap.ByteString("value", value),
	)
	return nil
}

func (p *LogProducer) Close() error {
	return p.logger.Sync()
}
