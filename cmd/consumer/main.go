package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/logger"
)

const groupID = "fbo-console-audit-consumer"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	defer func() { _ = log.Sync() }()

	consumer := kafka.NewConsumer(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic, groupID, log)
	defer func() {
		log.Info("closing kafka reader")
		if err := consumer.Close(); err != nil {
			log.Warn("close kafka reader", zap.Error(err))
		}
	}()

	log.Info("audit consumer started",
		zap.String("topic", cfg.Audit.KafkaTopic),
		zap.Strings("brokers", cfg.Audit.KafkaBrokers),
	)

	consumer.Run(ctx, func(_ context.Context, m kafkago.Message) error {
		var entry audit.Entry
		if err := json.Unmarshal(m.Value, &entry); err != nil {
			return err
		}
		log.Info("audit entry",
			zap.Time("received", m.Time),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.String("session", entry.SessionID),
			zap.String("action", entry.Action),
			zap.String("path", entry.Path),
			zap.Int("status", entry.StatusCode),
			zap.String("alert", entry.Alert),
			zap.String("at", entry.Timestamp.Format(time.RFC3339)),
		)
		return nil
	})
}
