package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/rabbitmq"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/session"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("console stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	producer, err := openAuditSink(cfg, log)
	if err != nil {
		return err
	}
	auditManager := audit.NewManager(producer, audit.Config{
		Topic:       auditTopic(cfg),
		WorkerCount: cfg.Audit.Workers,
		BatchSize:   cfg.Audit.BatchSize,
		Timeout:     cfg.Audit.FlushInterval,
	}, log)
	auditManager.Start(ctx)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
		defer shutdownCancel()
		auditManager.Shutdown(shutdownCtx)
	}()

	api := fbo.NewClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, log.Named("fbo"))
	registry := session.NewRegistry(server.NewSessionFactory(api, store, log.Named("console")), log)
	registry.OnEvict(server.NewSessionCleanup(store, log.Named("console")))

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, registry, auditManager, log.Named("http"))

	log.Info("fbo console configured",
		zap.String("api", cfg.API.BaseURL),
		zap.String("local_store", cfg.LocalStore.Driver),
		zap.String("audit_sink", cfg.Audit.Sink),
	)
	return srv.Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config) (localstore.Store, func(), error) {
	switch cfg.LocalStore.Driver {
	case "memory":
		return localstore.NewMemoryStore(), func() {}, nil
	case "file":
		fs, err := localstore.NewFileStore(cfg.LocalStore.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return fs, func() {}, nil
	case "postgres":
		database, err := db.NewDb(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		pgStore := postgresql.NewStore(database)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		return pgStore, database.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown LOCAL_STORE %q", cfg.LocalStore.Driver)
	}
}

func openAuditSink(cfg *config.Config, log *zap.Logger) (audit.Producer, error) {
	switch cfg.Audit.Sink {
	case "log":
		return audit.NewLogProducer(log), nil
	case "kafka":
		return kafka.NewProducer(cfg.Audit.KafkaBrokers, log.Named("kafka")), nil
	case "rabbitmq":
		pub, err := rabbitmq.Dial(cfg.Audit.RabbitMQURL, log.Named("rabbitmq"))
		if err != nil {
			return nil, err
		}
		if err := pub.DeclareQueue(cfg.Audit.RabbitMQQueue); err != nil {
			_ = pub.Close()
			return nil, err
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("unknown AUDIT_SINK %q", cfg.Audit.Sink)
	}
}

func auditTopic(cfg *config.Config) string {
	if cfg.Audit.Sink == "rabbitmq" {
		return cfg.Audit.RabbitMQQueue
	}
	return cfg.Audit.KafkaTopic
}
