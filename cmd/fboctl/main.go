package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/handler"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/profile"
)

// namespace keeps the shell's local data apart from web sessions sharing
// the same store file.
const namespace = "fboctl"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	level := cfg.Logger.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.New(level, cfg.Logger.Encoding)
	defer func() { _ = log.Sync() }()

	store, err := localstore.NewFileStore(cfg.LocalStore.Path)
	if err != nil {
		log.Fatal("open local storage", zap.String("path", cfg.LocalStore.Path), zap.Error(err))
	}

	ctx = auth.WithCookieToken(ctx, os.Getenv("FBO_TOKEN"))
	api := fbo.NewClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, log.Named("fbo")).
		WithTokenSource(auth.NewResolver(store, namespace))

	in := bufio.NewReader(os.Stdin)
	c := console.New(api, handler.NewPrompter(in, os.Stdout), log.Named("console"))
	if err := c.Init(ctx); err != nil {
		log.Debug("initial console load failed", zap.Error(err))
	}

	h := handler.New(c, profile.NewEditor(api, store, namespace, log.Named("profile")), api, in, os.Stdout)
	h.HandleHelp()
	if err := h.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("shell stopped", zap.Error(err))
	}
}
