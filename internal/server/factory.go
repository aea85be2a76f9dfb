package server

import (
	"context"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/profile"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/session"
)

// NewSessionFactory wires each session to its own token resolver and local
// storage namespace, both keyed by the session id.
func NewSessionFactory(api *fbo.Client, store localstore.Store, logger *zap.Logger) session.Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(id string) *session.Session {
		sess := session.NewSession(id)
		sessLogger := logger.With(zap.String("session", id))
		sess.API = api.WithTokenSource(auth.NewResolver(store, id))
		sess.Console = console.New(sess.API, sess.Prompter(), sessLogger)
		sess.Profile = profile.NewEditor(sess.API, store, id, sessLogger)
		return sess
	}
}

// NewSessionCleanup drops the local storage namespace of an evicted session.
func NewSessionCleanup(store localstore.Store, logger *zap.Logger) func(id string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(id string) {
		if err := store.DeleteNamespace(context.Background(), id); err != nil {
			logger.Warn("failed to drop session storage", zap.String("session", id), zap.Error(err))
		}
	}
}
