// Package auth resolves the bearer token used for FBO backend calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
)

const (
	// TokenKey is the local storage key holding the cached token.
	TokenKey = "authToken"
	// CookieName is the browser cookie consulted when nothing is cached.
	CookieName = "authToken"
)

type cookieTokenKey struct{}

// WithCookieToken attaches the token found in the caller's cookie jar.
func WithCookieToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, cookieTokenKey{}, token)
}

func CookieTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(cookieTokenKey{}).(string)
	return strings.TrimSpace(token)
}

// Resolver reads the token from local storage and falls back to the cookie,
// caching the cookie value on first use. It implements fbo.TokenSource.
type Resolver struct {
	store     localstore.Store
	namespace string
}

func NewResolver(store localstore.Store, namespace string) *Resolver {
	return &Resolver{store: store, namespace: namespace}
}

func (r *Resolver) Token(ctx context.Context) (string, error) {
	token, err := r.store.Get(ctx, r.namespace, TokenKey)
	switch {
	case err == nil && strings.TrimSpace(token) != "":
		return strings.TrimSpace(token), nil
	case err != nil && !errors.Is(err, localstore.ErrNotFound):
		return "", fmt.Errorf("read cached token: %w", err)
	}

	cookie := CookieTokenFrom(ctx)
	if cookie == "" {
		return "", nil
	}
	if err := r.store.Set(ctx, r.namespace, TokenKey, cookie); err != nil {
		zap.L().Warn("failed to cache auth token", zap.String("namespace", r.namespace), zap.Error(err))
	}
	return cookie, nil
}
