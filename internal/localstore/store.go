// Package localstore keeps the small per-session key/value records the
// console caches on behalf of a user: the auth token and profile overrides.
package localstore

//go:generate mockgen -source ./store.go -destination=./mocks/store.go -package=mock_localstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is namespaced: every session sees only its own keys.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	// DeleteNamespace drops every key of namespace.
	DeleteNamespace(ctx context.Context, namespace string) error
}
