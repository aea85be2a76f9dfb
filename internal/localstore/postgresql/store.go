package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS local_storage (
    namespace  TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (namespace, key)
)`

type Store struct {
	db db.DB
}

func NewStore(db db.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the local_storage table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create local_storage table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, namespace, key string) (string, error) {
	var value string
	err := s.db.Get(ctx, &value, `
        SELECT value FROM local_storage WHERE namespace = $1 AND key = $2
    `, namespace, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
			return "", localstore.ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, namespace, key, value string) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO local_storage (namespace, key, value, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (namespace, key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `, namespace, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.Exec(ctx, `
        DELETE FROM local_storage WHERE namespace = $1 AND key = $2
    `, namespace, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := s.db.Exec(ctx, `
        DELETE FROM local_storage WHERE namespace = $1
    `, namespace)
	if err != nil {
		return fmt.Errorf("delete namespace: %w", err)
	}
	return nil
}
