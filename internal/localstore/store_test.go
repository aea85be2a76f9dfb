package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	ctx := context.Background()

	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			fs, err := NewFileStore(filepath.Join(t.TempDir(), "local_storage.json"))
			require.NoError(t, err)
			return fs
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key", func(t *testing.T) {
				s := newStore(t)
				_, err := s.Get(ctx, "session-1", "authToken")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("set get overwrite", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, "session-1", "authToken", "abc"))
				require.NoError(t, s.Set(ctx, "session-1", "authToken", "def"))

				got, err := s.Get(ctx, "session-1", "authToken")
				require.NoError(t, err)
				assert.Equal(t, "def", got)
			})

			t.Run("namespaces are isolated", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, "session-1", "authToken", "abc"))

				_, err := s.Get(ctx, "session-2", "authToken")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("delete", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, "session-1", "profileLocal:7", `{"phone":"123"}`))
				require.NoError(t, s.Delete(ctx, "session-1", "profileLocal:7"))
				require.NoError(t, s.Delete(ctx, "session-1", "profileLocal:7"))

				_, err := s.Get(ctx, "session-1", "profileLocal:7")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("delete namespace", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, "session-1", "authToken", "abc"))
				require.NoError(t, s.Set(ctx, "session-1", "profileLocal:7", `{"phone":"123"}`))
				require.NoError(t, s.Set(ctx, "session-2", "authToken", "keep"))

				require.NoError(t, s.DeleteNamespace(ctx, "session-1"))
				require.NoError(t, s.DeleteNamespace(ctx, "missing"))

				_, err := s.Get(ctx, "session-1", "authToken")
				assert.ErrorIs(t, err, ErrNotFound)
				_, err = s.Get(ctx, "session-1", "profileLocal:7")
				assert.ErrorIs(t, err, ErrNotFound)
				got, err := s.Get(ctx, "session-2", "authToken")
				require.NoError(t, err)
				assert.Equal(t, "keep", got)
			})
		})
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local_storage.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "cli", "authToken", "abc"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := second.Get(ctx, "cli", "authToken")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStore_EmptyAndCorruptFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err := NewFileStore(empty)
	assert.NoError(t, err)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o600))
	_, err = NewFileStore(corrupt)
	assert.Error(t, err)
}
