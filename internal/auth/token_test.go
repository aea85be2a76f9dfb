package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
	mock_localstore "gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore/mocks"
)

func TestResolver_Token(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		setupMocks func(store *mock_localstore.MockStore)
		want       string
		wantErr    bool
	}{
		{
			name:   "cached token wins over cookie",
			cookie: "from-cookie",
			setupMocks: func(store *mock_localstore.MockStore) {
				store.EXPECT().Get(gomock.Any(), "s1", TokenKey).Return("cached", nil)
			},
			want: "cached",
		},
		{
			name:   "cookie is cached on first read",
			cookie: "from-cookie",
			setupMocks: func(store *mock_localstore.MockStore) {
				store.EXPECT().Get(gomock.Any(), "s1", TokenKey).Return("", localstore.ErrNotFound)
				store.EXPECT().Set(gomock.Any(), "s1", TokenKey, "from-cookie").Return(nil)
			},
			want: "from-cookie",
		},
		{
			name:   "blank cached value falls back to cookie",
			cookie: "from-cookie",
			setupMocks: func(store *mock_localstore.MockStore) {
				store.EXPECT().Get(gomock.Any(), "s1", TokenKey).Return("  ", nil)
				store.EXPECT().Set(gomock.Any(), "s1", TokenKey, "from-cookie").Return(nil)
			},
			want: "from-cookie",
		},
		{
			name: "no token anywhere",
			setupMocks: func(store *mock_localstore.MockStore) {
				store.EXPECT().Get(gomock.Any(), "s1", TokenKey).Return("", localstore.ErrNotFound)
			},
			want: "",
		},
		{
			name:   "cache failure still returns cookie",
			cookie: "from-cookie",
			setupMocks: func(store *mock_localstore.MockStore) {
				store.EXPECT().Get(gomock.Any(), "s1", TokenKey).Return("", localstore.ErrNotFound)
				store.EXPECT().Set(gomock.Any(), "s1", TokenKey, "from-cookie").Return(errors.New("disk full"))
			},
			want: "from-cookie",
		},
		{
			name:   "store read error",
			cookie: "from-cookie",
			setupMocks: func(store *mock_localstore.MockStore) {
				store.EXPECT().Get(gomock.Any(), "s1", TokenKey).Return("", errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mock_localstore.NewMockStore(ctrl)
			tc.setupMocks(store)

			ctx := context.Background()
			if tc.cookie != "" {
				ctx = WithCookieToken(ctx, tc.cookie)
			}

			got, err := NewResolver(store, "s1").Token(ctx)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolver_CachedCookieSurvivesWithoutCookie(t *testing.T) {
	store := localstore.NewMemoryStore()
	r := NewResolver(store, "s1")

	first, err := r.Token(WithCookieToken(context.Background(), " abc "))
	require.NoError(t, err)
	assert.Equal(t, "abc", first)

	second, err := r.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", second)
}
