// Package profile loads and saves the signed-in user's profile. Fields the
// backend does not keep (phone, language, a fallback username) are cached in
// local storage under profileLocal:<userId>.
package profile

//go:generate mockgen -source ./editor.go -destination=./mocks/editor.go -package=mock_profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
)

var ErrNoProfile = errors.New("profile is not available")

type API interface {
	GetProfile(ctx context.Context) (*fbo.Profile, error)
	SaveProfile(ctx context.Context, update fbo.ProfileUpdate) (*fbo.Profile, error)
}

// Form is what the profile modal submits.
type Form struct {
	ID       int64
	Username string
	Phone    string
	Language string
}

type localRecord struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

type Editor struct {
	api       API
	store     localstore.Store
	namespace string
	logger    *zap.Logger
}

func NewEditor(api API, store localstore.Store, namespace string, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{api: api, store: store, namespace: namespace, logger: logger}
}

func LocalKey(userID int64) string {
	return "profileLocal:" + strconv.FormatInt(userID, 10)
}

func (e *Editor) Load(ctx context.Context) (*fbo.Profile, error) {
	server, err := e.api.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, ErrNoProfile
	}
	return merge(*server, e.readLocal(ctx, server.ID)), nil
}

func (e *Editor) Save(ctx context.Context, form Form) (*fbo.Profile, error) {
	update := fbo.ProfileUpdate{
		Username: strings.TrimSpace(form.Username),
		Phone:    strings.TrimSpace(form.Phone),
		Language: strings.TrimSpace(form.Language),
	}

	saved, err := e.api.SaveProfile(ctx, update)
	if err != nil {
		return nil, err
	}

	server := fbo.Profile{ID: form.ID}
	if saved != nil {
		server = *saved
		if server.ID == 0 {
			server.ID = form.ID
		}
	}

	local := localRecord{Username: update.Username, Phone: update.Phone, Language: update.Language}
	if server.ID != 0 {
		if err := e.writeLocal(ctx, server.ID, local); err != nil {
			return nil, err
		}
	}
	return merge(server, local), nil
}

// merge keeps id and email from the server. Phone and language set
// locally override the server; the local username only fills a blank one.
func merge(server fbo.Profile, local localRecord) *fbo.Profile {
	out := server
	if out.Username == "" {
		out.Username = local.Username
	}
	if local.Phone != "" {
		out.Phone = local.Phone
	}
	if local.Language != "" {
		out.Language = local.Language
	}
	return &out
}

func (e *Editor) readLocal(ctx context.Context, userID int64) localRecord {
	var rec localRecord
	raw, err := e.store.Get(ctx, e.namespace, LocalKey(userID))
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			e.logger.Warn("read local profile", zap.Int64("user_id", userID), zap.Error(err))
		}
		return rec
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		e.logger.Warn("decode local profile", zap.Int64("user_id", userID), zap.Error(err))
		return localRecord{}
	}
	return rec
}

func (e *Editor) writeLocal(ctx context.Context, userID int64, rec localRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode local profile: %w", err)
	}
	if err := e.store.Set(ctx, e.namespace, LocalKey(userID), string(raw)); err != nil {
		return fmt.Errorf("store local profile: %w", err)
	}
	return nil
}
