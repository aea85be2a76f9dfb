package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/metrics"
)

// Factory wires a fresh session for id.
type Factory func(id string) *Session

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  Factory
	onEvict  func(id string)
	logger   *zap.Logger
}

func NewRegistry(factory Factory, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		logger:   logger,
	}
}

// OnEvict registers fn to run for every session removed by Delete or Sweep.
// fn runs outside the registry lock.
func (r *Registry) OnEvict(fn func(id string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = fn
}

func (r *Registry) evicted(ids []string, fn func(id string)) {
	if fn == nil {
		return
	}
	for _, id := range ids {
		fn(id)
	}
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, found := r.sessions[id]
	return s, found
}

// Create registers a session under a new random id.
func (r *Registry) Create() *Session {
	s := r.factory(uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.logger.Debug("session created", zap.String("session", s.ID))
	return s
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	_, found := r.sessions[id]
	if found {
		delete(r.sessions, id)
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
		r.logger.Debug("session deleted", zap.String("session", id))
	}
	fn := r.onEvict
	r.mu.Unlock()

	if found {
		r.evicted([]string{id}, fn)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and reports how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var removed []string
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
		r.logger.Info("idle sessions swept", zap.Int("removed", len(removed)), zap.Int("remaining", len(r.sessions)))
	}
	fn := r.onEvict
	r.mu.Unlock()

	r.evicted(removed, fn)
	return len(removed)
}
