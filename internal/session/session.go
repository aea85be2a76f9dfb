// Package session keeps per-browser console sessions in memory.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/profile"
)

// flashPrompter collects alerts until the next page render. Confirmation
// is decided up front by the submitted form.
type flashPrompter struct {
	alerts    []string
	confirmed bool
}

func (p *flashPrompter) Alert(msg string) {
	p.alerts = append(p.alerts, msg)
}

func (p *flashPrompter) Confirm(string) bool {
	return p.confirmed
}

// Session is one operator's console. Console, Profile and Initialized must
// only be touched inside Run.
type Session struct {
	ID      string
	API     *fbo.Client
	Console *console.Console
	Profile *profile.Editor

	Initialized bool

	mu       sync.Mutex
	prompt   *flashPrompter
	lastSeen atomic.Int64
}

func NewSession(id string) *Session {
	s := &Session{ID: id, prompt: &flashPrompter{}}
	s.touch()
	return s
}

// Prompter is the alert sink to hand to the session's console.
func (s *Session) Prompter() console.Prompter {
	return s.prompt
}

// Run executes fn under the session lock. confirmed answers any
// confirmation asked during fn. It returns the alerts raised by fn; they
// also stay queued for the next DrainAlerts.
func (s *Session) Run(confirmed bool, fn func()) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.prompt.confirmed = confirmed
	before := len(s.prompt.alerts)
	fn()
	s.prompt.confirmed = false

	if len(s.prompt.alerts) == before {
		return nil
	}
	raised := make([]string, len(s.prompt.alerts)-before)
	copy(raised, s.prompt.alerts[before:])
	return raised
}

func (s *Session) DrainAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.prompt.alerts
	s.prompt.alerts = nil
	return alerts
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}
