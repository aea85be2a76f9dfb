package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/audit"
)

// auditNote lets a handler hand its outcome back to auditMiddleware.
type auditNote struct {
	alerts []string
}

type auditNoteKey struct{}

func noteAlerts(ctx context.Context, alerts []string) {
	if note, ok := ctx.Value(auditNoteKey{}).(*auditNote); ok {
		note.alerts = append(note.alerts, alerts...)
	}
}

// auditMiddleware records every POST after the handler has run.
func (s *Server) auditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || s.audit == nil {
			next.ServeHTTP(w, r)
			return
		}

		entry := audit.Entry{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Action:    "unknown",
		}
		if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
			entry.Action = route.GetName()
		}
		if sess := sessionFrom(r.Context()); sess != nil {
			entry.SessionID = sess.ID
		}

		note := &auditNote{}
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), auditNoteKey{}, note)))

		entry.StatusCode = rec.statusCode
		entry.Alert = strings.Join(note.alerts, "; ")

		s.audit.Log(r.Context(), entry)
	})
}
