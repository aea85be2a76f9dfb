package audit

import (
	"time"
)

// Entry records one console action submitted over HTTP.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	Action     string    `json:"action"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Alert      string    `json:"alert,omitempty"`
}
