package fbo

import (
	"errors"
	"net/http"
	"strconv"
)

// MsgAuthRequired is shown whenever the backend rejects or cannot be given a token.
const MsgAuthRequired = "authorization required"

// Error carries the single user-facing message of a failed call.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsAuth reports whether err is an authorization failure.
func IsAuth(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Status == http.StatusUnauthorized || fe.Message == MsgAuthRequired
	}
	return false
}

func statusMessage(status int) string {
	if status == http.StatusUnauthorized {
		return MsgAuthRequired
	}
	return "HTTP " + strconv.Itoa(status)
}
