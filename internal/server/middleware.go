package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/session"
)

// SessionCookie holds the console session id.
const SessionCookie = "fbo_session"

const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
		next.ServeHTTP(w, r)
	})
}

type sessionKey struct{}

// sessionMiddleware attaches the caller's session, creating one when the
// cookie is missing or stale, and exposes the authToken cookie to the
// token resolver.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if c, err := r.Cookie(SessionCookie); err == nil {
			sess, _ = s.sessions.Get(c.Value)
		}
		if sess == nil {
			sess = s.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			s.logger.Debug("new console session", zap.String("session", sess.ID))
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		if c, err := r.Cookie(auth.CookieName); err == nil {
			ctx = auth.WithCookieToken(ctx, c.Value)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}
