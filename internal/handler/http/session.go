package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/utafrali/abundance/pkg/httputil"
	"github.com/utafrali/abundance/pkg/logger"
)

// SessionCookie is the cookie that carries a browser's basket session.
const SessionCookie = "abundance_session"

// SessionHeader lets API callers name their session without a cookie.
const SessionHeader = "X-Session-ID"

const sessionCookieMaxAge = 30 * 24 * 60 * 60

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const sessionIDKey contextKey = "session_id"

// BrowserSession resolves the basket session from the session cookie or
// header, minting a new session and setting the cookie when there is none.
func BrowserSession(base *slog.Logger, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := sessionFromRequest(r)
			if !ok {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), base, sid)))
		})
	}
}

// APISession resolves the basket session like BrowserSession but rejects the
// request with 401 when the caller has none.
func APISession(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := sessionFromRequest(r)
			if !ok {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "a basket session is required"},
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), base, sid)))
		})
	}
}

// sessionFromRequest prefers the header over the cookie.
func sessionFromRequest(r *http.Request) (string, bool) {
	if sid := r.Header.Get(SessionHeader); validSessionID(sid) {
		return sid, true
	}
	if c, err := r.Cookie(SessionCookie); err == nil && validSessionID(c.Value) {
		return c.Value, true
	}
	return "", false
}

func validSessionID(sid string) bool {
	if sid == "" || len(sid) > 128 {
		return false
	}
	for _, c := range sid {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// withSession stores the session id and rebuilds the request-scoped logger so
// that every log line carries it.
func withSession(ctx context.Context, base *slog.Logger, sid string) context.Context {
	ctx = context.WithValue(ctx, sessionIDKey, sid)
	ctx = logger.WithSessionID(ctx, sid)
	return logger.NewContext(ctx, logger.WithContext(ctx, base))
}

// sessionFromContext returns the session id resolved by the session middleware.
func sessionFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}
