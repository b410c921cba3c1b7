package middleware

import (
	"context"
	"net/http"

	"github.com/ugsbrasil/sharetrack/internal/session"
)

// SessionCookie is a name of the cookie holding the session id.
const SessionCookie = "session_id"

type sessionKey struct{}

// Session makes sure every request carries a session id.
// Requests without a valid session cookie get a new id issued.
func Session(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				if session.IsValidID(c.Value) {
					id = c.Value
				}
			}

			if id == "" {
				id = session.NewID()
				SetSessionCookie(w, id, secure)
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// SetSessionCookie writes the session cookie.
func SetSessionCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithSessionID ...
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// GetSessionID returns the session id of the request.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
