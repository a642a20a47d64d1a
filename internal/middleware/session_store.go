package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	// SessionCookieName is the name of the browser session cookie.
	SessionCookieName = "sessionid"
	// SessionIdValue is the key of the session id inside the signed cookie.
	SessionIdValue = "session_id"
	// UserIdValue is the key of the user id inside the signed cookie.
	UserIdValue = "user_id"
)

// CreateSessionStore creates the signed cookie store carrying the session id. The session itself lives in the database.
func CreateSessionStore(secret string, ttl time.Duration, secure bool) sessions.Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
