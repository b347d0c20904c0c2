package middleware

import (
	"context"
	"net/http"
	"time"

	"chargehub/backend/services/chargehub/internal/store"
)

// SessionSource hands out the per-session store.
type SessionSource interface {
	Acquire(ctx context.Context, sessionID, userID string, expiresAt time.Time) (*store.Session, error)
}

// SessionMiddleware injects the session of the authenticated token, building it
// on first use. It must run after AuthMiddleware.
func SessionMiddleware(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			sess, err := sessions.Acquire(r.Context(), claims.SessionID(), claims.UserID, claims.ExpiresAtTime())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "session signed out")
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the session injected by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*store.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*store.Session)
	return sess, ok && sess != nil
}

// SessionFromRequest is SessionFromContext for request-scoped callers.
func SessionFromRequest(r *http.Request) (*store.Session, bool) {
	return SessionFromContext(r.Context())
}
