package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/notageng/backend/internal/domain"
)

// SessionCookie is the cookie the web client stores its session token in.
// API clients may send the same token as an Authorization bearer header.
const SessionCookie = "notageng_session"

// TokenVerifier checks a session token and returns the user ID it was issued
// for. Implemented by auth.TokenService; defined here, in the consumer
// package, so middleware tests can inject a fake.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// identityKey is the context key for the resolved viewer identity.
const identityKey ctxKey = "identity"

// IdentityFrom returns the viewer identity resolved by NewIdentityHandler.
// Requests that never passed through the middleware are anonymous.
func IdentityFrom(ctx context.Context) domain.Identity {
	if v, ok := ctx.Value(identityKey).(domain.Identity); ok {
		return v
	}
	return domain.Anonymous()
}

// WithIdentity stores a viewer identity in the context. Exported for handler
// tests, which have no middleware stack to resolve one.
func WithIdentity(ctx context.Context, v domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, v)
}

// NewIdentityHandler returns a middleware that resolves the request's viewer
// identity exactly once and stores it in the request context. A missing or
// invalid token resolves to the anonymous identity rather than an error;
// handlers that require a session reject anonymous viewers themselves.
func NewIdentityHandler(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := domain.Anonymous()
			if token := sessionToken(r); token != "" {
				if userID, err := verifier.Verify(token); err == nil {
					viewer = domain.Identity{UserID: userID}
				}
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), viewer)))
		})
	}
}

// sessionToken extracts the session token from the Authorization header,
// falling back to the session cookie set by the web client.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
