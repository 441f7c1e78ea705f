package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agleymelo/daily-diet-api/internal/api/respond"
	"github.com/agleymelo/daily-diet-api/internal/model"
)

// CookieName is the cookie that carries the opaque session id.
const CookieName = "sessionId"

// Resolver maps a session id to its user. It returns model.ErrNotFound for
// unknown sessions.
type Resolver interface {
	Resolve(ctx context.Context, sessionID string) (*model.User, error)
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the user stored by RequireSession, if any.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*model.User)
	return u, ok && u != nil
}

// ExtractSessionID returns the sessionId cookie value.
func ExtractSessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", ErrMissingSession
	}
	return c.Value, nil
}

// RequireSession rejects requests without a known session with 401 before the
// wrapped handler runs.
func RequireSession(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := ExtractSessionID(r)
			if err != nil {
				respond.WriteUnauthorized(w)
				return
			}
			u, err := resolver.Resolve(r.Context(), sessionID)
			if err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					log.Error().Stack().Err(err).Msg("session lookup failed")
					respond.WriteInternalError(w, "session lookup failed")
					return
				}
				respond.WriteUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// SetSessionCookie writes the sessionId cookie with the given lifetime.
func SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
