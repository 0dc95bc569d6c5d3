package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-event-portal/identity"
	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/server/loginsession"
	"github.com/rs/zerolog"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the caller's login session
	ContextKeySession ContextKey = "session"
	// ContextKeyIdentity stores the identity asserted by a bearer token
	ContextKeyIdentity ContextKey = "identity"
)

func sessionFromContext(ctx context.Context) (loginsession.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(loginsession.Session)
	return session, ok
}

func identityFromContext(ctx context.Context) (*identity.Identity, bool) {
	ident, ok := ctx.Value(ContextKeyIdentity).(*identity.Identity)
	return ident, ok && ident != nil
}

// RequireSession is middleware for HTML/HTMX routes that validates the login session cookie
func (s *Server) RequireSession() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, err := s.currentSession(r)
			if err != nil {
				if !errors.Is(err, errors.ErrSessionNotFound) && !errors.Is(err, errors.ErrSessionExpired) {
					zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to load session")
					http.Error(w, "Failed to load session", http.StatusInternalServerError)
					return
				}
				s.clearLoginSessionCookie(w, r)
				redirectWithError(w, r, s.router.Paths().Login, "Session expired")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireBearer is middleware for API routes that validates a backend access token
func (s *Server) RequireBearer() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.tokens == nil {
				writeJSONError(w, http.StatusNotImplemented, "unsupported", "Bearer tokens are not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format")
				return
			}

			ident, err := s.tokens.Verify(parts[1])
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
				description := "Invalid token"
				if errors.Is(err, errors.ErrTokenExpired) {
					description = "Token expired"
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid_token", description)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, ident)
			next(w, r.WithContext(ctx))
		}
	}
}
