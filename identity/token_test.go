package identity_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-event-portal/identity"
	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/stretchr/testify/require"
)

const testTokenSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signBackendToken(t *testing.T, secret string, claims identity.BackendClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() identity.BackendClaims {
	return identity.BackendClaims{
		Email:        "ana@example.com",
		UserMetadata: map[string]any{"role": "athlete", "profileComplete": true},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "https://backend.example.com/auth/v1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	v, err := identity.NewTokenVerifier(testTokenSecret, identity.WithIssuer("https://backend.example.com/auth/v1"))
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		ident, err := v.Verify(signBackendToken(t, testTokenSecret, validClaims()))
		require.NoError(t, err)
		require.Equal(t, "user-1", ident.Subject)
		require.Equal(t, "ana@example.com", ident.Email)

		s := ident.Snapshot()
		require.True(t, s.Loaded)
		require.Equal(t, routing.RoleAthlete, routing.ParseProfile(s.User.Metadata).Role)
	})

	t.Run("app metadata wins", func(t *testing.T) {
		claims := validClaims()
		claims.AppMetadata = map[string]any{"role": "admin"}
		ident, err := v.Verify(signBackendToken(t, testTokenSecret, claims))
		require.NoError(t, err)
		require.Equal(t, "admin", ident.Metadata["role"])
		require.Equal(t, true, ident.Metadata["profileComplete"])
	})

	t.Run("staff role in user metadata is dropped", func(t *testing.T) {
		claims := validClaims()
		claims.UserMetadata = map[string]any{"role": "admin", "profileComplete": true, "city": "Recife"}
		ident, err := v.Verify(signBackendToken(t, testTokenSecret, claims))
		require.NoError(t, err)
		require.NotContains(t, ident.Metadata, "role")
		require.Equal(t, "Recife", ident.Metadata["city"])
		require.Equal(t, routing.ReasonRoleMissing, mustRouter(t).Decide(ident.Snapshot()).Reason)
	})

	t.Run("selectable role in user metadata is kept", func(t *testing.T) {
		claims := validClaims()
		claims.UserMetadata = map[string]any{"role": " judge "}
		ident, err := v.Verify(signBackendToken(t, testTokenSecret, claims))
		require.NoError(t, err)
		require.Equal(t, " judge ", ident.Metadata["role"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(signBackendToken(t, "another-secret-another-secret-another", validClaims()))
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Verify(signBackendToken(t, testTokenSecret, claims))
		require.ErrorIs(t, err, errors.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "https://evil.example.com"
		_, err := v.Verify(signBackendToken(t, testTokenSecret, claims))
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""
		_, err := v.Verify(signBackendToken(t, testTokenSecret, claims))
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := v.Verify("  ")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})
}

func TestNewTokenVerifier_RequiresSecret(t *testing.T) {
	_, err := identity.NewTokenVerifier("")
	require.Error(t, err)
}

func TestIdentity_SnapshotNil(t *testing.T) {
	var ident *identity.Identity
	s := ident.Snapshot()
	require.True(t, s.Loaded)
	require.Nil(t, s.User)
}

func mustRouter(t *testing.T) *routing.Router {
	t.Helper()
	r, err := routing.NewRouter(routing.Paths{
		Login:         "/login",
		RoleSelection: "/selecionar-perfil",
		ProfileSetup:  "/completar-perfil",
	}, routing.DefaultRoleTable())
	require.NoError(t, err)
	return r
}
