package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/routing"
)

// BackendClaims are the claims the hosted backend puts in its access tokens.
// user_metadata is editable by the user, app_metadata only by the backend.
type BackendClaims struct {
	Email        string         `json:"email,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HMAC signed access tokens issued by the hosted backend
type TokenVerifier struct {
	secret   []byte
	issuer   string
	leeway   time.Duration
	audience string
}

type TokenVerifierOption func(*TokenVerifier)

func WithIssuer(issuer string) TokenVerifierOption {
	return func(v *TokenVerifier) {
		v.issuer = issuer
	}
}

func WithAudience(audience string) TokenVerifierOption {
	return func(v *TokenVerifier) {
		v.audience = audience
	}
}

func NewTokenVerifier(secret string, opts ...TokenVerifierOption) (*TokenVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("[identity NewTokenVerifier] secret is required")
	}
	v := &TokenVerifier{secret: []byte(secret), leeway: 30 * time.Second}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify parses a bearer token. Keys in app_metadata override user_metadata, and a staff role
// is only honoured from app_metadata.
func (v *TokenVerifier) Verify(raw string) (*Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.ErrInvalidToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}

	var claims BackendClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, parserOpts...)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errors.ErrTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", errors.ErrInvalidToken)
	}

	return &Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Metadata: mergeMetadata(userEditable(claims.UserMetadata), claims.AppMetadata),
	}, nil
}

// userEditable drops a role the user could not have picked themselves
func userEditable(metadata map[string]any) map[string]any {
	profile := routing.ParseProfile(metadata)
	if !profile.HasRole() || routing.IsSelectable(profile.Role) {
		return metadata
	}
	filtered := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if k != routing.MetadataKeyRole {
			filtered[k] = v
		}
	}
	return filtered
}
