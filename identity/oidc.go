package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-event-portal/internal/errors"
	"golang.org/x/oauth2"
)

// DefaultMetadataClaim is the ID token claim holding the user's public metadata
const DefaultMetadataClaim = "public_metadata"

type OIDCConfig struct {
	Issuer        string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	Scopes        []string
	MetadataClaim string
}

// OIDCClient runs the authorization code flow (with PKCE) against the hosted identity provider
type OIDCClient struct {
	provider      *oidc.Provider
	oauth2        *oauth2.Config
	verifier      *oidc.IDTokenVerifier
	metadataClaim string
}

func NewOIDCClient(ctx context.Context, cfg OIDCConfig) (*OIDCClient, error) {
	if cfg.Issuer == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("[identity NewOIDCClient] issuer and client id are required")
	}
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("[identity NewOIDCClient] failed to create OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}
	claim := cfg.MetadataClaim
	if claim == "" {
		claim = DefaultMetadataClaim
	}

	return &OIDCClient{
		provider: provider,
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
		verifier:      provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		metadataClaim: claim,
	}, nil
}

// AuthCodeURL builds the provider's login URL
func (c *OIDCClient) AuthCodeURL(state, nonce, codeVerifier string) string {
	return c.oauth2.AuthCodeURL(state, oidc.Nonce(nonce), oauth2.S256ChallengeOption(codeVerifier))
}

// Exchange swaps the authorization code for tokens and verifies the ID token and nonce
func (c *OIDCClient) Exchange(ctx context.Context, code, codeVerifier, nonce string) (*Identity, error) {
	token, err := c.oauth2.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("[identity Exchange] token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.ErrMissingIDToken
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[identity Exchange] %w: %v", errors.ErrInvalidToken, err)
	}
	if idToken.Nonce != nonce {
		return nil, errors.ErrInvalidNonce
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("[identity Exchange] failed to extract claims: %w", err)
	}

	ident := &Identity{
		Subject: idToken.Subject,
		Token:   token,
	}
	ident.Email, _ = claims["email"].(string)
	ident.Name, _ = claims["name"].(string)
	if metadata, ok := claims[c.metadataClaim].(map[string]any); ok {
		ident.Metadata = metadata
	}
	return ident, nil
}
