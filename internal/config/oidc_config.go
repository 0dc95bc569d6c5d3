package config

type OIDCConfig interface {
	GetOIDCIssuer() string
	GetOIDCClientID() string
	GetOIDCClientSecret() string
	GetOIDCScopes() []string
	GetTokenSecret() string
	GetTokenIssuer() string
}

type OIDC struct{}

var _ OIDCConfig = OIDC{}

func (OIDC) GetOIDCIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (OIDC) GetOIDCClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (OIDC) GetOIDCClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

func (OIDC) GetOIDCScopes() []string {
	return GetListEnv("OIDC_SCOPES", []string{"openid", "profile", "email"})
}

// GetTokenSecret is the HMAC secret the hosted backend signs its access tokens with
func (OIDC) GetTokenSecret() string {
	return GetEnv("TOKEN_SECRET", "")
}

func (OIDC) GetTokenIssuer() string {
	return GetEnv("TOKEN_ISSUER", "")
}
