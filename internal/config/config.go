package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	CorsConfig
	RoutingConfig
	OIDCConfig
	SessionConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	GetLogLevel() string
	GetLogFormat() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Routing
	OIDC
	Session
	Store
}

// New loads .env files (if present) and returns the environment backed configuration
func New() Config {
	// Missing files are fine, real deployments set the environment directly
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
	return mainConfig{}
}
