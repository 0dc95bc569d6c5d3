package config

import "time"

type SessionConfig interface {
	GetMaxSessionAge() time.Duration
	GetAuthFlowTimeout() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetMaxSessionAge() time.Duration {
	return GetDurationEnv("SESSION_MAX_AGE", 24*time.Hour)
}

// GetAuthFlowTimeout is how long a login attempt's state/nonce/verifier is kept
func (Session) GetAuthFlowTimeout() time.Duration {
	return GetDurationEnv("AUTH_FLOW_TIMEOUT", 10*time.Minute)
}
