package config

import "time"

type RoutingConfig interface {
	GetLoginPath() string
	GetRoleSelectionPath() string
	GetProfileSetupPath() string
	GetResolveTimeout() time.Duration
	GetMetadataLoadTimeout() time.Duration
}

type Routing struct{}

var _ RoutingConfig = Routing{}

func (Routing) GetLoginPath() string {
	return GetEnv("ROUTE_LOGIN", "/login")
}

func (Routing) GetRoleSelectionPath() string {
	return GetEnv("ROUTE_ROLE_SELECTION", "/selecionar-perfil")
}

func (Routing) GetProfileSetupPath() string {
	return GetEnv("ROUTE_PROFILE_SETUP", "/completar-perfil")
}

// GetResolveTimeout bounds how long the router waits for a session's profile to load.
// Zero waits forever.
func (Routing) GetResolveTimeout() time.Duration {
	return GetDurationEnv("ROUTE_RESOLVE_TIMEOUT", 0)
}

// GetMetadataLoadTimeout bounds a single profile store lookup after login
func (Routing) GetMetadataLoadTimeout() time.Duration {
	return GetDurationEnv("METADATA_LOAD_TIMEOUT", 10*time.Second)
}
