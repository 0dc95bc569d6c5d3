package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-event-portal/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars_GetPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", config.EnvVars{}.GetPort())

	t.Setenv("PORT", ":7070")
	require.Equal(t, ":7070", config.EnvVars{}.GetPort())
}

func TestRouting_Defaults(t *testing.T) {
	for _, v := range []string{"ROUTE_LOGIN", "ROUTE_ROLE_SELECTION", "ROUTE_PROFILE_SETUP", "ROUTE_RESOLVE_TIMEOUT"} {
		t.Setenv(v, "")
	}
	r := config.Routing{}
	require.Equal(t, "/login", r.GetLoginPath())
	require.Equal(t, "/selecionar-perfil", r.GetRoleSelectionPath())
	require.Equal(t, "/completar-perfil", r.GetProfileSetupPath())
	require.Zero(t, r.GetResolveTimeout())
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("ROUTE_RESOLVE_TIMEOUT", "45s")
	require.Equal(t, 45*time.Second, config.Routing{}.GetResolveTimeout())

	t.Setenv("ROUTE_RESOLVE_TIMEOUT", "soon")
	require.Zero(t, config.Routing{}.GetResolveTimeout())
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	origins := config.Cors{}.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.Len(t, origins, 2)
}

func TestEnvVars_GetLogFormat(t *testing.T) {
	t.Setenv("ENV", "")
	require.Equal(t, "console", config.EnvVars{}.GetLogFormat())

	t.Setenv("ENV", "PROD")
	require.Equal(t, "json", config.EnvVars{}.GetLogFormat())
}
