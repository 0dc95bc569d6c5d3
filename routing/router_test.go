package routing_test

import (
	"testing"

	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/stretchr/testify/require"
)

var testPaths = routing.Paths{
	Login:         "/login",
	RoleSelection: "/selecionar-perfil",
	ProfileSetup:  "/completar-perfil",
}

func newTestRouter(t *testing.T) *routing.Router {
	t.Helper()
	r, err := routing.NewRouter(testPaths, routing.DefaultRoleTable())
	require.NoError(t, err)
	return r
}

func signedIn(metadata map[string]any) routing.Snapshot {
	return routing.Snapshot{Loaded: true, User: &routing.UserRecord{ID: "user-1", Metadata: metadata}}
}

func TestRouter_Decide(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name     string
		snapshot routing.Snapshot
		kind     routing.ActionKind
		path     string
		reason   routing.Reason
	}{
		{
			name:     "not loaded",
			snapshot: routing.Snapshot{},
			kind:     routing.ActionNone,
			reason:   routing.ReasonNotLoaded,
		},
		{
			name:     "not loaded ignores user",
			snapshot: routing.Snapshot{User: &routing.UserRecord{Metadata: map[string]any{"role": "admin", "profileComplete": true}}},
			kind:     routing.ActionNone,
			reason:   routing.ReasonNotLoaded,
		},
		{
			name:     "no user",
			snapshot: routing.Snapshot{Loaded: true},
			kind:     routing.ActionNavigate,
			path:     "/login",
			reason:   routing.ReasonUnauthenticated,
		},
		{
			name:     "nil metadata",
			snapshot: signedIn(nil),
			kind:     routing.ActionNavigate,
			path:     "/selecionar-perfil",
			reason:   routing.ReasonRoleMissing,
		},
		{
			name:     "empty role",
			snapshot: signedIn(map[string]any{"role": "", "profileComplete": true}),
			kind:     routing.ActionNavigate,
			path:     "/selecionar-perfil",
			reason:   routing.ReasonRoleMissing,
		},
		{
			name:     "non string role",
			snapshot: signedIn(map[string]any{"role": 42, "profileComplete": true}),
			kind:     routing.ActionNavigate,
			path:     "/selecionar-perfil",
			reason:   routing.ReasonRoleMissing,
		},
		{
			name:     "admin with incomplete profile",
			snapshot: signedIn(map[string]any{"role": "admin", "profileComplete": false}),
			kind:     routing.ActionNavigate,
			path:     "/completar-perfil",
			reason:   routing.ReasonProfileIncomplete,
		},
		{
			name:     "profile complete missing",
			snapshot: signedIn(map[string]any{"role": "athlete"}),
			kind:     routing.ActionNavigate,
			path:     "/completar-perfil",
			reason:   routing.ReasonProfileIncomplete,
		},
		{
			name:     "admin complete",
			snapshot: signedIn(map[string]any{"role": "admin", "profileComplete": true}),
			kind:     routing.ActionNavigate,
			path:     "/admin",
			reason:   routing.ReasonRoleRoute,
		},
		{
			name:     "unknown role falls back to spectator",
			snapshot: signedIn(map[string]any{"role": "unknown-value", "profileComplete": true}),
			kind:     routing.ActionNavigate,
			path:     "/perfil/espectador",
			reason:   routing.ReasonRoleDefault,
		},
		{
			name:     "stringified profile complete",
			snapshot: signedIn(map[string]any{"role": "media", "profileComplete": "true"}),
			kind:     routing.ActionNavigate,
			path:     "/perfil/midia",
			reason:   routing.ReasonRoleRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := r.Decide(tt.snapshot)
			require.Equal(t, tt.kind, action.Kind)
			require.Equal(t, tt.path, action.Path)
			require.Equal(t, tt.reason, action.Reason)
			if action.IsNavigate() {
				require.True(t, action.Replace)
			}
		})
	}
}

func TestRouter_DecideEveryRole(t *testing.T) {
	r := newTestRouter(t)
	expected := map[string]string{
		"athlete":   "/perfil/atleta",
		"judge":     "/perfil/judge",
		"media":     "/perfil/midia",
		"spectator": "/perfil/espectador",
		"admin":     "/admin",
		"dev":       "/dev",
		"marketing": "/marketing",
	}
	for role, path := range expected {
		action := r.Decide(signedIn(map[string]any{"role": role, "profileComplete": true}))
		require.Equal(t, path, action.Path, role)
	}
}

func TestRouter_DecideIsIdempotent(t *testing.T) {
	r := newTestRouter(t)
	s := signedIn(map[string]any{"role": "judge", "profileComplete": true})
	require.Equal(t, r.Decide(s), r.Decide(s))
}

func TestNewRouter_Validation(t *testing.T) {
	t.Run("relative path", func(t *testing.T) {
		paths := testPaths
		paths.ProfileSetup = "completar-perfil"
		_, err := routing.NewRouter(paths, routing.DefaultRoleTable())
		require.Error(t, err)
		require.Contains(t, err.Error(), "profile setup")
	})

	t.Run("nil table", func(t *testing.T) {
		_, err := routing.NewRouter(testPaths, nil)
		require.Error(t, err)
	})

	t.Run("missing default role", func(t *testing.T) {
		_, err := routing.NewRouter(testPaths, routing.RoleTable{routing.RoleAdmin: "/admin"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "default role")
	})

	t.Run("table is copied", func(t *testing.T) {
		table := routing.DefaultRoleTable()
		r, err := routing.NewRouter(testPaths, table)
		require.NoError(t, err)
		table[routing.RoleAdmin] = "/elsewhere"
		action := r.Decide(signedIn(map[string]any{"role": "admin", "profileComplete": true}))
		require.Equal(t, "/admin", action.Path)
	})
}

func TestParseProfile(t *testing.T) {
	p := routing.ParseProfile(map[string]any{"role": "  athlete ", "profileComplete": true})
	require.Equal(t, routing.RoleAthlete, p.Role)
	require.True(t, p.ProfileComplete)

	p = routing.ParseProfile(map[string]any{"profileComplete": 1})
	require.False(t, p.HasRole())
	require.False(t, p.ProfileComplete)
}

func TestRoleTable_Lookup(t *testing.T) {
	table := routing.DefaultRoleTable()

	path, found := table.Lookup(routing.RoleDev)
	require.True(t, found)
	require.Equal(t, "/dev", path)

	path, found = table.Lookup("coach")
	require.False(t, found)
	require.Equal(t, "/perfil/espectador", path)

	require.Len(t, table.Destinations(), 7)
}

func TestIsSelectable(t *testing.T) {
	require.True(t, routing.IsSelectable(routing.RoleAthlete))
	require.False(t, routing.IsSelectable(routing.RoleAdmin))
}
