package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const snapshotStream = `# signed in user finishing onboarding
{"isLoaded": false}
{"isLoaded": true, "user": {"id": "u1", "metadata": {"role": "judge"}}}

{"isLoaded": true, "user": {"id": "u1", "metadata": {"role": "judge", "profileComplete": true}}}
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, v := range []string{"ROUTE_LOGIN", "ROUTE_ROLE_SELECTION", "ROUTE_PROFILE_SETUP", "ROUTE_RESOLVE_TIMEOUT"} {
		t.Setenv(v, "")
	}
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecide(t *testing.T) {
	out, err := execute(t, snapshotStream, "decide")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "none")
	require.Contains(t, lines[1], "not_loaded")
	require.Contains(t, lines[2], "/completar-perfil")
	require.Contains(t, lines[3], "/perfil/judge")
}

func TestDecide_CustomPaths(t *testing.T) {
	out, err := execute(t, `{"isLoaded": true}`, "decide", "--login", "/entrar")
	require.NoError(t, err)
	require.Contains(t, out, "/entrar")
}

func TestDecide_InvalidLine(t *testing.T) {
	_, err := execute(t, "{\"isLoaded\": true}\nnot json\n", "decide")
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestDecide_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(snapshotStream), 0o600))

	out, err := execute(t, "", "decide", "--file", path)
	require.NoError(t, err)
	require.Contains(t, out, "/perfil/judge")
}

func TestRun_EndsOnLatestDecision(t *testing.T) {
	out, err := execute(t, snapshotStream, "run")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "navigate replace /perfil/judge", lines[len(lines)-1])
	require.NotContains(t, out, "not_loaded")
}

func TestRun_ResolveTimeoutAtEndOfStream(t *testing.T) {
	out, err := execute(t, `{"isLoaded": false}`, "run", "--resolve-timeout", "10ms")
	require.NoError(t, err)
	require.Equal(t, "navigate replace /login?error=identity+unavailable\n", out)

	out, err = execute(t, `{"isLoaded": false}`, "run")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestRun_InvalidPaths(t *testing.T) {
	_, err := execute(t, snapshotStream, "run", "--profile-setup", "completar")
	require.Error(t, err)
}

func TestTable(t *testing.T) {
	out, err := execute(t, "", "table")
	require.NoError(t, err)
	require.Contains(t, out, "spectator (default)")
	require.Contains(t, out, "/marketing")
}
