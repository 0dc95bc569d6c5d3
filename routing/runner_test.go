package routing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/stretchr/testify/require"
)

type navigation struct {
	path string
	opts routing.NavigateOptions
}

type recordingNavigator struct {
	mu    sync.Mutex
	calls []navigation
}

func (n *recordingNavigator) Navigate(_ context.Context, path string, opts routing.NavigateOptions) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, navigation{path: path, opts: opts})
}

func (n *recordingNavigator) paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	paths := make([]string, 0, len(n.calls))
	for _, c := range n.calls {
		paths = append(paths, c.path)
	}
	return paths
}

func TestRunner_Evaluate(t *testing.T) {
	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav)
	ctx := context.Background()

	action := runner.Evaluate(ctx, routing.Snapshot{})
	require.False(t, action.IsNavigate())
	require.Empty(t, nav.paths())

	runner.Evaluate(ctx, routing.Snapshot{Loaded: true})
	require.Equal(t, []string{"/login"}, nav.paths())
	require.True(t, nav.calls[0].opts.Replace)

	runner.Evaluate(ctx, signedIn(map[string]any{"role": "athlete", "profileComplete": true}))
	runner.Evaluate(ctx, signedIn(map[string]any{"role": "athlete", "profileComplete": true}))
	require.Equal(t, []string{"/login", "/perfil/atleta", "/perfil/atleta"}, nav.paths())
}

func TestRunner_EvaluateResolveTimeout(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav,
		routing.WithResolveTimeout(10*time.Second),
		routing.WithClock(clock),
	)
	ctx := context.Background()

	runner.Evaluate(ctx, routing.Snapshot{})
	now = now.Add(5 * time.Second)
	runner.Evaluate(ctx, routing.Snapshot{})
	require.Empty(t, nav.paths())

	now = now.Add(5 * time.Second)
	action := runner.Evaluate(ctx, routing.Snapshot{})
	require.Equal(t, routing.ReasonResolveTimeout, action.Reason)
	require.Equal(t, []string{"/login?error=identity+unavailable"}, nav.paths())

	// Fires once per unloaded stretch
	now = now.Add(time.Minute)
	runner.Evaluate(ctx, routing.Snapshot{})
	require.Len(t, nav.paths(), 1)

	// A loaded snapshot resets the stretch
	runner.Evaluate(ctx, routing.Snapshot{Loaded: true})
	runner.Evaluate(ctx, routing.Snapshot{})
	require.Equal(t, []string{"/login?error=identity+unavailable", "/login"}, nav.paths())
}

func TestRunner_EvaluateWithoutTimeoutWaitsForever(t *testing.T) {
	now := time.Now()
	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav, routing.WithClock(func() time.Time { return now }))

	for i := 0; i < 5; i++ {
		runner.Evaluate(context.Background(), routing.Snapshot{})
		now = now.Add(time.Hour)
	}
	require.Empty(t, nav.paths())
}

func TestRunner_RunCollapsesQueuedSnapshots(t *testing.T) {
	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav)

	snapshots := make(chan routing.Snapshot, 3)
	snapshots <- routing.Snapshot{Loaded: true}
	snapshots <- signedIn(map[string]any{"role": "judge"})
	snapshots <- signedIn(map[string]any{"role": "judge", "profileComplete": true})
	close(snapshots)

	err := runner.Run(context.Background(), snapshots)
	require.NoError(t, err)
	require.Equal(t, []string{"/perfil/judge"}, nav.paths())
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	runner := routing.NewRunner(newTestRouter(t), &recordingNavigator{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, make(chan routing.Snapshot))
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_RunResolveTimeoutWithoutNewSnapshots(t *testing.T) {
	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav, routing.WithResolveTimeout(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan routing.Snapshot, 1)
	go func() { _ = runner.Run(ctx, snapshots) }()
	snapshots <- routing.Snapshot{}

	require.Eventually(t, func() bool {
		return len(nav.paths()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "/login?error=identity+unavailable", nav.paths()[0])
}

func TestRunner_RunResolveTimeoutAfterStreamEnds(t *testing.T) {
	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav, routing.WithResolveTimeout(10*time.Millisecond))

	snapshots := make(chan routing.Snapshot, 1)
	snapshots <- routing.Snapshot{}
	close(snapshots)

	require.NoError(t, runner.Run(context.Background(), snapshots))
	require.Equal(t, []string{"/login?error=identity+unavailable"}, nav.paths())
}

func TestRunner_RunStreamEndsWhileWaitingForTimeout(t *testing.T) {
	runner := routing.NewRunner(newTestRouter(t), &recordingNavigator{}, routing.WithResolveTimeout(time.Hour))

	snapshots := make(chan routing.Snapshot, 1)
	snapshots <- routing.Snapshot{}
	close(snapshots)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, runner.Run(ctx, snapshots), context.DeadlineExceeded)
}

func TestRunner_RunWithoutTimeoutReturnsAtStreamEnd(t *testing.T) {
	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav)

	snapshots := make(chan routing.Snapshot, 1)
	snapshots <- routing.Snapshot{}
	close(snapshots)

	require.NoError(t, runner.Run(context.Background(), snapshots))
	require.Empty(t, nav.paths())
}

func TestRunner_EvaluateWithPendingSince(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	nav := &recordingNavigator{}
	runner := routing.NewRunner(newTestRouter(t), nav,
		routing.WithResolveTimeout(30*time.Second),
		routing.WithPendingSince(now.Add(-time.Minute)),
		routing.WithClock(func() time.Time { return now }),
	)

	action := runner.Evaluate(context.Background(), routing.Snapshot{})
	require.Equal(t, routing.ReasonResolveTimeout, action.Reason)
	require.Len(t, nav.paths(), 1)
}
