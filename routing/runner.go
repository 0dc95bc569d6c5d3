package routing

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ReasonResolveTimeout is used when the identity provider never finished loading.
const ReasonResolveTimeout Reason = "resolve_timeout"

// ResolveTimeoutError is the error message appended to the login path on a resolve timeout.
const ResolveTimeoutError = "identity unavailable"

// NavigateOptions controls how a navigation is performed
type NavigateOptions struct {
	Replace bool
}

// Navigator performs navigations. Implementations are fire and forget.
type Navigator interface {
	Navigate(ctx context.Context, path string, opts NavigateOptions)
}

// NavigatorFunc adapts a function to a Navigator
type NavigatorFunc func(ctx context.Context, path string, opts NavigateOptions)

func (f NavigatorFunc) Navigate(ctx context.Context, path string, opts NavigateOptions) {
	f(ctx, path, opts)
}

// TimeoutAction is the action taken when identity resolution exceeds its deadline.
func (r *Router) TimeoutAction() Action {
	return navigate(r.paths.Login+"?error="+url.QueryEscape(ResolveTimeoutError), ReasonResolveTimeout)
}

type RunnerOption func(*Runner)

// WithPendingSince seeds the start of the current unloaded stretch. Useful when the runner is
// rebuilt per request and the stretch started earlier (e.g. at login).
func WithPendingSince(t time.Time) RunnerOption {
	return func(r *Runner) {
		r.unloadedSince = t
	}
}

// WithResolveTimeout bounds how long the runner waits for an unloaded identity provider.
// Zero waits forever.
func WithResolveTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.resolveTimeout = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// Runner applies router decisions to a Navigator. Evaluations are serialised.
type Runner struct {
	router         *Router
	nav            Navigator
	resolveTimeout time.Duration
	now            func() time.Time

	mu            sync.Mutex
	unloadedSince time.Time
	timedOut      bool
}

func NewRunner(router *Router, nav Navigator, opts ...RunnerOption) *Runner {
	r := &Runner{
		router: router,
		nav:    nav,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Evaluate decides on one snapshot and performs at most one navigation.
func (r *Runner) Evaluate(ctx context.Context, s Snapshot) Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	action := r.router.Decide(s)
	if s.Loaded {
		r.unloadedSince = time.Time{}
		r.timedOut = false
	} else {
		if r.unloadedSince.IsZero() {
			r.unloadedSince = r.now()
		}
		if r.resolveExpiredLocked() {
			action = r.router.TimeoutAction()
			r.timedOut = true
		}
	}

	r.apply(ctx, action)
	return action
}

// Run evaluates snapshots until ctx is done or the channel is closed. Snapshots that queue up
// while a pass is running are collapsed so only the newest is evaluated. If the channel closes
// while a resolve timeout is armed, Run waits for it to fire (or for ctx) before returning.
func (r *Runner) Run(ctx context.Context, snapshots <-chan Snapshot) error {
	var timer *time.Timer
	var timeout <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timeout:
			timeout = nil
			r.checkResolveTimeout(ctx)

		case s, ok := <-snapshots:
			if !ok {
				return r.awaitResolveTimeout(ctx, timeout)
			}
			s, open := latest(snapshots, s)
			r.Evaluate(ctx, s)

			if timer != nil {
				timer.Stop()
				timeout = nil
			}
			if remaining, armed := r.pendingTimeout(); armed {
				timer = time.NewTimer(remaining)
				timeout = timer.C
			}
			if !open {
				return r.awaitResolveTimeout(ctx, timeout)
			}
		}
	}
}

// awaitResolveTimeout lets an armed resolve timeout fire after the stream has ended,
// since a provider that goes quiet while unloaded is the case the timeout is for
func (r *Runner) awaitResolveTimeout(ctx context.Context, timeout <-chan time.Time) error {
	if timeout == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout:
		r.checkResolveTimeout(ctx)
		return nil
	}
}

func latest(snapshots <-chan Snapshot, s Snapshot) (Snapshot, bool) {
	for {
		select {
		case next, ok := <-snapshots:
			if !ok {
				return s, false
			}
			s = next
		default:
			return s, true
		}
	}
}

func (r *Runner) checkResolveTimeout(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unloadedSince.IsZero() || !r.resolveExpiredLocked() {
		return
	}
	r.timedOut = true
	r.apply(ctx, r.router.TimeoutAction())
}

// pendingTimeout returns the time left before the resolve timeout fires, if one is armed.
func (r *Runner) pendingTimeout() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolveTimeout <= 0 || r.unloadedSince.IsZero() || r.timedOut {
		return 0, false
	}
	remaining := r.resolveTimeout - r.now().Sub(r.unloadedSince)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

func (r *Runner) resolveExpiredLocked() bool {
	if r.resolveTimeout <= 0 || r.timedOut {
		return false
	}
	return r.now().Sub(r.unloadedSince) >= r.resolveTimeout
}

func (r *Runner) apply(ctx context.Context, action Action) {
	if !action.IsNavigate() {
		log.Debug().Str("reason", string(action.Reason)).Msg("routing: waiting for identity provider")
		return
	}
	log.Debug().Str("path", action.Path).Str("reason", string(action.Reason)).Msg("routing: navigate")
	r.nav.Navigate(ctx, action.Path, NavigateOptions{Replace: action.Replace})
}
