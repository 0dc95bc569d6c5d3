package routing

import (
	"errors"
	"fmt"
)

// Paths are the well-known pages a user is sent to before reaching their landing page.
type Paths struct {
	Login         string
	RoleSelection string
	ProfileSetup  string
}

func (p Paths) validate() error {
	for name, path := range map[string]string{
		"login":          p.Login,
		"role selection": p.RoleSelection,
		"profile setup":  p.ProfileSetup,
	} {
		if path == "" || path[0] != '/' {
			return fmt.Errorf("%s path %q must be an absolute path", name, path)
		}
	}
	return nil
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNavigate
)

// Reason describes which branch of the decision produced an action.
type Reason string

const (
	ReasonNotLoaded         Reason = "not_loaded"
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonRoleMissing       Reason = "role_missing"
	ReasonProfileIncomplete Reason = "profile_incomplete"
	ReasonRoleRoute         Reason = "role_route"
	ReasonRoleDefault       Reason = "role_default"
)

// Action is the outcome of a routing decision.
type Action struct {
	Kind    ActionKind
	Path    string
	Replace bool
	Reason  Reason
}

// IsNavigate reports whether the action requires a navigation.
func (a Action) IsNavigate() bool {
	return a.Kind == ActionNavigate
}

func navigate(path string, reason Reason) Action {
	return Action{Kind: ActionNavigate, Path: path, Replace: true, Reason: reason}
}

// Router decides where a user goes after authenticating. It holds no mutable state.
type Router struct {
	paths Paths
	roles RoleTable
}

// NewRouter validates the configured paths and role table.
func NewRouter(paths Paths, roles RoleTable) (*Router, error) {
	if err := paths.validate(); err != nil {
		return nil, fmt.Errorf("[routing NewRouter] %w", err)
	}
	if roles == nil {
		return nil, errors.New("[routing NewRouter] role table is required")
	}
	if err := roles.Validate(); err != nil {
		return nil, fmt.Errorf("[routing NewRouter] %w", err)
	}

	// Copy so later changes to the caller's map can't leak in
	table := make(RoleTable, len(roles))
	for role, path := range roles {
		table[role] = path
	}
	return &Router{paths: paths, roles: table}, nil
}

func (r *Router) Paths() Paths {
	return r.paths
}

func (r *Router) Roles() RoleTable {
	return r.roles
}

// Decide computes the single action for a snapshot. First matching rule wins:
// not loaded, no user, no role, incomplete profile, then the role table.
func (r *Router) Decide(s Snapshot) Action {
	if !s.Loaded {
		return Action{Kind: ActionNone, Reason: ReasonNotLoaded}
	}
	if s.User == nil {
		return navigate(r.paths.Login, ReasonUnauthenticated)
	}

	profile := ParseProfile(s.User.Metadata)
	if !profile.HasRole() {
		return navigate(r.paths.RoleSelection, ReasonRoleMissing)
	}
	if !profile.ProfileComplete {
		return navigate(r.paths.ProfileSetup, ReasonProfileIncomplete)
	}

	path, found := r.roles.Lookup(profile.Role)
	if !found {
		return navigate(path, ReasonRoleDefault)
	}
	return navigate(path, ReasonRoleRoute)
}
