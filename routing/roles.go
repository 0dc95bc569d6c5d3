package routing

import "fmt"

// RoleType identifies what kind of participant a user signed up as
type RoleType string

const (
	RoleAthlete   RoleType = "athlete"
	RoleJudge     RoleType = "judge"
	RoleMedia     RoleType = "media"
	RoleSpectator RoleType = "spectator"
	RoleAdmin     RoleType = "admin"
	RoleDev       RoleType = "dev"
	RoleMarketing RoleType = "marketing"
)

// DefaultRole is used whenever a role has no entry in the table.
const DefaultRole = RoleSpectator

// SelectableRoles are the roles a user may pick for themselves on the role selection page.
// Staff roles (admin, dev, marketing) are assigned out of band.
var SelectableRoles = []RoleType{RoleAthlete, RoleJudge, RoleMedia, RoleSpectator}

// IsSelectable reports whether a user may choose the role themselves.
func IsSelectable(role RoleType) bool {
	for _, r := range SelectableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleTable maps roles to their landing page.
type RoleTable map[RoleType]string

// DefaultRoleTable returns the portal's fixed role to landing page mapping.
func DefaultRoleTable() RoleTable {
	return RoleTable{
		RoleAthlete:   "/perfil/atleta",
		RoleJudge:     "/perfil/judge",
		RoleMedia:     "/perfil/midia",
		RoleSpectator: "/perfil/espectador",
		RoleAdmin:     "/admin",
		RoleDev:       "/dev",
		RoleMarketing: "/marketing",
	}
}

// Validate checks the table has a destination for the default role.
func (t RoleTable) Validate() error {
	if t[DefaultRole] == "" {
		return fmt.Errorf("role table has no destination for default role %q", DefaultRole)
	}
	for role, path := range t {
		if role == "" || path == "" || path[0] != '/' {
			return fmt.Errorf("invalid role table entry %q -> %q", role, path)
		}
	}
	return nil
}

// Lookup returns the destination for role and whether the role was found.
// Unknown roles get the default role's destination.
func (t RoleTable) Lookup(role RoleType) (string, bool) {
	if path, ok := t[role]; ok {
		return path, true
	}
	return t[DefaultRole], false
}

// Destinations returns every distinct landing page in the table.
func (t RoleTable) Destinations() []string {
	seen := make(map[string]struct{}, len(t))
	paths := make([]string, 0, len(t))
	for _, path := range t {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}
