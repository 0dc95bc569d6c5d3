package routing

import "strings"

// Recognised metadata keys
const (
	MetadataKeyRole            = "role"
	MetadataKeyProfileComplete = "profileComplete"
)

// Snapshot is the identity provider's view of the current session at a point in time.
type Snapshot struct {
	Loaded bool        `json:"isLoaded"`
	User   *UserRecord `json:"user,omitempty"`
}

// UserRecord is present iff the session is authenticated
type UserRecord struct {
	ID       string         `json:"id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Profile is the typed view of the metadata bag the router cares about.
type Profile struct {
	Role            RoleType
	ProfileComplete bool
}

// HasRole reports whether a non-empty role was set.
func (p Profile) HasRole() bool {
	return p.Role != ""
}

// ParseProfile reads the recognised keys out of an unstructured metadata map.
// Values of the wrong type are treated as absent. The one coercion is profileComplete,
// where the string "true" counts as true. Roles are trimmed but otherwise taken as is.
func ParseProfile(metadata map[string]any) Profile {
	var p Profile
	if role, ok := metadata[MetadataKeyRole].(string); ok {
		p.Role = RoleType(strings.TrimSpace(role))
	}
	switch v := metadata[MetadataKeyProfileComplete].(type) {
	case bool:
		p.ProfileComplete = v
	case string:
		p.ProfileComplete = v == "true"
	}
	return p
}
