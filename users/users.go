package users

import (
	"time"

	"github.com/jrsteele09/go-event-portal/routing"
)

// User is a portal member's profile as held by the hosted database.
// Metadata is the unstructured bag the identity provider exposes to the router.
type User struct {
	ID        string         `json:"id"`                 // Subject from the identity provider
	Email     string         `json:"email,omitempty"`    // User's email address
	Name      string         `json:"name,omitempty"`     // Display name
	Metadata  map[string]any `json:"metadata,omitempty"` // role, profileComplete and profile details
	CreatedAt time.Time      `json:"created_at,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`
}

// Profile returns the routing view of the user's metadata
func (u *User) Profile() routing.Profile {
	return routing.ParseProfile(u.Metadata)
}

// Record converts the user into the record the router evaluates
func (u *User) Record() *routing.UserRecord {
	metadata := make(map[string]any, len(u.Metadata))
	for k, v := range u.Metadata {
		metadata[k] = v
	}
	return &routing.UserRecord{ID: u.ID, Metadata: metadata}
}

// Clone returns a deep enough copy that callers can't mutate a stored user
func (u *User) Clone() *User {
	c := *u
	c.Metadata = make(map[string]any, len(u.Metadata))
	for k, v := range u.Metadata {
		c.Metadata[k] = v
	}
	return &c
}
