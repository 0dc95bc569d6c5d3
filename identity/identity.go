// Package identity adapts external identity sources (the OIDC provider, the hosted backend's
// access tokens, recorded snapshot streams) into routing snapshots.
package identity

import (
	"github.com/jrsteele09/go-event-portal/routing"
	"golang.org/x/oauth2"
)

// Identity is an authenticated user as asserted by an identity source
type Identity struct {
	Subject  string
	Email    string
	Name     string
	Metadata map[string]any

	// Set for interactive logins only
	Token *oauth2.Token
}

// Snapshot returns a loaded snapshot for the identity. A nil identity is signed out.
// The metadata is copied so callers can layer more keys on top.
func (i *Identity) Snapshot() routing.Snapshot {
	if i == nil {
		return routing.Snapshot{Loaded: true}
	}
	return routing.Snapshot{
		Loaded: true,
		User:   &routing.UserRecord{ID: i.Subject, Metadata: mergeMetadata(i.Metadata)},
	}
}

// mergeMetadata layers the metadata maps in order, later maps win
func mergeMetadata(layers ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
