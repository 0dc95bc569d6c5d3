package loginsession

import (
	"context"
	"time"
)

type Session struct {
	// Core identity
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`

	// Tokens from the identity provider
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`

	// Loaded is set once the user's profile has been resolved from the profile store
	Loaded bool `json:"loaded"`

	// Session management
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given time
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Repo interface {
	Upsert(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	// MarkLoaded flags the session's profile as resolved
	MarkLoaded(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
}
