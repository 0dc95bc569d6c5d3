package authflowrepo

import "time"

// AuthFlowState is what the portal remembers between sending a user to the identity provider
// and receiving the callback
type AuthFlowState struct {
	CodeVerifier string
	Nonce        string
	ReturnURL    string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	// Take returns the state and removes it, a state can only be used once
	Take(state string) (*AuthFlowState, error)
	// DeleteBefore removes states created before cutoff and returns how many were removed
	DeleteBefore(cutoff time.Time) int
}
