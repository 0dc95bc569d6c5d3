package users

import "context"

type Repo interface {
	Get(ctx context.Context, id string) (*User, error)
	Upsert(ctx context.Context, user *User) error
	// MergeMetadata sets the given keys on the user's metadata, leaving other keys untouched
	MergeMetadata(ctx context.Context, id string, patch map[string]any) (*User, error)
}
