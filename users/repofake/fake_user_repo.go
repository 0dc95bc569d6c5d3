package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory profile store used in development and tests
type FakeUserRepo struct {
	users map[string]*users.User
	lock  sync.RWMutex
	now   func() time.Time
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users: make(map[string]*users.User),
		now:   time.Now,
	}
}

func (ur *FakeUserRepo) Get(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (ur *FakeUserRepo) Upsert(_ context.Context, user *users.User) error {
	if user.ID == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "user id is required")
	}
	ur.lock.Lock()
	defer ur.lock.Unlock()

	stored := user.Clone()
	now := ur.now()
	if existing, ok := ur.users[user.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
		if user.Metadata == nil {
			stored.Metadata = existing.Metadata
		}
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	ur.users[user.ID] = stored
	return nil
}

func (ur *FakeUserRepo) MergeMetadata(_ context.Context, id string, patch map[string]any) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	if user.Metadata == nil {
		user.Metadata = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		user.Metadata[k] = v
	}
	user.UpdatedAt = ur.now()
	return user.Clone(), nil
}
