package users_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/jrsteele09/go-event-portal/users"
	fakeuserrepo "github.com/jrsteele09/go-event-portal/users/repofake"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

func setupRepo(t *testing.T) *fakeuserrepo.FakeUserRepo {
	t.Helper()
	repo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, repo.Upsert(context.Background(), &users.User{ID: testUserID, Email: "ana@example.com"}))
	return repo
}

func TestSelectRole(t *testing.T) {
	ctx := context.Background()

	t.Run("selectable role", func(t *testing.T) {
		repo := setupRepo(t)
		user, err := users.SelectRole(ctx, repo, testUserID, routing.RoleJudge)
		require.NoError(t, err)
		require.Equal(t, routing.RoleJudge, user.Profile().Role)
	})

	t.Run("staff role rejected", func(t *testing.T) {
		repo := setupRepo(t)
		_, err := users.SelectRole(ctx, repo, testUserID, routing.RoleAdmin)
		require.ErrorIs(t, err, errors.ErrInvalidRole)

		user, err := repo.Get(ctx, testUserID)
		require.NoError(t, err)
		require.False(t, user.Profile().HasRole())
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := setupRepo(t)
		_, err := users.SelectRole(ctx, repo, "nobody", routing.RoleMedia)
		require.ErrorIs(t, err, errors.ErrUserNotFound)
	})
}

func TestCompleteProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("valid details", func(t *testing.T) {
		repo := setupRepo(t)
		_, err := users.SelectRole(ctx, repo, testUserID, routing.RoleAthlete)
		require.NoError(t, err)

		user, err := users.CompleteProfile(ctx, repo, testUserID, users.ProfileDetails{
			FullName: "Ana Souza",
			Phone:    "+5581999990000",
			City:     "Recife",
		})
		require.NoError(t, err)
		require.True(t, user.Profile().ProfileComplete)
		require.Equal(t, routing.RoleAthlete, user.Profile().Role)
		require.Equal(t, "+5581999990000", user.Metadata["phone"])
		require.NotContains(t, user.Metadata, "team")
	})

	t.Run("missing name", func(t *testing.T) {
		repo := setupRepo(t)
		_, err := users.CompleteProfile(ctx, repo, testUserID, users.ProfileDetails{City: "Recife"})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		require.Contains(t, err.Error(), "fullname")
	})

	t.Run("bad phone", func(t *testing.T) {
		repo := setupRepo(t)
		_, err := users.CompleteProfile(ctx, repo, testUserID, users.ProfileDetails{FullName: "Ana", City: "Recife", Phone: "123"})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		require.Contains(t, err.Error(), "e164")

		var fieldErr *users.FieldError
		require.ErrorAs(t, err, &fieldErr)
		require.Equal(t, "Phone", fieldErr.Field)
		require.Equal(t, "e164", fieldErr.Tag)
	})
}

func TestFakeUserRepo_GetReturnsCopy(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	user, err := repo.Get(ctx, testUserID)
	require.NoError(t, err)
	user.Metadata["role"] = "admin"

	stored, err := repo.Get(ctx, testUserID)
	require.NoError(t, err)
	require.NotContains(t, stored.Metadata, "role")
}
