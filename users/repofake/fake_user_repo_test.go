package fakeuserrepo_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/users"
	fakeuserrepo "github.com/jrsteele09/citizen-watch/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Email: "Jane@Example.com", Username: "jane", Role: users.RoleCitizen, DateJoined: time.Now()}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// returned values are copies
	got.Username = "changed"
	again, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "jane", again.Username)

	err = repo.Upsert(&users.User{Email: "jane@example.com"})
	require.ErrorIs(t, err, errors.ErrUserExists)

	_, err = repo.GetByID("missing")
	require.ErrorIs(t, err, errors.ErrUserNotFound)

	list, err := repo.List(0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = repo.List(5, 10)
	require.NoError(t, err)
	require.Empty(t, list)
}
