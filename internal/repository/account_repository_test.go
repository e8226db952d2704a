package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/kino/internal/database/dbtest"
	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/utils"
)

func TestUserRepo_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(dbtest.Open(t))

	id, err := repo.Create(ctx, "neo", " Neo@Example.com ", "secret123", model.RoleUser, 4)
	require.NoError(t, err)

	byEmail, err := repo.GetByLogin(ctx, "neo@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.True(t, utils.VerifyPassword(byEmail.PasswordHash, "secret123"))

	byName, err := repo.GetByLogin(ctx, "neo")
	require.NoError(t, err)
	assert.Equal(t, "neo@example.com", byName.Email)

	_, err = repo.Create(ctx, "neo", "other@example.com", "secret123", model.RoleUser, 4)
	assert.ErrorIs(t, err, ErrUsernameExists)
	_, err = repo.Create(ctx, "trinity", "neo@example.com", "secret123", model.RoleUser, 4)
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, repo.SetRole(ctx, id, model.RoleStaff))
	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, u.Role)
}

func TestTokenRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	user := dbtest.NewSeeder(t, db).User("neo", model.RoleUser)
	repo := NewTokenRepo(db)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.StoreRefresh(ctx, user, "h1", now.Add(time.Hour), now))
	got, err := repo.ValidateRefresh(ctx, "h1", now)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = repo.ValidateRefresh(ctx, "h1", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	require.NoError(t, repo.RevokeByHash(ctx, "h1", now))
	_, err = repo.ValidateRefresh(ctx, "h1", now)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = repo.ValidateRefresh(ctx, "unknown", now)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestFavoriteRepo_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	user := seed.User("neo", model.RoleUser)
	movie := seed.Movie("The Matrix", "", "")
	repo := NewFavoriteRepo(db)

	first, created, err := repo.Add(ctx, user, movie, time.Now())
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.Add(ctx, user, movie, time.Now())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = repo.Add(ctx, user, 999, time.Now())
	assert.ErrorIs(t, err, ErrMovieNotFound)

	list, err := repo.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "The Matrix", list[0].Movie.Title)

	require.NoError(t, repo.Remove(ctx, user, movie))
	assert.ErrorIs(t, repo.Remove(ctx, user, movie), ErrFavoriteNotFound)
}
