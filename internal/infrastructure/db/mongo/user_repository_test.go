package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf/books-api/internal/core/domain"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	repo := &UserRepository{store: newMemoryStore()}
	ctx := context.Background()

	inserted, err := repo.InsertIfAbsent(ctx, &domain.User{
		Email:        "admin@test.com",
		PasswordHash: "hash",
		IsActive:     true,
		Roles:        []domain.Role{{Name: domain.RoleAdmin, Permissions: []string{domain.PermBookRead}}},
	})
	require.NoError(t, err)
	require.True(t, inserted)

	u, err := repo.GetByEmail(ctx, "admin@test.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.True(t, u.IsActive)
	assert.Equal(t, []string{domain.RoleAdmin}, u.RoleNames())

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	_, err = repo.GetByEmail(ctx, "ADMIN@test.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound, "email lookup is exact")

	_, err = repo.GetByEmail(ctx, "nobody@test.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_InsertIfAbsent_SkipsExisting(t *testing.T) {
	store := newMemoryStore()
	repo := &UserRepository{store: store}
	ctx := context.Background()

	u := &domain.User{Email: "editor@test.com", PasswordHash: "h", IsActive: true}
	ok, err := repo.InsertIfAbsent(ctx, u)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.InsertIfAbsent(ctx, &domain.User{Email: "editor@test.com", PasswordHash: "other"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, store.docs, 1)
}

func TestUserRepository_EnsureIndexes(t *testing.T) {
	store := newMemoryStore()
	repo := &UserRepository{store: store}

	require.NoError(t, repo.EnsureIndexes(context.Background()))
	require.Len(t, store.indexes, 1)
	require.NotNil(t, store.indexes[0].Options)
	require.NotNil(t, store.indexes[0].Options.Unique)
	assert.True(t, *store.indexes[0].Options.Unique)
}
