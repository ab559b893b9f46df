package users

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/docstore/sqlitestore"
	"github.com/mrlokans/lingua/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "users.db"), sqlitestore.Config{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return NewRepository(store.Collection(CollectionName))
}

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	user := &entities.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash"}
	res, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, res.InsertedID, user.ID)
	assert.Equal(t, entities.RoleUser, user.Role)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.Equal(t, entities.RoleUser, byEmail.Role)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", byID.Name)
}

func TestRepository_PasswordHashNotSerialized(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	_, err := repo.Create(ctx, &entities.User{Email: "a@example.com", PasswordHash: "secret-hash"})
	require.NoError(t, err)

	user, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	out, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-hash")
	assert.NotContains(t, string(out), "password")
}

func TestRepository_GetMissing(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByID(ctx, docstore.NewID())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByID(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_SaveIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	existing, res, err := repo.SaveIfAbsent(ctx, entities.User{Name: "Bo", Email: "bo@example.com"})
	require.NoError(t, err)
	assert.Nil(t, existing)
	assert.Equal(t, int64(1), res.UpsertedCount)
	require.NotNil(t, res.UpsertedID)

	saved, err := repo.GetByEmail(ctx, "bo@example.com")
	require.NoError(t, err)
	assert.Equal(t, *res.UpsertedID, saved.ID)
	assert.Equal(t, entities.RoleUser, saved.Role)

	existing, res, err = repo.SaveIfAbsent(ctx, entities.User{Name: "Other", Email: "bo@example.com", Role: entities.RoleAdmin})
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "Bo", existing.Name)
	assert.Equal(t, entities.RoleUser, existing.Role)
	assert.Equal(t, int64(0), res.UpsertedCount)
}

func TestRepository_ListAndUpdateRole(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := repo.Create(ctx, &entities.User{Email: email})
		require.NoError(t, err)
	}

	res, err := repo.UpdateRole(ctx, "b@example.com", entities.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	res, err = repo.UpdateRole(ctx, "missing@example.com", entities.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.MatchedCount)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, entities.RoleUser, all[0].Role)
	assert.Equal(t, entities.RoleAdmin, all[1].Role)
}

func TestRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	_, err := repo.Create(ctx, &entities.User{Email: "a@example.com", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePassword(ctx, "a@example.com", "new"))
	user, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new", user.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing@example.com", "x"), ErrUserNotFound)
}
