package resets

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingua/internal/docstore/sqlitestore"
	"github.com/mrlokans/lingua/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "resets.db"), sqlitestore.Config{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return NewRepository(store.Collection(CollectionName))
}

func TestRepository_CreateFindDelete(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	reset := &entities.PasswordReset{Email: "a@example.com", TokenHash: "abc", ExpiresAt: expires}
	require.NoError(t, repo.Create(ctx, reset))
	require.NotEmpty(t, reset.ID)

	found, err := repo.FindByTokenHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", found.Email)
	assert.True(t, expires.Equal(found.ExpiresAt))

	require.NoError(t, repo.Delete(ctx, reset.ID))
	_, err = repo.FindByTokenHash(ctx, "abc")
	assert.ErrorIs(t, err, ErrResetNotFound)
}

func TestRepository_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &entities.PasswordReset{Email: "old@example.com", TokenHash: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &entities.PasswordReset{Email: "new@example.com", TokenHash: "new", ExpiresAt: now.Add(time.Hour)}))

	purged, err := repo.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = repo.FindByTokenHash(ctx, "old")
	assert.ErrorIs(t, err, ErrResetNotFound)
	_, err = repo.FindByTokenHash(ctx, "new")
	assert.NoError(t, err)
}
