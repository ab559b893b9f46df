package auth

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingua/internal/config"
	"github.com/mrlokans/lingua/internal/database/resets"
	"github.com/mrlokans/lingua/internal/database/users"
	"github.com/mrlokans/lingua/internal/docstore/sqlitestore"
	"github.com/mrlokans/lingua/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "password123"

type fakeNotifier struct {
	mu     sync.Mutex
	emails []string
	tokens []string
}

func (f *fakeNotifier) SendPasswordReset(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, email)
	f.tokens = append(f.tokens, token)
	return nil
}

type testEnv struct {
	users    *users.Repository
	resets   *resets.Repository
	tokens   *TokenIssuer
	service  *Service
	guard    *Guard
	notifier *fakeNotifier
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "auth.db"), sqlitestore.Config{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	userRepo := users.NewRepository(store.Collection(users.CollectionName))
	resetRepo := resets.NewRepository(store.Collection(resets.CollectionName))
	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	cfg := config.Auth{
		BcryptCost: 4, // Low cost for faster tests
		ResetTTL:   30 * time.Minute,
	}
	service := NewService(userRepo, resetRepo, tokens, cfg)
	notifier := &fakeNotifier{}
	service.SetResetNotifier(notifier)

	return &testEnv{
		users:    userRepo,
		resets:   resetRepo,
		tokens:   tokens,
		service:  service,
		guard:    NewGuard(tokens, userRepo),
		notifier: notifier,
	}
}

func (e *testEnv) createUser(t *testing.T, email string, role entities.Role) *entities.User {
	t.Helper()
	user, _, err := e.service.Register(context.Background(), RegisterInput{
		Name:     "Test",
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user *entities.User) string {
	t.Helper()
	token, err := e.tokens.Issue(user)
	require.NoError(t, err)
	return token
}
