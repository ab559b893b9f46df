package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingua/internal/auth"
	"github.com/mrlokans/lingua/internal/config"
	"github.com/mrlokans/lingua/internal/database"
	"github.com/mrlokans/lingua/internal/docstore/sqlitestore"
	"github.com/mrlokans/lingua/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "password123"

type testServer struct {
	db         *database.Database
	service    *auth.Service
	tokens     *auth.TokenIssuer
	handler    http.Handler
	adminToken string
	userToken  string
}

type serverOption func(*RouterConfig)

func withCSRF(secret string) serverOption {
	return func(cfg *RouterConfig) { cfg.CSRFSecret = []byte(secret) }
}

func setupTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "http.db"), sqlitestore.Config{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	db := database.New(store)

	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	authCfg := config.Auth{BcryptCost: 4, ResetTTL: 30 * time.Minute}
	service := auth.NewService(db.Users, db.Resets, tokens, authCfg)
	guard := auth.NewGuard(tokens, db.Users)
	controller := auth.NewAuthController(service, guard, authCfg, false)
	t.Cleanup(controller.Stop)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	cfg := RouterConfig{
		Lessons:        db.Lessons,
		Users:          db.Users,
		Tutorials:      db.Tutorials,
		Bookmarks:      db.Bookmarks,
		Health:         db,
		Auth:           controller,
		Guard:          guard,
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         quiet,
		Version:        "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ts := &testServer{db: db, service: service, tokens: tokens, handler: NewRouter(cfg)}
	ts.adminToken = ts.createUser(t, "admin@example.com", entities.RoleAdmin)
	ts.userToken = ts.createUser(t, "user@example.com", entities.RoleUser)
	return ts
}

func (ts *testServer) createUser(t *testing.T, email string, role entities.Role) string {
	t.Helper()
	user, _, err := ts.service.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	token, err := ts.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

// do sends a request with an optional JSON body and bearer token.
func (ts *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, _ := json.Marshal(b)
			reader = bytes.NewReader(payload)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) createLesson(t *testing.T, lesson string) string {
	t.Helper()
	w := ts.do(http.MethodPost, "/lesson", lesson, ts.adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res["insertedId"].(string)
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
