package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lingua/internal/entities"
)

func guardedRouter(env *testEnv) *gin.Engine {
	router := gin.New()
	router.GET("/me", env.guard.VerifyToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": GetEmail(c), "id": GetUserID(c)})
	})
	router.GET("/admin", env.guard.VerifyToken(), env.guard.VerifyAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestVerifyToken(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "ann@example.com", "")
	token := env.tokenFor(t, user)
	router := guardedRouter(env)

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
	}{
		{
			name:     "no credentials",
			setup:    func(r *http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
			},
			wantCode: http.StatusOK,
		},
		{
			name: "bearer header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "tampered token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token + "x"})
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "stale cookie with valid bearer header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token + "x"})
				r.Header.Set("Authorization", "Bearer "+token)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "stale cookie with stale bearer header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "garbage"})
				r.Header.Set("Authorization", "Bearer garbage")
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "ann@example.com", body["email"])
				assert.Equal(t, user.ID, body["id"])
			} else {
				assert.Equal(t, "unauthorized access", body["error"])
			}
		})
	}
}

func TestVerifyAdmin(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "admin@example.com", entities.RoleAdmin)
	regular := env.createUser(t, "user@example.com", entities.RoleUser)
	ghost := &entities.User{ID: "507f1f77bcf86cd799439011", Email: "ghost@example.com"}
	router := guardedRouter(env)

	tests := []struct {
		name     string
		user     *entities.User
		wantCode int
	}{
		{"admin passes", admin, http.StatusOK},
		{"regular user forbidden", regular, http.StatusForbidden},
		{"deleted account forbidden", ghost, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, tt.user))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"forbidden access"}`, rr.Body.String())
			}
		})
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
