package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/entities"
)

// Context keys for the authenticated caller
const (
	ContextKeyEmail  = "auth_email"
	ContextKeyUserID = "auth_user_id"
)

// UserLookup resolves the caller's account for the admin check.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// Guard verifies tokens and roles before a handler runs.
type Guard struct {
	tokens *TokenIssuer
	users  UserLookup
}

func NewGuard(tokens *TokenIssuer, users UserLookup) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// VerifyToken rejects requests without a valid token with 401 and stores
// the token's email and user id in the context otherwise.
func (g *Guard) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.claimsFromRequest(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// VerifyAdmin must run after VerifyToken. It looks the caller up once and
// rejects anyone whose role is not admin with 403.
func (g *Guard) VerifyAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := GetEmail(c)
		if email == "" {
			abortUnauthorized(c)
			return
		}

		user, err := g.users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				abortForbidden(c)
				return
			}
			log.WithError(err).WithField("email", email).Error("Failed to load user for admin check")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !user.IsAdmin() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// GetEmail returns the authenticated email, or "" outside VerifyToken.
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// GetUserID returns the authenticated user id, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// claimsFromRequest tries the cookie first and falls back to a Bearer
// header when the cookie is missing or no longer parses.
func (g *Guard) claimsFromRequest(c *gin.Context) (*Claims, bool) {
	for _, token := range []string{cookieToken(c), bearerToken(c)} {
		if token == "" {
			continue
		}
		if claims, err := g.tokens.Parse(token); err == nil {
			return claims, true
		}
	}
	return nil, false
}

func cookieToken(c *gin.Context) string {
	token, err := c.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return token
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("bearer "):])
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
}
