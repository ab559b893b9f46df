package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const TokenCookieName = "token"

// SetTokenCookie writes the HttpOnly token cookie. In production the
// frontend lives on another site, so the cookie must be Secure with
// SameSite=None; otherwise it is SameSite=Strict.
func SetTokenCookie(c *gin.Context, token string, ttl time.Duration, production bool) {
	c.SetSameSite(sameSite(production))
	c.SetCookie(TokenCookieName, token, int(ttl.Seconds()), "/", "", production, true)
}

// ClearTokenCookie expires the token cookie with the same flags it was set with.
func ClearTokenCookie(c *gin.Context, production bool) {
	c.SetSameSite(sameSite(production))
	c.SetCookie(TokenCookieName, "", -1, "/", "", production, true)
}

func sameSite(production bool) http.SameSite {
	if production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}
