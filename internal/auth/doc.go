// Package auth provides authentication and authorization for the API.
//
// Clients authenticate with a JWT issued on login. The token travels in the
// HttpOnly "token" cookie (browser clients) or an "Authorization: Bearer"
// header (scripts and tests).
//
// # Configuration
//
//	AUTH_TOKEN_SECRET=<random string>  # HS256 signing key, auto-generated if empty
//	AUTH_TOKEN_TTL=1h                  # JWT lifetime
//	AUTH_BCRYPT_COST=10                # bcrypt cost factor
//	AUTH_RESET_TTL=30m                 # Password reset token lifetime
//	AUTH_CSRF_ENABLED=false            # gorilla/csrf protection for cookie clients
//
// An auto-generated secret invalidates every issued token on restart.
//
// # Usage
//
//	tokens, _ := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
//	guard := auth.NewGuard(tokens, db.Users)
//	router.GET("/users", guard.VerifyToken(), guard.VerifyAdmin(), handler)
//
// Extract the caller in handlers:
//
//	email := auth.GetEmail(c)
package auth
