package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/config"
	"github.com/mrlokans/lingua/internal/entities"
)

// AuthController handles registration, login and password reset endpoints.
type AuthController struct {
	service     *Service
	guard       *Guard
	rateLimiter *RateLimiter
	production  bool
}

// NewAuthController creates the controller and its login rate limiter.
// Call Stop on shutdown.
func NewAuthController(service *Service, guard *Guard, cfg config.Auth, production bool) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:     service,
		guard:       guard,
		rateLimiter: rateLimiter,
		production:  production,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.POST("/register", ac.Register)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/protected", ac.guard.VerifyToken(), ac.Protected)
	router.POST("/password/forgot", ac.ForgotPassword)
	router.POST("/password/reset", ac.ResetPassword)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// Register creates a local account and returns the insert acknowledgment.
// Self-registered accounts are always regular users; admins are promoted
// through PATCH /user/role/:email or the create-admin command.
func (ac *AuthController) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in.Role = entities.RoleUser

	_, res, err := ac.service.Register(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists),
			errors.Is(err, ErrEmailRequired),
			errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrPasswordTooShort),
			errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.WithError(err).Error("Failed to register user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and sets the token cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ip := c.ClientIP()
	if allowed, retryAfter := ac.rateLimiter.Allow(ip, req.Email); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "too many login attempts",
			"retry_after": retryAfter.String(),
		})
		return
	}

	_, token, err := ac.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidPassword) {
			if locked, _ := ac.rateLimiter.RecordFailure(ip, req.Email); locked {
				log.WithField("ip", ip).Warn("Login locked out after repeated failures")
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
		log.WithError(err).Error("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ac.rateLimiter.RecordSuccess(ip, req.Email)
	SetTokenCookie(c, token, ac.service.tokens.TTL(), ac.production)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout clears the token cookie. It needs no authentication.
func (ac *AuthController) Logout(c *gin.Context) {
	ClearTokenCookie(c, ac.production)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Protected returns the caller's account.
func (ac *AuthController) Protected(c *gin.Context) {
	user, err := ac.service.CurrentUser(c.Request.Context(), GetEmail(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.WithError(err).Error("Failed to load current user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword always answers with the same message whether or not the
// account exists.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	if err := ac.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.WithError(err).Error("Password reset request failed")
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If an account exists for this email, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := ac.service.ResetPassword(c.Request.Context(), req.Token, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, ErrInvalidResetToken),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Password reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// CSRFToken returns the token set by CSRFMiddleware.
func CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrfToken": GetCSRFToken(c)})
}
