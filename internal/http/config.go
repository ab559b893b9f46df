package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Stores
	Lessons   LessonStore
	Users     UserStore
	Tutorials TutorialStore
	Bookmarks BookmarkStore
	Health    Pinger

	// TaskQueue is reported by /health when set.
	TaskQueue Pinger

	// Authentication
	Auth  *auth.AuthController
	Guard *auth.Guard

	// CSRFSecret enables CSRF protection when non-empty. Tokens lets
	// bearer-authenticated requests skip the check.
	CSRFSecret []byte
	Tokens     *auth.TokenIssuer

	// AllowedOrigins is the CORS allow-list. It also seeds the CSRF
	// trusted origins.
	AllowedOrigins []string

	// Production enables HSTS and Secure CSRF cookies.
	Production bool

	Logger  *logrus.Logger
	Version string
}
