package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/samber/lo"

	"github.com/mrlokans/lingua/internal/auth"
	"github.com/mrlokans/lingua/internal/logging"
)

// NewRouter builds the gin engine with every route and wraps it in the CORS
// handler.
func NewRouter(cfg RouterConfig) http.Handler {
	router := gin.New()
	// Match on the escaped path so %2F inside a pronunciation stays in one
	// segment, then hand handlers the decoded value.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Recovery())
	router.Use(logging.RequestID())
	router.Use(logging.RequestLogger(cfg.Logger))
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.Production {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.Production, trustedHosts(cfg.AllowedOrigins), cfg.Tokens))
		router.GET("/csrf-token", auth.CSRFToken)
	}

	health := NewHealthController(cfg.Health, cfg.Version)
	if cfg.TaskQueue != nil {
		health.WithDependency("tasks", cfg.TaskQueue)
	}
	router.GET("/", health.Greeting)
	router.GET("/health", health.Status)

	cfg.Auth.RegisterRoutes(router)

	requireToken := cfg.Guard.VerifyToken()
	requireAdmin := []gin.HandlerFunc{requireToken, cfg.Guard.VerifyAdmin()}

	lessons := NewLessonsController(cfg.Lessons)
	router.GET("/lessons", requireToken, lessons.ListLessons)
	router.POST("/lesson", append(requireAdmin, lessons.CreateLesson)...)
	router.GET("/lesson/:id", lessons.GetLesson)
	router.DELETE("/lesson/delete/:id", append(requireAdmin, lessons.DeleteLesson)...)
	router.PATCH("/lesson/vocab/:id", append(requireAdmin, lessons.AppendVocabulary)...)
	router.GET("/vocab/:id/:pronunciation", lessons.GetVocabulary)
	router.PATCH("/vocab/update/:id/:pronunciation", append(requireAdmin, lessons.UpdateVocabulary)...)
	router.DELETE("/vocab/delete/:id/:pronunciation", append(requireAdmin, lessons.DeleteVocabulary)...)

	users := NewUsersController(cfg.Users)
	router.PUT("/user", users.SaveUser)
	router.GET("/users", append(requireAdmin, users.ListUsers)...)
	router.GET("/user/:email", requireToken, users.GetUser)
	router.PATCH("/user/role/:email", append(requireAdmin, users.UpdateRole)...)

	tutorials := NewTutorialsController(cfg.Tutorials)
	router.GET("/tutorials", tutorials.ListTutorials)
	router.POST("/tutorial", append(requireAdmin, tutorials.CreateTutorial)...)

	bookmarks := NewBookmarksController(cfg.Bookmarks, cfg.Lessons)
	router.GET("/bookmarks", requireToken, bookmarks.ListBookmarks)
	router.POST("/bookmark", requireToken, bookmarks.CreateBookmark)
	router.DELETE("/bookmark/:id", requireToken, bookmarks.DeleteBookmark)

	return newCORS(cfg.AllowedOrigins).Handler(router)
}

func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", auth.CSRFTokenHeader, logging.RequestIDHeader},
		ExposedHeaders: []string{logging.RequestIDHeader},
	})
}

// trustedHosts converts CORS origins to the host form CSRF origin checks use.
func trustedHosts(origins []string) []string {
	return lo.FilterMap(origins, func(origin string, _ int) (string, bool) {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return "", false
		}
		return u.Host, true
	})
}
