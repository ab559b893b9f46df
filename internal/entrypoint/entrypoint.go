package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/auth"
	"github.com/mrlokans/lingua/internal/config"
	"github.com/mrlokans/lingua/internal/database"
	http_controllers "github.com/mrlokans/lingua/internal/http"
	"github.com/mrlokans/lingua/internal/logging"
	"github.com/mrlokans/lingua/internal/mailer"
	"github.com/mrlokans/lingua/internal/scheduler"
	"github.com/mrlokans/lingua/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds everything the server needs, wired from a Config.
type App struct {
	Handler http.Handler
	DB      *database.Database
	Auth    *auth.Service

	authController *auth.AuthController
	taskClient     *tasks.Client
	taskCtxCancel  context.CancelFunc
	purgeScheduler *scheduler.ResetPurgeScheduler
}

// OpenDatabase opens the store selected by cfg.Store.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*database.Database, error) {
	return database.NewDatabase(ctx, database.Config{
		Driver:        cfg.Store.Driver,
		Path:          cfg.Store.Path,
		MongoURI:      cfg.Store.MongoURI,
		MongoDatabase: cfg.Store.MongoDatabase,
		Verbose:       cfg.Log.Level == "debug" || cfg.Log.Level == "trace",
	})
}

// NewAuthService builds the account service on db without a reset notifier.
func NewAuthService(db *database.Database, cfg *config.Config) (*auth.Service, *auth.TokenIssuer, error) {
	tokens, err := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewService(db.Users, db.Resets, tokens, cfg.Auth), tokens, nil
}

// NewApp opens the database and wires auth, mail, background tasks and the
// HTTP router. Call Shutdown to release everything it started.
func NewApp(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	db, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app := &App{DB: db}

	if err := app.wire(ctx, cfg, version); err != nil {
		app.Shutdown(ctx)
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context, cfg *config.Config, version string) error {
	service, tokens, err := NewAuthService(a.DB, cfg)
	if err != nil {
		return err
	}
	a.Auth = service

	mail, err := mailer.NewFromConfig(cfg.Mail, cfg.Auth.ResetTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	if cfg.Tasks.Enabled {
		a.taskClient, err = tasks.NewClient(cfg.Store.Path, tasks.FromSettings(cfg.Tasks))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		a.taskClient.Register(
			tasks.NewSendPasswordResetEmailQueue(mail),
			tasks.NewPurgeExpiredResetsQueue(a.DB.Resets),
		)

		var taskCtx context.Context
		taskCtx, a.taskCtxCancel = context.WithCancel(context.Background())
		a.taskClient.Start(taskCtx)
		service.SetResetNotifier(tasks.NewResetDispatcher(a.taskClient))

		a.purgeScheduler = scheduler.NewResetPurgeScheduler(a.taskClient, cfg.Scheduler)
		if err := a.purgeScheduler.Start(ctx); err != nil {
			return err
		}
	} else {
		log.Info("Task queue disabled, reset emails are sent inline")
		service.SetResetNotifier(mail)
	}

	production := cfg.Global.IsProduction()
	guard := auth.NewGuard(tokens, a.DB.Users)
	a.authController = auth.NewAuthController(service, guard, cfg.Auth, production)

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		csrfSecret, err = loadCSRFSecret(cfg.Auth.CSRFSecret)
		if err != nil {
			return err
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Lessons:        a.DB.Lessons,
		Users:          a.DB.Users,
		Tutorials:      a.DB.Tutorials,
		Bookmarks:      a.DB.Bookmarks,
		Health:         a.DB,
		Auth:           a.authController,
		Guard:          guard,
		CSRFSecret:     csrfSecret,
		Tokens:         tokens,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Production:     production,
		Logger:         log.StandardLogger(),
		Version:        version,
	}
	if a.taskClient != nil {
		routerCfg.TaskQueue = a.taskClient
	}
	a.Handler = http_controllers.NewRouter(routerCfg)
	return nil
}

// loadCSRFSecret accepts a hex encoded or raw secret and generates one
// when empty.
func loadCSRFSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}
	generated, err := auth.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	log.Info("Generated CSRF secret (set AUTH_CSRF_SECRET to persist)")
	return hex.DecodeString(generated)
}

// Shutdown stops background work before closing the store.
func (a *App) Shutdown(ctx context.Context) {
	if a.purgeScheduler != nil {
		a.purgeScheduler.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
		if a.taskCtxCancel != nil {
			a.taskCtxCancel()
		}
		if err := a.taskClient.Close(); err != nil {
			log.WithError(err).Error("Error closing task client")
		}
	}
	if a.authController != nil {
		a.authController.Stop()
	}
	if err := a.DB.Close(ctx); err != nil {
		log.WithError(err).Error("Error closing database")
	}
}

// Serve runs handler until ctx is cancelled, then shuts the server down
// within the configured timeout. onShutdown runs after the listener stops
// accepting requests.
func Serve(ctx context.Context, handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			if onShutdown != nil {
				onShutdown(context.Background())
			}
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.WithField("timeout", timeout).Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}
	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// Run builds the app from cfg and serves it until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	if err := logging.Configure(cfg.Log); err != nil {
		return err
	}
	log.WithField("version", version).Info("Starting Lingua")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, version)
	if err != nil {
		return err
	}
	return Serve(ctx, app.Handler, cfg, app.Shutdown)
}
