package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const EnvProduction = "production"

type (
	Config struct {
		HTTP
		Global
		Log
		Store
		Auth
		CORS
		Mail
		Tasks
		Scheduler
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		Env                      string // APP_ENV, "production" switches cookies to Secure + SameSite=None
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level  string
		Format string // "json" or "text"
	}
	Store struct {
		Driver        string // "sqlite" or "mongo"
		Path          string
		MongoURI      string
		MongoDatabase string
	}
	Auth struct {
		TokenSecret string
		TokenTTL    time.Duration
		BcryptCost  int
		ResetTTL    time.Duration

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)

		CSRFEnabled bool
		CSRFSecret  string
	}
	CORS struct {
		AllowedOrigins []string
	}
	Mail struct {
		SMTPHost     string // Empty logs emails instead of sending them
		SMTPPort     int
		SMTPUsername string
		SMTPPassword string
		From         string
		FrontendURL  string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Scheduler struct {
		ResetPurgeEnabled  bool
		ResetPurgeSchedule string // Cron format: "0 * * * *" = hourly
	}
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"https://vocab-app-1e62c.web.app",
	"https://vocab-app-1e62c.firebaseapp.com",
}

// IsProduction reports whether APP_ENV is "production".
func (g Global) IsProduction() bool {
	return g.Env == EnvProduction
}

// Load reads the given dotenv files (".env" when none given) into the process
// environment and then builds the config. Missing files are ignored and
// variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return NewConfig(), nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("store_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("mongodb_uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb_database", DefaultMongoDatabase)

	// Auth defaults
	v.SetDefault("auth_token_secret", "") // Auto-generated if empty
	v.SetDefault("auth_token_ttl", "1h")
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_reset_ttl", "30m")
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")
	v.SetDefault("auth_csrf_enabled", false)
	v.SetDefault("auth_csrf_secret", "")

	v.SetDefault("cors_allowed_origins", strings.Join(defaultAllowedOrigins, ","))

	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_username", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("mail_from", "Lingua <no-reply@lingua.local>")
	v.SetDefault("frontend_url", "http://localhost:5173")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("reset_purge_enabled", true)
	v.SetDefault("reset_purge_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			Env:                      v.GetString("APP_ENV"),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Store: Store{
			Driver:        v.GetString("STORE_DRIVER"),
			Path:          v.GetString("DATABASE_PATH"),
			MongoURI:      v.GetString("MONGODB_URI"),
			MongoDatabase: v.GetString("MONGODB_DATABASE"),
		},
		Auth: Auth{
			TokenSecret:      v.GetString("AUTH_TOKEN_SECRET"),
			TokenTTL:         v.GetDuration("AUTH_TOKEN_TTL"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			ResetTTL:         v.GetDuration("AUTH_RESET_TTL"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
			CSRFEnabled:      v.GetBool("AUTH_CSRF_ENABLED"),
			CSRFSecret:       v.GetString("AUTH_CSRF_SECRET"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Mail: Mail{
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUsername: v.GetString("SMTP_USERNAME"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			From:         v.GetString("MAIL_FROM"),
			FrontendURL:  strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Scheduler: Scheduler{
			ResetPurgeEnabled:  v.GetBool("RESET_PURGE_ENABLED"),
			ResetPurgeSchedule: v.GetString("RESET_PURGE_SCHEDULE"),
		},
	}
}

func splitList(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}
