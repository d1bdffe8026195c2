package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeToken AuthMode = "token" // Shared token, optionally with a login password
)

type (
	Config struct {
		HTTP
		Notebook
		Exporter
		Audit
		Global
		Database
		Tasks
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Notebook struct {
		RootDir   string // Directory served as notebook storage
		ConfigDir string // Directory reported to exporters as config_dir
	}
	Exporter struct {
		ExcludeInput   bool
		ExcludeOutputs bool
		ExtractImages  bool
	}
	Audit struct {
		RetentionDays   int    // Days to keep conversion events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		MaxRetries      int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		Mode            AuthMode
		Token           string // Shared API token, compared in constant time
		PasswordHash    string // bcrypt hash accepted on POST /login
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8888)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("notebook_root_dir", DefaultNotebookDir)
	v.SetDefault("notebook_config_dir", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Exporter defaults
	v.SetDefault("exporter_exclude_input", false)
	v.SetDefault("exporter_exclude_outputs", false)
	v.SetDefault("exporter_extract_images", true)

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_token", "")
	v.SetDefault("auth_password_hash", "")
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Notebook: Notebook{
			RootDir:   v.GetString("NOTEBOOK_ROOT_DIR"),
			ConfigDir: v.GetString("NOTEBOOK_CONFIG_DIR"),
		},
		Exporter: Exporter{
			ExcludeInput:   v.GetBool("EXPORTER_EXCLUDE_INPUT"),
			ExcludeOutputs: v.GetBool("EXPORTER_EXCLUDE_OUTPUTS"),
			ExtractImages:  v.GetBool("EXPORTER_EXTRACT_IMAGES"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			MaxRetries:      v.GetInt("TASK_MAX_RETRIES"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			Mode:            AuthMode(v.GetString("AUTH_MODE")),
			Token:           v.GetString("AUTH_TOKEN"),
			PasswordHash:    v.GetString("AUTH_PASSWORD_HASH"),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
	}
}
