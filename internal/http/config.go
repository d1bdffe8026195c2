package http

import (
	"nbserve/internal/audit"
	"nbserve/internal/auth"
	"nbserve/internal/contents"
	"nbserve/internal/database"
	"nbserve/internal/exporters"
	"nbserve/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Contents contents.Manager
	Database *database.Database
	Auditor  *audit.Service

	// Exporter defaults applied to every conversion
	ExporterOptions exporters.Options

	// ConfigDir is reported to exporters in the resource descriptor
	ConfigDir string

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager

	// Task queue client (optional)
	TaskClient    *tasks.Client
	RetentionDays int

	// Application info
	Version string
}
