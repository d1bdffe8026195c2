package http

import (
	"github.com/gin-gonic/gin"

	"nbserve/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Contents, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Login endpoints when authentication is configured
	if cfg.AuthService != nil && cfg.AuthService.Enabled() {
		loginController := auth.NewLoginController(cfg.AuthService, cfg.SessionManager)
		router.POST("/login", loginController.Login)
		router.POST("/logout", loginController.Logout)
	}

	// Conversion endpoints
	nbconvert := NewNbconvertController(cfg.Contents, cfg.ExporterOptions, cfg.ConfigDir, auditLogger(cfg))
	router.POST("/nbconvert/:format", nbconvert.FromBody)
	router.GET("/nbconvert/:format/*path", nbconvert.FromFile)
	router.POST("/nbconvert/:format/*path", nbconvert.FromFile)

	// Raw file access, also the redirect target for non-notebook paths
	files := NewFilesController(cfg.Contents)
	router.GET("/files/*path", files.Serve)

	// Format discovery
	formats := NewFormatsController()
	router.GET("/api/formats", formats.List)

	// Conversion history
	if cfg.Auditor != nil {
		auditController := NewAuditController(cfg.Auditor)
		router.GET("/api/audit", auditController.GetConversionEvents)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.RetentionDays)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}

// auditLogger avoids handing a typed nil to the controller when auditing is
// disabled.
func auditLogger(cfg RouterConfig) AuditLogger {
	if cfg.Auditor == nil {
		return nil
	}
	return cfg.Auditor
}
