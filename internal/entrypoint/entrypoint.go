package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nbserve/internal/audit"
	"nbserve/internal/auth"
	"nbserve/internal/config"
	"nbserve/internal/contents"
	"nbserve/internal/database"
	auditrepo "nbserve/internal/database/audit"
	"nbserve/internal/exporters"
	http_controllers "nbserve/internal/http"
	"nbserve/internal/scheduler"
	"nbserve/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: handler,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting nbserve v%s", version)

	// Notebook storage
	manager, err := contents.NewFSManager(cfg.Notebook.RootDir)
	if err != nil {
		log.Fatalf("Failed to open notebook root: %v", err)
	}
	log.Printf("Serving notebooks from %s", cfg.Notebook.RootDir)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Conversion audit trail
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupScheduler *scheduler.CleanupScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			MaxRetries:      cfg.Tasks.MaxRetries,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupConversionEventsQueue(auditService),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Enqueue cleanup on the configured schedule
		cleanupScheduler = scheduler.NewCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start cleanup scheduler: %v", err)
		}
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeToken {
		log.Printf("Authentication mode: token")

		if cfg.Auth.Token == "" {
			token, err := auth.GenerateToken()
			if err != nil {
				log.Fatalf("Failed to generate access token: %v", err)
			}
			cfg.Auth.Token = token
			log.Printf("Generated access token: %s (set AUTH_TOKEN to persist)", token)
		}

		authService = auth.NewService(cfg.Auth)

		// Get underlying SQL DB for the session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager)

		// Generate or use the configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Contents: manager,
		Database: db,
		Auditor:  auditService,
		ExporterOptions: exporters.Options{
			ExcludeInput:   cfg.Exporter.ExcludeInput,
			ExcludeOutputs: cfg.Exporter.ExcludeOutputs,
			ExtractImages:  cfg.Exporter.ExtractImages,
		},
		ConfigDir:      cfg.Notebook.ConfigDir,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		TaskClient:     taskClient,
		RetentionDays:  cfg.Audit.RetentionDays,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Sessions and CSRF wrap the router at the net/http level so their
	// request context is in place before gin handlers run.
	var handler http.Handler = router
	if sessionManager != nil {
		handler = sessionManager.LoadAndSave(handler)
	}
	if len(csrfSecret) > 0 {
		handler = auth.CSRFHandler(csrfSecret, cfg.Auth.SecureCookies, authService, handler)
	}

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(handler, cfg, onShutdown)
}
