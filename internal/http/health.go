package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nbserve/internal/contents"
	"nbserve/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports readiness of the audit database and the notebook
// storage root.
type HealthController struct {
	db       *database.Database
	contents contents.Manager
	version  string
}

func NewHealthController(db *database.Database, manager contents.Manager, version string) *HealthController {
	return &HealthController{
		db:       db,
		contents: manager,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Check that the notebook storage root is still reachable
	if h.contents != nil {
		if _, err := h.contents.Get(""); err != nil {
			checks["storage"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["storage"] = "ok"
		}
	} else {
		checks["storage"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
