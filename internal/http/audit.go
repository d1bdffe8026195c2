package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nbserve/internal/audit"
	"nbserve/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetConversionEvents returns paginated conversion events as JSON
// GET /api/audit
func (ac *AuditController) GetConversionEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	format := c.Query("format")
	offset := (page - 1) * limit

	var events []entities.ConversionEvent
	var total int64
	var err error

	if format != "" {
		events, total, err = ac.auditService.GetEventsByFormat(format, limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(limit, offset)
	}

	if err != nil {
		respondInternalError(c, err, "load conversion events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
	})
}
