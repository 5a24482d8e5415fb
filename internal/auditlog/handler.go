package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"shopfloor/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LogReader interface {
	GetLogs(ctx context.Context, filter Filter) ([]models.AuditLog, error)
}

type Handler struct {
	Repository LogReader
	log        *zap.Logger
}

func NewHandler(r LogReader, log *zap.Logger) *Handler {
	return &Handler{Repository: r, log: log}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity-logs", h.GetLogs)
}

func (h *Handler) GetLogs(c *gin.Context) {
	filter := Filter{ResourceType: c.Query("resource_type")}

	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource_id"})
			return
		}
		filter.ResourceID = id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = uint(limit)
	}

	logs, err := h.Repository.GetLogs(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("Failed to fetch activity logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
