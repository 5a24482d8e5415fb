package audits

import (
	"net/http"

	"shopfloor/pkg/models"
	"shopfloor/pkg/response"
	"shopfloor/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	service *AuditService
}

func NewAuditHandler(s *AuditService) *AuditHandler {
	return &AuditHandler{service: s}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/stock")
	stock.POST("/stock-audit", h.PerformStockAudit)
	stock.GET("/stock-audit-history", h.GetAuditHistory)
}

func (h *AuditHandler) PerformStockAudit(c *gin.Context) {
	var req models.StockAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.PerformAudit(c.Request.Context(), security.CurrentUsername(c), req)
	if err != nil {
		response.AbortWithError(c, err, "Failed to perform stock audit")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AuditHandler) GetAuditHistory(c *gin.Context) {
	history, err := h.service.GetAuditHistory(c.Request.Context())
	if err != nil {
		response.AbortWithError(c, err, "Failed to fetch audit history")
		return
	}

	c.JSON(http.StatusOK, history)
}
