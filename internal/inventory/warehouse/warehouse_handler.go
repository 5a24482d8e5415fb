package warehouse

import (
	"net/http"

	"shopfloor/internal/inventory/stocks"
	"shopfloor/pkg/models"
	"shopfloor/pkg/response"
	"shopfloor/pkg/security"

	"github.com/gin-gonic/gin"
)

type WarehouseHandler struct {
	service *WarehouseService
}

func NewWarehouseHandler(s *WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{service: s}
}

func (h *WarehouseHandler) RegisterRoutes(router *gin.RouterGroup) {
	warehouse := router.Group("/warehouse")
	warehouse.GET("/warehouse-stock", h.GetWarehouseStock)
	warehouse.POST("/add-warehouse-stock", h.AddWarehouseStock)
	warehouse.POST("/transfer-stock", h.TransferStock)
	warehouse.POST("/import-warehouse-products", h.ImportWarehouseStock)
}

func (h *WarehouseHandler) GetWarehouseStock(c *gin.Context) {
	stock, err := h.service.GetStocks(c.Request.Context(), stocks.Filter{
		LocationName: c.Query("location_name"),
		Barcode:      c.Query("barcode"),
	})
	if err != nil {
		response.AbortWithError(c, err, "Failed to fetch warehouse stock")
		return
	}

	c.JSON(http.StatusOK, stock)
}

func (h *WarehouseHandler) AddWarehouseStock(c *gin.Context) {
	var req models.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.AddStock(c.Request.Context(), security.CurrentUsername(c), req)
	if err != nil {
		response.AbortWithError(c, err, "Failed to add warehouse stock")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *WarehouseHandler) TransferStock(c *gin.Context) {
	var req models.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.TransferStock(c.Request.Context(), security.CurrentUsername(c), req)
	if err != nil {
		response.AbortWithError(c, err, "Failed to transfer stock")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *WarehouseHandler) ImportWarehouseStock(c *gin.Context) {
	var req models.ImportStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.ImportStock(c.Request.Context(), security.CurrentUsername(c), req)
	if err != nil {
		response.AbortWithError(c, err, "Failed to import warehouse stock")
		return
	}

	c.JSON(http.StatusOK, result)
}
