package woocommerce

import (
	"errors"
	"io"
	"net/http"

	"shopfloor/pkg/models"
	"shopfloor/pkg/response"
	"shopfloor/pkg/security"

	"github.com/gin-gonic/gin"
)

type WooHandler struct {
	service *WooService
}

func NewWooHandler(s *WooService) *WooHandler {
	return &WooHandler{service: s}
}

func (h *WooHandler) RegisterRoutes(router *gin.RouterGroup) {
	woo := router.Group("/woocommerce/woo")
	woo.POST("/save-config", h.SaveConfig)
	woo.POST("/get-orders", h.GetOrders)
	woo.POST("/check-stock", h.CheckStock)
	woo.POST("/ship-item", h.ShipItem)
}

func (h *WooHandler) SaveConfig(c *gin.Context) {
	var req models.WooCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	config, err := h.service.SaveConfig(c.Request.Context(), req)
	if err != nil {
		response.AbortWithError(c, err, "Failed to save config")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "WooCommerce config saved", "config": config})
}

func (h *WooHandler) GetOrders(c *gin.Context) {
	// an empty body falls back to the saved config
	var req models.WooCredentials
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	orders, err := h.service.GetOrders(c.Request.Context(), req)
	if err != nil {
		h.abort(c, err, "Error fetching orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *WooHandler) CheckStock(c *gin.Context) {
	var req StockCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	checks, err := h.service.CheckStock(c.Request.Context(), req.LineItems)
	if err != nil {
		response.AbortWithError(c, err, "Failed to check stock")
		return
	}

	c.JSON(http.StatusOK, checks)
}

func (h *WooHandler) ShipItem(c *gin.Context) {
	var req ShipItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.ShipItem(c.Request.Context(), security.CurrentUsername(c), req)
	if err != nil {
		h.abort(c, err, "Failed to ship item")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *WooHandler) abort(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrRemote) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": fallback, "details": err.Error()})
		return
	}
	response.AbortWithError(c, err, fallback)
}
