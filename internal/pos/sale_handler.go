package pos

import (
	"net/http"

	"shopfloor/pkg/models"
	"shopfloor/pkg/response"
	"shopfloor/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ActionGetRemainingStock  = "getRemainingStock"
	ActionInsertSale         = "insertSale"
	ActionInsertSaleItems    = "insertSaleItems"
	ActionGetSalesWithItems  = "getSalesWithItems"
	ActionGetAllPhoneNumbers = "getAllPhoneNumbers"
)

// SalesRequest is the body of the multiplexed checkout endpoint, fields depend on Action.
type SalesRequest struct {
	Action string `json:"action"`
	models.SaleRequest
	SaleID int                      `json:"saleId"`
	Items  []models.SaleItemRequest `json:"items"`
}

type SaleHandler struct {
	service *SaleService
	log     *zap.Logger
}

func NewSaleHandler(s *SaleService, log *zap.Logger) *SaleHandler {
	return &SaleHandler{service: s, log: log}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/pointOfSale")
	pos.POST("/sales", h.HandleSales)
}

func (h *SaleHandler) HandleSales(c *gin.Context) {
	var req SalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case ActionGetRemainingStock:
		stock, err := h.service.GetRemainingStock(ctx)
		if err != nil {
			h.fail(c, err, "Failed to fetch remaining stock")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": stock})

	case ActionInsertSale:
		sale, err := h.service.InsertSale(ctx, req.SaleRequest)
		if err != nil {
			h.fail(c, err, "Failed to insert sale")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "saleId": sale.ID})

	case ActionInsertSaleItems:
		items, err := h.service.InsertSaleItems(ctx, security.CurrentUsername(c), req.SaleID, req.Items)
		if err != nil {
			h.fail(c, err, "Failed to insert sale items")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Sale items added and stock updated", "data": items})

	case ActionGetSalesWithItems:
		sales, err := h.service.GetSalesWithItems(ctx)
		if err != nil {
			h.fail(c, err, "Failed to fetch sales")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": sales})

	case ActionGetAllPhoneNumbers:
		phones, err := h.service.GetPhoneNumbers(ctx)
		if err != nil {
			h.fail(c, err, "Failed to fetch phone numbers")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": phones})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid action"})
	}
}

func (h *SaleHandler) fail(c *gin.Context, err error, fallback string) {
	status := response.StatusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error(fallback, zap.Error(err))
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"success": false, "message": fallback, "error": err.Error()})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": err.Error()})
}
