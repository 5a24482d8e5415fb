package products

import (
	"net/http"
	"strconv"

	"shopfloor/pkg/models"
	"shopfloor/pkg/response"
	"shopfloor/pkg/security"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service *ProductService
}

func NewProductHandler(s *ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	products.GET("", h.GetProducts)
	products.GET("/low-stock", h.GetLowStockProducts)
	products.GET("/check-product/:barcode", h.CheckProduct)
	products.GET("/:id", h.GetProduct)
	products.POST("", h.CreateProduct)
	products.POST("/import", h.ImportProducts)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.service.GetProducts(c.Request.Context(), Filter{
		CategoryName: c.Query("category_name"),
		BrandName:    c.Query("brand_name"),
	})
	if err != nil {
		response.AbortWithError(c, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.AbortWithError(c, err, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.service.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.AbortWithError(c, err, "Failed to fetch low stock products")
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "All products have sufficient stock"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CheckProduct(c *gin.Context) {
	product, exists, err := h.service.CheckProduct(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		response.AbortWithError(c, err, "Failed to check product")
		return
	}

	if !exists {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": true, "product": product})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), security.CurrentUsername(c), req)
	if err != nil {
		response.AbortWithError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product added successfully",
		"productId": product.ID,
	})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if _, err := h.service.UpdateProduct(c.Request.Context(), security.CurrentUsername(c), id, req); err != nil {
		response.AbortWithError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), security.CurrentUsername(c), id); err != nil {
		response.AbortWithError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var rows []ImportRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format or empty data", "details": err.Error()})
		return
	}

	result, err := h.service.ImportProducts(c.Request.Context(), security.CurrentUsername(c), rows, c.Query("mode"))
	if err != nil {
		response.AbortWithError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}
