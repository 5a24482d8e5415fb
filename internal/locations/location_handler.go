package locations

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"
	"shopfloor/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LocationStore interface {
	GetLocations(ctx context.Context) ([]models.Location, error)
	GetLocation(ctx context.Context, id int) (*models.Location, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	PersistLocation(ctx context.Context, location *models.Location) error
	GetLocationStock(ctx context.Context, name string) ([]models.WarehouseStock, error)
	RemoveLocation(ctx context.Context, id int) error
}

type LocationHandler struct {
	Repository LocationStore
	log        *zap.Logger
}

func NewLocationHandler(r LocationStore, log *zap.Logger) *LocationHandler {
	return &LocationHandler{Repository: r, log: log}
}

type CreateLocationRequest struct {
	LocationName string `json:"location_name"`
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	locations := router.Group("/locations")
	locations.POST("/add-locations", h.CreateLocation)
	locations.GET("/all-locations", h.GetLocations)
	locations.GET("/:id/stock", h.GetLocationStock)
	locations.DELETE("/:id", h.RemoveLocation)
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.Repository.GetLocations(c.Request.Context())
	if err != nil {
		response.AbortWithError(c, err, "Could not list locations")
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	name := strings.TrimSpace(req.LocationName)
	if name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Location name is required"})
		return
	}

	ctx := c.Request.Context()
	exists, err := h.Repository.ExistsByName(ctx, name)
	if err != nil {
		response.AbortWithError(c, err, "Could not insert location")
		return
	}
	if exists {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Location already exists"})
		return
	}

	location := models.Location{Name: name}
	if err := h.Repository.PersistLocation(ctx, &location); err != nil {
		response.AbortWithError(c, err, "Could not insert location")
		return
	}

	h.log.Info("Location created", zap.Int("id", location.ID), zap.String("location_name", location.Name))
	c.JSON(http.StatusCreated, gin.H{"message": "Location added successfully", "location": location})
}

func (h *LocationHandler) GetLocationStock(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	location, err := h.Repository.GetLocation(ctx, id)
	if err != nil {
		response.AbortWithError(c, err, "Could not fetch location")
		return
	}

	stock, err := h.Repository.GetLocationStock(ctx, location.Name)
	if err != nil {
		response.AbortWithError(c, err, "Could not fetch location stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location, "stock": stock})
}

func (h *LocationHandler) RemoveLocation(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}

	if err := h.Repository.RemoveLocation(c.Request.Context(), id); err != nil {
		if custom_error.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		response.AbortWithError(c, err, "Could not remove location")
		return
	}

	c.Status(http.StatusNoContent)
}

func locationID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return 0, false
	}
	return id, true
}
