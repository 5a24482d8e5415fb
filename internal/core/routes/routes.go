package routes

import (
	"fmt"

	"shopfloor/internal/config"
	"shopfloor/internal/core/container"
	"shopfloor/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with the global middleware stack and every route group.
// Forwarded client addresses are only honoured from TrustedProxies.
func NewRouter(c *container.Container, cfg config.ServerConfig, log *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	router.Use(
		middleware.RequestLogger(log),
		middleware.RecoveryMiddleware(log),
		cors.New(corsConfig(cfg.AllowedOrigins)),
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
	)

	api := router.Group("/api")
	RegisterPublicRoutes(api, c)
	RegisterProtectedRoutes(api, c)
	RegisterUtilityRoutes(router, c)

	return router, nil
}

func RegisterPublicRoutes(api *gin.RouterGroup, c *container.Container) {
	c.UserHandler.RegisterRoutes(api)
}

func RegisterProtectedRoutes(api *gin.RouterGroup, c *container.Container) {
	protectedRoutes := api.Group("")
	protectedRoutes.Use(c.Tokens.JWTMiddleware())

	c.WarehouseHandler.RegisterRoutes(protectedRoutes)
	c.AuditHandler.RegisterRoutes(protectedRoutes)
	c.LocationHandler.RegisterRoutes(protectedRoutes)
	c.ProductHandler.RegisterRoutes(protectedRoutes)
	c.SaleHandler.RegisterRoutes(protectedRoutes)
	c.WooHandler.RegisterRoutes(protectedRoutes)
	c.ActivityHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", c.Health.Handler())
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
