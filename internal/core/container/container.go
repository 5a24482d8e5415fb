package container

import (
	"context"
	"database/sql"
	"fmt"

	auditLogRepo "shopfloor/internal/auditlog"
	"shopfloor/internal/cache"
	"shopfloor/internal/config"
	"shopfloor/internal/integrations/woocommerce"
	"shopfloor/internal/inventory/audits"
	inventorylog "shopfloor/internal/inventory/inventory_log"
	"shopfloor/internal/inventory/stocks"
	"shopfloor/internal/inventory/warehouse"
	"shopfloor/internal/locations"
	"shopfloor/internal/middleware"
	"shopfloor/internal/pos"
	"shopfloor/internal/products"
	"shopfloor/internal/rate_limiter"
	"shopfloor/internal/repository"
	"shopfloor/internal/users"
	"shopfloor/pkg/auditlog"
	"shopfloor/pkg/security"

	"go.uber.org/zap"
)

const version = "1.0.0"

type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	Cache            cache.CatalogCache
	Tokens           *security.TokenManager
	LoginLimiter     *rate_limiter.RateLimiter
	Health           *middleware.Health
	UserHandler      *users.UsersHandler
	WarehouseHandler *warehouse.WarehouseHandler
	AuditHandler     *audits.AuditHandler
	LocationHandler  *locations.LocationHandler
	ProductHandler   *products.ProductHandler
	SaleHandler      *pos.SaleHandler
	WooHandler       *woocommerce.WooHandler
	ActivityHandler  *auditLogRepo.Handler
}

func NewAppContainer(ctx context.Context, db *sql.DB, cfg *config.Config, log *zap.Logger) (*Container, error) {
	catalogCache, err := cache.NewCatalogCache(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("catalog cache: %w", err)
	}

	repo := repository.NewRepository(db)
	auditLogRepository := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogRepository, log)
	inventoryLog := inventorylog.NewInventoryLog(auditLog)

	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	loginLimiter := rate_limiter.NewRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	userHandler := users.NewHandler(users.NewRepository(repo), tokens, loginLimiter, log)

	stockRepo := stocks.NewRepository(repo)
	warehouseHandler := warehouse.NewWarehouseHandler(warehouse.NewWarehouseService(stockRepo, inventoryLog, log))
	auditHandler := audits.NewAuditHandler(audits.NewAuditService(stockRepo, inventoryLog))

	locationHandler := locations.NewLocationHandler(locations.NewLocationRepository(repo), log)

	productService := products.NewProductService(products.NewRepository(repo), catalogCache, auditLog, log)
	productHandler := products.NewProductHandler(productService)

	saleService := pos.NewSaleService(pos.NewRepository(repo), catalogCache, auditLog, log)
	saleHandler := pos.NewSaleHandler(saleService, log)

	wooService := woocommerce.NewWooService(
		woocommerce.NewRepository(repo),
		woocommerce.NewClient(cfg.Woo.HTTPTimeout),
		woocommerce.NewSealer(cfg.Woo.SealKey),
		catalogCache,
		auditLog,
		log,
	)
	wooHandler := woocommerce.NewWooHandler(wooService)

	activityHandler := auditLogRepo.NewHandler(auditLogRepository, log)

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		Cache:            catalogCache,
		Tokens:           tokens,
		LoginLimiter:     loginLimiter,
		Health:           middleware.NewHealth(repo.DB, version),
		UserHandler:      userHandler,
		WarehouseHandler: warehouseHandler,
		AuditHandler:     auditHandler,
		LocationHandler:  locationHandler,
		ProductHandler:   productHandler,
		SaleHandler:      saleHandler,
		WooHandler:       wooHandler,
		ActivityHandler:  activityHandler,
	}, nil
}

func (c *Container) Close() error {
	return c.Cache.Close()
}
