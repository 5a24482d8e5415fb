package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopfloor/internal/config"
	"shopfloor/pkg/models"

	"github.com/redis/go-redis/v9"
)

const (
	catalogKeyPrefix  = "catalog:"
	productsKey       = catalogKeyPrefix + "products"
	remainingStockKey = catalogKeyPrefix + "remaining_stock"
)

// CatalogCache keeps the unfiltered product list and the point-of-sale stock view.
// Every catalog or opening_stock mutation must call Invalidate.
type CatalogCache interface {
	GetProducts(ctx context.Context) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, products []models.Product) error
	GetRemainingStock(ctx context.Context) ([]models.RemainingStock, bool, error)
	SetRemainingStock(ctx context.Context, stock []models.RemainingStock) error
	Invalidate(ctx context.Context) error
	Close() error
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCatalogCache struct{}

// NewCatalogCache connects to redis when caching is enabled, otherwise returns the noop cache.
func NewCatalogCache(ctx context.Context, cfg config.CacheConfig) (CatalogCache, error) {
	if !cfg.Enabled {
		return NewNoopCatalogCache(), nil
	}

	client, ttl, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisCatalogCache(client, ttl), nil
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) CatalogCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisCatalogCache{client: client, ttl: ttl}
}

func NewNoopCatalogCache() CatalogCache {
	return &noopCatalogCache{}
}

func (c *redisCatalogCache) GetProducts(ctx context.Context) ([]models.Product, bool, error) {
	var products []models.Product
	found, err := c.get(ctx, productsKey, &products)
	return products, found, err
}

func (c *redisCatalogCache) SetProducts(ctx context.Context, products []models.Product) error {
	return c.set(ctx, productsKey, products)
}

func (c *redisCatalogCache) GetRemainingStock(ctx context.Context) ([]models.RemainingStock, bool, error) {
	var stock []models.RemainingStock
	found, err := c.get(ctx, remainingStockKey, &stock)
	return stock, found, err
}

func (c *redisCatalogCache) SetRemainingStock(ctx context.Context, stock []models.RemainingStock) error {
	return c.set(ctx, remainingStockKey, stock)
}

func (c *redisCatalogCache) Close() error {
	return c.client.Close()
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, catalogKeyPrefix)
}

func (c *redisCatalogCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s cache: %w", key, err)
	}

	return true, nil
}

func (c *redisCatalogCache) set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (n *noopCatalogCache) GetProducts(context.Context) ([]models.Product, bool, error) {
	return nil, false, nil
}

func (n *noopCatalogCache) SetProducts(context.Context, []models.Product) error { return nil }

func (n *noopCatalogCache) GetRemainingStock(context.Context) ([]models.RemainingStock, bool, error) {
	return nil, false, nil
}

func (n *noopCatalogCache) SetRemainingStock(context.Context, []models.RemainingStock) error {
	return nil
}

func (n *noopCatalogCache) Invalidate(context.Context) error { return nil }

func (n *noopCatalogCache) Close() error { return nil }
