package woocommerce

import (
	"context"
	"net/url"
	"strings"

	"shopfloor/internal/cache"
	"shopfloor/pkg/auditlog"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"go.uber.org/zap"
)

// OrderClient talks to a remote WooCommerce store.
type OrderClient interface {
	GetOrders(ctx context.Context, creds models.WooCredentials) ([]Order, error)
	CompleteOrder(ctx context.Context, creds models.WooCredentials, orderID int) (*Order, error)
}

type WooService struct {
	store    WooStore
	client   OrderClient
	sealer   *Sealer
	cache    cache.CatalogCache
	auditLog *auditlog.Auditlog
	log      *zap.Logger
}

func NewWooService(store WooStore, client OrderClient, sealer *Sealer, c cache.CatalogCache, a *auditlog.Auditlog, log *zap.Logger) *WooService {
	return &WooService{
		store:    store,
		client:   client,
		sealer:   sealer,
		cache:    c,
		auditLog: a,
		log:      log,
	}
}

func (s *WooService) SaveConfig(ctx context.Context, creds models.WooCredentials) (*models.WooConfig, error) {
	creds, err := normalizeCredentials(creds)
	if err != nil {
		return nil, err
	}

	key, err := s.sealer.Seal(creds.ConsumerKey)
	if err != nil {
		return nil, err
	}
	secret, err := s.sealer.Seal(creds.ConsumerSecret)
	if err != nil {
		return nil, err
	}

	config := &models.WooConfig{
		StoreURL:       creds.StoreURL,
		ConsumerKey:    key,
		ConsumerSecret: secret,
	}
	if err := s.store.SaveConfig(ctx, config); err != nil {
		return nil, err
	}

	s.log.Info("WooCommerce config saved", zap.Int("config_id", config.ID), zap.String("store_url", config.StoreURL))
	return config, nil
}

// GetOrders lists remote orders with the given credentials, or with the latest saved config when none are given.
func (s *WooService) GetOrders(ctx context.Context, creds models.WooCredentials) ([]Order, error) {
	creds, err := s.resolveCredentials(ctx, creds)
	if err != nil {
		return nil, err
	}

	orders, err := s.client.GetOrders(ctx, creds)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

func (s *WooService) CheckStock(ctx context.Context, items []StockCheckItem) ([]StockCheck, error) {
	skus := make([]string, 0, len(items))
	for _, item := range items {
		if sku := strings.TrimSpace(item.SKU); sku != "" {
			skus = append(skus, sku)
		}
	}

	stock, err := s.store.OpeningStockBySKU(ctx, skus)
	if err != nil {
		return nil, err
	}

	checks := make([]StockCheck, 0, len(items))
	for _, item := range items {
		check := StockCheck{SKU: item.SKU, Requested: item.Quantity}
		current, found := stock[strings.TrimSpace(item.SKU)]
		switch {
		case !found:
			check.Status = StatusNotFound
		case current >= item.Quantity:
			check.CurrentStock = current
			check.Status = StatusInStock
		default:
			check.CurrentStock = current
			check.Status = StatusInsufficient
		}
		checks = append(checks, check)
	}

	return checks, nil
}

// ShipItem takes a shipped line item off the shop floor and completes the remote order when asked to.
// A failed remote update is logged and reported, the local debit stays.
func (s *WooService) ShipItem(ctx context.Context, username string, req ShipItemRequest) (*ShipResult, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, custom_error.Validation("SKU is required")
	}
	if req.Quantity <= 0 {
		return nil, custom_error.Validation("Quantity must be greater than zero")
	}

	shipped, err := s.store.ShipBySKU(ctx, sku, req.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}

	result := &ShipResult{
		Message:        "Item shipped successfully",
		SKU:            sku,
		RemainingStock: shipped.RemainingStock,
	}

	logData := map[string]interface{}{
		"sku":             sku,
		"item_name":       shipped.ItemName,
		"quantity":        req.Quantity,
		"remaining_stock": shipped.RemainingStock,
	}
	if req.OrderID != nil {
		logData["order_id"] = *req.OrderID
		result.OrderCompleted = s.completeOrder(ctx, *req.OrderID)
	}
	go s.auditLog.LogAs(username, "shipped", logData, &models.Product{ID: shipped.ID})

	return result, nil
}

func (s *WooService) completeOrder(ctx context.Context, orderID int) bool {
	creds, err := s.savedCredentials(ctx)
	if err != nil {
		if !custom_error.IsNotFound(err) {
			s.log.Warn("Unable to load WooCommerce config", zap.Error(err))
		}
		return false
	}

	if _, err := s.client.CompleteOrder(ctx, creds, orderID); err != nil {
		s.log.Warn("Unable to complete WooCommerce order", zap.Int("order_id", orderID), zap.Error(err))
		return false
	}
	return true
}

func (s *WooService) resolveCredentials(ctx context.Context, creds models.WooCredentials) (models.WooCredentials, error) {
	if creds.IsEmpty() {
		return s.savedCredentials(ctx)
	}
	return normalizeCredentials(creds)
}

func (s *WooService) savedCredentials(ctx context.Context) (models.WooCredentials, error) {
	config, err := s.store.LatestConfig(ctx)
	if err != nil {
		return models.WooCredentials{}, err
	}

	key, err := s.sealer.Open(config.ConsumerKey)
	if err != nil {
		return models.WooCredentials{}, err
	}
	secret, err := s.sealer.Open(config.ConsumerSecret)
	if err != nil {
		return models.WooCredentials{}, err
	}

	return models.WooCredentials{StoreURL: config.StoreURL, ConsumerKey: key, ConsumerSecret: secret}, nil
}

func normalizeCredentials(creds models.WooCredentials) (models.WooCredentials, error) {
	creds.StoreURL = strings.TrimRight(strings.TrimSpace(creds.StoreURL), "/")
	creds.ConsumerKey = strings.TrimSpace(creds.ConsumerKey)
	creds.ConsumerSecret = strings.TrimSpace(creds.ConsumerSecret)

	u, err := url.Parse(creds.StoreURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return creds, custom_error.Validation("store_url must be an absolute http(s) URL")
	}
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" {
		return creds, custom_error.Validation("consumer_key and consumer_secret are required")
	}
	return creds, nil
}
