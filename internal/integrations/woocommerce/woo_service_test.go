package woocommerce

import (
	"context"
	"testing"
	"time"

	"shopfloor/internal/cache"
	"shopfloor/pkg/auditlog"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type discardLogStore struct{}

func (discardLogStore) PersistLog(context.Context, models.AuditLog, interface{}) error { return nil }

type fakeProduct struct {
	id    int
	name  string
	stock int
}

type fakeStore struct {
	configs  []models.WooConfig
	products map[string]*fakeProduct
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: map[string]*fakeProduct{
		"GT-1": {id: 1, name: "Green Tea", stock: 5},
		"HN-2": {id: 2, name: "Honey", stock: 1},
	}}
}

func (s *fakeStore) SaveConfig(ctx context.Context, config *models.WooConfig) error {
	config.ID = len(s.configs) + 1
	s.configs = append(s.configs, *config)
	return nil
}

func (s *fakeStore) LatestConfig(ctx context.Context) (*models.WooConfig, error) {
	if len(s.configs) == 0 {
		return nil, custom_error.NotFound("WooCommerce config not found")
	}
	config := s.configs[len(s.configs)-1]
	return &config, nil
}

func (s *fakeStore) OpeningStockBySKU(ctx context.Context, skus []string) (map[string]int, error) {
	stock := map[string]int{}
	for _, sku := range skus {
		if p, ok := s.products[sku]; ok {
			stock[sku] = p.stock
		}
	}
	return stock, nil
}

func (s *fakeStore) ShipBySKU(ctx context.Context, sku string, quantity int) (*ShippedProduct, error) {
	p, ok := s.products[sku]
	if !ok {
		return nil, custom_error.NotFound("Product with SKU %s not found", sku)
	}
	if p.stock < quantity {
		return nil, custom_error.Insufficient("Insufficient stock for SKU %s", sku)
	}
	p.stock -= quantity
	return &ShippedProduct{ID: p.id, ItemName: p.name, RemainingStock: p.stock}, nil
}

func newTestService(store WooStore, client OrderClient) *WooService {
	return NewWooService(
		store,
		client,
		NewSealer("test-sealing-key"),
		cache.NewNoopCatalogCache(),
		auditlog.NewAuditLog(discardLogStore{}, zap.NewNop()),
		zap.NewNop(),
	)
}

func TestSaveConfigSealsCredentials(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, NewClient(time.Second))

	config, err := service.SaveConfig(context.Background(), models.WooCredentials{
		StoreURL:       " https://shop.example.com/ ",
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", config.StoreURL)
	require.Len(t, store.configs, 1)
	assert.NotEqual(t, "ck_test", store.configs[0].ConsumerKey)
	assert.NotEqual(t, "cs_test", store.configs[0].ConsumerSecret)

	creds, err := service.savedCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ck_test", creds.ConsumerKey)
	assert.Equal(t, "cs_test", creds.ConsumerSecret)
}

func TestSaveConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		creds models.WooCredentials
	}{
		{name: "relative url", creds: models.WooCredentials{StoreURL: "shop.example.com", ConsumerKey: "k", ConsumerSecret: "s"}},
		{name: "ftp url", creds: models.WooCredentials{StoreURL: "ftp://shop.example.com", ConsumerKey: "k", ConsumerSecret: "s"}},
		{name: "missing secret", creds: models.WooCredentials{StoreURL: "https://shop.example.com", ConsumerKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			_, err := newTestService(store, NewClient(time.Second)).SaveConfig(context.Background(), tt.creds)

			assert.ErrorIs(t, err, custom_error.ErrValidation)
			assert.Empty(t, store.configs)
		})
	}
}

func TestGetOrdersFallsBackToSavedConfig(t *testing.T) {
	rs := newRemoteStore(t)
	store := newFakeStore()
	service := newTestService(store, NewClient(time.Second))

	_, err := service.GetOrders(context.Background(), models.WooCredentials{})
	assert.ErrorIs(t, err, custom_error.ErrNotFound)

	_, err = service.SaveConfig(context.Background(), rs.credentials())
	require.NoError(t, err)

	orders, err := service.GetOrders(context.Background(), models.WooCredentials{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckStock(t *testing.T) {
	service := newTestService(newFakeStore(), NewClient(time.Second))

	checks, err := service.CheckStock(context.Background(), []StockCheckItem{
		{SKU: "GT-1", Quantity: 2},
		{SKU: "HN-2", Quantity: 3},
		{SKU: "ZZ-9", Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, []StockCheck{
		{SKU: "GT-1", Requested: 2, CurrentStock: 5, Status: StatusInStock},
		{SKU: "HN-2", Requested: 3, CurrentStock: 1, Status: StatusInsufficient},
		{SKU: "ZZ-9", Requested: 1, CurrentStock: 0, Status: StatusNotFound},
	}, checks)
}

func TestShipItem(t *testing.T) {
	tests := []struct {
		name      string
		req       ShipItemRequest
		sentinel  error
		remaining int
	}{
		{name: "in stock", req: ShipItemRequest{SKU: "GT-1", Quantity: 2}, remaining: 3},
		{name: "unknown sku", req: ShipItemRequest{SKU: "ZZ-9", Quantity: 1}, sentinel: custom_error.ErrNotFound, remaining: 5},
		{name: "insufficient", req: ShipItemRequest{SKU: "GT-1", Quantity: 6}, sentinel: custom_error.ErrInsufficientStock, remaining: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			result, err := newTestService(store, NewClient(time.Second)).ShipItem(context.Background(), "clerk", tt.req)

			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.remaining, result.RemainingStock)
				assert.False(t, result.OrderCompleted)
			}
			assert.Equal(t, tt.remaining, store.products["GT-1"].stock)
		})
	}
}

func TestShipItemCompletesRemoteOrder(t *testing.T) {
	rs := newRemoteStore(t)
	store := newFakeStore()
	service := newTestService(store, NewClient(time.Second))
	_, err := service.SaveConfig(context.Background(), rs.credentials())
	require.NoError(t, err)

	orderID := 501
	result, err := service.ShipItem(context.Background(), "clerk", ShipItemRequest{SKU: "HN-2", Quantity: 1, OrderID: &orderID})

	require.NoError(t, err)
	assert.True(t, result.OrderCompleted)
	assert.Equal(t, 0, result.RemainingStock)
	assert.Equal(t, []int{501}, rs.completed)
}
