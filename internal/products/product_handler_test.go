package products

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) GetProducts(ctx context.Context, filter Filter) ([]models.Product, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	args := m.Called(barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) GetLowStockProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductStore) HasConflict(ctx context.Context, sku, barcode string, excludeID int) (bool, error) {
	args := m.Called(sku, barcode, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductStore) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(product)
	if args.Error(0) == nil {
		product.ID = 42
	}
	return args.Error(0)
}

func (m *MockProductStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductStore) WithTx(ctx context.Context, fn func(tx ImportTx) error) error {
	args := m.Called()
	return args.Error(0)
}

func setupRouter(store ProductStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewProductHandler(newTestService(store)).RegisterRoutes(router.Group("/api"))
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetProductHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockProductStore)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "found",
			path: "/api/products/1",
			setupMock: func(m *MockProductStore) {
				m.On("GetProduct", 1).Return(&models.Product{ID: 1, ItemName: "Green Tea"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"item_name":"Green Tea"`,
		},
		{
			name: "not found",
			path: "/api/products/7",
			setupMock: func(m *MockProductStore) {
				m.On("GetProduct", 7).Return(nil, custom_error.NotFound("Product not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Product not found"}`,
		},
		{
			name:           "invalid id",
			path:           "/api/products/abc",
			setupMock:      func(m *MockProductStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "database failure",
			path: "/api/products/2",
			setupMock: func(m *MockProductStore) {
				m.On("GetProduct", 2).Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"details":"connection reset"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockProductStore)
			tt.setupMock(store)

			w := serve(setupRouter(store), http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestLowStockHandler(t *testing.T) {
	store := new(MockProductStore)
	store.On("GetLowStockProducts").Return([]models.Product{}, nil).Once()
	store.On("GetLowStockProducts").Return([]models.Product{{ID: 3, OpeningStock: 1, AlertQuantity: 5}}, nil).Once()
	router := setupRouter(store)

	w := serve(router, http.MethodGet, "/api/products/low-stock", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"All products have sufficient stock"}`, w.Body.String())

	w = serve(router, http.MethodGet, "/api/products/low-stock", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alert_quantity":5`)
}

func TestCheckProductHandler(t *testing.T) {
	store := new(MockProductStore)
	store.On("GetProductByBarcode", "8901001").Return(&models.Product{ID: 1, Barcode: "8901001"}, nil)
	store.On("GetProductByBarcode", "0000").Return(nil, custom_error.NotFound("Product not found"))
	router := setupRouter(store)

	w := serve(router, http.MethodGet, "/api/products/check-product/8901001", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exists":true`)

	w = serve(router, http.MethodGet, "/api/products/check-product/0000", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exists":false}`, w.Body.String())
}

func TestCreateProductHandler(t *testing.T) {
	store := new(MockProductStore)
	store.On("HasConflict", "GT-1", "8901001", 0).Return(false, nil)
	store.On("CreateProduct", mock.AnythingOfType("*models.Product")).Return(nil)

	w := serve(setupRouter(store), http.MethodPost, "/api/products",
		`{"item_name":"Green Tea","sku":"GT-1","barcode":"8901001","regular_price":20,"sales_price":18,"opening_stock":2,"alert_quantity":5}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Product added successfully","productId":42}`, w.Body.String())
	store.AssertExpectations(t)
}

func TestCreateProductHandlerRequiresName(t *testing.T) {
	store := new(MockProductStore)

	w := serve(setupRouter(store), http.MethodPost, "/api/products", `{"sku":"GT-1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "CreateProduct", mock.Anything)
}

func TestDeleteProductHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockProductStore)
		expectedStatus int
	}{
		{
			name: "deleted",
			setupMock: func(m *MockProductStore) {
				m.On("GetProduct", 5).Return(&models.Product{ID: 5}, nil)
				m.On("DeleteProduct", 5).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown",
			setupMock: func(m *MockProductStore) {
				m.On("GetProduct", 5).Return(nil, custom_error.NotFound("Product not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "referenced by sales",
			setupMock: func(m *MockProductStore) {
				m.On("GetProduct", 5).Return(&models.Product{ID: 5}, nil)
				m.On("DeleteProduct", 5).Return(custom_error.InUse("Product is referenced by recorded sales"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockProductStore)
			tt.setupMock(store)

			w := serve(setupRouter(store), http.MethodDelete, "/api/products/5", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			store.AssertExpectations(t)
		})
	}
}

func TestImportProductsHandlerRejectsNonArray(t *testing.T) {
	store := new(MockProductStore)

	w := serve(setupRouter(store), http.MethodPost, "/api/products/import", `{"item_name":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "WithTx")
}
