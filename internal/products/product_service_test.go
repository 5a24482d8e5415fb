package products

import (
	"context"
	"testing"

	"shopfloor/internal/cache"
	"shopfloor/pkg/auditlog"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type discardLogStore struct{}

func (discardLogStore) PersistLog(context.Context, models.AuditLog, interface{}) error { return nil }

func newTestService(store ProductStore) *ProductService {
	return NewProductService(
		store,
		cache.NewNoopCatalogCache(),
		auditlog.NewAuditLog(discardLogStore{}, zap.NewNop()),
		zap.NewNop(),
	)
}

func greenTea() models.Product {
	return models.Product{
		ID:            1,
		ItemName:      "Green Tea",
		SKU:           "GT-1",
		Barcode:       "8901001",
		BrandName:     strPtr("Leafy"),
		RegularPrice:  decimal.NewFromInt(20),
		SalesPrice:    decimal.NewFromInt(18),
		OpeningStock:  10,
		AlertQuantity: 5,
	}
}

func TestCreateProductRejectsDuplicates(t *testing.T) {
	store := newFakeStore(greenTea())
	service := newTestService(store)

	_, err := service.CreateProduct(context.Background(), "admin", models.ProductRequest{ItemName: "Other", Barcode: "8901001"})

	assert.ErrorIs(t, err, custom_error.ErrDuplicate)
	assert.Len(t, store.products, 1)
}

func TestCreateProductNormalizesExpireDate(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store)

	product, err := service.CreateProduct(context.Background(), "admin", models.ProductRequest{
		ItemName:   " Oolong ",
		SKU:        "OL-1",
		ExpireDate: strPtr("45291"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Oolong", product.ItemName)
	assert.Equal(t, strPtr("2023-12-31"), product.ExpireDate)
}

func TestUpdateProduct(t *testing.T) {
	other := greenTea()
	other.ID = 2
	other.SKU = "BT-1"
	other.Barcode = "8901002"

	tests := []struct {
		name        string
		id          int
		req         models.ProductRequest
		expectedErr error
	}{
		{name: "unknown product", id: 99, req: models.ProductRequest{ItemName: "x"}, expectedErr: custom_error.ErrNotFound},
		{name: "barcode taken by another product", id: 1, req: models.ProductRequest{ItemName: "x", Barcode: "8901002"}, expectedErr: custom_error.ErrDuplicate},
		{name: "own barcode", id: 1, req: models.ProductRequest{ItemName: "Green Tea XL", Barcode: "8901001", SKU: "GT-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(greenTea(), other)
			service := newTestService(store)

			product, err := service.UpdateProduct(context.Background(), "admin", tt.id, tt.req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Green Tea XL", product.ItemName)
			assert.Equal(t, "Green Tea XL", store.products[1].ItemName)
		})
	}
}

func TestCheckProduct(t *testing.T) {
	service := newTestService(newFakeStore(greenTea()))

	product, exists, err := service.CheckProduct(context.Background(), "8901001")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "Green Tea", product.ItemName)

	product, exists, err = service.CheckProduct(context.Background(), "0000")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, product)
}

func TestImportProductsMerge(t *testing.T) {
	store := newFakeStore(greenTea())
	service := newTestService(store)

	result, err := service.ImportProducts(context.Background(), "admin", []ImportRow{
		{Barcode: NewCell("8901001"), OpeningStock: NewCell("25")},
		{ItemName: NewCell("Black Tea"), SKU: NewCell("BT-1"), RegularPrice: NewCell("30"), SalesPrice: NewCell("28")},
		{ItemName: NewCell("Overpriced"), SKU: NewCell("OP-1"), RegularPrice: NewCell("10"), SalesPrice: NewCell("12")},
	}, "")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.SkippedProducts, 1)
	assert.Equal(t, "OP-1", result.SkippedProducts[0].SKU)
	assert.Equal(t, "Sales price cannot be greater than regular price.", result.SkippedProducts[0].Message)

	updated := store.products[1]
	assert.Equal(t, 25, updated.OpeningStock)
	assert.Equal(t, "Green Tea", updated.ItemName)
	assert.Equal(t, strPtr("Leafy"), updated.BrandName)
	assert.Len(t, store.products, 2)
}

func TestImportProductsReplace(t *testing.T) {
	store := newFakeStore(greenTea())
	service := newTestService(store)

	result, err := service.ImportProducts(context.Background(), "admin", []ImportRow{
		{SKU: NewCell("GT-1"), Barcode: NewCell("8901001"), OpeningStock: NewCell("3"), RegularPrice: NewCell("22")},
	}, ImportModeReplace)

	require.NoError(t, err)
	assert.Nil(t, result.SkippedProducts)

	replaced := store.products[1]
	assert.Equal(t, "Green Tea", replaced.ItemName)
	assert.Nil(t, replaced.BrandName)
	assert.Equal(t, 3, replaced.OpeningStock)
	assert.True(t, replaced.SalesPrice.IsZero())
	assert.True(t, replaced.RegularPrice.Equal(decimal.NewFromInt(22)))
}

func TestImportProductsSkipsWhenEffectivePriceIsTooHigh(t *testing.T) {
	store := newFakeStore(greenTea())
	service := newTestService(store)

	// merge keeps the stored regular price of 20
	result, err := service.ImportProducts(context.Background(), "admin", []ImportRow{
		{SKU: NewCell("GT-1"), SalesPrice: NewCell("21")},
	}, ImportModeMerge)

	require.NoError(t, err)
	require.Len(t, result.SkippedProducts, 1)
	assert.True(t, store.products[1].SalesPrice.Equal(decimal.NewFromInt(18)))
}

func TestImportProductsRollsBackOnFailure(t *testing.T) {
	store := newFakeStore(greenTea())
	store.failOn = "Broken"
	service := newTestService(store)

	_, err := service.ImportProducts(context.Background(), "admin", []ImportRow{
		{Barcode: NewCell("8901001"), OpeningStock: NewCell("99")},
		{ItemName: NewCell("Broken"), SKU: NewCell("BR-1")},
	}, ImportModeMerge)

	assert.Error(t, err)
	assert.Equal(t, 10, store.products[1].OpeningStock)
	assert.Len(t, store.products, 1)
}

func TestImportProductsValidation(t *testing.T) {
	service := newTestService(newFakeStore())

	_, err := service.ImportProducts(context.Background(), "admin", nil, "")
	assert.ErrorIs(t, err, custom_error.ErrValidation)

	_, err = service.ImportProducts(context.Background(), "admin", []ImportRow{{ItemName: NewCell("x")}}, "overwrite")
	assert.ErrorIs(t, err, custom_error.ErrValidation)
}
