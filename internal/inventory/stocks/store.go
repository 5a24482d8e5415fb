package stocks

import (
	"context"

	"shopfloor/pkg/models"
)

// ProductRef is the subset of a product the warehouse rows denormalize.
type ProductRef struct {
	ID      int    `db:"id"`
	Name    string `db:"item_name"`
	Barcode string `db:"barcode"`
}

type Filter struct {
	LocationName string
	Barcode      string
}

// Store is the transactional warehouse stock storage.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	GetStocks(ctx context.Context, filter Filter) ([]models.WarehouseStock, error)
	GetAudits(ctx context.Context) ([]models.StockAudit, error)
}

// Tx is every stock mutation available inside one transaction.
type Tx interface {
	// ProductByBarcode returns custom_error.ErrNotFound for unknown barcodes.
	ProductByBarcode(ctx context.Context, barcode string) (*ProductRef, error)
	LocationExists(ctx context.Context, locationName string) (bool, error)
	// AddStock credits the (product, location) row, creating it when missing, and returns the new quantity.
	AddStock(ctx context.Context, product ProductRef, locationName string, quantity int) (int, error)
	// DebitStock returns custom_error.ErrInsufficientStock when the row is missing or holds less than quantity.
	DebitStock(ctx context.Context, productID int, locationName string, quantity int) (int, error)
	// LockStock selects the row FOR UPDATE; custom_error.ErrNotFound when the product is not stocked there.
	LockStock(ctx context.Context, productID int, locationName string) (*models.WarehouseStock, error)
	SetStock(ctx context.Context, stockID int, quantity int) error
	InsertAudit(ctx context.Context, audit *models.StockAudit) error
}
