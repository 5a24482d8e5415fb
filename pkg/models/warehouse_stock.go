package models

type WarehouseStock struct {
	ID            int    `json:"id" db:"id"`
	ProductID     int    `json:"product_id" db:"product_id"`
	ProductName   string `json:"product_name" db:"product_name"`
	Barcode       string `json:"barcode" db:"barcode"`
	LocationName  string `json:"location_name" db:"location_name"`
	StockQuantity int    `json:"stock_quantity" db:"stock_quantity"`
}

func (s *WarehouseStock) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ProductID,
		ResourceType: "warehouse_stock",
	}
}

type AddStockRequest struct {
	ProductName   string `json:"product_name"`
	Barcode       string `json:"barcode" binding:"required"`
	LocationName  string `json:"location_name" binding:"required"`
	StockQuantity int    `json:"stock_quantity" binding:"required,gt=0"`
}

type TransferStockRequest struct {
	Barcode          string `json:"barcode" binding:"required"`
	FromLocation     string `json:"from_location" binding:"required"`
	ToLocation       string `json:"to_location" binding:"required"`
	TransferQuantity int    `json:"transfer_quantity" binding:"required,gt=0"`
}

type ImportStockRow struct {
	Barcode       string `json:"barcode"`
	StockQuantity int    `json:"stock_quantity"`
}

type ImportStockRequest struct {
	LocationName string           `json:"location_name" binding:"required"`
	Items        []ImportStockRow `json:"items" binding:"required,min=1"`
}

type SkippedStockRow struct {
	Barcode string `json:"barcode"`
	Message string `json:"message"`
}
