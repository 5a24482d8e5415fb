package inventorylog

import (
	"shopfloor/pkg/auditlog"
	"shopfloor/pkg/models"
)

const (
	ActionStockAdded       = "stock_added"
	ActionStockTransferOut = "transferred_out"
	ActionStockTransferIn  = "transferred_in"
	ActionStockImported    = "stock_imported"
	ActionStockAudited     = "audited"
)

type InventoryLog struct {
	a *auditlog.Auditlog
}

func NewInventoryLog(a *auditlog.Auditlog) *InventoryLog {
	return &InventoryLog{a: a}
}

func (s *InventoryLog) CreateStockAddedLogEntry(username string, stock *models.WarehouseStock, quantity int) {
	s.a.LogAs(
		username,
		ActionStockAdded,
		map[string]interface{}{
			"barcode":        stock.Barcode,
			"location_name":  stock.LocationName,
			"quantity":       quantity,
			"stock_quantity": stock.StockQuantity,
			"msg":            "Stock added to warehouse location",
		},
		stock,
	)
}

// CreateTransferLogEntry records both legs of a transfer against the product.
func (s *InventoryLog) CreateTransferLogEntry(username string, from, to *models.WarehouseStock, quantity int) {
	s.a.LogAs(
		username,
		ActionStockTransferOut,
		map[string]interface{}{
			"barcode":        from.Barcode,
			"from_location":  from.LocationName,
			"to_location":    to.LocationName,
			"quantity":       quantity,
			"stock_quantity": from.StockQuantity,
			"msg":            "Stock moved out of location",
		},
		from,
	)
	s.a.LogAs(
		username,
		ActionStockTransferIn,
		map[string]interface{}{
			"barcode":        to.Barcode,
			"from_location":  from.LocationName,
			"to_location":    to.LocationName,
			"quantity":       quantity,
			"stock_quantity": to.StockQuantity,
			"msg":            "Stock received at location",
		},
		to,
	)
}

func (s *InventoryLog) CreateImportLogEntry(username string, stock []models.WarehouseStock, skipped int) {
	for i := range stock {
		row := stock[i]
		s.a.LogAs(
			username,
			ActionStockImported,
			map[string]interface{}{
				"barcode":        row.Barcode,
				"location_name":  row.LocationName,
				"stock_quantity": row.StockQuantity,
				"skipped_rows":   skipped,
				"msg":            "Stock imported to warehouse location",
			},
			&row,
		)
	}
}

func (s *InventoryLog) CreateAuditLogEntry(username string, audit *models.StockAudit) {
	s.a.LogAs(
		username,
		ActionStockAudited,
		map[string]interface{}{
			"barcode":        audit.Barcode,
			"location_name":  audit.LocationName,
			"system_stock":   audit.SystemStock,
			"physical_stock": audit.PhysicalStock,
			"difference":     audit.Difference,
			"msg":            "Physical stock count recorded",
		},
		audit,
	)
}
