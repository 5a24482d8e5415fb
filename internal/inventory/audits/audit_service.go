package audits

import (
	"context"
	"strings"

	inventorylog "shopfloor/internal/inventory/inventory_log"
	"shopfloor/internal/inventory/stocks"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"
)

type AuditService struct {
	store        stocks.Store
	inventoryLog *inventorylog.InventoryLog
}

func NewAuditService(store stocks.Store, inventoryLog *inventorylog.InventoryLog) *AuditService {
	return &AuditService{store: store, inventoryLog: inventoryLog}
}

// PerformAudit records a physical count and, when it differs, makes it the system quantity.
func (s *AuditService) PerformAudit(ctx context.Context, username string, req models.StockAuditRequest) (*models.StockAuditResult, error) {
	barcode := strings.TrimSpace(req.Barcode)
	location := models.NormalizeLocationName(req.LocationName)
	if barcode == "" || location == "" || req.PhysicalStock == nil {
		return nil, custom_error.Validation("Barcode, location and physical stock are required")
	}
	if *req.PhysicalStock < 0 {
		return nil, custom_error.Validation("Physical stock cannot be negative")
	}

	auditedBy := strings.TrimSpace(req.AuditedBy)
	if auditedBy == "" {
		auditedBy = username
	}

	var audit models.StockAudit
	err := s.store.WithTx(ctx, func(tx stocks.Tx) error {
		product, err := tx.ProductByBarcode(ctx, barcode)
		if err != nil {
			return err
		}

		stock, err := tx.LockStock(ctx, product.ID, location)
		if err != nil {
			return err
		}

		audit = models.StockAudit{
			Barcode:       product.Barcode,
			ProductName:   product.Name,
			LocationName:  stock.LocationName,
			SystemStock:   stock.StockQuantity,
			PhysicalStock: *req.PhysicalStock,
			Difference:    *req.PhysicalStock - stock.StockQuantity,
			AuditedBy:     auditedBy,
		}
		if err := tx.InsertAudit(ctx, &audit); err != nil {
			return err
		}

		if audit.Difference != 0 {
			return tx.SetStock(ctx, stock.ID, audit.PhysicalStock)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.inventoryLog.CreateAuditLogEntry(username, &audit)

	return &models.StockAuditResult{
		Message:       "Stock audit completed",
		ProductName:   audit.ProductName,
		Barcode:       audit.Barcode,
		LocationName:  audit.LocationName,
		PreviousStock: audit.SystemStock,
		UpdatedStock:  audit.PhysicalStock,
		Difference:    audit.Difference,
	}, nil
}

func (s *AuditService) GetAuditHistory(ctx context.Context) ([]models.StockAudit, error) {
	return s.store.GetAudits(ctx)
}
