package warehouse

import (
	"context"
	"errors"
	"strings"

	inventorylog "shopfloor/internal/inventory/inventory_log"
	"shopfloor/internal/inventory/stocks"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"go.uber.org/zap"
)

type AddStockResult struct {
	Message string                `json:"message"`
	Stock   models.WarehouseStock `json:"stock"`
}

type TransferResult struct {
	Message string                `json:"message"`
	From    models.WarehouseStock `json:"from"`
	To      models.WarehouseStock `json:"to"`
}

type ImportResult struct {
	Message  string                   `json:"message"`
	Imported []models.WarehouseStock  `json:"imported"`
	Skipped  []models.SkippedStockRow `json:"skipped"`
}

type WarehouseService struct {
	store        stocks.Store
	inventoryLog *inventorylog.InventoryLog
	log          *zap.Logger
}

func NewWarehouseService(store stocks.Store, inventoryLog *inventorylog.InventoryLog, log *zap.Logger) *WarehouseService {
	return &WarehouseService{
		store:        store,
		inventoryLog: inventoryLog,
		log:          log,
	}
}

func (s *WarehouseService) GetStocks(ctx context.Context, filter stocks.Filter) ([]models.WarehouseStock, error) {
	return s.store.GetStocks(ctx, filter)
}

func (s *WarehouseService) AddStock(ctx context.Context, username string, req models.AddStockRequest) (*AddStockResult, error) {
	barcode := strings.TrimSpace(req.Barcode)
	location := models.NormalizeLocationName(req.LocationName)
	if barcode == "" || location == "" {
		return nil, custom_error.Validation("Barcode and location are required")
	}
	if req.StockQuantity <= 0 {
		return nil, custom_error.Validation("Stock quantity must be greater than zero")
	}

	var stock models.WarehouseStock
	err := s.store.WithTx(ctx, func(tx stocks.Tx) error {
		product, err := tx.ProductByBarcode(ctx, barcode)
		if err != nil {
			return err
		}
		if err := requireLocation(ctx, tx, location); err != nil {
			return err
		}

		total, err := tx.AddStock(ctx, *product, location, req.StockQuantity)
		if err != nil {
			return err
		}

		stock = models.WarehouseStock{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Barcode:       product.Barcode,
			LocationName:  location,
			StockQuantity: total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.inventoryLog.CreateStockAddedLogEntry(username, &stock, req.StockQuantity)

	message := "Stock added successfully"
	if stock.StockQuantity > req.StockQuantity {
		message = "Stock updated successfully"
	}

	return &AddStockResult{Message: message, Stock: stock}, nil
}

func (s *WarehouseService) TransferStock(ctx context.Context, username string, req models.TransferStockRequest) (*TransferResult, error) {
	barcode := strings.TrimSpace(req.Barcode)
	from := models.NormalizeLocationName(req.FromLocation)
	to := models.NormalizeLocationName(req.ToLocation)
	if barcode == "" || from == "" || to == "" {
		return nil, custom_error.Validation("Barcode, source and destination locations are required")
	}
	if from == to {
		return nil, custom_error.Validation("Source and destination locations must differ")
	}
	if req.TransferQuantity <= 0 {
		return nil, custom_error.Validation("Transfer quantity must be greater than zero")
	}

	var result TransferResult
	err := s.store.WithTx(ctx, func(tx stocks.Tx) error {
		product, err := tx.ProductByBarcode(ctx, barcode)
		if err != nil {
			return err
		}
		for _, location := range []string{from, to} {
			if err := requireLocation(ctx, tx, location); err != nil {
				return err
			}
		}

		remaining, err := tx.DebitStock(ctx, product.ID, from, req.TransferQuantity)
		if err != nil {
			return err
		}
		total, err := tx.AddStock(ctx, *product, to, req.TransferQuantity)
		if err != nil {
			return err
		}

		result.From = models.WarehouseStock{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Barcode:       product.Barcode,
			LocationName:  from,
			StockQuantity: remaining,
		}
		result.To = result.From
		result.To.LocationName = to
		result.To.StockQuantity = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.inventoryLog.CreateTransferLogEntry(username, &result.From, &result.To, req.TransferQuantity)

	result.Message = "Stock transferred successfully"
	return &result, nil
}

// ImportStock adds every row to one location in a single transaction; unknown barcodes are skipped.
func (s *WarehouseService) ImportStock(ctx context.Context, username string, req models.ImportStockRequest) (*ImportResult, error) {
	location := models.NormalizeLocationName(req.LocationName)
	if location == "" {
		return nil, custom_error.Validation("Location is required")
	}
	if len(req.Items) == 0 {
		return nil, custom_error.Validation("No stock rows to import")
	}

	result := ImportResult{
		Imported: []models.WarehouseStock{},
		Skipped:  []models.SkippedStockRow{},
	}
	err := s.store.WithTx(ctx, func(tx stocks.Tx) error {
		if err := requireLocation(ctx, tx, location); err != nil {
			return err
		}

		for _, row := range req.Items {
			barcode := strings.TrimSpace(row.Barcode)
			if barcode == "" || row.StockQuantity <= 0 {
				result.Skipped = append(result.Skipped, models.SkippedStockRow{
					Barcode: barcode,
					Message: "Barcode and a positive stock quantity are required",
				})
				continue
			}

			product, err := tx.ProductByBarcode(ctx, barcode)
			if errors.Is(err, custom_error.ErrNotFound) {
				result.Skipped = append(result.Skipped, models.SkippedStockRow{
					Barcode: barcode,
					Message: "Product not found",
				})
				continue
			}
			if err != nil {
				return err
			}

			total, err := tx.AddStock(ctx, *product, location, row.StockQuantity)
			if err != nil {
				return err
			}
			result.Imported = append(result.Imported, models.WarehouseStock{
				ProductID:     product.ID,
				ProductName:   product.Name,
				Barcode:       product.Barcode,
				LocationName:  location,
				StockQuantity: total,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Skipped) > 0 {
		s.log.Warn("Warehouse import skipped rows",
			zap.String("location", location),
			zap.Int("skipped", len(result.Skipped)),
		)
	}
	go s.inventoryLog.CreateImportLogEntry(username, result.Imported, len(result.Skipped))

	result.Message = "Warehouse stock imported successfully"
	return &result, nil
}

func requireLocation(ctx context.Context, tx stocks.Tx, location string) error {
	exists, err := tx.LocationExists(ctx, location)
	if err != nil {
		return err
	}
	if !exists {
		return custom_error.NotFound("Location %s not found", location)
	}
	return nil
}
