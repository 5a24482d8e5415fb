package products

import (
	"context"
	"strings"

	"shopfloor/internal/cache"
	"shopfloor/pkg/auditlog"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"go.uber.org/zap"
)

type ImportResult struct {
	Message         string           `json:"message"`
	Created         int              `json:"created"`
	Updated         int              `json:"updated"`
	SkippedProducts []SkippedProduct `json:"skipped_products"`
}

type ProductService struct {
	store    ProductStore
	cache    cache.CatalogCache
	auditLog *auditlog.Auditlog
	log      *zap.Logger
}

func NewProductService(store ProductStore, c cache.CatalogCache, a *auditlog.Auditlog, log *zap.Logger) *ProductService {
	return &ProductService{
		store:    store,
		cache:    c,
		auditLog: a,
		log:      log,
	}
}

func (s *ProductService) GetProducts(ctx context.Context, filter Filter) ([]models.Product, error) {
	if !filter.IsEmpty() {
		return s.store.GetProducts(ctx, filter)
	}

	if cached, found, err := s.cache.GetProducts(ctx); err != nil {
		s.log.Warn("Catalog cache read failed", zap.Error(err))
	} else if found {
		return cached, nil
	}

	products, err := s.store.GetProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetProducts(ctx, products); err != nil {
		s.log.Warn("Catalog cache write failed", zap.Error(err))
	}

	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetLowStockProducts(ctx)
}

// CheckProduct reports whether a product with the barcode exists.
func (s *ProductService) CheckProduct(ctx context.Context, barcode string) (*models.Product, bool, error) {
	product, err := s.store.GetProductByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		if custom_error.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return product, true, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, username string, req models.ProductRequest) (*models.Product, error) {
	product := req.ToProduct()
	if err := s.normalize(&product); err != nil {
		return nil, err
	}

	conflict, err := s.store.HasConflict(ctx, product.SKU, product.Barcode, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, custom_error.Duplicate("Product with the same SKU or Barcode already exists")
	}

	if err := s.store.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}

	if product.IsLowStock() {
		s.log.Warn("Stock is below alert level",
			zap.String("item_name", product.ItemName),
			zap.String("sku", product.SKU),
			zap.Int("opening_stock", product.OpeningStock),
			zap.Int("alert_quantity", product.AlertQuantity),
		)
	}

	s.invalidate(ctx)
	go s.auditLog.LogAs(username, "create", map[string]interface{}{
		"item_name":     product.ItemName,
		"sku":           product.SKU,
		"barcode":       product.Barcode,
		"opening_stock": product.OpeningStock,
	}, &product)

	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, username string, id int, req models.ProductRequest) (*models.Product, error) {
	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	product := req.ToProduct()
	product.ID = id
	if err := s.normalize(&product); err != nil {
		return nil, err
	}

	conflict, err := s.store.HasConflict(ctx, product.SKU, product.Barcode, id)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, custom_error.Duplicate("SKU or Barcode already exists for another product")
	}

	if err := s.store.UpdateProduct(ctx, &product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	go s.auditLog.LogAs(username, "update", map[string]interface{}{
		"item_name":     product.ItemName,
		"sku":           product.SKU,
		"barcode":       product.Barcode,
		"opening_stock": product.OpeningStock,
	}, &product)

	return &product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, username string, id int) error {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	go s.auditLog.LogAs(username, "delete", map[string]interface{}{
		"item_name": product.ItemName,
		"sku":       product.SKU,
		"barcode":   product.Barcode,
	}, product)

	return nil
}

// ImportProducts upserts every row keyed by SKU or barcode inside one transaction.
func (s *ProductService) ImportProducts(ctx context.Context, username string, rows []ImportRow, mode string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, custom_error.Validation("Invalid file format or empty data")
	}

	switch mode {
	case "":
		mode = ImportModeMerge
	case ImportModeMerge, ImportModeReplace:
	default:
		return nil, custom_error.Validation("Unknown import mode %s", mode)
	}
	merge := mode == ImportModeMerge

	result := &ImportResult{}
	var skipped []SkippedProduct
	var touched []models.Product

	err := s.store.WithTx(ctx, func(tx ImportTx) error {
		for _, row := range rows {
			skip := func(message string) {
				skipped = append(skipped, SkippedProduct{
					ItemName: row.ItemName.String(),
					SKU:      row.SKU.String(),
					Message:  message,
				})
			}

			existing, err := tx.FindBySkuOrBarcode(ctx, row.SKU.String(), row.Barcode.String())
			if err != nil {
				return err
			}

			product := models.Product{}
			if existing != nil {
				product = *existing
			}
			// new products take every value from the row
			if err := row.apply(&product, merge && existing != nil); err != nil {
				skip(err.Error())
				continue
			}

			if product.SalesPrice.GreaterThan(product.RegularPrice) {
				skip("Sales price cannot be greater than regular price.")
				continue
			}

			if existing == nil {
				if product.ItemName == "" {
					skip("Item name is required for new products.")
					continue
				}
				if err := tx.CreateProduct(ctx, &product); err != nil {
					return err
				}
				result.Created++
			} else {
				if product.ItemName == "" {
					product.ItemName = existing.ItemName
				}
				if err := tx.UpdateProduct(ctx, &product); err != nil {
					return err
				}
				result.Updated++
			}
			touched = append(touched, product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	go func() {
		for i := range touched {
			s.auditLog.LogAs(username, "import", map[string]interface{}{
				"item_name":     touched[i].ItemName,
				"sku":           touched[i].SKU,
				"barcode":       touched[i].Barcode,
				"opening_stock": touched[i].OpeningStock,
				"mode":          mode,
			}, &touched[i])
		}
	}()

	s.log.Info("Products imported",
		zap.String("mode", mode),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", len(skipped)),
	)

	result.Message = "Products imported successfully!"
	result.SkippedProducts = skipped
	return result, nil
}

func (s *ProductService) normalize(product *models.Product) error {
	product.ItemName = strings.TrimSpace(product.ItemName)
	product.SKU = strings.TrimSpace(product.SKU)
	product.Barcode = strings.TrimSpace(product.Barcode)
	if product.ItemName == "" {
		return custom_error.Validation("Item name is required")
	}
	if product.OpeningStock < 0 || product.AlertQuantity < 0 {
		return custom_error.Validation("Stock quantities cannot be negative")
	}
	if product.ExpireDate != nil {
		product.ExpireDate = ParseExpireDate(NewCell(*product.ExpireDate))
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
