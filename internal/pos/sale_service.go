package pos

import (
	"context"
	"errors"
	"sort"
	"strings"

	"shopfloor/internal/cache"
	"shopfloor/pkg/auditlog"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SaleService struct {
	store    SaleStore
	cache    cache.CatalogCache
	auditLog *auditlog.Auditlog
	log      *zap.Logger
}

func NewSaleService(store SaleStore, c cache.CatalogCache, a *auditlog.Auditlog, log *zap.Logger) *SaleService {
	return &SaleService{
		store:    store,
		cache:    c,
		auditLog: a,
		log:      log,
	}
}

func (s *SaleService) GetRemainingStock(ctx context.Context) ([]models.RemainingStock, error) {
	if cached, found, err := s.cache.GetRemainingStock(ctx); err != nil {
		s.log.Warn("Remaining stock cache read failed", zap.Error(err))
	} else if found {
		return cached, nil
	}

	stock, err := s.store.GetRemainingStock(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetRemainingStock(ctx, stock); err != nil {
		s.log.Warn("Remaining stock cache write failed", zap.Error(err))
	}

	return stock, nil
}

func (s *SaleService) InsertSale(ctx context.Context, req models.SaleRequest) (*models.Sale, error) {
	if req.TotalAmount == nil {
		return nil, custom_error.Validation("Missing parameter: totalAmount")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, custom_error.Validation("Missing parameter: paymentMethod")
	}
	if req.TotalAmount.IsNegative() {
		return nil, custom_error.Validation("totalAmount cannot be negative")
	}

	sale := &models.Sale{
		CustomerName:  orNotAvailable(req.CustomerName),
		CustomerPhone: orNotAvailable(req.CustomerPhone),
		TotalAmount:   *req.TotalAmount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Items:         []models.SaleItem{},
	}
	if err := s.store.InsertSale(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// InsertSaleItems records every item of a sale and takes the sold quantities off the shop floor.
// Any rejected item rolls back the whole batch.
func (s *SaleService) InsertSaleItems(ctx context.Context, username string, saleID int, reqs []models.SaleItemRequest) ([]models.SaleItem, error) {
	if saleID <= 0 || len(reqs) == 0 {
		return nil, custom_error.Validation("Missing or invalid saleId and items array")
	}

	items := make([]models.SaleItem, 0, len(reqs))
	for _, req := range reqs {
		item, err := toSaleItem(saleID, req)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	err := s.store.WithTx(ctx, func(tx SaleTx) error {
		exists, err := tx.SaleExists(ctx, saleID)
		if err != nil {
			return err
		}
		if !exists {
			return custom_error.NotFound("Sale %d not found", saleID)
		}

		stock, err := lockProducts(ctx, tx, items)
		if err != nil {
			return err
		}

		for i := range items {
			item := &items[i]
			if stock[item.ProductID] < item.Quantity {
				return custom_error.Insufficient("Insufficient stock for product ID: %d", item.ProductID)
			}
			stock[item.ProductID] -= item.Quantity

			if err := tx.InsertSaleItem(ctx, item); err != nil {
				return err
			}
			if err := tx.DecrementOpeningStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}

			location := reqs[i].LocationName
			if strings.TrimSpace(location) == "" {
				continue
			}
			if err := tx.DebitWarehouse(ctx, item.ProductID, models.NormalizeLocationName(location), item.Quantity); err != nil {
				if errors.Is(err, custom_error.ErrInsufficientStock) {
					return custom_error.Insufficient("Not enough stock at location %s for product ID: %d", location, item.ProductID)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	sale := &models.Sale{ID: saleID}
	go s.auditLog.LogAs(username, "sold", map[string]interface{}{
		"items": len(items),
		"total": saleTotal(items).String(),
	}, sale)

	return items, nil
}

// lockProducts locks every product of the basket in ascending id order and returns their shop-floor stock.
func lockProducts(ctx context.Context, tx SaleTx, items []models.SaleItem) (map[int]int, error) {
	stock := make(map[int]int, len(items))
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if _, seen := stock[item.ProductID]; !seen {
			stock[item.ProductID] = 0
			ids = append(ids, item.ProductID)
		}
	}
	sort.Ints(ids)

	for _, id := range ids {
		current, found, err := tx.LockOpeningStock(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, custom_error.NotFound("Product not found for product ID: %d", id)
		}
		stock[id] = current
	}

	return stock, nil
}

func (s *SaleService) GetSalesWithItems(ctx context.Context) ([]models.Sale, error) {
	return s.store.GetSalesWithItems(ctx)
}

func (s *SaleService) GetPhoneNumbers(ctx context.Context) ([]string, error) {
	return s.store.GetPhoneNumbers(ctx)
}

func (s *SaleService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

func toSaleItem(saleID int, req models.SaleItemRequest) (models.SaleItem, error) {
	if req.ProductID <= 0 || req.Quantity == 0 || req.SalePrice == nil || req.Subtotal == nil {
		return models.SaleItem{}, custom_error.Validation("Missing parameters for product ID: %d", req.ProductID)
	}
	if req.Quantity < 0 {
		return models.SaleItem{}, custom_error.Validation("Quantity must be greater than zero for product ID: %d", req.ProductID)
	}

	return models.SaleItem{
		SaleID:    saleID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		SalePrice: *req.SalePrice,
		Discount:  zeroIfNil(req.Discount),
		Tax:       zeroIfNil(req.Tax),
		Subtotal:  *req.Subtotal,
	}, nil
}

func saleTotal(items []models.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func zeroIfNil(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}
	return strings.TrimSpace(s)
}
