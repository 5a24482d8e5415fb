package pos

import (
	"context"
	"fmt"
	"time"

	"shopfloor/internal/inventory/stocks"
	"shopfloor/internal/repository"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type SaleStore interface {
	GetRemainingStock(ctx context.Context) ([]models.RemainingStock, error)
	InsertSale(ctx context.Context, sale *models.Sale) error
	GetSalesWithItems(ctx context.Context) ([]models.Sale, error)
	GetPhoneNumbers(ctx context.Context) ([]string, error)
	WithTx(ctx context.Context, fn func(tx SaleTx) error) error
}

// SaleTx holds the row locks and writes of one sale items checkout.
type SaleTx interface {
	SaleExists(ctx context.Context, saleID int) (bool, error)
	// LockOpeningStock returns the shop floor quantity of the product, found is false for unknown products.
	LockOpeningStock(ctx context.Context, productID int) (stock int, found bool, err error)
	InsertSaleItem(ctx context.Context, item *models.SaleItem) error
	DecrementOpeningStock(ctx context.Context, productID int, quantity int) error
	DebitWarehouse(ctx context.Context, productID int, locationName string, quantity int) error
}

type SaleRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *SaleRepository {
	return &SaleRepository{repository: r}
}

func (r *SaleRepository) GetRemainingStock(ctx context.Context) ([]models.RemainingStock, error) {
	query := r.repository.GoquDBWrapper.
		From("products").
		Select(
			"id",
			"barcode",
			"opening_stock",
			"regular_price",
			"sales_price",
			"purchase_price",
			"item_name",
			goqu.COALESCE(goqu.C("discount"), 0).As("discount"),
			goqu.COALESCE(goqu.C("tax_value"), 0).As("tax_value"),
		).
		Order(goqu.I("id").Asc())

	stock := []models.RemainingStock{}
	if err := query.Executor().ScanStructsContext(ctx, &stock); err != nil {
		return nil, fmt.Errorf("unable to select remaining stock: %w", err)
	}

	return stock, nil
}

func (r *SaleRepository) InsertSale(ctx context.Context, sale *models.Sale) error {
	query := r.repository.GoquDBWrapper.Insert("sales").
		Rows(goqu.Record{
			"customer_name":  sale.CustomerName,
			"customer_phone": sale.CustomerPhone,
			"total_amount":   sale.TotalAmount,
			"payment_method": sale.PaymentMethod,
		}).
		Returning("id", "sale_date", "is_invoiced")

	row := struct {
		ID         int       `db:"id"`
		SaleDate   time.Time `db:"sale_date"`
		IsInvoiced bool      `db:"is_invoiced"`
	}{}
	if _, err := query.Executor().ScanStructContext(ctx, &row); err != nil {
		return custom_error.FromPQ(err, "failed to insert sale")
	}

	sale.ID = row.ID
	sale.SaleDate = row.SaleDate
	sale.IsInvoiced = row.IsInvoiced
	return nil
}

func (r *SaleRepository) GetSalesWithItems(ctx context.Context) ([]models.Sale, error) {
	sales := []models.Sale{}
	salesQuery := r.repository.GoquDBWrapper.
		From("sales").
		Select("id", "customer_name", "customer_phone", "total_amount", "payment_method", "sale_date", "is_invoiced").
		Order(goqu.I("id").Desc())
	if err := salesQuery.Executor().ScanStructsContext(ctx, &sales); err != nil {
		return nil, fmt.Errorf("unable to select sales: %w", err)
	}

	items := []models.SaleItem{}
	itemsQuery := r.repository.GoquDBWrapper.
		From(goqu.T("sales_items").As("si")).
		Select(
			goqu.I("si.id").As("id"),
			goqu.I("si.sale_id").As("sale_id"),
			goqu.I("si.product_id").As("product_id"),
			goqu.COALESCE(goqu.I("p.item_name"), "").As("item_name"),
			goqu.I("si.quantity").As("quantity"),
			goqu.I("si.sale_price").As("sale_price"),
			goqu.COALESCE(goqu.I("si.discount"), 0).As("discount"),
			goqu.COALESCE(goqu.I("si.tax"), 0).As("tax"),
			goqu.I("si.subtotal").As("subtotal"),
		).
		LeftJoin(
			goqu.T("products").As("p"),
			goqu.On(goqu.Ex{"si.product_id": goqu.I("p.id")}),
		).
		Order(goqu.I("si.id").Asc())
	if err := itemsQuery.Executor().ScanStructsContext(ctx, &items); err != nil {
		return nil, fmt.Errorf("unable to select sale items: %w", err)
	}

	return groupSaleItems(sales, items), nil
}

func (r *SaleRepository) GetPhoneNumbers(ctx context.Context) ([]string, error) {
	phones := []string{}
	query := r.repository.GoquDBWrapper.
		From("sales").
		Select(goqu.COALESCE(goqu.C("customer_phone"), "").As("customer_phone")).
		Distinct().
		Order(goqu.C("customer_phone").Asc())
	if err := query.Executor().ScanValsContext(ctx, &phones); err != nil {
		return nil, fmt.Errorf("unable to select phone numbers: %w", err)
	}

	return phones, nil
}

func (r *SaleRepository) WithTx(ctx context.Context, fn func(tx SaleTx) error) error {
	return repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(&saleTx{q: tx, stock: stocks.NewTxRepository(tx)})
	})
}

type saleTx struct {
	q     repository.Querier
	stock *stocks.TxRepository
}

func (t *saleTx) SaleExists(ctx context.Context, saleID int) (bool, error) {
	var id int
	found, err := t.q.From("sales").
		Select("id").
		Where(goqu.Ex{"id": saleID}).
		ForUpdate(goqu.Wait).
		Executor().
		ScanValContext(ctx, &id)
	if err != nil {
		return false, fmt.Errorf("failed to look up sale %d: %w", saleID, err)
	}

	return found, nil
}

func (t *saleTx) LockOpeningStock(ctx context.Context, productID int) (int, bool, error) {
	var stock int
	found, err := t.q.From("products").
		Select(goqu.COALESCE(goqu.C("opening_stock"), 0)).
		Where(goqu.Ex{"id": productID}).
		ForUpdate(goqu.Wait).
		Executor().
		ScanValContext(ctx, &stock)
	if err != nil {
		return 0, false, fmt.Errorf("failed to lock product %d: %w", productID, err)
	}

	return stock, found, nil
}

func (t *saleTx) InsertSaleItem(ctx context.Context, item *models.SaleItem) error {
	query := t.q.Insert("sales_items").
		Rows(goqu.Record{
			"sale_id":    item.SaleID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"sale_price": item.SalePrice,
			"discount":   item.Discount,
			"tax":        item.Tax,
			"subtotal":   item.Subtotal,
		}).
		Returning("id")

	if _, err := query.Executor().ScanValContext(ctx, &item.ID); err != nil {
		return custom_error.FromPQ(err, "failed to insert sale item")
	}

	return nil
}

func (t *saleTx) DecrementOpeningStock(ctx context.Context, productID int, quantity int) error {
	_, err := t.q.Update("products").
		Set(goqu.Record{
			"opening_stock": goqu.L("GREATEST(opening_stock - ?, 0)", quantity),
		}).
		Where(goqu.Ex{"id": productID}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to decrement opening stock of product %d: %w", productID, err)
	}

	return nil
}

func (t *saleTx) DebitWarehouse(ctx context.Context, productID int, locationName string, quantity int) error {
	_, err := t.stock.DebitStock(ctx, productID, locationName, quantity)
	return err
}

func groupSaleItems(sales []models.Sale, items []models.SaleItem) []models.Sale {
	index := make(map[int]int, len(sales))
	for i := range sales {
		sales[i].Items = []models.SaleItem{}
		index[sales[i].ID] = i
	}
	for _, item := range items {
		if i, ok := index[item.SaleID]; ok {
			sales[i].Items = append(sales[i].Items, item)
		}
	}
	return sales
}
