package stocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopfloor/internal/repository"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

func (r *StockRepository) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(NewTxRepository(tx))
	})
}

func (r *StockRepository) GetStocks(ctx context.Context, filter Filter) ([]models.WarehouseStock, error) {
	qb := repository.NewQueryBuilder()
	qb.AddCondition("location_name", models.NormalizeLocationName(filter.LocationName))
	qb.AddCondition("barcode", filter.Barcode)

	query := r.repository.GoquDBWrapper.
		From(goqu.T("warehouse").As("w")).
		Select(
			goqu.I("w.id").As("id"),
			goqu.I("w.product_id").As("product_id"),
			goqu.I("w.product_name").As("product_name"),
			goqu.I("w.barcode").As("barcode"),
			goqu.I("w.location_name").As("location_name"),
			goqu.I("w.stock_quantity").As("stock_quantity"),
		).
		Where(qb.BuildConditions(map[string]string{
			"location_name": "w.location_name",
			"barcode":       "w.barcode",
		})).
		Order(goqu.I("w.location_name").Asc(), goqu.I("w.product_name").Asc())

	stocks := []models.WarehouseStock{}
	if err := query.Executor().ScanStructsContext(ctx, &stocks); err != nil {
		return nil, fmt.Errorf("unable to select warehouse stock from database: %w", err)
	}

	return stocks, nil
}

func (r *StockRepository) GetAudits(ctx context.Context) ([]models.StockAudit, error) {
	query := r.repository.GoquDBWrapper.
		From("stock_audit").
		Order(goqu.I("audited_at").Desc(), goqu.I("id").Desc())

	audits := []models.StockAudit{}
	if err := query.Executor().ScanStructsContext(ctx, &audits); err != nil {
		return nil, fmt.Errorf("unable to select stock audits from database: %w", err)
	}

	return audits, nil
}

// TxRepository runs the stock mutations on an open transaction.
type TxRepository struct {
	q repository.Querier
}

func NewTxRepository(q repository.Querier) *TxRepository {
	return &TxRepository{q: q}
}

func (r *TxRepository) ProductByBarcode(ctx context.Context, barcode string) (*ProductRef, error) {
	var product ProductRef
	found, err := r.q.From("products").
		Select("id", "item_name", "barcode").
		Where(goqu.Ex{"barcode": barcode}).
		Executor().
		ScanStructContext(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product %s: %w", barcode, err)
	}
	if !found {
		return nil, custom_error.NotFound("Product not found for barcode %s", barcode)
	}

	return &product, nil
}

// LocationExists share-locks the location row until the transaction ends.
func (r *TxRepository) LocationExists(ctx context.Context, locationName string) (bool, error) {
	var id int
	found, err := shareLocationQuery(r.q, locationName).Executor().ScanValContext(ctx, &id)
	if err != nil {
		return false, fmt.Errorf("failed to look up location %s: %w", locationName, err)
	}

	return found, nil
}

func shareLocationQuery(q repository.Querier, locationName string) *goqu.SelectDataset {
	return q.From("locations").
		Select("id").
		Where(goqu.L("LOWER(TRIM(location_name))").Eq(models.NormalizeLocationName(locationName))).
		Limit(1).
		ForShare(goqu.Wait)
}

func (r *TxRepository) AddStock(ctx context.Context, product ProductRef, locationName string, quantity int) (int, error) {
	var total int
	if _, err := addStockQuery(r.q, product, locationName, quantity).Executor().ScanValContext(ctx, &total); err != nil {
		return 0, custom_error.FromPQ(err, "failed to add warehouse stock")
	}

	return total, nil
}

func addStockQuery(q repository.Querier, product ProductRef, locationName string, quantity int) *goqu.InsertDataset {
	return q.Insert("warehouse").
		Rows(goqu.Record{
			"product_id":     product.ID,
			"product_name":   product.Name,
			"barcode":        product.Barcode,
			"location_name":  models.NormalizeLocationName(locationName),
			"stock_quantity": quantity,
		}).
		OnConflict(
			goqu.DoUpdate(
				"product_id, location_name",
				goqu.Record{
					"stock_quantity": goqu.L("warehouse.stock_quantity + EXCLUDED.stock_quantity"),
					"product_name":   goqu.L("EXCLUDED.product_name"),
					"barcode":        goqu.L("EXCLUDED.barcode"),
				},
			),
		).
		Returning("stock_quantity")
}

func (r *TxRepository) DebitStock(ctx context.Context, productID int, locationName string, quantity int) (int, error) {
	var remaining int
	found, err := debitStockQuery(r.q, productID, locationName, quantity).Executor().ScanValContext(ctx, &remaining)
	if err != nil {
		return 0, custom_error.FromPQ(err, "failed to debit warehouse stock")
	}
	if !found {
		return 0, custom_error.Insufficient("Not enough stock at source location")
	}

	return remaining, nil
}

// debitStockQuery only matches a row holding at least quantity.
func debitStockQuery(q repository.Querier, productID int, locationName string, quantity int) *goqu.UpdateDataset {
	return q.Update("warehouse").
		Set(goqu.Record{
			"stock_quantity": goqu.L("stock_quantity - ?", quantity),
		}).
		Where(goqu.Ex{
			"product_id":    productID,
			"location_name": models.NormalizeLocationName(locationName),
		}).
		Where(goqu.C("stock_quantity").Gte(quantity)).
		Returning("stock_quantity")
}

func (r *TxRepository) LockStock(ctx context.Context, productID int, locationName string) (*models.WarehouseStock, error) {
	var stock models.WarehouseStock
	found, err := lockStockQuery(r.q, productID, locationName).Executor().ScanStructContext(ctx, &stock)
	if err != nil {
		return nil, fmt.Errorf("failed to lock warehouse stock: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("Product is not stocked at location %s", locationName)
	}

	return &stock, nil
}

func lockStockQuery(q repository.Querier, productID int, locationName string) *goqu.SelectDataset {
	return q.From("warehouse").
		Select("id", "product_id", "product_name", "barcode", "location_name", "stock_quantity").
		Where(goqu.Ex{
			"product_id":    productID,
			"location_name": models.NormalizeLocationName(locationName),
		}).
		ForUpdate(goqu.Wait)
}

func (r *TxRepository) SetStock(ctx context.Context, stockID int, quantity int) error {
	result, err := r.q.Update("warehouse").
		Set(goqu.Record{"stock_quantity": quantity}).
		Where(goqu.Ex{"id": stockID}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromPQ(err, "failed to update warehouse stock")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("Warehouse stock %d not found", stockID)
	}

	return nil
}

func (r *TxRepository) InsertAudit(ctx context.Context, audit *models.StockAudit) error {
	query := r.q.Insert("stock_audit").
		Rows(goqu.Record{
			"barcode":        audit.Barcode,
			"product_name":   audit.ProductName,
			"location_name":  audit.LocationName,
			"system_stock":   audit.SystemStock,
			"physical_stock": audit.PhysicalStock,
			"difference":     audit.Difference,
			"audited_by":     audit.AuditedBy,
		}).
		Returning("id", "audited_at")

	row := struct {
		ID        int          `db:"id"`
		AuditedAt sql.NullTime `db:"audited_at"`
	}{}
	found, err := query.Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return custom_error.FromPQ(err, "failed to insert stock audit")
	}
	if !found {
		return errors.New("stock audit insert returned no row")
	}

	audit.ID = row.ID
	audit.AuditedAt = row.AuditedAt.Time
	return nil
}
