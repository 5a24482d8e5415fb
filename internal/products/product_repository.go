package products

import (
	"context"
	"errors"
	"fmt"

	"shopfloor/internal/repository"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type Filter struct {
	CategoryName string
	BrandName    string
}

func (f Filter) IsEmpty() bool {
	return f.CategoryName == "" && f.BrandName == ""
}

// ProductStore is the catalog storage used by ProductService.
type ProductStore interface {
	GetProducts(ctx context.Context, filter Filter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	GetLowStockProducts(ctx context.Context) ([]models.Product, error)
	HasConflict(ctx context.Context, sku, barcode string, excludeID int) (bool, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) error
	WithTx(ctx context.Context, fn func(tx ImportTx) error) error
}

// ImportTx is the catalog storage available inside the import transaction.
type ImportTx interface {
	// FindBySkuOrBarcode returns nil without error when no product matches.
	FindBySkuOrBarcode(ctx context.Context, sku, barcode string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
}

var productColumns = []interface{}{
	"id", "item_name", "category_name", "sku", "hsn", "unit_name", "alert_quantity",
	"brand_name", "lot_number", "expire_date", "regular_price", "purchase_price",
	"tax_name", "tax_value", "tax_type", "sales_price", "opening_stock", "barcode",
	"discount_type", "discount",
}

type ProductRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ProductRepository {
	return &ProductRepository{repository: r}
}

func (r *ProductRepository) GetProducts(ctx context.Context, filter Filter) ([]models.Product, error) {
	qb := repository.NewQueryBuilder()
	qb.AddCondition("category_name", filter.CategoryName)
	qb.AddCondition("brand_name", filter.BrandName)

	query := r.repository.GoquDBWrapper.
		From("products").
		Select(productColumns...).
		Where(qb.BuildConditions(nil)).
		Order(goqu.I("id").Asc())

	products := []models.Product{}
	if err := query.Executor().ScanStructsContext(ctx, &products); err != nil {
		return nil, fmt.Errorf("unable to select products from database: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return findProduct(ctx, r.repository.GoquDBWrapper, goqu.Ex{"id": id}, "Product not found")
}

func (r *ProductRepository) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return findProduct(ctx, r.repository.GoquDBWrapper, goqu.Ex{"barcode": barcode}, "Product not found")
}

func (r *ProductRepository) GetLowStockProducts(ctx context.Context) ([]models.Product, error) {
	query := r.repository.GoquDBWrapper.
		From("products").
		Select(productColumns...).
		Where(goqu.C("opening_stock").Lt(goqu.I("alert_quantity"))).
		Order(goqu.I("id").Asc())

	products := []models.Product{}
	if err := query.Executor().ScanStructsContext(ctx, &products); err != nil {
		return nil, fmt.Errorf("unable to select low stock products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) HasConflict(ctx context.Context, sku, barcode string, excludeID int) (bool, error) {
	keys := skuOrBarcode(sku, barcode)
	if keys == nil {
		return false, nil
	}

	query := r.repository.GoquDBWrapper.
		From("products").
		Where(keys, goqu.C("id").Neq(excludeID))

	count, err := query.CountContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check product uniqueness: %w", err)
	}

	return count > 0, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return insertProduct(ctx, r.repository.GoquDBWrapper, product)
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return updateProduct(ctx, r.repository.GoquDBWrapper, product)
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("products").
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		if err = custom_error.FromPQ(err, "failed to delete product"); errors.Is(err, custom_error.ErrInUse) {
			return custom_error.InUse("Product is referenced by recorded sales")
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("Product not found")
	}

	return nil
}

func (r *ProductRepository) WithTx(ctx context.Context, fn func(tx ImportTx) error) error {
	return repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(&importTx{q: tx})
	})
}

type importTx struct {
	q repository.Querier
}

func (t *importTx) FindBySkuOrBarcode(ctx context.Context, sku, barcode string) (*models.Product, error) {
	keys := skuOrBarcode(sku, barcode)
	if keys == nil {
		return nil, nil
	}

	var product models.Product
	found, err := t.q.From("products").
		Select(productColumns...).
		Where(keys).
		Order(goqu.I("id").Asc()).
		Limit(1).
		ForUpdate(goqu.Wait).
		Executor().
		ScanStructContext(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &product, nil
}

func (t *importTx) CreateProduct(ctx context.Context, product *models.Product) error {
	return insertProduct(ctx, t.q, product)
}

func (t *importTx) UpdateProduct(ctx context.Context, product *models.Product) error {
	return updateProduct(ctx, t.q, product)
}

func findProduct(ctx context.Context, q repository.Querier, where goqu.Ex, notFound string) (*models.Product, error) {
	var product models.Product
	found, err := q.From("products").
		Select(productColumns...).
		Where(where).
		Executor().
		ScanStructContext(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("unable to select product: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("%s", notFound)
	}

	return &product, nil
}

func insertProduct(ctx context.Context, q repository.Querier, product *models.Product) error {
	query := q.Insert("products").
		Rows(product.Record()).
		Returning("id")

	if _, err := query.Executor().ScanValContext(ctx, &product.ID); err != nil {
		return custom_error.FromPQ(err, "Product with the same SKU or Barcode already exists")
	}

	return nil
}

func updateProduct(ctx context.Context, q repository.Querier, product *models.Product) error {
	result, err := q.Update("products").
		Set(product.Record()).
		Where(goqu.Ex{"id": product.ID}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromPQ(err, "SKU or Barcode already exists for another product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("Product not found")
	}

	return nil
}

// skuOrBarcode matches either non-empty key, or returns nil when both are empty.
func skuOrBarcode(sku, barcode string) exp.Expression {
	var or []exp.Expression
	if sku != "" {
		or = append(or, goqu.C("sku").Eq(sku))
	}
	if barcode != "" {
		or = append(or, goqu.C("barcode").Eq(barcode))
	}
	if len(or) == 0 {
		return nil
	}
	return goqu.Or(or...)
}
