package woocommerce

import (
	"context"
	"fmt"
	"time"

	"shopfloor/internal/repository"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type WooStore interface {
	SaveConfig(ctx context.Context, config *models.WooConfig) error
	LatestConfig(ctx context.Context) (*models.WooConfig, error)
	// OpeningStockBySKU returns the shop floor quantity of every known SKU.
	OpeningStockBySKU(ctx context.Context, skus []string) (map[string]int, error)
	ShipBySKU(ctx context.Context, sku string, quantity int) (*ShippedProduct, error)
}

type WooRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *WooRepository {
	return &WooRepository{repository: r}
}

func (r *WooRepository) SaveConfig(ctx context.Context, config *models.WooConfig) error {
	query := r.repository.GoquDBWrapper.Insert("woo_configs").
		Rows(goqu.Record{
			"store_url":       config.StoreURL,
			"consumer_key":    config.ConsumerKey,
			"consumer_secret": config.ConsumerSecret,
		}).
		Returning("id", "created_at")

	row := struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}{}
	if _, err := query.Executor().ScanStructContext(ctx, &row); err != nil {
		return fmt.Errorf("failed to insert woo config: %w", err)
	}

	config.ID = row.ID
	config.CreatedAt = row.CreatedAt
	return nil
}

func (r *WooRepository) LatestConfig(ctx context.Context) (*models.WooConfig, error) {
	var config models.WooConfig
	found, err := r.repository.GoquDBWrapper.
		From("woo_configs").
		Select("id", "store_url", "consumer_key", "consumer_secret", "created_at").
		Order(goqu.I("id").Desc()).
		Limit(1).
		Executor().
		ScanStructContext(ctx, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to get woo config: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("WooCommerce config not found")
	}

	return &config, nil
}

func (r *WooRepository) OpeningStockBySKU(ctx context.Context, skus []string) (map[string]int, error) {
	stock := make(map[string]int, len(skus))
	if len(skus) == 0 {
		return stock, nil
	}

	var rows []struct {
		SKU          string `db:"sku"`
		OpeningStock int    `db:"opening_stock"`
	}
	query := r.repository.GoquDBWrapper.
		From("products").
		Select("sku", goqu.COALESCE(goqu.C("opening_stock"), 0).As("opening_stock")).
		Where(goqu.C("sku").In(skus))
	if err := query.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("unable to select stock by sku: %w", err)
	}

	for _, row := range rows {
		stock[row.SKU] = row.OpeningStock
	}
	return stock, nil
}

func (r *WooRepository) ShipBySKU(ctx context.Context, sku string, quantity int) (*ShippedProduct, error) {
	var shipped ShippedProduct
	err := repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		row := struct {
			ID           int    `db:"id"`
			ItemName     string `db:"item_name"`
			OpeningStock int    `db:"opening_stock"`
		}{}
		found, err := tx.From("products").
			Select("id", "item_name", "opening_stock").
			Where(goqu.Ex{"sku": sku}).
			ForUpdate(goqu.Wait).
			Executor().
			ScanStructContext(ctx, &row)
		if err != nil {
			return fmt.Errorf("failed to lock product %s: %w", sku, err)
		}
		if !found {
			return custom_error.NotFound("Product with SKU %s not found", sku)
		}

		var remaining int
		updated, err := tx.Update("products").
			Set(goqu.Record{"opening_stock": goqu.L("opening_stock - ?", quantity)}).
			Where(
				goqu.C("id").Eq(row.ID),
				goqu.C("opening_stock").Gte(quantity),
			).
			Returning("opening_stock").
			Executor().
			ScanValContext(ctx, &remaining)
		if err != nil {
			return custom_error.FromPQ(err, "failed to ship item")
		}
		if !updated {
			return custom_error.Insufficient("Insufficient stock for SKU %s: %d available, %d requested", sku, row.OpeningStock, quantity)
		}

		shipped = ShippedProduct{ID: row.ID, ItemName: row.ItemName, RemainingStock: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &shipped, nil
}
