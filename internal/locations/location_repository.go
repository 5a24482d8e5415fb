package locations

import (
	"context"
	"fmt"

	"shopfloor/internal/repository"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type LocationRepository struct {
	Repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{Repository: r}
}

func (r *LocationRepository) GetLocations(ctx context.Context) ([]models.Location, error) {
	locations := []models.Location{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "location_name").
		From("locations").
		Order(goqu.I("location_name").Asc())
	if err := query.Executor().ScanStructsContext(ctx, &locations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return locations, nil
}

func (r *LocationRepository) GetLocation(ctx context.Context, id int) (*models.Location, error) {
	var location models.Location
	found, err := r.Repository.GoquDBWrapper.
		Select("id", "location_name").
		From("locations").
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &location)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("Location not found")
	}

	return &location, nil
}

func (r *LocationRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	count, err := r.Repository.GoquDBWrapper.
		From("locations").
		Where(goqu.L("LOWER(TRIM(location_name))").Eq(models.NormalizeLocationName(name))).
		CountContext(ctx)
	if err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return count > 0, nil
}

func (r *LocationRepository) PersistLocation(ctx context.Context, location *models.Location) error {
	query := r.Repository.GoquDBWrapper.Insert("locations").
		Rows(goqu.Record{
			"location_name": location.Name,
		}).
		Returning("id")

	if _, err := query.Executor().ScanValContext(ctx, &location.ID); err != nil {
		return custom_error.FromPQ(err, "Location already exists")
	}

	return nil
}

func (r *LocationRepository) GetLocationStock(ctx context.Context, name string) ([]models.WarehouseStock, error) {
	stock := []models.WarehouseStock{}
	query := r.Repository.GoquDBWrapper.
		From("warehouse").
		Select("id", "product_id", "product_name", "barcode", "location_name", "stock_quantity").
		Where(goqu.Ex{"location_name": models.NormalizeLocationName(name)}).
		Order(goqu.I("product_name").Asc())
	if err := query.Executor().ScanStructsContext(ctx, &stock); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return stock, nil
}

// RemoveLocation deletes the location unless warehouse rows still point at it.
func (r *LocationRepository) RemoveLocation(ctx context.Context, id int) error {
	return repository.WithTransaction(ctx, r.Repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var name string
		found, err := tx.From("locations").
			Select("location_name").
			Where(goqu.Ex{"id": id}).
			ForUpdate(goqu.Wait).
			Executor().
			ScanValContext(ctx, &name)
		if err != nil {
			return fmt.Errorf("failed to lock location: %w", err)
		}
		if !found {
			return custom_error.NotFound("Location not found")
		}

		references, err := tx.From("warehouse").
			Where(goqu.Ex{"location_name": models.NormalizeLocationName(name)}).
			CountContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to count warehouse stock: %w", err)
		}
		if references > 0 {
			return custom_error.InUse("Location %s still holds warehouse stock", name)
		}

		if _, err := tx.Delete("locations").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to delete location: %w", err)
		}
		return nil
	})
}
