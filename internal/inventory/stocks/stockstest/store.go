// Package stockstest provides an in-memory stocks.Store with transaction rollback.
package stockstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopfloor/internal/inventory/stocks"
	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"
)

type state struct {
	products  map[string]stocks.ProductRef
	locations map[string]bool
	stock     []models.WarehouseStock
	audits    []models.StockAudit
	nextID    int
}

func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]stocks.ProductRef, len(s.products)),
		locations: make(map[string]bool, len(s.locations)),
		stock:     append([]models.WarehouseStock(nil), s.stock...),
		audits:    append([]models.StockAudit(nil), s.audits...),
		nextID:    s.nextID,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	return c
}

type Store struct {
	mu      sync.Mutex
	current *state
	// FailAfter makes the transaction body fail with this error once fn returns successfully.
	FailAfter error
}

func NewStore() *Store {
	return &Store{current: &state{
		products:  map[string]stocks.ProductRef{},
		locations: map[string]bool{},
		nextID:    1,
	}}
}

func (s *Store) AddProduct(id int, name, barcode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.products[barcode] = stocks.ProductRef{ID: id, Name: name, Barcode: barcode}
}

func (s *Store) AddLocation(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.locations[models.NormalizeLocationName(name)] = true
}

// Quantity returns the committed quantity of a (barcode, location) row, or -1 when it does not exist.
func (s *Store) Quantity(barcode, location string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.current.stock {
		if row.Barcode == barcode && row.LocationName == models.NormalizeLocationName(location) {
			return row.StockQuantity
		}
	}
	return -1
}

func (s *Store) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.current.stock)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx stocks.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.current.clone()
	if err := fn(&tx{st: work}); err != nil {
		return err
	}
	if s.FailAfter != nil {
		return s.FailAfter
	}
	s.current = work
	return nil
}

func (s *Store) GetStocks(ctx context.Context, filter stocks.Filter) ([]models.WarehouseStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	location := models.NormalizeLocationName(filter.LocationName)
	out := []models.WarehouseStock{}
	for _, row := range s.current.stock {
		if location != "" && row.LocationName != location {
			continue
		}
		if filter.Barcode != "" && row.Barcode != filter.Barcode {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) GetAudits(ctx context.Context) ([]models.StockAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]models.StockAudit{}, s.current.audits...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type tx struct {
	st *state
}

func (t *tx) find(productID int, location string) int {
	location = models.NormalizeLocationName(location)
	for i, row := range t.st.stock {
		if row.ProductID == productID && row.LocationName == location {
			return i
		}
	}
	return -1
}

func (t *tx) ProductByBarcode(ctx context.Context, barcode string) (*stocks.ProductRef, error) {
	p, ok := t.st.products[barcode]
	if !ok {
		return nil, custom_error.NotFound("Product not found for barcode %s", barcode)
	}
	return &p, nil
}

func (t *tx) LocationExists(ctx context.Context, locationName string) (bool, error) {
	return t.st.locations[models.NormalizeLocationName(locationName)], nil
}

func (t *tx) AddStock(ctx context.Context, product stocks.ProductRef, locationName string, quantity int) (int, error) {
	if i := t.find(product.ID, locationName); i >= 0 {
		t.st.stock[i].StockQuantity += quantity
		return t.st.stock[i].StockQuantity, nil
	}

	t.st.stock = append(t.st.stock, models.WarehouseStock{
		ID:            t.st.nextID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Barcode:       product.Barcode,
		LocationName:  models.NormalizeLocationName(locationName),
		StockQuantity: quantity,
	})
	t.st.nextID++
	return quantity, nil
}

func (t *tx) DebitStock(ctx context.Context, productID int, locationName string, quantity int) (int, error) {
	i := t.find(productID, locationName)
	if i < 0 || t.st.stock[i].StockQuantity < quantity {
		return 0, custom_error.Insufficient("Not enough stock at source location")
	}
	t.st.stock[i].StockQuantity -= quantity
	return t.st.stock[i].StockQuantity, nil
}

func (t *tx) LockStock(ctx context.Context, productID int, locationName string) (*models.WarehouseStock, error) {
	i := t.find(productID, locationName)
	if i < 0 {
		return nil, custom_error.NotFound("Product is not stocked at location %s", locationName)
	}
	row := t.st.stock[i]
	return &row, nil
}

func (t *tx) SetStock(ctx context.Context, stockID int, quantity int) error {
	for i := range t.st.stock {
		if t.st.stock[i].ID == stockID {
			t.st.stock[i].StockQuantity = quantity
			return nil
		}
	}
	return custom_error.NotFound("Warehouse stock %d not found", stockID)
}

func (t *tx) InsertAudit(ctx context.Context, audit *models.StockAudit) error {
	audit.ID = len(t.st.audits) + 1
	audit.AuditedAt = time.Now()
	t.st.audits = append(t.st.audits, *audit)
	return nil
}
