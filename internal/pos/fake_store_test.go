package pos

import (
	"context"
	"maps"
	"sort"
	"time"

	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"
)

type warehouseKey struct {
	productID int
	location  string
}

// fakeStore keeps sales in memory, transactions work on a copy that is only kept on success.
type fakeStore struct {
	products  map[int]models.RemainingStock
	warehouse map[warehouseKey]int
	sales     []models.Sale
	items     []models.SaleItem
	nextItem  int
	locked    []int
}

func newFakeStore(products ...models.RemainingStock) *fakeStore {
	s := &fakeStore{
		products:  map[int]models.RemainingStock{},
		warehouse: map[warehouseKey]int{},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) GetRemainingStock(ctx context.Context) ([]models.RemainingStock, error) {
	stock := make([]models.RemainingStock, 0, len(s.products))
	for _, p := range s.products {
		stock = append(stock, p)
	}
	sort.Slice(stock, func(i, j int) bool { return stock[i].ID < stock[j].ID })
	return stock, nil
}

func (s *fakeStore) InsertSale(ctx context.Context, sale *models.Sale) error {
	sale.ID = len(s.sales) + 1
	sale.SaleDate = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.sales = append(s.sales, *sale)
	return nil
}

func (s *fakeStore) GetSalesWithItems(ctx context.Context) ([]models.Sale, error) {
	sales := make([]models.Sale, len(s.sales))
	copy(sales, s.sales)
	sort.Slice(sales, func(i, j int) bool { return sales[i].ID > sales[j].ID })

	items := make([]models.SaleItem, len(s.items))
	for i, item := range s.items {
		item.ItemName = s.products[item.ProductID].ItemName
		items[i] = item
	}
	return groupSaleItems(sales, items), nil
}

func (s *fakeStore) GetPhoneNumbers(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	phones := []string{}
	for _, sale := range s.sales {
		if !seen[sale.CustomerPhone] {
			seen[sale.CustomerPhone] = true
			phones = append(phones, sale.CustomerPhone)
		}
	}
	sort.Strings(phones)
	return phones, nil
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx SaleTx) error) error {
	tx := &fakeTx{
		store:     s,
		products:  maps.Clone(s.products),
		warehouse: maps.Clone(s.warehouse),
		items:     append([]models.SaleItem(nil), s.items...),
		nextItem:  s.nextItem,
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.products = tx.products
	s.warehouse = tx.warehouse
	s.items = tx.items
	s.nextItem = tx.nextItem
	return nil
}

type fakeTx struct {
	store     *fakeStore
	products  map[int]models.RemainingStock
	warehouse map[warehouseKey]int
	items     []models.SaleItem
	nextItem  int
}

func (t *fakeTx) SaleExists(ctx context.Context, saleID int) (bool, error) {
	for _, sale := range t.store.sales {
		if sale.ID == saleID {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) LockOpeningStock(ctx context.Context, productID int) (int, bool, error) {
	t.store.locked = append(t.store.locked, productID)
	p, ok := t.products[productID]
	return p.OpeningStock, ok, nil
}

func (t *fakeTx) InsertSaleItem(ctx context.Context, item *models.SaleItem) error {
	t.nextItem++
	item.ID = t.nextItem
	t.items = append(t.items, *item)
	return nil
}

func (t *fakeTx) DecrementOpeningStock(ctx context.Context, productID int, quantity int) error {
	p := t.products[productID]
	p.OpeningStock = max(p.OpeningStock-quantity, 0)
	t.products[productID] = p
	return nil
}

func (t *fakeTx) DebitWarehouse(ctx context.Context, productID int, locationName string, quantity int) error {
	key := warehouseKey{productID: productID, location: locationName}
	current, ok := t.warehouse[key]
	if !ok || current < quantity {
		return custom_error.Insufficient("Not enough stock at source location")
	}
	t.warehouse[key] = current - quantity
	return nil
}
