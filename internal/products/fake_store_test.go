package products

import (
	"context"
	"errors"
	"sort"

	custom_error "shopfloor/pkg/errors"
	"shopfloor/pkg/models"
)

// fakeStore is an in-memory ProductStore whose WithTx discards all writes on error.
type fakeStore struct {
	products map[int]models.Product
	nextID   int
	failOn   string
}

func newFakeStore(products ...models.Product) *fakeStore {
	s := &fakeStore{products: map[int]models.Product{}, nextID: 1}
	for _, p := range products {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{products: map[int]models.Product{}, nextID: s.nextID, failOn: s.failOn}
	for k, v := range s.products {
		c.products[k] = v
	}
	return c
}

func (s *fakeStore) sorted() []models.Product {
	out := []models.Product{}
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) GetProducts(ctx context.Context, filter Filter) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.sorted() {
		if filter.CategoryName != "" && (p.CategoryName == nil || *p.CategoryName != filter.CategoryName) {
			continue
		}
		if filter.BrandName != "" && (p.BrandName == nil || *p.BrandName != filter.BrandName) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, custom_error.NotFound("Product not found")
	}
	return &p, nil
}

func (s *fakeStore) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	for _, p := range s.products {
		if p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, custom_error.NotFound("Product not found")
}

func (s *fakeStore) GetLowStockProducts(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.sorted() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) HasConflict(ctx context.Context, sku, barcode string, excludeID int) (bool, error) {
	for _, p := range s.products {
		if p.ID == excludeID {
			continue
		}
		if (sku != "" && p.SKU == sku) || (barcode != "" && p.Barcode == barcode) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if s.failOn != "" && product.ItemName == s.failOn {
		return errors.New("insert failed")
	}
	product.ID = s.nextID
	s.nextID++
	s.products[product.ID] = *product
	return nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	if _, ok := s.products[product.ID]; !ok {
		return custom_error.NotFound("Product not found")
	}
	s.products[product.ID] = *product
	return nil
}

func (s *fakeStore) DeleteProduct(ctx context.Context, id int) error {
	if _, ok := s.products[id]; !ok {
		return custom_error.NotFound("Product not found")
	}
	delete(s.products, id)
	return nil
}

func (s *fakeStore) FindBySkuOrBarcode(ctx context.Context, sku, barcode string) (*models.Product, error) {
	for _, p := range s.sorted() {
		if (sku != "" && p.SKU == sku) || (barcode != "" && p.Barcode == barcode) {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx ImportTx) error) error {
	work := s.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.products = work.products
	s.nextID = work.nextID
	return nil
}
