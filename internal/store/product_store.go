package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
)

type productSnapshot struct {
	Products []model.Product `json:"products"`
}

type ProductStore struct {
	mu       sync.RWMutex
	products []model.Product
	deps     Deps
}

func NewProductStore(deps Deps) *ProductStore {
	return &ProductStore{deps: deps.withDefaults()}
}

// Load replaces the collection with the persisted snapshot, if any.
func (s *ProductStore) Load(ctx context.Context) error {
	var snap productSnapshot
	found, err := s.deps.load(ctx, ProductStorageKey, &snap)
	if err != nil || !found {
		return err
	}
	s.mu.Lock()
	s.products = snap.Products
	s.mu.Unlock()
	return nil
}

// SeedIfEmpty adds the given products when the catalog is empty and
// reports whether it did.
func (s *ProductStore) SeedIfEmpty(items []model.NewProduct) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) > 0 {
		return false, nil
	}
	for _, in := range items {
		if err := validate(in); err != nil {
			return false, err
		}
		s.products = append(s.products, in.Build(s.deps.Clock()))
	}
	s.persistLocked()
	return true, nil
}

func (s *ProductStore) Add(in model.NewProduct) (model.Product, error) {
	if err := validate(in); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	p := in.Build(s.deps.Clock())
	s.products = append(s.products, p)
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityProduct, "product_created", p.ID, p, fmt.Sprintf("Product '%s' created", p.Name))
	return p.Clone(), nil
}

func (s *ProductStore) Update(id uuid.UUID, patch model.ProductPatch) (model.Product, error) {
	if err := validate(patch); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	updated := s.products[i].Clone()
	patch.Apply(&updated, s.deps.Clock())
	if updated.Name == "" {
		s.mu.Unlock()
		return model.Product{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	s.products[i] = updated
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityProduct, "product_updated", id, updated, fmt.Sprintf("Product '%s' updated", updated.Name))
	return updated.Clone(), nil
}

// UpdateStock overwrites the stock with an absolute value.
func (s *ProductStore) UpdateStock(id uuid.UUID, stock int) (model.Product, error) {
	if stock < 0 {
		return model.Product{}, ErrNegativeStock
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	oldStock := s.products[i].Stock
	s.products[i].Stock = stock
	s.products[i].UpdatedAt = s.deps.Clock()
	updated := s.products[i].Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityProduct, "stock_updated", id, map[string]any{
		"old_stock": oldStock,
		"new_stock": stock,
	}, fmt.Sprintf("Stock of '%s' set to %d", updated.Name, stock))
	return updated, nil
}

func (s *ProductStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	name := s.products[i].Name
	s.products = append(s.products[:i], s.products[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityProduct, "product_deleted", id, nil, fmt.Sprintf("Product '%s' deleted", name))
	return nil
}

func (s *ProductStore) Get(id uuid.UUID) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return s.products[i].Clone(), nil
}

// List returns the catalog in insertion order.
func (s *ProductStore) List() []model.Product {
	return s.filter(func(model.Product) bool { return true })
}

// Search matches name or category, case-insensitively.
func (s *ProductStore) Search(query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}
	return s.filter(func(p model.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	})
}

// LowStock returns the products at or below threshold.
func (s *ProductStore) LowStock(threshold int) []model.Product {
	return s.filter(func(p model.Product) bool { return p.Stock <= threshold })
}

func (s *ProductStore) filter(keep func(model.Product) bool) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *ProductStore) indexLocked(id uuid.UUID) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ProductStore) persistLocked() {
	s.deps.persist(ProductStorageKey, productSnapshot{Products: s.products})
}
