package store

import (
	"context"

	"go.uber.org/zap"
)

// Stores groups every entity store behind one set of dependencies.
type Stores struct {
	Products  *ProductStore
	Customers *CustomerStore
	Orders    *OrderStore
	Auth      *AuthStore
	Theme     *ThemeStore
}

// Open builds the stores and restores their persisted snapshots.
func Open(ctx context.Context, deps Deps, authOpts ...AuthOption) (*Stores, error) {
	deps = deps.withDefaults()
	s := &Stores{
		Products:  NewProductStore(deps),
		Customers: NewCustomerStore(deps),
		Orders:    NewOrderStore(deps),
		Auth:      NewAuthStore(deps, authOpts...),
		Theme:     NewThemeStore(deps),
	}

	loaders := []interface{ Load(context.Context) error }{s.Products, s.Customers, s.Orders, s.Theme}
	for _, l := range loaders {
		if err := l.Load(ctx); err != nil {
			return nil, err
		}
	}
	if _, err := s.Auth.Initialize(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SeedSamples fills an empty catalog and directory with the sample data.
func (s *Stores) SeedSamples(log *zap.Logger) error {
	seeded, err := s.Products.SeedIfEmpty(SampleProducts())
	if err != nil {
		return err
	}
	if seeded {
		log.Info("seeded sample products", zap.Int("count", len(SampleProducts())))
	}
	seeded, err = s.Customers.SeedIfEmpty(SampleCustomers())
	if err != nil {
		return err
	}
	if seeded {
		log.Info("seeded sample customers", zap.Int("count", len(SampleCustomers())))
	}
	return nil
}
