package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
)

type customerSnapshot struct {
	Customers []model.Customer `json:"customers"`
}

type CustomerStore struct {
	mu        sync.RWMutex
	customers []model.Customer
	deps      Deps
}

func NewCustomerStore(deps Deps) *CustomerStore {
	return &CustomerStore{deps: deps.withDefaults()}
}

func (s *CustomerStore) Load(ctx context.Context) error {
	var snap customerSnapshot
	found, err := s.deps.load(ctx, CustomerStorageKey, &snap)
	if err != nil || !found {
		return err
	}
	s.mu.Lock()
	s.customers = snap.Customers
	s.mu.Unlock()
	return nil
}

func (s *CustomerStore) SeedIfEmpty(items []model.NewCustomer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.customers) > 0 {
		return false, nil
	}
	for _, in := range items {
		if err := validate(in); err != nil {
			return false, err
		}
		s.customers = append(s.customers, in.Build(s.deps.Clock()))
	}
	s.persistLocked()
	return true, nil
}

// Add inserts unconditionally; the directory screen allows duplicate phones.
func (s *CustomerStore) Add(in model.NewCustomer) (model.Customer, error) {
	if err := validate(in); err != nil {
		return model.Customer{}, err
	}

	s.mu.Lock()
	c := s.insertLocked(in)
	s.mu.Unlock()

	s.publishCreated(c)
	return c.Clone(), nil
}

// AddIfPhoneUnseen inserts only when no customer has the same phone.
// Otherwise the call is dropped and the existing customer is returned with
// created=false.
func (s *CustomerStore) AddIfPhoneUnseen(in model.NewCustomer) (model.Customer, bool, error) {
	if err := validate(in); err != nil {
		return model.Customer{}, false, err
	}

	s.mu.Lock()
	if i := s.phoneIndexLocked(in.Phone); i >= 0 {
		existing := s.customers[i].Clone()
		s.mu.Unlock()
		return existing, false, nil
	}
	c := s.insertLocked(in)
	s.mu.Unlock()

	s.publishCreated(c)
	return c.Clone(), true, nil
}

func (s *CustomerStore) Update(id uuid.UUID, patch model.CustomerPatch) (model.Customer, error) {
	if err := validate(patch); err != nil {
		return model.Customer{}, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	updated := s.customers[i].Clone()
	patch.Apply(&updated, s.deps.Clock())
	if updated.Name == "" || updated.Phone == "" {
		s.mu.Unlock()
		return model.Customer{}, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	s.customers[i] = updated
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityCustomer, "customer_updated", id, updated, fmt.Sprintf("Customer '%s' updated", updated.Name))
	return updated.Clone(), nil
}

// Delete removes the customer. Orders keep their copied name and phone.
func (s *CustomerStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	name := s.customers[i].Name
	s.customers = append(s.customers[:i], s.customers[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityCustomer, "customer_deleted", id, nil, fmt.Sprintf("Customer '%s' deleted", name))
	return nil
}

func (s *CustomerStore) Get(id uuid.UUID) (model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return s.customers[i].Clone(), nil
}

func (s *CustomerStore) FindByPhone(phone string) (model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.phoneIndexLocked(phone)
	if i < 0 {
		return model.Customer{}, fmt.Errorf("customer with phone %q: %w", phone, ErrNotFound)
	}
	return s.customers[i].Clone(), nil
}

func (s *CustomerStore) List() []model.Customer {
	return s.filter(func(model.Customer) bool { return true })
}

// Search returns customers whose name contains namePartial
// (case-insensitive) or whose phone contains phonePartial. An empty partial
// never matches on its own; with both empty every customer is returned.
func (s *CustomerStore) Search(namePartial, phonePartial string) []model.Customer {
	name := strings.ToLower(strings.TrimSpace(namePartial))
	phone := strings.TrimSpace(phonePartial)
	if name == "" && phone == "" {
		return s.List()
	}
	return s.filter(func(c model.Customer) bool {
		if name != "" && strings.Contains(strings.ToLower(c.Name), name) {
			return true
		}
		return phone != "" && strings.Contains(c.Phone, phone)
	})
}

func (s *CustomerStore) filter(keep func(model.Customer) bool) []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func (s *CustomerStore) insertLocked(in model.NewCustomer) model.Customer {
	c := in.Build(s.deps.Clock())
	s.customers = append(s.customers, c)
	s.persistLocked()
	return c
}

func (s *CustomerStore) publishCreated(c model.Customer) {
	s.deps.publish(model.EntityCustomer, "customer_created", c.ID, c, fmt.Sprintf("Customer '%s' created", c.Name))
}

func (s *CustomerStore) indexLocked(id uuid.UUID) int {
	for i := range s.customers {
		if s.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CustomerStore) phoneIndexLocked(phone string) int {
	phone = strings.TrimSpace(phone)
	for i := range s.customers {
		if s.customers[i].Phone == phone {
			return i
		}
	}
	return -1
}

func (s *CustomerStore) persistLocked() {
	s.deps.persist(CustomerStorageKey, customerSnapshot{Customers: s.customers})
}
