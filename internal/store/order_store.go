package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
)

type orderSnapshot struct {
	Orders       []model.Order `json:"orders"`
	OrderCounter int           `json:"order_counter"`
}

// OrderStore keeps orders newest first and owns the order-code counter.
type OrderStore struct {
	mu      sync.RWMutex
	orders  []model.Order
	counter int // next code number
	deps    Deps
}

func NewOrderStore(deps Deps) *OrderStore {
	return &OrderStore{deps: deps.withDefaults(), counter: 1}
}

func (s *OrderStore) Load(ctx context.Context) error {
	var snap orderSnapshot
	found, err := s.deps.load(ctx, OrderStorageKey, &snap)
	if err != nil || !found {
		return err
	}
	s.mu.Lock()
	s.orders = snap.Orders
	s.counter = snap.OrderCounter
	if s.counter < 1 {
		s.counter = len(snap.Orders) + 1
	}
	s.mu.Unlock()
	return nil
}

// Add creates a pending order from already-priced line items and puts it
// first in the list. The total is computed from the items; a zero caller
// total counts as not supplied.
func (s *OrderStore) Add(in model.NewOrder) (model.Order, error) {
	if err := validate(in); err != nil {
		return model.Order{}, err
	}
	if in.CustomerID == nil && strings.TrimSpace(in.Phone) == "" {
		return model.Order{}, ErrMissingContact
	}

	s.mu.Lock()
	now := s.deps.Clock()
	order := in.Build(now, model.FormatOrderCode(now, s.counter))
	if in.Total != nil && !in.Total.IsZero() && !in.Total.Round(2).Equal(order.Total) {
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("%w: got %s, items sum to %s", ErrTotalMismatch, in.Total.StringFixed(2), order.Total.StringFixed(2))
	}
	s.counter++
	s.orders = append([]model.Order{order}, s.orders...)
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityOrder, "order_created", order.ID, order,
		fmt.Sprintf("Order %s created for %s (%s)", order.Code, order.CustomerName, order.Total.StringFixed(2)))
	return order.Clone(), nil
}

// UpdateStatus overwrites the status. Delivered and cancelled orders are
// final.
func (s *OrderStore) UpdateStatus(id uuid.UUID, status model.OrderStatus) (model.Order, error) {
	if !status.Valid() {
		return model.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	current := s.orders[i].Status
	if !current.CanTransition(status) {
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}
	s.orders[i].Status = status
	s.orders[i].UpdatedAt = s.deps.Clock()
	updated := s.orders[i].Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityOrder, "order_status_updated", id, map[string]any{
		"code":       updated.Code,
		"old_status": current,
		"new_status": status,
	}, fmt.Sprintf("Order %s is now %s", updated.Code, status))
	return updated, nil
}

// ToggleItemDelivered flips the delivered flag of one line item.
func (s *OrderStore) ToggleItemDelivered(orderID, itemID uuid.UUID) (model.Order, error) {
	s.mu.Lock()
	i := s.indexLocked(orderID)
	if i < 0 {
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	j := -1
	for k := range s.orders[i].Items {
		if s.orders[i].Items[k].ID == itemID {
			j = k
			break
		}
	}
	if j < 0 {
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
	}
	item := &s.orders[i].Items[j]
	item.Delivered = !item.Delivered
	s.orders[i].UpdatedAt = s.deps.Clock()
	updated := s.orders[i].Clone()
	delivered := item.Delivered
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityOrder, "order_item_toggled", orderID, map[string]any{
		"item_id":   itemID,
		"delivered": delivered,
	}, fmt.Sprintf("Order %s item '%s' delivered=%t", updated.Code, updated.Items[j].Name, delivered))
	return updated, nil
}

// Delete removes the order permanently.
func (s *OrderStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	code := s.orders[i].Code
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityOrder, "order_deleted", id, nil, fmt.Sprintf("Order %s deleted", code))
	return nil
}

func (s *OrderStore) Get(id uuid.UUID) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return s.orders[i].Clone(), nil
}

// List returns every order, newest first.
func (s *OrderStore) List() []model.Order {
	return s.filter(func(model.Order) bool { return true })
}

func (s *OrderStore) FindByCustomer(customerID uuid.UUID) []model.Order {
	return s.filter(func(o model.Order) bool {
		return o.CustomerID != nil && *o.CustomerID == customerID
	})
}

// NextCounter is the number the next order code will carry.
func (s *OrderStore) NextCounter() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counter
}

func (s *OrderStore) filter(keep func(model.Order) bool) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (s *OrderStore) indexLocked(id uuid.UUID) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *OrderStore) persistLocked() {
	s.deps.persist(OrderStorageKey, orderSnapshot{Orders: s.orders, OrderCounter: s.counter})
}
