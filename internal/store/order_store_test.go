package store

import (
	"strings"
	"testing"
	"time"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetGadgetOrder() model.NewOrder {
	return model.NewOrder{
		CustomerName: "Ann",
		Phone:        "555-1234",
		Items: []model.NewOrderItem{
			{ProductID: model.NewID(), Name: "Widget", UnitPrice: money("5.00"), Quantity: 2},
			{ProductID: model.NewID(), Name: "Gadget", UnitPrice: money("3.00"), Quantity: 1},
		},
	}
}

func TestOrderStore_Add(t *testing.T) {
	t.Run("Computes total and starts pending", func(t *testing.T) {
		f := newFixture()
		s := NewOrderStore(f.deps)

		o, err := s.Add(widgetGadgetOrder())
		require.NoError(t, err)
		assert.Equal(t, "13.00", o.Total.StringFixed(2))
		assert.Equal(t, model.StatusPending, o.Status)
		assert.Equal(t, "25MAR-001", o.Code)
		assert.Equal(t, o.CreatedAt, o.UpdatedAt)
		for _, it := range o.Items {
			assert.False(t, it.Delivered)
			assert.NotEqual(t, uuid.Nil, it.ID)
		}
		assert.Equal(t, []string{"order_created"}, f.events.actions())

		var snap orderSnapshot
		f.storage.decode(t, OrderStorageKey, &snap)
		assert.Equal(t, 2, snap.OrderCounter)
		require.Len(t, snap.Orders, 1)
	})

	t.Run("Caller total must agree", func(t *testing.T) {
		s := NewOrderStore(newFixture().deps)

		in := widgetGadgetOrder()
		good := money("13")
		in.Total = &good
		_, err := s.Add(in)
		require.NoError(t, err)

		zero := decimal.Zero
		in.Total = &zero
		o, err := s.Add(in)
		require.NoError(t, err)
		assert.Equal(t, "13.00", o.Total.StringFixed(2))

		bad := money("12.99")
		in.Total = &bad
		_, err = s.Add(in)
		assert.ErrorIs(t, err, ErrTotalMismatch)
		assert.Len(t, s.List(), 2)
		assert.Equal(t, 3, s.NextCounter())
	})

	t.Run("Rejects invalid input", func(t *testing.T) {
		s := NewOrderStore(newFixture().deps)

		noItems := widgetGadgetOrder()
		noItems.Items = nil
		_, err := s.Add(noItems)
		assert.ErrorIs(t, err, ErrValidation)

		zeroQty := widgetGadgetOrder()
		zeroQty.Items[0].Quantity = 0
		_, err = s.Add(zeroQty)
		assert.ErrorIs(t, err, ErrValidation)

		negPrice := widgetGadgetOrder()
		negPrice.Items[1].UnitPrice = money("-1")
		_, err = s.Add(negPrice)
		assert.ErrorIs(t, err, ErrValidation)

		noName := widgetGadgetOrder()
		noName.CustomerName = ""
		_, err = s.Add(noName)
		assert.ErrorIs(t, err, ErrValidation)

		blankName := widgetGadgetOrder()
		blankName.CustomerName = "  "
		_, err = s.Add(blankName)
		assert.ErrorIs(t, err, ErrValidation)

		blankItem := widgetGadgetOrder()
		blankItem.Items[0].Name = " "
		_, err = s.Add(blankItem)
		assert.ErrorIs(t, err, ErrValidation)

		noContact := widgetGadgetOrder()
		noContact.Phone = ""
		_, err = s.Add(noContact)
		assert.ErrorIs(t, err, ErrMissingContact)

		blankContact := widgetGadgetOrder()
		blankContact.Phone = " "
		_, err = s.Add(blankContact)
		assert.ErrorIs(t, err, ErrMissingContact)

		assert.Empty(t, s.List())
	})
}

func TestOrderStore_NewestFirst(t *testing.T) {
	s := NewOrderStore(newFixture().deps)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		o, err := s.Add(widgetGadgetOrder())
		require.NoError(t, err)
		ids = append(ids, o.ID)

		list := s.List()
		require.Len(t, list, i+1)
		assert.Equal(t, o.ID, list[0].ID)
	}

	list := s.List()
	for i, o := range list {
		assert.Equal(t, ids[len(ids)-1-i], o.ID)
	}
}

func TestOrderStore_CodeCounterSpansMonthAndYear(t *testing.T) {
	f := newFixture()
	s := NewOrderStore(f.deps)

	times := []time.Time{
		time.Date(2024, time.November, 30, 23, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 30, 0, 0, time.UTC),
	}
	want := []string{"24NOV-001", "24DEC-002", "25JAN-003"}
	for i, at := range times {
		f.clock.Set(at.Add(-time.Second))
		o, err := s.Add(widgetGadgetOrder())
		require.NoError(t, err)
		assert.Equal(t, want[i], o.Code)
	}
}

func TestOrderStore_CodeGrowsPastThreeDigits(t *testing.T) {
	f := newFixture()
	f.storage.Enqueue(OrderStorageKey, []byte(`{"orders":[],"order_counter":1000}`))
	s := NewOrderStore(f.deps)
	require.NoError(t, s.Load(t.Context()))

	o, err := s.Add(widgetGadgetOrder())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(o.Code, "-1000"), o.Code)
}

func TestOrderStore_SnapshotSurvivesProductEdits(t *testing.T) {
	deps := newFixture().deps
	products := NewProductStore(deps)
	orders := NewOrderStore(deps)

	widget, err := products.Add(model.NewProduct{Name: "Widget", Price: money("5.00"), Stock: 10})
	require.NoError(t, err)

	o, err := orders.Add(model.NewOrder{
		CustomerName: "Ann",
		Phone:        "555",
		Items:        []model.NewOrderItem{{ProductID: widget.ID, Name: widget.Name, UnitPrice: widget.Price, Quantity: 2}},
	})
	require.NoError(t, err)

	price := money("9.99")
	name := "Widget Pro"
	_, err = products.Update(widget.ID, model.ProductPatch{Price: &price, Name: &name})
	require.NoError(t, err)
	require.NoError(t, products.Delete(widget.ID))

	got, err := orders.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Items[0].Name)
	assert.Equal(t, "5.00", got.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "10.00", got.Total.StringFixed(2))
	assert.True(t, got.Total.Equal(model.SumLineTotals(got.Items)))
}

func TestOrderStore_UpdateStatus(t *testing.T) {
	s := NewOrderStore(newFixture().deps)
	o, err := s.Add(widgetGadgetOrder())
	require.NoError(t, err)

	updated, err := s.UpdateStatus(o.ID, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)
	assert.True(t, updated.UpdatedAt.After(o.UpdatedAt))
	assert.True(t, decimal.NewFromInt(13).Equal(updated.Total))

	_, err = s.UpdateStatus(o.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpdateStatus(o.ID, model.StatusDelivered)
	require.NoError(t, err)
	_, err = s.UpdateStatus(o.ID, model.StatusDelivered)
	assert.NoError(t, err)
	_, err = s.UpdateStatus(o.ID, model.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.UpdateStatus(model.NewID(), model.StatusPacked)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderStore_ToggleItemDelivered(t *testing.T) {
	s := NewOrderStore(newFixture().deps)
	o, err := s.Add(widgetGadgetOrder())
	require.NoError(t, err)
	itemID := o.Items[1].ID

	toggled, err := s.ToggleItemDelivered(o.ID, itemID)
	require.NoError(t, err)
	assert.True(t, toggled.Items[1].Delivered)
	assert.False(t, toggled.Items[0].Delivered)
	require.Len(t, toggled.PendingItems(), 1)
	assert.Equal(t, "Widget", toggled.PendingItems()[0].Name)

	toggled, err = s.ToggleItemDelivered(o.ID, itemID)
	require.NoError(t, err)
	assert.False(t, toggled.Items[1].Delivered)

	_, err = s.ToggleItemDelivered(o.ID, model.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ToggleItemDelivered(model.NewID(), itemID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderStore_DeleteAndFindByCustomer(t *testing.T) {
	s := NewOrderStore(newFixture().deps)
	customerID := model.NewID()

	in := widgetGadgetOrder()
	in.CustomerID = &customerID
	in.Phone = ""
	mine, err := s.Add(in)
	require.NoError(t, err)
	_, err = s.Add(widgetGadgetOrder())
	require.NoError(t, err)

	found := s.FindByCustomer(customerID)
	require.Len(t, found, 1)
	assert.Equal(t, mine.ID, found[0].ID)

	require.NoError(t, s.Delete(mine.ID))
	assert.Empty(t, s.FindByCustomer(customerID))
	assert.ErrorIs(t, s.Delete(mine.ID), ErrNotFound)
	assert.Len(t, s.List(), 1)
}
