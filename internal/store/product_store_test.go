package store

import (
	"errors"
	"testing"

	"go-bizkeeper/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStore_Add(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		s := NewProductStore(f.deps)

		p, err := s.Add(model.NewProduct{Name: "  Pen ", Price: money("1.50"), Stock: 10, Category: "electronics"})
		require.NoError(t, err)
		assert.Equal(t, "Pen", p.Name)
		assert.Equal(t, "Electronics", p.Category)
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
		assert.Equal(t, []string{"product_created"}, f.events.actions())

		var snap productSnapshot
		f.storage.decode(t, ProductStorageKey, &snap)
		require.Len(t, snap.Products, 1)
		assert.Equal(t, p.ID, snap.Products[0].ID)
	})

	t.Run("Duplicate names allowed", func(t *testing.T) {
		s := NewProductStore(newFixture().deps)
		a, err := s.Add(model.NewProduct{Name: "Pen", Price: money("1")})
		require.NoError(t, err)
		b, err := s.Add(model.NewProduct{Name: "Pen", Price: money("1")})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Len(t, s.List(), 2)
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture()
		s := NewProductStore(f.deps)

		_, err := s.Add(model.NewProduct{Name: "", Price: money("1")})
		assert.True(t, errors.Is(err, ErrValidation))
		_, err = s.Add(model.NewProduct{Name: "   ", Price: money("1")})
		assert.True(t, errors.Is(err, ErrValidation))
		_, err = s.Add(model.NewProduct{Name: "Pen", Price: money("-0.01")})
		assert.True(t, errors.Is(err, ErrValidation))
		_, err = s.Add(model.NewProduct{Name: "Pen", Price: money("1"), Stock: -1})
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Empty(t, s.List())
		assert.Empty(t, f.events.actions())
	})
}

func TestProductStore_UpdateStock(t *testing.T) {
	s := NewProductStore(newFixture().deps)
	pen, err := s.Add(model.NewProduct{Name: "Pen", Price: money("1.50"), Stock: 10})
	require.NoError(t, err)

	updated, err := s.UpdateStock(pen.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)

	got, err := s.Get(pen.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	_, err = s.UpdateStock(pen.ID, -1)
	assert.ErrorIs(t, err, ErrNegativeStock)
	got, _ = s.Get(pen.ID)
	assert.Equal(t, 7, got.Stock)

	_, err = s.UpdateStock(model.NewID(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductStore_Update(t *testing.T) {
	s := NewProductStore(newFixture().deps)
	pen, err := s.Add(model.NewProduct{Name: "Pen", Price: money("1.50"), Stock: 10, Image: strPtr("pen.png")})
	require.NoError(t, err)

	price := money("2.25")
	empty := ""
	updated, err := s.Update(pen.ID, model.ProductPatch{Price: &price, Image: &empty})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
	assert.Nil(t, updated.Image)
	assert.Equal(t, "Pen", updated.Name)
	assert.Equal(t, pen.ID, updated.ID)
	assert.Equal(t, pen.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(pen.UpdatedAt))

	blank := "   "
	_, err = s.Update(pen.ID, model.ProductPatch{Name: &blank})
	assert.ErrorIs(t, err, ErrValidation)

	negative := money("-1")
	_, err = s.Update(pen.ID, model.ProductPatch{Price: &negative})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductStore_DeleteThenUpdateIsNoop(t *testing.T) {
	f := newFixture()
	s := NewProductStore(f.deps)
	pen, err := s.Add(model.NewProduct{Name: "Pen", Price: money("1.50"), Stock: 10})
	require.NoError(t, err)

	require.NoError(t, s.Delete(pen.ID))
	name := "Resurrected"
	_, err = s.Update(pen.ID, model.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(pen.ID), ErrNotFound)
	assert.Empty(t, s.List())
	assert.Equal(t, []string{"product_created", "product_deleted"}, f.events.actions())
}

func TestProductStore_SearchAndLowStock(t *testing.T) {
	s := NewProductStore(newFixture().deps)
	_, err := s.SeedIfEmpty(SampleProducts())
	require.NoError(t, err)

	assert.Len(t, s.Search(""), 3)

	byName := s.Search("COFFEE")
	require.Len(t, byName, 1)
	assert.Equal(t, "Coffee Beans", byName[0].Name)

	byCategory := s.Search("cloth")
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Cotton T-Shirt", byCategory[0].Name)

	low := s.LowStock(5)
	require.Len(t, low, 1)
	assert.Equal(t, 3, low[0].Stock)
}

func TestProductStore_ReturnsCopies(t *testing.T) {
	s := NewProductStore(newFixture().deps)
	p, err := s.Add(model.NewProduct{Name: "Pen", Price: money("1"), Image: strPtr("a.png")})
	require.NoError(t, err)

	*p.Image = "mutated.png"
	list := s.List()
	list[0].Name = "mutated"

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pen", got.Name)
	assert.Equal(t, "a.png", *got.Image)
}
