package store

import (
	"testing"

	"go-bizkeeper/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerStore_AddIfPhoneUnseen(t *testing.T) {
	f := newFixture()
	s := NewCustomerStore(f.deps)

	first, created, err := s.AddIfPhoneUnseen(model.NewCustomer{Name: "Ann", Phone: "555-1234"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.AddIfPhoneUnseen(model.NewCustomer{Name: "Annie", Phone: " 555-1234 "})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	all := s.List()
	require.Len(t, all, 1)
	assert.Equal(t, "Ann", all[0].Name)
	assert.Equal(t, []string{"customer_created"}, f.events.actions())
}

func TestCustomerStore_RejectsBlankNameOrPhone(t *testing.T) {
	f := newFixture()
	s := NewCustomerStore(f.deps)

	_, created, err := s.AddIfPhoneUnseen(model.NewCustomer{Name: "Ann", Phone: "   "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, created)
	_, _, err = s.AddIfPhoneUnseen(model.NewCustomer{Name: "Bob", Phone: "\t"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Add(model.NewCustomer{Name: " ", Phone: "555"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, s.List())
	assert.Empty(t, f.events.actions())
}

func TestCustomerStore_AddAllowsDuplicatePhones(t *testing.T) {
	s := NewCustomerStore(newFixture().deps)
	_, err := s.Add(model.NewCustomer{Name: "Ann", Phone: "555"})
	require.NoError(t, err)
	_, err = s.Add(model.NewCustomer{Name: "Bob", Phone: "555"})
	require.NoError(t, err)
	assert.Len(t, s.List(), 2)

	_, err = s.Add(model.NewCustomer{Name: "NoPhone"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCustomerStore_Search(t *testing.T) {
	s := NewCustomerStore(newFixture().deps)
	for _, in := range []model.NewCustomer{
		{Name: "Alice", Phone: "555-0100"},
		{Name: "Bob", Phone: "555-0101"},
		{Name: "Carol", Phone: "777-0102"},
	} {
		_, err := s.Add(in)
		require.NoError(t, err)
	}

	byPhone := s.Search("", "555")
	require.Len(t, byPhone, 2)
	assert.Equal(t, "Alice", byPhone[0].Name)
	assert.Equal(t, "Bob", byPhone[1].Name)

	byName := s.Search("CAROL", "")
	require.Len(t, byName, 1)
	assert.Equal(t, "Carol", byName[0].Name)

	either := s.Search("carol", "0100")
	assert.Len(t, either, 2)

	assert.Len(t, s.Search("", ""), 3)
	assert.Empty(t, s.Search("zed", "999"))
}

func TestCustomerStore_UpdateDelete(t *testing.T) {
	s := NewCustomerStore(newFixture().deps)
	c, err := s.Add(model.NewCustomer{Name: "Ann", Phone: "555", Address: strPtr("1 Road")})
	require.NoError(t, err)

	phone := "556"
	blank := " "
	updated, err := s.Update(c.ID, model.CustomerPatch{Phone: &phone, Address: &blank})
	require.NoError(t, err)
	assert.Equal(t, "556", updated.Phone)
	assert.Nil(t, updated.Address)

	found, err := s.FindByPhone("556")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	require.NoError(t, s.Delete(c.ID))
	_, err = s.Update(c.ID, model.CustomerPatch{Phone: &phone})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindByPhone("556")
	assert.ErrorIs(t, err, ErrNotFound)
}
