package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string          `validate:"required"`
	Price decimal.Decimal `validate:"gte=0"`
	Owner uuid.UUID       `validate:"uuid_required"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := ValidateStruct(priced{Name: "Pen", Price: decimal.NewFromFloat(1.5), Owner: uuid.New()})
		assert.Empty(t, errs)
	})

	t.Run("negative price and nil uuid", func(t *testing.T) {
		errs := ValidateStruct(priced{Name: "Pen", Price: decimal.NewFromInt(-1)})
		require.Len(t, errs, 2)
		assert.Equal(t, "priced.Price", errs[0].FailedField)
		assert.Equal(t, "gte", errs[0].Tag)
		assert.Equal(t, "uuid_required", errs[1].Tag)
	})

	t.Run("notblank rejects whitespace", func(t *testing.T) {
		type named struct {
			Name string `validate:"notblank"`
		}
		errs := ValidateStruct(named{Name: " \t "})
		require.Len(t, errs, 1)
		assert.Equal(t, "notblank", errs[0].Tag)
		assert.Empty(t, ValidateStruct(named{Name: "Pen"}))
	})

	t.Run("first error", func(t *testing.T) {
		err := First(priced{Price: decimal.Zero, Owner: uuid.New()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "priced.Name")
	})
}
