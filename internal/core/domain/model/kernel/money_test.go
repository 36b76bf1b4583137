package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create money from non-negative amount", func(t *testing.T) {
		m, err := kernel.NewMoney(1500)

		require.NoError(t, err)
		assert.Equal(t, int64(1500), m.Amount())
	})

	t.Run("should allow zero", func(t *testing.T) {
		m, err := kernel.NewMoney(0)

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("should reject negative amount", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.Error(t, err)
		require.ErrorIs(t, err, kernel.ErrMoneyIsNegative)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a, _ := kernel.NewMoney(650)
		b, _ := kernel.NewMoney(300)

		assert.Equal(t, int64(950), a.Add(b).Amount())
	})

	t.Run("multiply by quantity", func(t *testing.T) {
		price, _ := kernel.NewMoney(650)

		assert.Equal(t, int64(1300), price.MulQuantity(2).Amount())
	})

	t.Run("equality", func(t *testing.T) {
		a, _ := kernel.NewMoney(100)
		b, _ := kernel.NewMoney(100)
		c, _ := kernel.NewMoney(101)

		assert.True(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(c))
	})
}
