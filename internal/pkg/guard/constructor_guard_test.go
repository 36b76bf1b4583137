package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard validates", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		errNotConstructed := errors.New("Cart must be created via NewCart")

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero value falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	errLineNotConstructed := errors.New("CartLine must be created via newCartLine")

	type CartLine struct {
		quantity int
		guard    guard.ConstructorGuard
	}

	newCartLine := func(quantity int) (CartLine, error) {
		if quantity <= 0 {
			return CartLine{}, errors.New("quantity must be positive")
		}
		return CartLine{
			quantity: quantity,
			guard:    guard.NewConstructorGuard(),
		}, nil
	}

	t.Run("constructor path validates", func(t *testing.T) {
		line, err := newCartLine(2)

		require.NoError(t, err)
		require.NoError(t, line.guard.Validate(errLineNotConstructed))
		assert.Equal(t, 2, line.quantity)
	})

	t.Run("zero value is detected", func(t *testing.T) {
		var line CartLine

		err := line.guard.Validate(errLineNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errLineNotConstructed, err)
	})
}
