package http

import (
	"errors"
	"net/http/httptest"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseCode(t *testing.T, err error) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, httpError(ctx, err))
	return rec.Code
}

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", errs.NewObjectNotFoundError("order_id", kernel.NewUUID()), 404},
		{"invalid value", errs.NewValueIsInvalidError("quantity"), 400},
		{"missing value", errs.NewValueIsRequiredError("payment method"), 400},
		{"rejected transition", order.NewInvalidTransitionError(order.Delivered, order.Pending, nil), 409},
		{"driver unavailable", driver.ErrDriverUnavailable, 409},
		{"no drivers", services.ErrNoDriversAvailable, 409},
		{"empty cart", commands.ErrCartIsEmpty, 409},
		{"storage failure", errs.NewStorageError("cart.add", errors.New("down")), 503},
		{"anything else", errors.New("boom"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, responseCode(t, tc.err))
		})
	}
}

func TestParseActor(t *testing.T) {
	t.Run("builds the actor from wire names", func(t *testing.T) {
		id := kernel.NewUUID()

		actor, err := parseActor("merchant", id.String())

		require.NoError(t, err)
		assert.Equal(t, order.RoleMerchant, actor.Role())
		assert.True(t, actor.ID().IsEqual(id))
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := parseActor("auditor", kernel.NewUUID().String())
		require.Error(t, err)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		_, err := parseActor("buyer", "not-a-uuid")
		require.Error(t, err)
	})
}
