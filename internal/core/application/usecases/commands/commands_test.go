package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Constructor validation across the command set: zero-value commands fail
// their guard, and bad parameters never produce a constructed command.
func TestCommandConstructorGuards(t *testing.T) {
	point := mustPoint(t, 55.75, 37.62)
	actor, err := order.NewActor(order.RoleBuyer, kernel.NewUUID())
	require.NoError(t, err)

	t.Run("zero values fail validation", func(t *testing.T) {
		require.Error(t, (&commands.CheckoutCommand{}).Validate())
		require.Error(t, (&commands.AdvanceOrderCommand{}).Validate())
		require.Error(t, (&commands.CancelOrderCommand{}).Validate())
		require.Error(t, (&commands.AutoAssignDriverCommand{}).Validate())
		require.Error(t, (&commands.ManualAssignDriverCommand{}).Validate())
		require.Error(t, (&commands.UnassignDriverCommand{}).Validate())
		require.Error(t, (&commands.RecordHeartbeatCommand{}).Validate())
		require.Error(t, (&commands.DisputeEscrowCommand{}).Validate())
		require.Error(t, (&commands.ReleaseEscrowCommand{}).Validate())
		require.Error(t, (&commands.RefundEscrowCommand{}).Validate())
		require.Error(t, (&commands.SweepEscrowCommand{}).Validate())
	})

	t.Run("constructed commands pass validation", func(t *testing.T) {
		checkout, err := commands.NewCheckoutCommand(kernel.NewUUID(), "addr", point, "card")
		require.NoError(t, err)
		require.NoError(t, checkout.Validate())

		advance, err := commands.NewAdvanceOrderCommand(kernel.NewUUID(), order.Confirmed, actor)
		require.NoError(t, err)
		require.NoError(t, advance.Validate())

		sweep := commands.NewSweepEscrowCommand()
		require.NoError(t, sweep.Validate())
	})

	t.Run("invalid parameters are rejected", func(t *testing.T) {
		_, err := commands.NewCheckoutCommand(kernel.NewUUID(), "", point, "card")
		require.ErrorIs(t, err, commands.ErrCheckoutAddressIsRequired)

		_, err = commands.NewCheckoutCommand(kernel.NewUUID(), "addr", point, "")
		require.ErrorIs(t, err, commands.ErrCheckoutPaymentIsRequired)

		_, err = commands.NewAdvanceOrderCommand(kernel.NewUUID(), order.Unknown, actor)
		require.Error(t, err)

		_, err = commands.NewAdvanceOrderCommand(kernel.NewUUID(), order.Confirmed, order.Actor{})
		require.Error(t, err)

		_, err = commands.NewRecordHeartbeatCommand(kernel.NewUUID(), point, driver.Unknown)
		require.Error(t, err)
	})
}

func TestGroupingPolicyFromString(t *testing.T) {
	for _, policy := range []commands.GroupingPolicy{commands.GroupPerMerchant, commands.GroupPerLine} {
		parsed, err := commands.GroupingPolicyFromString(policy.String())
		require.NoError(t, err)
		assert.Equal(t, policy, parsed)
	}

	_, err := commands.GroupingPolicyFromString("per_item")
	require.Error(t, err)
}
