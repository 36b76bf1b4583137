package escrow_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releaseWindow = 72 * time.Hour

func openTransaction(t *testing.T, heldAt time.Time) *escrow.Transaction {
	t.Helper()

	amount, err := kernel.NewMoney(1800)
	require.NoError(t, err)

	tr, err := escrow.OpenTransaction(kernel.NewUUID(), kernel.NewUUID(), amount, heldAt, releaseWindow)
	require.NoError(t, err)
	return tr
}

func TestOpenTransaction(t *testing.T) {
	t.Run("opens held with the release deadline", func(t *testing.T) {
		heldAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		tr := openTransaction(t, heldAt)

		require.NoError(t, tr.Validate())
		assert.Equal(t, escrow.Held, tr.Status())
		assert.Equal(t, heldAt, tr.HeldAt())
		require.NotNil(t, tr.AutoReleaseAt())
		assert.Equal(t, heldAt.Add(releaseWindow), *tr.AutoReleaseAt())
		assert.Nil(t, tr.DisputedAt())
		assert.Nil(t, tr.ResolvedAt())
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := escrow.OpenTransaction(
			kernel.NewUUID(), kernel.NewUUID(), kernel.Zero(), time.Now(), releaseWindow)

		require.ErrorIs(t, err, escrow.ErrAmountIsRequired)
	})

	t.Run("uninitialized transaction fails validation", func(t *testing.T) {
		var tr escrow.Transaction
		require.ErrorIs(t, tr.Validate(), escrow.ErrTransactionIsNotConstructed)
	})
}

func TestTransaction_Dispute(t *testing.T) {
	t.Run("dispute stops the release timer", func(t *testing.T) {
		heldAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		tr := openTransaction(t, heldAt)
		disputedAt := heldAt.Add(time.Hour)

		require.NoError(t, tr.Dispute("order arrived damaged", disputedAt))

		assert.Equal(t, escrow.Disputed, tr.Status())
		assert.Nil(t, tr.AutoReleaseAt())
		assert.Equal(t, "order arrived damaged", tr.DisputeReason())
		require.NotNil(t, tr.DisputedAt())
		assert.Equal(t, disputedAt, *tr.DisputedAt())

		// well past the original deadline, still not sweepable
		assert.False(t, tr.IsReleaseDue(heldAt.Add(releaseWindow+time.Hour)))
	})

	t.Run("a reason is required", func(t *testing.T) {
		tr := openTransaction(t, time.Now())

		err := tr.Dispute("", time.Now())

		require.ErrorIs(t, err, escrow.ErrDisputeReasonIsRequired)
		assert.Equal(t, escrow.Held, tr.Status())
		assert.NotNil(t, tr.AutoReleaseAt())
	})

	t.Run("only held transactions can be disputed", func(t *testing.T) {
		tr := openTransaction(t, time.Now())
		require.NoError(t, tr.Dispute("order arrived damaged", time.Now()))

		err := tr.Dispute("order arrived damaged", time.Now())
		require.ErrorIs(t, err, escrow.ErrInvalidTransition)

		released := openTransaction(t, time.Now())
		_, err = released.Release(time.Now())
		require.NoError(t, err)

		err = released.Dispute("order arrived damaged", time.Now())
		require.ErrorIs(t, err, escrow.ErrInvalidTransition)
	})
}

func TestTransaction_Settlement(t *testing.T) {
	t.Run("release from held", func(t *testing.T) {
		tr := openTransaction(t, time.Now())
		resolvedAt := time.Now().Add(time.Minute)

		applied, err := tr.Release(resolvedAt)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, escrow.Released, tr.Status())
		assert.Nil(t, tr.AutoReleaseAt())
		require.NotNil(t, tr.ResolvedAt())
		assert.Equal(t, resolvedAt, *tr.ResolvedAt())
	})

	t.Run("refund from held", func(t *testing.T) {
		tr := openTransaction(t, time.Now())

		applied, err := tr.Refund(time.Now())

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, escrow.Refunded, tr.Status())
	})

	t.Run("disputed transactions settle either way", func(t *testing.T) {
		forMerchant := openTransaction(t, time.Now())
		require.NoError(t, forMerchant.Dispute("buyer claims non-delivery", time.Now()))
		applied, err := forMerchant.Release(time.Now())
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, escrow.Released, forMerchant.Status())

		forBuyer := openTransaction(t, time.Now())
		require.NoError(t, forBuyer.Dispute("wrong items delivered", time.Now()))
		applied, err = forBuyer.Refund(time.Now())
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, escrow.Refunded, forBuyer.Status())
	})

	t.Run("settling a terminal transaction is a no-op", func(t *testing.T) {
		tr := openTransaction(t, time.Now())
		_, err := tr.Release(time.Now())
		require.NoError(t, err)
		firstResolvedAt := tr.ResolvedAt()

		applied, err := tr.Release(time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, applied)

		applied, err = tr.Refund(time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, applied)

		assert.Equal(t, escrow.Released, tr.Status())
		assert.Equal(t, firstResolvedAt, tr.ResolvedAt())
	})
}

func TestTransaction_IsReleaseDue(t *testing.T) {
	heldAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := heldAt.Add(releaseWindow)

	t.Run("due exactly at the deadline", func(t *testing.T) {
		tr := openTransaction(t, heldAt)

		assert.False(t, tr.IsReleaseDue(deadline.Add(-time.Second)))
		assert.True(t, tr.IsReleaseDue(deadline))
		assert.True(t, tr.IsReleaseDue(deadline.Add(time.Hour)))
	})

	t.Run("dispute one hour in blocks the sweep forever", func(t *testing.T) {
		tr := openTransaction(t, heldAt)
		require.NoError(t, tr.Dispute("order arrived damaged", heldAt.Add(time.Hour)))

		assert.False(t, tr.IsReleaseDue(heldAt.Add(73*time.Hour)))
	})

	t.Run("terminal transactions are never due", func(t *testing.T) {
		tr := openTransaction(t, heldAt)
		_, err := tr.Refund(heldAt.Add(time.Minute))
		require.NoError(t, err)

		assert.False(t, tr.IsReleaseDue(deadline.Add(time.Hour)))
	})
}

func TestRestoreTransaction(t *testing.T) {
	t.Run("restored transaction continues the lifecycle", func(t *testing.T) {
		heldAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		original := openTransaction(t, heldAt)

		restored, err := escrow.RestoreTransaction(
			original.ID(),
			original.OrderID(),
			original.Amount(),
			original.Status(),
			original.HeldAt(),
			original.AutoReleaseAt(),
			original.DisputeReason(),
			original.DisputedAt(),
			original.ResolvedAt(),
		)
		require.NoError(t, err)

		require.NoError(t, restored.Validate())
		assert.True(t, restored.IsEqual(original))
		assert.True(t, restored.IsReleaseDue(heldAt.Add(releaseWindow)))

		require.NoError(t, restored.Dispute("order arrived damaged", heldAt.Add(time.Hour)))
		assert.Equal(t, escrow.Disputed, restored.Status())
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		original := openTransaction(t, time.Now())

		_, err := escrow.RestoreTransaction(
			original.ID(), original.OrderID(), original.Amount(),
			escrow.Status(42), original.HeldAt(), nil, "", nil, nil,
		)

		require.Error(t, err)
	})
}

func TestStatus(t *testing.T) {
	t.Run("wire names round-trip", func(t *testing.T) {
		for _, s := range []escrow.Status{escrow.Held, escrow.Disputed, escrow.Released, escrow.Refunded} {
			parsed, err := escrow.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("terminal detection", func(t *testing.T) {
		assert.False(t, escrow.Held.IsTerminal())
		assert.False(t, escrow.Disputed.IsTerminal())
		assert.True(t, escrow.Released.IsTerminal())
		assert.True(t, escrow.Refunded.IsTerminal())
	})

	t.Run("unknown values are rejected", func(t *testing.T) {
		require.Error(t, escrow.Unknown.Validate())
		_, err := escrow.StatusFromString("frozen")
		require.Error(t, err)
	})
}
