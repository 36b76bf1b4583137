package escrow

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Domain errors for escrow operations.
var (
	// ErrTransactionIsNotConstructed is returned when a Transaction instance was
	// not created through the OpenTransaction or RestoreTransaction factory methods.
	ErrTransactionIsNotConstructed = errors.New(
		"Transaction must be created via OpenTransaction or RestoreTransaction constructor")
	// ErrAmountIsRequired is returned when opening a transaction with a zero amount.
	ErrAmountIsRequired = errs.NewValueIsRequiredError("escrow amount")
	// ErrDisputeReasonIsRequired is returned when disputing without a reason.
	ErrDisputeReasonIsRequired = errs.NewValueIsRequiredError("dispute reason")
	// ErrInvalidTransition is returned when an escrow state change is not
	// allowed from the current status.
	ErrInvalidTransition = errors.New("invalid escrow transition")
)

// Transaction is the escrow aggregate: one fund hold per order, opened at
// checkout for the order's total amount.
//
// Transaction maintains these invariants:
//   - Funds open in Held with an automatic release deadline
//   - Disputing pauses the automatic release timer permanently
//   - Released and Refunded are terminal; settling an already-terminal
//     transaction again is a no-op, never an error
type Transaction struct {
	id            kernel.UUID
	orderID       kernel.UUID
	amount        kernel.Money
	status        Status
	heldAt        time.Time
	autoReleaseAt *time.Time
	disputeReason string
	disputedAt    *time.Time
	resolvedAt    *time.Time

	guard guard.ConstructorGuard
}

// OpenTransaction creates a new Held escrow transaction for an order.
// The automatic release deadline is heldAt plus the release window; a sweep
// releases the funds to the merchant once the deadline elapses undisputed.
func OpenTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	heldAt time.Time,
	releaseWindow time.Duration,
) (*Transaction, error) {
	tr := &Transaction{
		status: Held,
		heldAt: heldAt,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		tr.setID(id),
		tr.setOrderID(orderID),
		tr.setAmount(amount),
	); err != nil {
		return nil, err
	}

	deadline := heldAt.Add(releaseWindow)
	tr.autoReleaseAt = &deadline
	return tr, nil
}

// RestoreTransaction reconstructs a Transaction aggregate from persistent storage.
func RestoreTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	status Status,
	heldAt time.Time,
	autoReleaseAt *time.Time,
	disputeReason string,
	disputedAt *time.Time,
	resolvedAt *time.Time,
) (*Transaction, error) {
	tr := &Transaction{
		heldAt: heldAt,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		tr.setID(id),
		tr.setOrderID(orderID),
		tr.setAmount(amount),
		tr.setStatus(status),
	); err != nil {
		return nil, err
	}

	tr.autoReleaseAt = copyTime(autoReleaseAt)
	tr.disputeReason = disputeReason
	tr.disputedAt = copyTime(disputedAt)
	tr.resolvedAt = copyTime(resolvedAt)
	return tr, nil
}

// Validate ensures the Transaction instance was properly constructed.
func (t *Transaction) Validate() error {
	if t == nil {
		return ErrTransactionIsNotConstructed
	}
	return t.guard.Validate(ErrTransactionIsNotConstructed)
}

// IsEqual compares two transactions by their unique identifiers.
func (t *Transaction) IsEqual(other *Transaction) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// OrderID returns the order whose funds are held.
func (t *Transaction) OrderID() kernel.UUID {
	return t.orderID
}

// Amount returns the held amount.
func (t *Transaction) Amount() kernel.Money {
	return t.amount
}

// Status returns the current escrow status.
func (t *Transaction) Status() Status {
	return t.status
}

// HeldAt returns when the funds were locked.
func (t *Transaction) HeldAt() time.Time {
	return t.heldAt
}

// AutoReleaseAt returns the automatic release deadline, or nil once a dispute
// has paused the timer.
func (t *Transaction) AutoReleaseAt() *time.Time {
	return copyTime(t.autoReleaseAt)
}

// DisputeReason returns why the dispute was raised, or "" when never disputed.
func (t *Transaction) DisputeReason() string {
	return t.disputeReason
}

// DisputedAt returns when the dispute was raised, or nil.
func (t *Transaction) DisputedAt() *time.Time {
	return copyTime(t.disputedAt)
}

// ResolvedAt returns when the transaction reached a terminal state, or nil.
func (t *Transaction) ResolvedAt() *time.Time {
	return copyTime(t.resolvedAt)
}

// IsReleaseDue reports whether the sweep should release the funds: the
// transaction is still Held and its automatic release deadline has elapsed.
// Disputed transactions are never due — the timer stops at dispute time.
func (t *Transaction) IsReleaseDue(now time.Time) bool {
	return t.status == Held && t.autoReleaseAt != nil && !now.Before(*t.autoReleaseAt)
}

// Dispute pauses the resolution of a Held transaction for an operator
// decision, recording why it was raised. The automatic release deadline is
// cleared: a disputed transaction can only be settled explicitly, never by
// the sweep.
func (t *Transaction) Dispute(reason string, at time.Time) error {
	if reason == "" {
		return ErrDisputeReasonIsRequired
	}

	if t.status != Held {
		return fmt.Errorf("%w: cannot dispute %s transaction %s",
			ErrInvalidTransition, t.status, t.id)
	}

	t.status = Disputed
	t.autoReleaseAt = nil
	t.disputeReason = reason
	disputedAt := at
	t.disputedAt = &disputedAt
	return nil
}

// Release pays the held funds out to the merchant. Allowed from Held and
// Disputed. Releasing an already-terminal transaction is a no-op: applied is
// false and the existing state is left to report, but no error is returned.
func (t *Transaction) Release(at time.Time) (applied bool, err error) {
	return t.settle(Released, at)
}

// Refund returns the held funds to the buyer. Allowed from Held and Disputed.
// Refunding an already-terminal transaction is a no-op, never an error.
func (t *Transaction) Refund(at time.Time) (applied bool, err error) {
	return t.settle(Refunded, at)
}

func (t *Transaction) settle(target Status, at time.Time) (bool, error) {
	if t.status.IsTerminal() {
		return false, nil
	}

	if t.status != Held && t.status != Disputed {
		return false, fmt.Errorf("%w: cannot settle %s transaction %s",
			ErrInvalidTransition, t.status, t.id)
	}

	t.status = target
	t.autoReleaseAt = nil
	resolvedAt := at
	t.resolvedAt = &resolvedAt
	return true, nil
}

func (t *Transaction) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Transaction) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	t.orderID = orderID
	return nil
}

func (t *Transaction) setAmount(amount kernel.Money) error {
	if amount.IsZero() {
		return ErrAmountIsRequired
	}
	t.amount = amount
	return nil
}

func (t *Transaction) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	t.status = status
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}
