package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrLinesAreRequired is returned when creating an order with no lines.
	ErrLinesAreRequired = errs.NewValueIsRequiredError("order lines")
	// ErrDeliveryAddressIsRequired is returned when creating an order without a delivery address.
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
	// ErrPaymentMethodIsRequired is returned when creating an order without a payment method.
	ErrPaymentMethodIsRequired = errs.NewValueIsRequiredError("payment method")
)

// Order represents a delivery order in the marketplace. It is the aggregate
// root that drives the delivery state machine from checkout to a terminal
// state and records every transition in an append-only history.
//
// Order maintains these invariants:
//   - Status only advances along the defined transition graph
//   - Actor roles gate transitions: merchants confirm and prepare, drivers
//     pick up and deliver, buyers and merchants cancel before pickup
//   - The total amount is always recomputed from the lines plus fees,
//     never stored stale
//   - The transition history is append-only and strictly ordered
type Order struct {
	id              kernel.UUID
	buyerID         kernel.UUID
	merchantID      kernel.UUID
	lines           []cart.Line
	deliveryAddress string
	deliveryPoint   kernel.GeoPoint
	paymentMethod   string
	deliveryFee     kernel.Money
	serviceFee      kernel.Money
	status          Status
	driverID        *kernel.UUID
	createdAt       time.Time
	history         []StatusChange

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with validation.
// The lines are copied from the cart snapshot, never shared with it.
// The initial Pending transition is recorded in the history as a system action.
func NewOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	merchantID kernel.UUID,
	lines []cart.Line,
	deliveryAddress string,
	deliveryPoint kernel.GeoPoint,
	paymentMethod string,
	deliveryFee kernel.Money,
	serviceFee kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:      Pending,
		deliveryFee: deliveryFee,
		serviceFee:  serviceFee,
		createdAt:   createdAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setMerchantID(merchantID),
		o.setLines(lines),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryPoint(deliveryPoint),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	o.history = []StatusChange{{Status: Pending, Actor: RoleSystem, At: createdAt}}
	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// including its status, optional driver assignment, and transition history.
// The restored order behaves identically to one built through domain operations.
func RestoreOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	merchantID kernel.UUID,
	lines []cart.Line,
	deliveryAddress string,
	deliveryPoint kernel.GeoPoint,
	paymentMethod string,
	deliveryFee kernel.Money,
	serviceFee kernel.Money,
	status Status,
	driverID *kernel.UUID,
	createdAt time.Time,
	history []StatusChange,
) (*Order, error) {
	o := &Order{
		deliveryFee: deliveryFee,
		serviceFee:  serviceFee,
		createdAt:   createdAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setMerchantID(merchantID),
		o.setLines(lines),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryPoint(deliveryPoint),
		o.setPaymentMethod(paymentMethod),
		o.setStatus(status),
		o.setDriverID(driverID),
	); err != nil {
		return nil, err
	}

	o.history = make([]StatusChange, len(history))
	copy(o.history, history)
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BuyerID returns the buyer who placed the order.
func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// MerchantID returns the merchant fulfilling the order.
func (o *Order) MerchantID() kernel.UUID {
	return o.merchantID
}

// Lines returns a copy of the order lines.
func (o *Order) Lines() []cart.Line {
	out := make([]cart.Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// DeliveryAddress returns the human-readable delivery address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// DeliveryPoint returns the delivery destination coordinates.
func (o *Order) DeliveryPoint() kernel.GeoPoint {
	return o.deliveryPoint
}

// PaymentMethod returns the payment method chosen at checkout.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// DeliveryFee returns the delivery fee applied at checkout.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// ServiceFee returns the platform service fee applied at checkout.
func (o *Order) ServiceFee() kernel.Money {
	return o.serviceFee
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Driver returns the assigned driver's id, or nil if unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// CreatedAt returns the checkout timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// History returns a copy of the append-only transition history.
func (o *Order) History() []StatusChange {
	out := make([]StatusChange, len(o.history))
	copy(out, o.history)
	return out
}

// TotalAmount returns Σ(line.unitPrice × quantity) + deliveryFee + serviceFee.
// The total is recomputed on every call and never cached.
func (o *Order) TotalAmount() kernel.Money {
	total := kernel.Zero()
	for _, line := range o.lines {
		total = total.Add(line.Subtotal())
	}
	return total.Add(o.deliveryFee).Add(o.serviceFee)
}

// IsDispatchEligible reports whether the order is waiting for a driver:
// it is being prepared and has no driver assigned yet.
func (o *Order) IsDispatchEligible() bool {
	return o.status == Preparing && o.driverID == nil
}

// Advance moves the order to the target status on behalf of the given actor.
//
// Transition rules:
//   - target must be the direct successor of the current status
//   - Pending→Confirmed and Confirmed→Preparing require a merchant actor
//   - Preparing→OutForDelivery and OutForDelivery→Delivered require the
//     assigned driver (matching id)
//
// A successful move is appended to the history with the actor's role and the
// supplied timestamp.
func (o *Order) Advance(target Status, actor Actor, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if err := o.authorizeAdvance(target, actor); err != nil {
		return err
	}

	newStatus, err := o.status.Advance(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.history = append(o.history, StatusChange{Status: newStatus, Actor: actor.Role(), At: at})
	return nil
}

// Cancel moves the order to Cancelled on behalf of a buyer or merchant.
// Only orders that have not been picked up can be cancelled.
func (o *Order) Cancel(actor Actor, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if actor.Role() != RoleBuyer && actor.Role() != RoleMerchant {
		return NewInvalidTransitionError(o.status, Cancelled,
			fmt.Errorf("role %s may not cancel an order", actor.Role()))
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.history = append(o.history, StatusChange{Status: newStatus, Actor: actor.Role(), At: at})
	return nil
}

// AssignDriver records the driver selected by the dispatch matcher.
// Assignment is only valid while the order is being prepared; it does not
// advance the status — pickup confirmation remains a distinct driver action.
// Reassignment while still in Preparing is allowed (driver cancellation path).
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if o.status != Preparing {
		return NewInvalidTransitionError(o.status, o.status,
			fmt.Errorf("driver can only be assigned while preparing, not in %s", o.status))
	}

	o.driverID = &driverID
	return nil
}

// UnassignDriver clears the driver after a post-acceptance driver
// cancellation so the order can re-enter the matcher.
func (o *Order) UnassignDriver() error {
	if o.status != Preparing {
		return NewInvalidTransitionError(o.status, o.status,
			fmt.Errorf("driver can only be unassigned while preparing, not in %s", o.status))
	}

	o.driverID = nil
	return nil
}

// authorizeAdvance enforces the role (and driver identity) gate for a move.
func (o *Order) authorizeAdvance(target Status, actor Actor) error {
	switch target { //nolint:exhaustive // other targets fail in Status.Advance
	case Confirmed, Preparing:
		if actor.Role() != RoleMerchant {
			return NewInvalidTransitionError(o.status, target,
				fmt.Errorf("role %s may not perform merchant transitions", actor.Role()))
		}
	case OutForDelivery, Delivered:
		if actor.Role() != RoleDriver {
			return NewInvalidTransitionError(o.status, target,
				fmt.Errorf("role %s may not perform driver transitions", actor.Role()))
		}
		if o.driverID == nil || !o.driverID.IsEqual(actor.ID()) {
			return NewInvalidTransitionError(o.status, target,
				errors.New("only the assigned driver may move the order"))
		}
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}
	o.buyerID = buyerID
	return nil
}

func (o *Order) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	o.merchantID = merchantID
	return nil
}

func (o *Order) setLines(lines []cart.Line) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}

	o.lines = make([]cart.Line, len(lines))
	copy(o.lines, lines)
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.deliveryPoint = point
	return nil
}

func (o *Order) setPaymentMethod(method string) error {
	if method == "" {
		return ErrPaymentMethodIsRequired
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setDriverID(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	id := *driverID
	o.driverID = &id
	return nil
}
