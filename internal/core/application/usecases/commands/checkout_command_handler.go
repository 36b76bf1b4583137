package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/syncqueue"
)

// ErrCartIsEmpty is returned when checking out a buyer whose cart has no lines.
var ErrCartIsEmpty = errors.New("cart is empty")

// CheckoutCommandHandler converts a buyer's cart into orders with escrow holds.
//
// The whole checkout runs in one transaction: each produced order is persisted
// together with the escrow transaction holding its total, a sync mutation
// mirroring the order creation is enqueued, and the cart is emptied. Either
// every order exists with its funds held, or nothing changed.
type CheckoutCommandHandler struct {
	uowFactory    CheckoutUoWFactory
	policy        GroupingPolicy
	deliveryFee   kernel.Money
	serviceFee    kernel.Money
	releaseWindow time.Duration
}

// NewCheckoutCommandHandler creates a handler for checkout operations.
// The grouping policy, fee schedule, and escrow release window are fixed at
// composition time from configuration.
func NewCheckoutCommandHandler(
	uowFactory CheckoutUoWFactory,
	policy GroupingPolicy,
	deliveryFee kernel.Money,
	serviceFee kernel.Money,
	releaseWindow time.Duration,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory:    uowFactory,
		policy:        policy,
		deliveryFee:   deliveryFee,
		serviceFee:    serviceFee,
		releaseWindow: releaseWindow,
	}
}

// Handle processes the checkout command and returns the created order ids.
func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	buyerCart, err := uow.CartRepository().Get(ctx, cmd.BuyerID())
	if err != nil {
		return nil, err
	}

	if buyerCart.IsEmpty() {
		return nil, ErrCartIsEmpty
	}

	now := time.Now().UTC()
	orderIDs := make([]kernel.UUID, 0)

	for _, group := range h.groupLines(buyerCart.Lines()) {
		orderID, err := h.placeOrder(ctx, uow, cmd, group, now)
		if err != nil {
			return nil, err
		}
		orderIDs = append(orderIDs, orderID)
	}

	buyerCart.Clear()
	if err := uow.CartRepository().Upsert(ctx, buyerCart); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return orderIDs, nil
}

// placeOrder persists one order, opens its escrow hold, and enqueues the sync
// mutation mirroring the creation, all inside the checkout transaction.
func (h *CheckoutCommandHandler) placeOrder(
	ctx context.Context,
	uow CheckoutUoW,
	cmd CheckoutCommand,
	lines []cart.Line,
	now time.Time,
) (kernel.UUID, error) {
	newOrder, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.BuyerID(),
		lines[0].MerchantID(),
		lines,
		cmd.DeliveryAddress(),
		cmd.DeliveryPoint(),
		cmd.PaymentMethod(),
		h.deliveryFee,
		h.serviceFee,
		now,
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err := uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return kernel.UUID{}, err
	}

	hold, err := escrow.OpenTransaction(
		kernel.NewUUID(), newOrder.ID(), newOrder.TotalAmount(), now, h.releaseWindow)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err := uow.EscrowRepository().Add(ctx, hold); err != nil {
		return kernel.UUID{}, err
	}

	if err := h.enqueueOrderMutation(ctx, uow, newOrder, now); err != nil {
		return kernel.UUID{}, err
	}

	return newOrder.ID(), nil
}

func (h *CheckoutCommandHandler) enqueueOrderMutation(
	ctx context.Context,
	uow CheckoutUoW,
	newOrder *order.Order,
	now time.Time,
) error {
	payload, err := json.Marshal(map[string]any{
		"order_id":       newOrder.ID().String(),
		"buyer_id":       newOrder.BuyerID().String(),
		"merchant_id":    newOrder.MerchantID().String(),
		"total_amount":   newOrder.TotalAmount().Amount(),
		"payment_method": newOrder.PaymentMethod(),
	})
	if err != nil {
		return err
	}

	mutation, err := syncqueue.NewMutation(
		kernel.NewUUID(), syncqueue.KindOrder, newOrder.ID(), "order.create", payload, now)
	if err != nil {
		return err
	}

	return uow.MutationRepository().Add(ctx, mutation)
}

// groupLines splits the cart lines into per-order groups.
// A mixed cart always splits at merchant boundaries; GroupPerLine goes
// further and gives every line its own order. Group order follows the
// cart's line order, so checkout output is deterministic.
func (h *CheckoutCommandHandler) groupLines(lines []cart.Line) [][]cart.Line {
	if h.policy == GroupPerLine {
		groups := make([][]cart.Line, 0, len(lines))
		for _, line := range lines {
			groups = append(groups, []cart.Line{line})
		}
		return groups
	}

	index := make(map[string]int)
	groups := make([][]cart.Line, 0)
	for _, line := range lines {
		key := line.MerchantID().String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], line)
	}
	return groups
}
