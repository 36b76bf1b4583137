package cartstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/syncqueue"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/locker"
)

// CartUoW manages the transaction for one cart write: the cart upsert and the
// sync mutations mirroring it commit together.
type CartUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	CartRepository() ports.CartRepository
	MutationRepository() ports.MutationRepository
}

// CartUoWFactory creates new cart unit of work instances.
type CartUoWFactory interface {
	Create() CartUoW
}

// CartStore is the application service behind the cart endpoints.
//
// Each operation loads the buyer's cart, applies the change to an in-memory
// working copy, and then persists the copy together with a sync mutation in
// one transaction. A failed write surfaces as a StorageError but does not
// discard the change: the working copy keeps serving reads and the queued
// mutations ride along with the buyer's next successful write.
type CartStore struct {
	uowFactory CartUoWFactory
	locks      *locker.EntityLocker
	log        *slog.Logger

	mu      sync.Mutex
	carts   map[string]*cart.Cart
	pending map[string][]*syncqueue.Mutation
}

// NewCartStore creates a CartStore.
func NewCartStore(uowFactory CartUoWFactory, locks *locker.EntityLocker, log *slog.Logger) *CartStore {
	return &CartStore{
		uowFactory: uowFactory,
		locks:      locks,
		log:        log.With("component", "cart_store"),
		carts:      make(map[string]*cart.Cart),
		pending:    make(map[string][]*syncqueue.Mutation),
	}
}

// Add merges a line into the buyer's cart.
func (s *CartStore) Add(ctx context.Context, buyerID kernel.UUID, line cart.Line) error {
	if err := line.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"item_id":     line.ItemID().String(),
		"merchant_id": line.MerchantID().String(),
		"unit_price":  line.UnitPrice().Amount(),
		"quantity":    line.Quantity(),
		"unit":        line.Unit(),
	})
	if err != nil {
		return err
	}

	return s.mutate(ctx, buyerID, "cart.add", payload, func(c *cart.Cart) error {
		return c.Add(line)
	})
}

// UpdateQuantity sets the quantity of an item in the buyer's cart.
// A quantity of zero or below removes the item.
func (s *CartStore) UpdateQuantity(ctx context.Context, buyerID, itemID kernel.UUID, quantity int) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"item_id":  itemID.String(),
		"quantity": quantity,
	})
	if err != nil {
		return err
	}

	return s.mutate(ctx, buyerID, "cart.update", payload, func(c *cart.Cart) error {
		return c.UpdateQuantity(itemID, quantity)
	})
}

// Remove deletes an item from the buyer's cart.
func (s *CartStore) Remove(ctx context.Context, buyerID, itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"item_id": itemID.String(),
	})
	if err != nil {
		return err
	}

	return s.mutate(ctx, buyerID, "cart.remove", payload, func(c *cart.Cart) error {
		return c.Remove(itemID)
	})
}

// Clear removes every line from the buyer's cart.
func (s *CartStore) Clear(ctx context.Context, buyerID kernel.UUID) error {
	payload, err := json.Marshal(map[string]any{
		"buyer_id": buyerID.String(),
	})
	if err != nil {
		return err
	}

	return s.mutate(ctx, buyerID, "cart.clear", payload, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// Snapshot returns a deep copy of the buyer's current cart. The working copy
// wins over storage, so a cart that survived a failed write is still visible.
func (s *CartStore) Snapshot(ctx context.Context, buyerID kernel.UUID) (*cart.Cart, error) {
	if err := buyerID.Validate(); err != nil {
		return nil, err
	}

	s.locks.Lock(buyerID.String())
	defer s.locks.Unlock(buyerID.String())

	current, err := s.loadCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	return cart.RestoreCart(current.BuyerID(), current.Lines())
}

// mutate runs one cart operation under the buyer's lock: load, apply, queue
// the sync mutation, persist.
func (s *CartStore) mutate(
	ctx context.Context,
	buyerID kernel.UUID,
	operation string,
	payload []byte,
	apply func(*cart.Cart) error,
) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}

	s.locks.Lock(buyerID.String())
	defer s.locks.Unlock(buyerID.String())

	current, err := s.loadCart(ctx, buyerID)
	if err != nil {
		return err
	}

	if err = apply(current); err != nil {
		return err
	}

	mutation, err := syncqueue.NewMutation(
		kernel.NewUUID(), syncqueue.KindCart, buyerID, operation, payload, time.Now().UTC())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[buyerID.String()] = current
	s.pending[buyerID.String()] = append(s.pending[buyerID.String()], mutation)
	queue := s.pending[buyerID.String()]
	s.mu.Unlock()

	if err = s.persist(ctx, current, queue); err != nil {
		s.log.Warn("cart write failed, keeping working copy",
			"buyer_id", buyerID.String(), "operation", operation, "error", err)
		return errs.NewStorageError(operation, err)
	}

	s.mu.Lock()
	s.pending[buyerID.String()] = nil
	s.mu.Unlock()

	return nil
}

// persist writes the cart and drains its queued mutations in one transaction.
func (s *CartStore) persist(ctx context.Context, current *cart.Cart, queue []*syncqueue.Mutation) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.CartRepository().Upsert(ctx, current); err != nil {
		return err
	}

	for _, mutation := range queue {
		if err := uow.MutationRepository().Add(ctx, mutation); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// loadCart prefers the in-memory working copy and falls back to storage.
func (s *CartStore) loadCart(ctx context.Context, buyerID kernel.UUID) (*cart.Cart, error) {
	s.mu.Lock()
	cached, ok := s.carts[buyerID.String()]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.NewStorageError("cart.load", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loaded, err := uow.CartRepository().Get(ctx, buyerID)
	if err != nil {
		return nil, errs.NewStorageError("cart.load", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.NewStorageError("cart.load", err)
	}

	return loaded, nil
}
