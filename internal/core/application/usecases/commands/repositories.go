// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, per-entity locking
// where aggregates race, transaction management, and persistence.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest UoW that covers the aggregates it
// touches, so tests only mock what the handler actually uses.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// EscrowRepoFactory provides access to the escrow repository within a transaction.
	EscrowRepoFactory interface {
		EscrowRepository() ports.EscrowRepository
	}

	// DriverRepoFactory provides access to the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// CartRepoFactory provides access to the cart repository within a transaction.
	CartRepoFactory interface {
		CartRepository() ports.CartRepository
	}

	// MutationRepoFactory provides access to the sync-mutation queue within a transaction.
	MutationRepoFactory interface {
		MutationRepository() ports.MutationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderEscrowUoW manages transactions spanning an order and its escrow,
	// used where the two must change together (cancellation with refund).
	OrderEscrowUoW interface {
		TxManager
		OrderRepoFactory
		EscrowRepoFactory
	}

	// OrderEscrowUoWFactory creates new order+escrow unit of work instances.
	OrderEscrowUoWFactory interface {
		Create() OrderEscrowUoW
	}

	// CheckoutUoW manages the checkout transaction: cart, the orders it
	// produces, their escrow holds, and the sync mutations mirroring them.
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		EscrowRepoFactory
		CartRepoFactory
		MutationRepoFactory
	}

	// CheckoutUoWFactory creates new checkout unit of work instances.
	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// DispatchUoW manages transactions spanning an order and the driver pool.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// EscrowUoW manages transactions for escrow-only operations.
	EscrowUoW interface {
		TxManager
		EscrowRepoFactory
	}

	// EscrowUoWFactory creates new escrow unit of work instances.
	EscrowUoWFactory interface {
		Create() EscrowUoW
	}

	// DriverUoW manages transactions for driver-only operations.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	// DriverUoWFactory creates new driver unit of work instances.
	DriverUoWFactory interface {
		Create() DriverUoW
	}
)
