// Package commands contains business operations that modify engine state:
// accepting orders, holding inventory for an allocation plan, confirming or releasing the hold,
// timing out stale holds and allocating the backlog of pending orders.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	ReservationRepoFactory interface {
		ReservationRepository() ports.ReservationRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ReservationUoW manages transactions that move quantities between the
	// inventory arena and reservations.
	ReservationUoW interface {
		TxManager
		InventoryRepoFactory
		ReservationRepoFactory
	}

	ReservationUoWFactory interface {
		Create() ReservationUoW
	}

	// OrderUoW manages transactions that only touch the order store.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW spans inventory, reservations and orders. Used when an allocation
	// outcome is written back to the order.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   reservationRepo := uow.ReservationRepository()
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		InventoryRepoFactory
		ReservationRepoFactory
		OrderRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
