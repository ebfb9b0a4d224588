package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary over the stores the engine writes to.
// Client code manages Begin, Commit and Rollback explicitly; Rollback after
// Commit is a no-op.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// InventoryRepository is bound to the current transaction.
	InventoryRepository() InventoryRepository

	// ReservationRepository is bound to the current transaction.
	ReservationRepository() ReservationRepository

	// OrderRepository is bound to the current transaction.
	OrderRepository() OrderRepository
}
