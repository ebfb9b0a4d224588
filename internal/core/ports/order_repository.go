package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository is the engine's view of the order store. Orders are owned by
// order management; the engine reads them and advances their fulfillment status.
type OrderRepository interface {
	// Add persists a new order. Used by order intake and tests.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status and promise delay changes of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus returns up to limit orders in status, oldest first.
	// A limit <= 0 means no limit.
	GetAllInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)

	// GetAllOpen returns orders that are allocated but not yet delivered.
	GetAllOpen(ctx context.Context) ([]*order.Order, error)
}
