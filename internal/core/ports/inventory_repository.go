// Package ports defines the contracts between the fulfillment engine and its
// collaborators: inventory and reservation stores, the serviceability catalog,
// carrier rate providers, the warehouse directory and the order store.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// InventoryRepository guards the per-warehouse, per-SKU available quantities.
// Implementations serialize changes per key with compare-and-swap; there is no
// lock spanning several keys.
type InventoryRepository interface {
	// Snapshot returns one consistent read of every warehouse's quantity for skuIDs.
	Snapshot(ctx context.Context, skuIDs []string) (inventory.Snapshot, error)

	// AvailableQty returns the current quantity of one key, 0 when unknown.
	AvailableQty(ctx context.Context, key inventory.Key) (int, error)

	// Reserve decrements qty if at least qty is available. It returns false
	// when stock is insufficient, and errs.ErrReservationConflict when it kept
	// losing the compare-and-swap race for the key.
	Reserve(ctx context.Context, key inventory.Key, qty int) (bool, error)

	// Release gives qty back to the key. It is the compensation of Reserve.
	Release(ctx context.Context, key inventory.Key, qty int) error
}

// ReservationRepository stores held allocations.
type ReservationRepository interface {
	Add(ctx context.Context, reservation *inventory.Reservation) error
	Update(ctx context.Context, reservation *inventory.Reservation) error

	// Get returns errs.ObjectNotFoundError when the reservation does not exist.
	Get(ctx context.Context, id kernel.UUID) (*inventory.Reservation, error)

	// FindExpired returns up to limit HELD reservations whose expiry is before now.
	FindExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.Reservation, error)
}
