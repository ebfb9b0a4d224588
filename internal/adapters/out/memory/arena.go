// Package memory holds in-process adapters: a lock-free inventory arena, reservation
// and order stores, static catalogs and a unit of work that compensates on rollback.
// They back the engine when no database is configured and in end-to-end tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"
)

const DefaultCASAttempts = 16

// Arena keeps one atomic counter per warehouse and SKU. The mutex only guards the
// map of counters; quantities change with compare-and-swap on the counter itself.
type Arena struct {
	mu          sync.RWMutex
	counters    map[inventory.Key]*atomic.Int64
	casAttempts int
}

func NewArena(casAttempts int) *Arena {
	if casAttempts <= 0 {
		casAttempts = DefaultCASAttempts
	}
	return &Arena{counters: make(map[inventory.Key]*atomic.Int64), casAttempts: casAttempts}
}

// Put sets the available quantity of a key.
func (a *Arena) Put(unit inventory.Unit) error {
	if err := unit.WarehouseID.Validate(); err != nil {
		return err
	}
	if unit.AvailableQty < 0 {
		return errs.NewValueIsOutOfRangeError("availableQty", unit.AvailableQty, 0, "unbounded")
	}
	a.counter(unit.Key(), true).Store(int64(unit.AvailableQty))
	return nil
}

func (a *Arena) Snapshot(_ context.Context, skuIDs []string) (inventory.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	units := make([]inventory.Unit, 0, len(a.counters))
	for key, c := range a.counters {
		if !slices.Contains(skuIDs, key.SKUID) {
			continue
		}
		units = append(units, inventory.Unit{
			WarehouseID:  key.WarehouseID,
			SKUID:        key.SKUID,
			AvailableQty: int(c.Load()),
		})
	}
	return inventory.NewSnapshot(units...), nil
}

func (a *Arena) AvailableQty(_ context.Context, key inventory.Key) (int, error) {
	c := a.counter(key, false)
	if c == nil {
		return 0, nil
	}
	return int(c.Load()), nil
}

func (a *Arena) Reserve(_ context.Context, key inventory.Key, qty int) (bool, error) {
	if qty <= 0 {
		return false, errs.NewValueIsOutOfRangeError("qty", qty, 1, "unbounded")
	}
	c := a.counter(key, false)
	if c == nil {
		return false, nil
	}

	for range a.casAttempts {
		have := c.Load()
		if have < int64(qty) {
			return false, nil
		}
		if c.CompareAndSwap(have, have-int64(qty)) {
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: %s/%s after %d attempts",
		errs.ErrReservationConflict, key.WarehouseID, key.SKUID, a.casAttempts)
}

func (a *Arena) Release(_ context.Context, key inventory.Key, qty int) error {
	if qty <= 0 {
		return errs.NewValueIsOutOfRangeError("qty", qty, 1, "unbounded")
	}
	c := a.counter(key, false)
	if c == nil {
		return errs.NewObjectNotFoundError("inventory", key.WarehouseID.String()+"/"+key.SKUID)
	}
	c.Add(int64(qty))
	return nil
}

func (a *Arena) counter(key inventory.Key, create bool) *atomic.Int64 {
	a.mu.RLock()
	c, ok := a.counters[key]
	a.mu.RUnlock()
	if ok || !create {
		return c
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok = a.counters[key]; ok {
		return c
	}
	c = new(atomic.Int64)
	a.counters[key] = c
	return c
}
