package inventory

import (
	"cmp"
	"maps"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
)

// Key addresses one counter of the inventory arena.
type Key struct {
	WarehouseID kernel.UUID
	SKUID       string
}

// Compare orders keys by warehouse, then SKU. Writers that hold several keys at once
// take them in this order.
func (k Key) Compare(other Key) int {
	return cmp.Or(
		strings.Compare(k.WarehouseID.String(), other.WarehouseID.String()),
		strings.Compare(k.SKUID, other.SKUID),
	)
}

// Unit is the available quantity of one SKU in one warehouse. It is never negative.
type Unit struct {
	WarehouseID  kernel.UUID
	SKUID        string
	AvailableQty int
}

func (u Unit) Key() Key {
	return Key{WarehouseID: u.WarehouseID, SKUID: u.SKUID}
}

// Snapshot is one consistent read of available quantities. Planning works on a
// Clone so the snapshot handed in by the caller is never changed.
type Snapshot struct {
	available map[Key]int
}

func NewSnapshot(units ...Unit) Snapshot {
	s := Snapshot{available: make(map[Key]int, len(units))}
	for _, u := range units {
		if u.AvailableQty > 0 {
			s.available[u.Key()] += u.AvailableQty
		}
	}
	return s
}

// Available returns 0 for unknown keys.
func (s Snapshot) Available(k Key) int {
	return s.available[k]
}

func (s Snapshot) Clone() Snapshot {
	if s.available == nil {
		return Snapshot{available: map[Key]int{}}
	}
	return Snapshot{available: maps.Clone(s.available)}
}

// Take removes up to want units for k and returns how many were taken.
func (s Snapshot) Take(k Key, want int) int {
	if want <= 0 || s.available == nil {
		return 0
	}
	have := s.available[k]
	taken := min(have, want)
	if taken > 0 {
		s.available[k] = have - taken
	}
	return taken
}

func (s Snapshot) Len() int {
	return len(s.available)
}
