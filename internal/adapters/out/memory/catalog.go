package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/model/zone"
)

// ServiceabilityCatalog is a read-mostly pincode catalog loaded from configuration.
type ServiceabilityCatalog struct {
	mu      sync.RWMutex
	records map[kernel.Pincode]serviceability.Record
}

func NewServiceabilityCatalog(records ...serviceability.Record) *ServiceabilityCatalog {
	c := &ServiceabilityCatalog{records: make(map[kernel.Pincode]serviceability.Record, len(records))}
	for _, r := range records {
		c.Upsert(r)
	}
	return c
}

func (c *ServiceabilityCatalog) Upsert(r serviceability.Record) {
	r.Partners = slices.Clone(r.Partners)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[r.Pincode] = r
}

func (c *ServiceabilityCatalog) Lookup(_ context.Context, pincode kernel.Pincode) (*serviceability.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.records[pincode]
	if !ok {
		return nil, nil
	}
	r.Partners = slices.Clone(r.Partners)
	return &r, nil
}

// WarehouseDirectory lists warehouses ordered by code.
type WarehouseDirectory struct {
	warehouses []inventory.Warehouse
}

func NewWarehouseDirectory(warehouses ...inventory.Warehouse) *WarehouseDirectory {
	sorted := slices.Clone(warehouses)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code() < sorted[j].Code() })
	return &WarehouseDirectory{warehouses: sorted}
}

func (d *WarehouseDirectory) All(context.Context) ([]inventory.Warehouse, error) {
	return slices.Clone(d.warehouses), nil
}

// RateCards serves carrier rate cards per zone, ordered by carrier code.
type RateCards struct {
	byZone map[zone.Zone][]carrier.RateCard
}

func NewRateCards(cards ...carrier.RateCard) *RateCards {
	rc := &RateCards{byZone: make(map[zone.Zone][]carrier.RateCard)}
	for _, c := range cards {
		rc.byZone[c.Zone] = append(rc.byZone[c.Zone], c)
	}
	for _, list := range rc.byZone {
		sort.Slice(list, func(i, j int) bool { return list[i].CarrierCode < list[j].CarrierCode })
	}
	return rc
}

func (rc *RateCards) CardsForZone(_ context.Context, z zone.Zone) ([]carrier.RateCard, error) {
	if err := z.Validate(); err != nil {
		return nil, err
	}
	return slices.Clone(rc.byZone[z]), nil
}
