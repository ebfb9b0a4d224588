package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"
)

// ServiceabilityCatalog is the external pincode coverage catalog.
type ServiceabilityCatalog interface {
	// Lookup returns nil and no error when the pincode has no record.
	Lookup(ctx context.Context, pincode kernel.Pincode) (*serviceability.Record, error)
}

// CarrierRateProvider quotes carriers for a lane.
type CarrierRateProvider interface {
	Quote(ctx context.Context, origin, destination kernel.Pincode, weightKg float64, isCOD bool) ([]carrier.Quote, error)
}

// WarehouseDirectory lists the warehouses inventory can be sourced from.
type WarehouseDirectory interface {
	All(ctx context.Context) ([]inventory.Warehouse, error)
}
