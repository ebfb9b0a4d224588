// Package inventoryrepo persists the inventory arena: one row per warehouse and SKU
// carrying the available quantity and a version used for compare-and-swap updates.
package inventoryrepo

import (
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type UnitDTO struct {
	WarehouseID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKUID        string    `gorm:"column:sku_id;type:varchar(64);primaryKey;index"`
	AvailableQty int       `gorm:"type:int;not null;check:available_qty >= 0"`
	Version      int64     `gorm:"not null;default:0"`
}

func (UnitDTO) TableName() string {
	return "inventory_units"
}

func toDomain(dto UnitDTO) inventory.Unit {
	return inventory.Unit{
		WarehouseID:  kernel.UUIDFromGoogle(dto.WarehouseID),
		SKUID:        dto.SKUID,
		AvailableQty: dto.AvailableQty,
	}
}
