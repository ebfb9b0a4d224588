package postgres

import (
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/ratecardrepo"
	"fulfillment/internal/adapters/out/postgres/reservationrepo"
	"fulfillment/internal/adapters/out/postgres/serviceabilityrepo"
	"fulfillment/internal/adapters/out/postgres/warehouserepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the engine owns or reads.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&inventoryrepo.UnitDTO{},
		&reservationrepo.ReservationDTO{},
		&reservationrepo.ItemDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&serviceabilityrepo.RecordDTO{},
		&warehouserepo.WarehouseDTO{},
		&ratecardrepo.RateCardDTO{},
	)
}

// Tables lists the tables created by Migrate, children first.
func Tables() []string {
	return []string{
		"inventory_units",
		"reservation_items",
		"reservations",
		"order_lines",
		"orders",
		"serviceability",
		"warehouses",
		"rate_cards",
	}
}
