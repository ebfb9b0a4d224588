// Package reservationrepo persists inventory reservations and the items they hold.
package reservationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type ReservationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   string    `gorm:"type:varchar(64);not null;index"`
	Status    int       `gorm:"type:smallint;not null;index:idx_reservations_status_expiry,priority:1"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index:idx_reservations_status_expiry,priority:2"`
	Items     []ItemDTO `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
}

func (ReservationDTO) TableName() string {
	return "reservations"
}

// ItemDTO keeps Position so items come back in the order they were reserved.
type ItemDTO struct {
	ReservationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position      int       `gorm:"type:int;primaryKey"`
	WarehouseID   uuid.UUID `gorm:"type:uuid;not null"`
	SKUID         string    `gorm:"column:sku_id;type:varchar(64);not null"`
	Qty           int       `gorm:"type:int;not null"`
}

func (ItemDTO) TableName() string {
	return "reservation_items"
}

func fromDomain(r *inventory.Reservation) ReservationDTO {
	id := r.ID().Bytes()
	items := make([]ItemDTO, 0, len(r.Items()))
	for i, item := range r.Items() {
		items = append(items, ItemDTO{
			ReservationID: id,
			Position:      i,
			WarehouseID:   item.WarehouseID.Bytes(),
			SKUID:         item.SKUID,
			Qty:           item.Qty,
		})
	}

	return ReservationDTO{
		ID:        id,
		OrderID:   r.OrderID(),
		Status:    int(r.Status()),
		CreatedAt: r.CreatedAt().UTC(),
		ExpiresAt: r.ExpiresAt().UTC(),
		Items:     items,
	}
}

func toDomain(dto ReservationDTO) (*inventory.Reservation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]inventory.ReservedItem, len(dto.Items))
	for _, item := range dto.Items {
		if item.Position < 0 || item.Position >= len(items) {
			continue
		}
		items[item.Position] = inventory.ReservedItem{
			WarehouseID: kernel.UUIDFromGoogle(item.WarehouseID),
			SKUID:       item.SKUID,
			Qty:         item.Qty,
		}
	}

	return inventory.RestoreReservation(id, dto.OrderID, items,
		inventory.ReservationStatus(dto.Status), dto.CreatedAt, dto.ExpiresAt)
}
