// Package orderrepo maps the engine's order read view to the orders and order_lines tables.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/serviceability"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is indexed by status for the pending allocation and SLA sweeps.
type OrderDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Type             string          `gorm:"type:varchar(32);not null"`
	PlacedAt         time.Time       `gorm:"not null;index"`
	PaymentMode      int             `gorm:"type:smallint;not null"`
	Origin           string          `gorm:"type:char(6);not null"`
	Destination      string          `gorm:"type:char(6);not null"`
	WeightKg         float64         `gorm:"not null"`
	DeclaredValue    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status           int             `gorm:"type:smallint;not null;index"`
	PromiseDelayDays int             `gorm:"type:int;not null;default:0"`
	Lines            []LineDTO       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LineDTO struct {
	OrderID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position     int       `gorm:"type:int;primaryKey"`
	SKUID        string    `gorm:"column:sku_id;type:varchar(64);not null"`
	RequestedQty int       `gorm:"type:int;not null"`
}

func (LineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	lines := make([]LineDTO, 0, len(o.Lines()))
	for i, l := range o.Lines() {
		lines = append(lines, LineDTO{OrderID: id, Position: i, SKUID: l.SKUID, RequestedQty: l.RequestedQty})
	}

	return OrderDTO{
		ID:               id,
		Type:             o.Type().String(),
		PlacedAt:         o.PlacedAt().UTC(),
		PaymentMode:      int(o.PaymentMode()),
		Origin:           o.Origin().String(),
		Destination:      o.Destination().String(),
		WeightKg:         o.WeightKg(),
		DeclaredValue:    o.DeclaredValue(),
		Status:           int(o.Status()),
		PromiseDelayDays: o.PromiseDelayDays(),
		Lines:            lines,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	origin, err := kernel.NewPincode(dto.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewPincode(dto.Destination)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, len(dto.Lines))
	for _, l := range dto.Lines {
		if l.Position < 0 || l.Position >= len(lines) {
			continue
		}
		lines[l.Position] = order.Line{SKUID: l.SKUID, RequestedQty: l.RequestedQty}
	}

	return order.RestoreOrder(id, order.Details{
		Type:          order.Type(dto.Type),
		PlacedAt:      dto.PlacedAt,
		PaymentMode:   serviceability.PaymentMode(dto.PaymentMode),
		Origin:        origin,
		Destination:   destination,
		Lines:         lines,
		WeightKg:      dto.WeightKg,
		DeclaredValue: dto.DeclaredValue,
	}, order.Status(dto.Status), dto.PromiseDelayDays)
}
