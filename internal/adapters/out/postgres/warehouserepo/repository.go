// Package warehouserepo reads the warehouse directory.
package warehouserepo

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code          string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	Pincode       string    `gorm:"type:char(6);not null"`
	CapacityUnits int       `gorm:"type:int;not null;default:0"`
	Active        bool      `gorm:"not null;default:true"`
}

func (WarehouseDTO) TableName() string {
	return "warehouses"
}

type GormWarehouseRepository struct {
	db *gorm.DB
}

func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// All returns the active warehouses ordered by code.
func (r *GormWarehouseRepository) All(ctx context.Context) ([]inventory.Warehouse, error) {
	var dtos []WarehouseDTO
	if err := r.db.WithContext(ctx).Where("active").Order("code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	warehouses := make([]inventory.Warehouse, 0, len(dtos))
	for _, dto := range dtos {
		pincode, err := kernel.NewPincode(dto.Pincode)
		if err != nil {
			return nil, err
		}
		w, err := inventory.NewWarehouse(kernel.UUIDFromGoogle(dto.ID), dto.Code, pincode, dto.CapacityUnits)
		if err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

func (r *GormWarehouseRepository) Add(ctx context.Context, w inventory.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}
	dto := WarehouseDTO{
		ID:            w.ID().Bytes(),
		Code:          w.Code(),
		Pincode:       w.Pincode().String(),
		CapacityUnits: w.CapacityUnits(),
		Active:        true,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
