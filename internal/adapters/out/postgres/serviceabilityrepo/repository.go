// Package serviceabilityrepo reads the pincode serviceability catalog.
package serviceabilityrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// RecordDTO is one catalog row. Partners is a text[] of carrier codes.
type RecordDTO struct {
	Pincode          string         `gorm:"type:char(6);primaryKey"`
	HubID            string         `gorm:"type:varchar(32);not null"`
	IsServiceable    bool           `gorm:"not null"`
	CODAvailable     bool           `gorm:"column:cod_available;not null"`
	PrepaidAvailable bool           `gorm:"not null"`
	Partners         pq.StringArray `gorm:"type:text[]"`
}

func (RecordDTO) TableName() string {
	return "serviceability"
}

type GormServiceabilityRepository struct {
	db *gorm.DB
}

func NewGormServiceabilityRepository(db *gorm.DB) *GormServiceabilityRepository {
	return &GormServiceabilityRepository{db: db}
}

// Lookup returns nil, nil when the catalog has no row for the pincode.
func (r *GormServiceabilityRepository) Lookup(ctx context.Context, pincode kernel.Pincode) (*serviceability.Record, error) {
	if err := pincode.Validate(); err != nil {
		return nil, err
	}

	var dto RecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "pincode = ?", pincode.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &serviceability.Record{
		Pincode:          pincode,
		HubID:            dto.HubID,
		IsServiceable:    dto.IsServiceable,
		CODAvailable:     dto.CODAvailable,
		PrepaidAvailable: dto.PrepaidAvailable,
		Partners:         []string(dto.Partners),
	}, nil
}

// Upsert replaces the catalog row of rec.Pincode.
func (r *GormServiceabilityRepository) Upsert(ctx context.Context, rec serviceability.Record) error {
	if err := rec.Pincode.Validate(); err != nil {
		return err
	}
	dto := RecordDTO{
		Pincode:          rec.Pincode.String(),
		HubID:            rec.HubID,
		IsServiceable:    rec.IsServiceable,
		CODAvailable:     rec.CODAvailable,
		PrepaidAvailable: rec.PrepaidAvailable,
		Partners:         pq.StringArray(rec.Partners),
	}
	return r.db.WithContext(ctx).Save(&dto).Error
}
