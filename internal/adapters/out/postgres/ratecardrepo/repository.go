// Package ratecardrepo reads carrier rate cards, one per carrier and zone.
package ratecardrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/zone"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RateCardDTO struct {
	CarrierCode  string          `gorm:"type:varchar(32);primaryKey"`
	Zone         string          `gorm:"type:varchar(16);primaryKey"`
	BaseRate     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	PerKgRate    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CODFee       decimal.Decimal `gorm:"column:cod_fee;type:numeric(10,2);not null;default:0"`
	TatDays      int             `gorm:"type:int;not null"`
	CODSupported bool            `gorm:"column:cod_supported;not null"`
	// MaxCODAmount of zero means the carrier has no COD ceiling.
	MaxCODAmount decimal.Decimal `gorm:"column:max_cod_amount;type:numeric(12,2);not null;default:0"`
}

func (RateCardDTO) TableName() string {
	return "rate_cards"
}

type GormRateCardRepository struct {
	db *gorm.DB
}

func NewGormRateCardRepository(db *gorm.DB) *GormRateCardRepository {
	return &GormRateCardRepository{db: db}
}

// CardsForZone returns the rate cards of every carrier serving z, ordered by carrier code.
func (r *GormRateCardRepository) CardsForZone(ctx context.Context, z zone.Zone) ([]carrier.RateCard, error) {
	if err := z.Validate(); err != nil {
		return nil, err
	}

	var dtos []RateCardDTO
	if err := r.db.WithContext(ctx).Where("zone = ?", z.String()).Order("carrier_code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	cards := make([]carrier.RateCard, 0, len(dtos))
	for _, dto := range dtos {
		cards = append(cards, carrier.RateCard{
			CarrierCode:  dto.CarrierCode,
			Zone:         z,
			BaseRate:     dto.BaseRate,
			PerKgRate:    dto.PerKgRate,
			CODFee:       dto.CODFee,
			TatDays:      dto.TatDays,
			CODSupported: dto.CODSupported,
			MaxCODAmount: dto.MaxCODAmount,
		})
	}
	return cards, nil
}

func (r *GormRateCardRepository) Save(ctx context.Context, card carrier.RateCard) error {
	if err := card.Zone.Validate(); err != nil {
		return err
	}
	dto := RateCardDTO{
		CarrierCode:  card.CarrierCode,
		Zone:         card.Zone.String(),
		BaseRate:     card.BaseRate,
		PerKgRate:    card.PerKgRate,
		CODFee:       card.CODFee,
		TatDays:      card.TatDays,
		CODSupported: card.CODSupported,
		MaxCODAmount: card.MaxCODAmount,
	}
	return r.db.WithContext(ctx).Save(&dto).Error
}
