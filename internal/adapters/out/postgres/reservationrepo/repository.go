package reservationrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReservationRepository implements ReservationRepository using GORM.
type GormReservationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormReservationRepository(db *gorm.DB, tracker aggregateTracker) *GormReservationRepository {
	return &GormReservationRepository{db: db, tracker: tracker}
}

func (r *GormReservationRepository) Add(ctx context.Context, aggregate *inventory.Reservation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the status. Items never change after a reservation is created.
func (r *GormReservationRepository) Update(ctx context.Context, aggregate *inventory.Reservation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&ReservationDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Update("status", int(aggregate.Status()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("reservation", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReservationRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Reservation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReservationDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("reservation", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindExpired returns the oldest expired HELD reservations first.
func (r *GormReservationRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.Reservation, error) {
	query := r.db.WithContext(ctx).Preload("Items").
		Where("status = ? AND expires_at < ?", int(inventory.Held), now.UTC()).
		Order("expires_at")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []ReservationDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	reservations := make([]*inventory.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		res, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}
