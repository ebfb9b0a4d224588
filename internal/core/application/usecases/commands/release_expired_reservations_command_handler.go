package commands

import (
	"context"

	"fulfillment/internal/pkg/metrics"
)

// ReleaseExpiredReservationsCommandHandler expires stale holds and returns their
// quantities, all in one transaction. It returns how many reservations it expired.
type ReleaseExpiredReservationsCommandHandler struct {
	uowFactory ReservationUoWFactory
	metrics    *metrics.Metrics
}

func NewReleaseExpiredReservationsCommandHandler(
	uowFactory ReservationUoWFactory,
	m *metrics.Metrics,
) ReleaseExpiredReservationsCommandHandler {
	return ReleaseExpiredReservationsCommandHandler{uowFactory: uowFactory, metrics: m}
}

func (h ReleaseExpiredReservationsCommandHandler) Handle(
	ctx context.Context,
	command ReleaseExpiredReservationsCommand,
) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reservationRepo := uow.ReservationRepository()
	inventoryRepo := uow.InventoryRepository()

	expired, err := reservationRepo.FindExpired(ctx, command.Now(), command.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	for _, reservation := range expired {
		items, err := reservation.Expire(command.Now())
		if err != nil {
			return 0, err
		}
		if err = releaseItems(ctx, inventoryRepo, items); err != nil {
			return 0, err
		}
		if err = reservationRepo.Update(ctx, reservation); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.metrics.RecordReleased("expired", len(expired))
	return len(expired), nil
}
