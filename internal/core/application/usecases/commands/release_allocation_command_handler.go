package commands

import (
	"context"

	"fulfillment/internal/pkg/metrics"
)

// ReleaseAllocationCommandHandler cancels a reservation and gives every held item
// back to the inventory arena in the same transaction.
type ReleaseAllocationCommandHandler struct {
	uowFactory ReservationUoWFactory
	metrics    *metrics.Metrics
}

func NewReleaseAllocationCommandHandler(uowFactory ReservationUoWFactory, m *metrics.Metrics) ReleaseAllocationCommandHandler {
	return ReleaseAllocationCommandHandler{uowFactory: uowFactory, metrics: m}
}

func (h ReleaseAllocationCommandHandler) Handle(ctx context.Context, command ReleaseAllocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reservationRepo := uow.ReservationRepository()
	inventoryRepo := uow.InventoryRepository()

	reservation, err := reservationRepo.Get(ctx, command.ReservationID())
	if err != nil {
		return err
	}

	items, err := reservation.Release()
	if err != nil {
		return err
	}

	if err = releaseItems(ctx, inventoryRepo, items); err != nil {
		return err
	}

	if err = reservationRepo.Update(ctx, reservation); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.RecordReleased("cancelled", 1)
	return nil
}
