package commands

import (
	"context"
)

// ConfirmAllocationCommandHandler confirms a reservation. The quantities were
// taken from the arena when the reservation was held, so nothing moves here.
type ConfirmAllocationCommandHandler struct {
	uowFactory ReservationUoWFactory
}

func NewConfirmAllocationCommandHandler(uowFactory ReservationUoWFactory) ConfirmAllocationCommandHandler {
	return ConfirmAllocationCommandHandler{uowFactory: uowFactory}
}

func (h ConfirmAllocationCommandHandler) Handle(ctx context.Context, command ConfirmAllocationCommand) error {
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

	reservation, err := reservationRepo.Get(ctx, command.ReservationID())
	if err != nil {
		return err
	}

	if err = reservation.Confirm(command.At()); err != nil {
		return err
	}

	if err = reservationRepo.Update(ctx, reservation); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
