package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReleaseAllocationCommandIsNotConstructed = errors.New(
	"ReleaseAllocationCommand must be created via NewReleaseAllocationCommand constructor",
)

// ReleaseAllocationCommand cancels a held reservation and returns its quantities.
type ReleaseAllocationCommand struct {
	reservationID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReleaseAllocationCommand(reservationID kernel.UUID) (ReleaseAllocationCommand, error) {
	if err := reservationID.Validate(); err != nil {
		return ReleaseAllocationCommand{}, err
	}
	return ReleaseAllocationCommand{
		reservationID: reservationID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseAllocationCommand) Validate() error {
	return c.guard.Validate(ErrReleaseAllocationCommandIsNotConstructed)
}

func (c ReleaseAllocationCommand) ReservationID() kernel.UUID { return c.reservationID }
