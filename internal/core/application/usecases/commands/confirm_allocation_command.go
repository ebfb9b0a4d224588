package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmAllocationCommandIsNotConstructed = errors.New(
	"ConfirmAllocationCommand must be created via NewConfirmAllocationCommand constructor",
)

// ConfirmAllocationCommand makes a held reservation final.
type ConfirmAllocationCommand struct {
	reservationID kernel.UUID
	at            time.Time

	guard guard.ConstructorGuard
}

func NewConfirmAllocationCommand(reservationID kernel.UUID, at time.Time) (ConfirmAllocationCommand, error) {
	var problems []error
	problems = append(problems, reservationID.Validate())
	if at.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("at"))
	}
	if err := errors.Join(problems...); err != nil {
		return ConfirmAllocationCommand{}, err
	}

	return ConfirmAllocationCommand{
		reservationID: reservationID,
		at:            at,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmAllocationCommand) Validate() error {
	return c.guard.Validate(ErrConfirmAllocationCommandIsNotConstructed)
}

func (c ConfirmAllocationCommand) ReservationID() kernel.UUID { return c.reservationID }

func (c ConfirmAllocationCommand) At() time.Time { return c.at }
