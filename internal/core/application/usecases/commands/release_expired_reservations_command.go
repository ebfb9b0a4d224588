package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const DefaultExpiryBatchSize = 100

var ErrReleaseExpiredReservationsCommandIsNotConstructed = errors.New(
	"ReleaseExpiredReservationsCommand must be created via NewReleaseExpiredReservationsCommand constructor",
)

// ReleaseExpiredReservationsCommand times out up to batchSize holds that expired before now.
type ReleaseExpiredReservationsCommand struct {
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewReleaseExpiredReservationsCommand(now time.Time, batchSize int) (ReleaseExpiredReservationsCommand, error) {
	var problems []error
	if now.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("now"))
	}
	if batchSize <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded"))
	}
	if err := errors.Join(problems...); err != nil {
		return ReleaseExpiredReservationsCommand{}, err
	}

	return ReleaseExpiredReservationsCommand{
		now:       now,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseExpiredReservationsCommand) Validate() error {
	return c.guard.Validate(ErrReleaseExpiredReservationsCommandIsNotConstructed)
}

func (c ReleaseExpiredReservationsCommand) Now() time.Time { return c.now }

func (c ReleaseExpiredReservationsCommand) BatchSize() int { return c.batchSize }
