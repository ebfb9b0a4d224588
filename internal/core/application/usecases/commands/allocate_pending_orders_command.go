package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAllocatePendingOrdersCommandIsNotConstructed = errors.New(
	"AllocatePendingOrdersCommand must be created via NewAllocatePendingOrdersCommand constructor",
)

// AllocatePendingOrdersCommand allocates up to batchSize CREATED orders with the
// given hopping policy.
type AllocatePendingOrdersCommand struct {
	batchSize int
	config    allocation.Config

	guard guard.ConstructorGuard
}

func NewAllocatePendingOrdersCommand(batchSize int, config allocation.Config) (AllocatePendingOrdersCommand, error) {
	var problems []error
	if batchSize <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded"))
	}
	problems = append(problems, config.Validate())
	if err := errors.Join(problems...); err != nil {
		return AllocatePendingOrdersCommand{}, err
	}

	return AllocatePendingOrdersCommand{
		batchSize: batchSize,
		config:    config,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AllocatePendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAllocatePendingOrdersCommandIsNotConstructed)
}

func (c AllocatePendingOrdersCommand) BatchSize() int { return c.batchSize }

func (c AllocatePendingOrdersCommand) Config() allocation.Config { return c.config }
