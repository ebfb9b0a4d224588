package queries

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOptimizePicklistsQueryIsNotConstructed = errors.New(
	"OptimizePicklistsQuery must be created via NewOptimizePicklistsQuery constructor",
)

// OptimizePicklistsQuery groups allocated orders into pick batches. It has no side
// effects: the same input produces a new generation with fresh batch ids each time.
type OptimizePicklistsQuery struct {
	orderIDs []string
	strategy picklist.Strategy

	guard guard.ConstructorGuard
}

func NewOptimizePicklistsQuery(orderIDs []string, strategy picklist.Strategy) (OptimizePicklistsQuery, error) {
	var problems []error
	if len(orderIDs) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("orderIds"))
	}
	problems = append(problems, strategy.Type.Validate())
	if err := errors.Join(problems...); err != nil {
		return OptimizePicklistsQuery{}, err
	}

	return OptimizePicklistsQuery{
		orderIDs: slices.Clone(orderIDs),
		strategy: strategy,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q OptimizePicklistsQuery) Validate() error {
	return q.guard.Validate(ErrOptimizePicklistsQueryIsNotConstructed)
}

func (q OptimizePicklistsQuery) OrderIDs() []string          { return slices.Clone(q.orderIDs) }
func (q OptimizePicklistsQuery) Strategy() picklist.Strategy { return q.strategy }
