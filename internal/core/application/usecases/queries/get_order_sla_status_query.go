package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderSLAStatusQueryIsNotConstructed = errors.New(
	"GetOrderSLAStatusQuery must be created via NewGetOrderSLAStatusQuery constructor",
)

// GetOrderSLAStatusQuery classifies one live order against its promise at now.
type GetOrderSLAStatusQuery struct {
	orderID kernel.UUID
	now     time.Time

	guard guard.ConstructorGuard
}

func NewGetOrderSLAStatusQuery(orderID kernel.UUID, now time.Time) (GetOrderSLAStatusQuery, error) {
	var problems []error
	problems = append(problems, orderID.Validate())
	if now.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("now"))
	}
	if err := errors.Join(problems...); err != nil {
		return GetOrderSLAStatusQuery{}, err
	}

	return GetOrderSLAStatusQuery{orderID: orderID, now: now, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderSLAStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderSLAStatusQueryIsNotConstructed)
}

func (q GetOrderSLAStatusQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderSLAStatusQuery) Now() time.Time       { return q.now }
