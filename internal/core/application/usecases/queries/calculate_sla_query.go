package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCalculateSLAQueryIsNotConstructed = errors.New(
	"CalculateSLAQuery must be created via NewCalculateSLAQuery constructor",
)

// CalculateSLAQuery asks for the delivery promise of an order that has not been placed yet,
// or of one placed at placedAt.
//
// Example:
//
//	query, err := NewCalculateSLAQuery(order.Standard,
//	    kernel.MustPincode("110001"), kernel.MustPincode("560001"), time.Now())
//	if err != nil {
//	    return err
//	}
//	plan, err := handler.Handle(ctx, query)
type CalculateSLAQuery struct {
	orderType   order.Type
	origin      kernel.Pincode
	destination kernel.Pincode
	placedAt    time.Time

	guard guard.ConstructorGuard
}

func NewCalculateSLAQuery(
	orderType order.Type,
	origin, destination kernel.Pincode,
	placedAt time.Time,
) (CalculateSLAQuery, error) {
	var problems []error
	if orderType == "" {
		problems = append(problems, errs.NewValueIsRequiredError("orderType"))
	}
	problems = append(problems, origin.Validate(), destination.Validate())
	if placedAt.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("placedAt"))
	}
	if err := errors.Join(problems...); err != nil {
		return CalculateSLAQuery{}, err
	}

	return CalculateSLAQuery{
		orderType:   orderType,
		origin:      origin,
		destination: destination,
		placedAt:    placedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q CalculateSLAQuery) Validate() error {
	return q.guard.Validate(ErrCalculateSLAQueryIsNotConstructed)
}

func (q CalculateSLAQuery) OrderType() order.Type       { return q.orderType }
func (q CalculateSLAQuery) Origin() kernel.Pincode      { return q.origin }
func (q CalculateSLAQuery) Destination() kernel.Pincode { return q.destination }
func (q CalculateSLAQuery) PlacedAt() time.Time         { return q.placedAt }
