package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrValidateOrderQueryIsNotConstructed = errors.New(
	"ValidateOrderQuery must be created via NewValidateOrderQuery constructor",
)

// ValidateOrderQuery runs the acceptance rules for a prospective shipment. Weight,
// payment mode and declared value are checked by the resolver so that malformed
// values surface as invalid arguments from one place.
type ValidateOrderQuery struct {
	origin        kernel.Pincode
	destination   kernel.Pincode
	paymentMode   serviceability.PaymentMode
	weightKg      float64
	declaredValue decimal.Decimal

	guard guard.ConstructorGuard
}

func NewValidateOrderQuery(
	origin, destination kernel.Pincode,
	mode serviceability.PaymentMode,
	weightKg float64,
	declaredValue decimal.Decimal,
) (ValidateOrderQuery, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return ValidateOrderQuery{}, err
	}

	return ValidateOrderQuery{
		origin:        origin,
		destination:   destination,
		paymentMode:   mode,
		weightKg:      weightKg,
		declaredValue: declaredValue,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q ValidateOrderQuery) Validate() error {
	return q.guard.Validate(ErrValidateOrderQueryIsNotConstructed)
}

func (q ValidateOrderQuery) Origin() kernel.Pincode                  { return q.origin }
func (q ValidateOrderQuery) Destination() kernel.Pincode             { return q.destination }
func (q ValidateOrderQuery) PaymentMode() serviceability.PaymentMode { return q.paymentMode }
func (q ValidateOrderQuery) WeightKg() float64                       { return q.weightKg }
func (q ValidateOrderQuery) DeclaredValue() decimal.Decimal          { return q.declaredValue }
