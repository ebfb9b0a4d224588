package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCheckServiceabilityQueryIsNotConstructed = errors.New(
	"CheckServiceabilityQuery must be created via NewPincodeServiceabilityQuery or NewRouteServiceabilityQuery",
)

// CheckServiceabilityQuery asks about either one pincode or an origin to destination lane.
type CheckServiceabilityQuery struct {
	pincode     kernel.Pincode
	origin      kernel.Pincode
	destination kernel.Pincode
	paymentMode serviceability.PaymentMode
	isRoute     bool

	guard guard.ConstructorGuard
}

func NewPincodeServiceabilityQuery(pincode kernel.Pincode) (CheckServiceabilityQuery, error) {
	if err := pincode.Validate(); err != nil {
		return CheckServiceabilityQuery{}, err
	}
	return CheckServiceabilityQuery{pincode: pincode, guard: guard.NewConstructorGuard()}, nil
}

func NewRouteServiceabilityQuery(
	origin, destination kernel.Pincode,
	mode serviceability.PaymentMode,
) (CheckServiceabilityQuery, error) {
	var problems []error
	problems = append(problems, origin.Validate(), destination.Validate())
	if mode == serviceability.UnknownPaymentMode {
		problems = append(problems, errs.NewValueIsRequiredError("paymentMode"))
	}
	if err := errors.Join(problems...); err != nil {
		return CheckServiceabilityQuery{}, err
	}

	return CheckServiceabilityQuery{
		origin:      origin,
		destination: destination,
		paymentMode: mode,
		isRoute:     true,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q CheckServiceabilityQuery) Validate() error {
	return q.guard.Validate(ErrCheckServiceabilityQueryIsNotConstructed)
}

func (q CheckServiceabilityQuery) IsRoute() bool                           { return q.isRoute }
func (q CheckServiceabilityQuery) Pincode() kernel.Pincode                 { return q.pincode }
func (q CheckServiceabilityQuery) Origin() kernel.Pincode                  { return q.origin }
func (q CheckServiceabilityQuery) Destination() kernel.Pincode             { return q.destination }
func (q CheckServiceabilityQuery) PaymentMode() serviceability.PaymentMode { return q.paymentMode }
