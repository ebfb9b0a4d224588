package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order was not created via NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Details are the order facts captured at acceptance time. They never change afterwards.
type Details struct {
	Type          Type
	PlacedAt      time.Time
	PaymentMode   serviceability.PaymentMode
	Origin        kernel.Pincode
	Destination   kernel.Pincode
	Lines         []Line
	WeightKg      float64
	DeclaredValue decimal.Decimal
}

// Order is the aggregate root of the order read view.
//
// Invariants:
//   - id is a valid UUID and both pincodes are constructed
//   - there is at least one line and no line has a negative quantity
//   - weight and declared value are not negative
//   - status only moves forward
type Order struct {
	id      kernel.UUID
	details Details
	status  Status

	// promiseDelayDays is the extra transit time introduced by multi-warehouse allocation.
	promiseDelayDays int

	isConstructed bool
}

// NewOrder creates an order in CREATED status.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
//	    Type:        order.Standard,
//	    PlacedAt:    time.Now(),
//	    PaymentMode: serviceability.Prepaid,
//	    Origin:      kernel.MustPincode("110001"),
//	    Destination: kernel.MustPincode("560001"),
//	    Lines:       []order.Line{{SKUID: "SKU-1", RequestedQty: 2}},
//	    WeightKg:    1.5,
//	})
func NewOrder(id kernel.UUID, details Details) (*Order, error) {
	return RestoreOrder(id, details, Created, 0)
}

// RestoreOrder rebuilds an order read from persistence.
func RestoreOrder(id kernel.UUID, details Details, status Status, promiseDelayDays int) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setDetails(details),
		o.setStatus(status),
		o.setPromiseDelay(promiseDelayDays),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                         { return o.id }
func (o *Order) Type() Type                              { return o.details.Type }
func (o *Order) PlacedAt() time.Time                     { return o.details.PlacedAt }
func (o *Order) PaymentMode() serviceability.PaymentMode { return o.details.PaymentMode }
func (o *Order) Origin() kernel.Pincode                  { return o.details.Origin }
func (o *Order) Destination() kernel.Pincode             { return o.details.Destination }
func (o *Order) WeightKg() float64                       { return o.details.WeightKg }
func (o *Order) DeclaredValue() decimal.Decimal          { return o.details.DeclaredValue }
func (o *Order) Status() Status                          { return o.status }
func (o *Order) PromiseDelayDays() int                   { return o.promiseDelayDays }

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	return slices.Clone(o.details.Lines)
}

// Details returns a copy of the acceptance-time facts.
func (o *Order) Details() Details {
	d := o.details
	d.Lines = slices.Clone(d.Lines)
	return d
}

// MarkAllocated moves a CREATED order to ALLOCATED and records how many days the
// multi-warehouse split pushed the promise out.
func (o *Order) MarkAllocated(promiseDelayDays int) error {
	if o.status != Created {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to allocate", o.status),
		)
	}
	if err := o.setPromiseDelay(promiseDelayDays); err != nil {
		return err
	}
	o.status = Allocated
	return nil
}

// Advance moves the order forward to next, as reported by warehouse or carrier events.
func (o *Order) Advance(next Status) error {
	newStatus, err := o.status.AdvanceTo(next)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDetails(d Details) error {
	var problems []error
	if d.Type == "" {
		problems = append(problems, errs.NewValueIsRequiredError("orderType"))
	}
	if d.PlacedAt.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("placedAt"))
	}
	if d.PaymentMode != serviceability.Prepaid && d.PaymentMode != serviceability.COD {
		problems = append(problems, errs.NewValueIsInvalidError("paymentMode"))
	}
	problems = append(problems, d.Origin.Validate(), d.Destination.Validate())
	if len(d.Lines) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("lines"))
	}
	for _, l := range d.Lines {
		problems = append(problems, l.Validate())
	}
	if d.WeightKg < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"weightKg", fmt.Errorf("%v is negative", d.WeightKg)))
	}
	if d.DeclaredValue.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"declaredValue", fmt.Errorf("%s is negative", d.DeclaredValue)))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	d.Lines = slices.Clone(d.Lines)
	o.details = d
	return nil
}

func (o *Order) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	o.status = s
	return nil
}

func (o *Order) setPromiseDelay(days int) error {
	if days < 0 {
		return errs.NewValueIsOutOfRangeError("promiseDelayDays", days, 0, "unbounded")
	}
	o.promiseDelayDays = days
	return nil
}
