package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the fulfillment state of an order. It only moves forward:
//
//	CREATED -> ALLOCATED -> PICKED -> PACKED -> SHIPPED -> IN_TRANSIT -> OUT_FOR_DELIVERY -> DELIVERED
//
// Skipping ahead is allowed (webhooks from carriers arrive out of order), going back is not.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Created
	Allocated
	Picked
	Packed
	Shipped
	InTransit
	OutForDelivery
	Delivered
)

var statusNames = []string{
	"UNKNOWN",
	"CREATED",
	"ALLOCATED",
	"PICKED",
	"PACKED",
	"SHIPPED",
	"IN_TRANSIT",
	"OUT_FOR_DELIVERY",
	"DELIVERED",
}

// ParseStatus accepts the upper snake case names used on the wire.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range statusNames {
		if i > 0 && name == needle {
			return Status(i), nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if s < Unknown || s > Delivered {
		return statusNames[Unknown]
	}
	return statusNames[s]
}

// HasReached reports whether an order in status s has already passed through target.
func (s Status) HasReached(target Status) bool {
	return s.Validate() == nil && s >= target
}

// IsFinal reports whether no further transition is possible.
func (s Status) IsFinal() bool {
	return s == Delivered
}

// AdvanceTo returns next when it is a valid forward move from s.
//
// Example:
//
//	next, err := order.Packed.AdvanceTo(order.Shipped) // Shipped, nil
//	_, err = order.Shipped.AdvanceTo(order.Picked)     // error
func (s Status) AdvanceTo(next Status) (Status, error) {
	if err := errors.Join(s.Validate(), next.Validate()); err != nil {
		return Unknown, err
	}
	if next <= s {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot move from %s to %s", s, next),
		)
	}
	return next, nil
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
