package inventory

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrReservationIsNotConstructed is returned for a zero value Reservation.
var ErrReservationIsNotConstructed = errors.New("Reservation must be created via NewReservation constructor")

// ReservationStatus is the hold lifecycle:
//
//	HELD ──┬──> CONFIRMED
//	       ├──> RELEASED
//	       └──> EXPIRED
type ReservationStatus int

const (
	UnknownReservationStatus ReservationStatus = iota
	Held
	Confirmed
	Released
	Expired
)

var reservationStatusNames = []string{"UNKNOWN", "HELD", "CONFIRMED", "RELEASED", "EXPIRED"}

func (s ReservationStatus) String() string {
	if s < UnknownReservationStatus || s > Expired {
		return reservationStatusNames[UnknownReservationStatus]
	}
	return reservationStatusNames[s]
}

func (s ReservationStatus) Validate() error {
	if s < Held || s > Expired {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s ReservationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ReservedItem is a quantity decremented from one inventory counter.
type ReservedItem struct {
	WarehouseID kernel.UUID
	SKUID       string
	Qty         int
}

func (i ReservedItem) Key() Key {
	return Key{WarehouseID: i.WarehouseID, SKUID: i.SKUID}
}

// Reservation holds decremented inventory for one allocation until the caller
// confirms it, cancels it, or it times out.
//
// While HELD the quantities are already removed from the arena. Releasing or
// expiring the reservation obliges the caller to give them back.
type Reservation struct {
	id        kernel.UUID
	orderID   string
	items     []ReservedItem
	status    ReservationStatus
	createdAt time.Time
	expiresAt time.Time

	isConstructed bool
}

// NewReservation creates a HELD reservation that expires ttl after createdAt.
func NewReservation(id kernel.UUID, orderID string, items []ReservedItem, createdAt time.Time, ttl time.Duration) (*Reservation, error) {
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl))
	}
	return RestoreReservation(id, orderID, items, Held, createdAt, createdAt.Add(ttl))
}

// RestoreReservation rebuilds a reservation read from storage.
func RestoreReservation(
	id kernel.UUID,
	orderID string,
	items []ReservedItem,
	status ReservationStatus,
	createdAt, expiresAt time.Time,
) (*Reservation, error) {
	var problems []error
	problems = append(problems, id.Validate(), status.Validate())
	if orderID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("orderId"))
	}
	for _, item := range items {
		problems = append(problems, item.WarehouseID.Validate())
		if item.SKUID == "" {
			problems = append(problems, errs.NewValueIsRequiredError("skuId"))
		}
		if item.Qty <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"qty", fmt.Errorf("%d is not greater than 0", item.Qty)))
		}
	}
	if expiresAt.Before(createdAt) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"expiresAt", errors.New("expiry is before creation")))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Reservation{
		id:            id,
		orderID:       orderID,
		items:         slices.Clone(items),
		status:        status,
		createdAt:     createdAt,
		expiresAt:     expiresAt,
		isConstructed: true,
	}, nil
}

func (r *Reservation) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReservationIsNotConstructed
	}
	return nil
}

func (r *Reservation) ID() kernel.UUID           { return r.id }
func (r *Reservation) OrderID() string           { return r.orderID }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) ExpiresAt() time.Time      { return r.expiresAt }

func (r *Reservation) Items() []ReservedItem {
	return slices.Clone(r.items)
}

// IsExpired reports whether a HELD reservation has passed its expiry at now.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.status == Held && now.After(r.expiresAt)
}

// Confirm makes the allocation final. A hold that already timed out cannot be confirmed.
func (r *Reservation) Confirm(now time.Time) error {
	if err := r.mustBeHeld("confirm"); err != nil {
		return err
	}
	if r.IsExpired(now) {
		return errs.NewValueIsInvalidErrorWithCause(
			"reservation", fmt.Errorf("expired at %s", r.expiresAt.Format(time.RFC3339)))
	}
	r.status = Confirmed
	return nil
}

// Release cancels the hold. The returned items must be given back to the arena.
func (r *Reservation) Release() ([]ReservedItem, error) {
	if err := r.mustBeHeld("release"); err != nil {
		return nil, err
	}
	r.status = Released
	return r.Items(), nil
}

// Expire times the hold out. The returned items must be given back to the arena.
func (r *Reservation) Expire(now time.Time) ([]ReservedItem, error) {
	if err := r.mustBeHeld("expire"); err != nil {
		return nil, err
	}
	if !r.IsExpired(now) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"reservation", fmt.Errorf("not expired until %s", r.expiresAt.Format(time.RFC3339)))
	}
	r.status = Expired
	return r.Items(), nil
}

func (r *Reservation) mustBeHeld(action string) error {
	if r.status != Held {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to %s", r.status, action),
		)
	}
	return nil
}
