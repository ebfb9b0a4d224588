package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ReservationStore keeps copies of reservations so callers never share state with it.
type ReservationStore struct {
	mu    sync.RWMutex
	items map[kernel.UUID]*inventory.Reservation
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{items: make(map[kernel.UUID]*inventory.Reservation)}
}

func (s *ReservationStore) Add(_ context.Context, r *inventory.Reservation) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[r.ID()]; ok {
		return errs.NewValueIsInvalidErrorWithCause("reservation", errDuplicate(r.ID()))
	}
	s.items[r.ID()] = cloneReservation(r)
	return nil
}

func (s *ReservationStore) Update(_ context.Context, r *inventory.Reservation) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[r.ID()]; !ok {
		return errs.NewObjectNotFoundError("reservation", r.ID().String())
	}
	s.items[r.ID()] = cloneReservation(r)
	return nil
}

func (s *ReservationStore) Get(_ context.Context, id kernel.UUID) (*inventory.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("reservation", id.String())
	}
	return cloneReservation(r), nil
}

func (s *ReservationStore) FindExpired(_ context.Context, now time.Time, limit int) ([]*inventory.Reservation, error) {
	s.mu.RLock()
	var expired []*inventory.Reservation
	for _, r := range s.items {
		if r.IsExpired(now) {
			expired = append(expired, cloneReservation(r))
		}
	}
	s.mu.RUnlock()

	sort.Slice(expired, func(i, j int) bool { return expired[i].ExpiresAt().Before(expired[j].ExpiresAt()) })
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

func (s *ReservationStore) remove(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *ReservationStore) put(r *inventory.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[r.ID()] = r
}

func (s *ReservationStore) peek(id kernel.UUID) *inventory.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[id]
}

func cloneReservation(r *inventory.Reservation) *inventory.Reservation {
	c, err := inventory.RestoreReservation(r.ID(), r.OrderID(), r.Items(), r.Status(), r.CreatedAt(), r.ExpiresAt())
	if err != nil {
		// r was validated when it was constructed
		panic(err)
	}
	return c
}
