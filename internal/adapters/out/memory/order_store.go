package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

type OrderStore struct {
	mu    sync.RWMutex
	items map[kernel.UUID]*order.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{items: make(map[kernel.UUID]*order.Order)}
}

func (s *OrderStore) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[o.ID()]; ok {
		return errs.NewValueIsInvalidErrorWithCause("order", errDuplicate(o.ID()))
	}
	s.items[o.ID()] = cloneOrder(o)
	return nil
}

func (s *OrderStore) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[o.ID()]; !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	s.items[o.ID()] = cloneOrder(o)
	return nil
}

func (s *OrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.items[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return cloneOrder(o), nil
}

func (s *OrderStore) GetAllInStatus(_ context.Context, status order.Status, limit int) ([]*order.Order, error) {
	found := s.filter(func(o *order.Order) bool { return o.Status() == status })
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (s *OrderStore) GetAllOpen(_ context.Context) ([]*order.Order, error) {
	return s.filter(func(o *order.Order) bool {
		return o.Status().HasReached(order.Allocated) && !o.Status().HasReached(order.Delivered)
	}), nil
}

// filter returns copies of the matching orders, oldest first.
func (s *OrderStore) filter(match func(*order.Order) bool) []*order.Order {
	s.mu.RLock()
	var found []*order.Order
	for _, o := range s.items {
		if match(o) {
			found = append(found, cloneOrder(o))
		}
	}
	s.mu.RUnlock()

	sort.Slice(found, func(i, j int) bool {
		if !found[i].PlacedAt().Equal(found[j].PlacedAt()) {
			return found[i].PlacedAt().Before(found[j].PlacedAt())
		}
		return found[i].ID().String() < found[j].ID().String()
	})
	return found
}

func (s *OrderStore) remove(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *OrderStore) put(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[o.ID()] = o
}

func (s *OrderStore) peek(id kernel.UUID) *order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[id]
}

func cloneOrder(o *order.Order) *order.Order {
	c, err := order.RestoreOrder(o.ID(), o.Details(), o.Status(), o.PromiseDelayDays())
	if err != nil {
		panic(err)
	}
	return c
}

func errDuplicate(id kernel.UUID) error {
	return fmt.Errorf("%s already exists", id)
}
