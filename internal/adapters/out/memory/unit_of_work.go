package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ErrNoTransaction is returned by Commit and Rollback when Begin was not called
// or the unit of work already finished.
var ErrNoTransaction = errors.New("memory: no open unit of work")

// Store bundles the shared in-process state every unit of work writes to.
type Store struct {
	Arena        *Arena
	Reservations *ReservationStore
	Orders       *OrderStore
}

func NewStore(casAttempts int) *Store {
	return &Store{
		Arena:        NewArena(casAttempts),
		Reservations: NewReservationStore(),
		Orders:       NewOrderStore(),
	}
}

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork applies writes to the shared store immediately. It keeps the net
// quantity it took from every inventory key and an undo log for reservation and
// order writes. Rollback gives the net quantities back and replays the undo log
// backwards; Commit drops both.
// Other units of work see writes before Commit, so isolation is weaker than in
// the database adapter, but inventory never goes negative because every
// decrement is a compare-and-swap on the arena.
type UnitOfWork struct {
	store *Store

	mu    sync.Mutex
	open  bool
	taken map[inventory.Key]int
	undo  []func(ctx context.Context) error
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.open {
		uow.open = true
		uow.taken = make(map[inventory.Key]int)
	}
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if !uow.open {
		return ErrNoTransaction
	}
	uow.open = false
	uow.taken = nil
	uow.undo = nil
	return nil
}

// Rollback runs every compensation even when one fails and joins the failures.
func (uow *UnitOfWork) Rollback(ctx context.Context) error {
	uow.mu.Lock()
	if !uow.open {
		uow.mu.Unlock()
		return ErrNoTransaction
	}
	taken, steps := uow.taken, uow.undo
	uow.open = false
	uow.taken = nil
	uow.undo = nil
	uow.mu.Unlock()

	var failures []error
	for key, qty := range taken {
		if err := uow.giveBack(ctx, key, qty); err != nil {
			failures = append(failures, err)
		}
	}
	for i := len(steps) - 1; i >= 0; i-- {
		if err := steps[i](ctx); err != nil {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

func (uow *UnitOfWork) InventoryRepository() ports.InventoryRepository {
	return &inventoryRepository{uow: uow}
}

func (uow *UnitOfWork) ReservationRepository() ports.ReservationRepository {
	return &reservationRepository{uow: uow}
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) giveBack(ctx context.Context, key inventory.Key, qty int) error {
	switch {
	case qty > 0:
		return uow.store.Arena.Release(ctx, key, qty)
	case qty < 0:
		ok, err := uow.store.Arena.Reserve(ctx, key, -qty)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("released stock of %s/%s was taken before rollback", key.WarehouseID, key.SKUID)
		}
	}
	return nil
}

// track adds qty to the net quantity taken from key while a unit of work is open.
func (uow *UnitOfWork) track(key inventory.Key, qty int) {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if uow.open {
		uow.taken[key] += qty
	}
}

// record keeps step only while a unit of work is open. Outside of one, writes
// are final.
func (uow *UnitOfWork) record(step func(ctx context.Context) error) {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if uow.open {
		uow.undo = append(uow.undo, step)
	}
}

type inventoryRepository struct {
	uow *UnitOfWork
}

func (r *inventoryRepository) Snapshot(ctx context.Context, skuIDs []string) (inventory.Snapshot, error) {
	return r.uow.store.Arena.Snapshot(ctx, skuIDs)
}

func (r *inventoryRepository) AvailableQty(ctx context.Context, key inventory.Key) (int, error) {
	return r.uow.store.Arena.AvailableQty(ctx, key)
}

func (r *inventoryRepository) Reserve(ctx context.Context, key inventory.Key, qty int) (bool, error) {
	ok, err := r.uow.store.Arena.Reserve(ctx, key, qty)
	if err != nil || !ok {
		return ok, err
	}
	r.uow.track(key, qty)
	return true, nil
}

func (r *inventoryRepository) Release(ctx context.Context, key inventory.Key, qty int) error {
	if err := r.uow.store.Arena.Release(ctx, key, qty); err != nil {
		return err
	}
	r.uow.track(key, -qty)
	return nil
}

type reservationRepository struct {
	uow *UnitOfWork
}

func (r *reservationRepository) Add(ctx context.Context, reservation *inventory.Reservation) error {
	store := r.uow.store.Reservations
	if err := store.Add(ctx, reservation); err != nil {
		return err
	}
	id := reservation.ID()
	r.uow.record(func(context.Context) error {
		store.remove(id)
		return nil
	})
	return nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *inventory.Reservation) error {
	store := r.uow.store.Reservations
	previous := store.peek(reservation.ID())
	if err := store.Update(ctx, reservation); err != nil {
		return err
	}
	r.uow.record(func(context.Context) error {
		store.put(previous)
		return nil
	})
	return nil
}

func (r *reservationRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Reservation, error) {
	return r.uow.store.Reservations.Get(ctx, id)
}

func (r *reservationRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.Reservation, error) {
	return r.uow.store.Reservations.FindExpired(ctx, now, limit)
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	store := r.uow.store.Orders
	if err := store.Add(ctx, aggregate); err != nil {
		return err
	}
	id := aggregate.ID()
	r.uow.record(func(context.Context) error {
		store.remove(id)
		return nil
	})
	return nil
}

func (r *orderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	store := r.uow.store.Orders
	previous := store.peek(aggregate.ID())
	if err := store.Update(ctx, aggregate); err != nil {
		return err
	}
	r.uow.record(func(context.Context) error {
		store.put(previous)
		return nil
	})
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.uow.store.Orders.Get(ctx, id)
}

func (r *orderRepository) GetAllInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	return r.uow.store.Orders.GetAllInStatus(ctx, status, limit)
}

func (r *orderRepository) GetAllOpen(ctx context.Context) ([]*order.Order, error) {
	return r.uow.store.Orders.GetAllOpen(ctx)
}
