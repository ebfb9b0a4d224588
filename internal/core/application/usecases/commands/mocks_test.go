package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) Snapshot(ctx context.Context, skuIDs []string) (inventory.Snapshot, error) {
	args := m.Called(ctx, skuIDs)
	return args.Get(0).(inventory.Snapshot), args.Error(1)
}

func (m *MockInventoryRepository) AvailableQty(ctx context.Context, key inventory.Key) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryRepository) Reserve(ctx context.Context, key inventory.Key, qty int) (bool, error) {
	args := m.Called(ctx, key, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) Release(ctx context.Context, key inventory.Key, qty int) error {
	args := m.Called(ctx, key, qty)
	return args.Error(0)
}

type MockReservationRepository struct{ mock.Mock }

func (m *MockReservationRepository) Add(ctx context.Context, r *inventory.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) Update(ctx context.Context, r *inventory.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.Reservation, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Reservation), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllOpen(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

// MockUoW satisfies commands.ReservationUoW, commands.OrderUoW and commands.UoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) InventoryRepository() ports.InventoryRepository {
	args := m.Called()
	return args.Get(0).(ports.InventoryRepository)
}

func (m *MockUoW) ReservationRepository() ports.ReservationRepository {
	args := m.Called()
	return args.Get(0).(ports.ReservationRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockReservationUoWFactory struct{ mock.Mock }

func (m *MockReservationUoWFactory) Create() commands.ReservationUoW {
	args := m.Called()
	return args.Get(0).(commands.ReservationUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockWarehouseDirectory struct{ mock.Mock }

func (m *MockWarehouseDirectory) All(ctx context.Context) ([]inventory.Warehouse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Warehouse), args.Error(1)
}

type MockOrderAllocator struct{ mock.Mock }

func (m *MockOrderAllocator) Handle(ctx context.Context, cmd commands.AllocateOrderCommand) (commands.AllocateOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AllocateOrderResult), args.Error(1)
}

type MockAllocationReleaser struct{ mock.Mock }

func (m *MockAllocationReleaser) Handle(ctx context.Context, cmd commands.ReleaseAllocationCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// staticCatalog serves every pincode it knows as serviceable for any carrier.
type staticCatalog map[string]bool

func (c staticCatalog) Lookup(_ context.Context, p kernel.Pincode) (*serviceability.Record, error) {
	if !c[p.String()] {
		return nil, nil
	}
	return &serviceability.Record{
		Pincode:          p,
		HubID:            "HUB-" + p.ServiceArea(),
		IsServiceable:    true,
		CODAvailable:     true,
		PrepaidAvailable: true,
	}, nil
}
