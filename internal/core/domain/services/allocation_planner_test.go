package services_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plannerFixture struct {
	planner services.AllocationPlanner
	local   inventory.Warehouse // 560002, same service area as the destination
	near    inventory.Warehouse // 570001, same region
	far     inventory.Warehouse // 110001, another region
}

func newPlannerFixture(t *testing.T) plannerFixture {
	t.Helper()
	catalog := (&catalogStub{}).add("560001", true)
	f := plannerFixture{
		planner: services.NewAllocationPlanner(newClassifier(t), newResolver(t, catalog), newCalculator(t)),
		local:   newWarehouse(t, "WH-BLR", "560002"),
		near:    newWarehouse(t, "WH-MYS", "570001"),
		far:     newWarehouse(t, "WH-DEL", "110001"),
	}
	return f
}

func (f plannerFixture) warehouses() []inventory.Warehouse {
	// deliberately out of rank order
	return []inventory.Warehouse{f.far, f.near, f.local}
}

func newWarehouse(t *testing.T, code, pincode string) inventory.Warehouse {
	t.Helper()
	w, err := inventory.NewWarehouse(kernel.NewUUID(), code, kernel.MustPincode(pincode), 10_000)
	require.NoError(t, err)
	return w
}

func stock(w inventory.Warehouse, sku string, qty int) inventory.Unit {
	return inventory.Unit{WarehouseID: w.ID(), SKUID: sku, AvailableQty: qty}
}

func request(lines ...order.Line) allocation.Request {
	return allocation.Request{
		OrderID:     "ORD-1",
		Lines:       lines,
		Destination: bengaluru,
		Config:      allocation.DefaultConfig(),
	}
}

func TestAllocationPlanner_SplitsAcrossHops(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 10), stock(f.near, "SKU-1", 5))

	plan, err := f.planner.Plan(context.Background(), request(order.Line{SKUID: "SKU-1", RequestedQty: 15}), f.warehouses(), snapshot)

	require.NoError(t, err)
	require.Len(t, plan.Lines, 1)
	line := plan.Lines[0]
	assert.Equal(t, []allocation.Split{
		{WarehouseID: f.local.ID(), Qty: 10, HopLevel: 0},
		{WarehouseID: f.near.ID(), Qty: 5, HopLevel: 1},
	}, line.Splits)
	assert.Zero(t, line.Shortfall)
	assert.True(t, plan.SplitRequired)
	assert.True(t, plan.DestinationServiceable)
	assert.Equal(t, 1, plan.TotalHops)
	assert.Nil(t, plan.SLAImpact)

	assert.Equal(t, 10, snapshot.Available(inventory.Key{WarehouseID: f.local.ID(), SKUID: "SKU-1"}),
		"the caller's snapshot must not change")
}

func TestAllocationPlanner_HopBound(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(
		stock(f.local, "SKU-1", 5), stock(f.near, "SKU-1", 5), stock(f.far, "SKU-1", 10))
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15})
	req.Config.MaxHops = 1

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	line := plan.Lines[0]
	require.Len(t, line.Splits, 2)
	assert.Equal(t, 5, line.Shortfall)
	assert.LessOrEqual(t, plan.MaxHopLevel(), 1)
}

func TestAllocationPlanner_EmptyWarehouseDoesNotUseAHop(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 5), stock(f.far, "SKU-1", 10))
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15})
	req.Config.MaxHops = 1

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	assert.Equal(t, []allocation.Split{
		{WarehouseID: f.local.ID(), Qty: 5, HopLevel: 0},
		{WarehouseID: f.far.ID(), Qty: 10, HopLevel: 1},
	}, plan.Lines[0].Splits)
}

func TestAllocationPlanner_HoppingDisabled(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 10), stock(f.near, "SKU-1", 50))
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15})
	req.Config.EnableHopping = false

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	assert.Equal(t, []allocation.Split{{WarehouseID: f.local.ID(), Qty: 10, HopLevel: 0}}, plan.Lines[0].Splits)
	assert.Equal(t, 5, plan.Lines[0].Shortfall)
	assert.False(t, plan.SplitRequired)
	assert.Zero(t, plan.TotalHops)
}

func TestAllocationPlanner_SplitNotAllowed(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 10), stock(f.near, "SKU-1", 20))

	t.Run("whole line from the next warehouse", func(t *testing.T) {
		req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15})
		req.Config.SplitOrderAllowed = false

		plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

		require.NoError(t, err)
		assert.Equal(t, []allocation.Split{{WarehouseID: f.near.ID(), Qty: 15, HopLevel: 1}}, plan.Lines[0].Splits)
		assert.False(t, plan.SplitRequired)
	})

	t.Run("all or nothing without hopping", func(t *testing.T) {
		req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15})
		req.Config.SplitOrderAllowed = false
		req.Config.EnableHopping = false

		plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

		require.NoError(t, err)
		assert.Empty(t, plan.Lines[0].Splits)
		assert.Equal(t, 15, plan.Lines[0].Shortfall)
	})
}

func TestAllocationPlanner_PreferredWarehouse(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 15), stock(f.far, "SKU-1", 15))
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15})
	preferred := f.far.ID()
	req.PreferredWarehouseID = &preferred

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	assert.Equal(t, []allocation.Split{{WarehouseID: f.far.ID(), Qty: 15, HopLevel: 0}}, plan.Lines[0].Splits)
}

func TestAllocationPlanner_UnknownPreferredWarehouse(t *testing.T) {
	f := newPlannerFixture(t)
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 1})
	unknown := kernel.NewUUID()
	req.PreferredWarehouseID = &unknown

	_, err := f.planner.Plan(context.Background(), req, f.warehouses(), inventory.NewSnapshot())

	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "preferredWarehouseId")
}

func TestAllocationPlanner_UnserviceableDestination(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 100))
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15}, order.Line{SKUID: "SKU-2", RequestedQty: 2})
	req.Destination = remote

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	assert.False(t, plan.DestinationServiceable)
	assert.Equal(t, 17, plan.TotalShortfall())
	assert.Empty(t, plan.ReservedItems())
}

func TestAllocationPlanner_SLAImpact(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 10), stock(f.near, "SKU-1", 5))
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 15})
	req.OrderType = order.Standard
	req.PlacedAt = wednesdayMorning

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	require.NotNil(t, plan.SLAImpact)
	assert.Equal(t, plan.SLAImpact.OriginalETA.AddDate(0, 0, 1), plan.SLAImpact.AdjustedETA)
	assert.Contains(t, plan.SLAImpact.Reason, "2 warehouses")
}

func TestAllocationPlanner_WholeLineFromSecondWarehouseHasNoSLAImpact(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 5), stock(f.near, "SKU-1", 10))
	req := request(order.Line{SKUID: "SKU-1", RequestedQty: 8})
	req.Config.SplitOrderAllowed = false
	req.OrderType = order.Standard
	req.PlacedAt = wednesdayMorning

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	assert.Equal(t, []allocation.Split{{WarehouseID: f.near.ID(), Qty: 8, HopLevel: 1}}, plan.Lines[0].Splits)
	assert.False(t, plan.SplitRequired)
	assert.Equal(t, 1, plan.TotalHops)
	assert.Nil(t, plan.SLAImpact)
}

func TestAllocationPlanner_LinesShareStock(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(stock(f.local, "SKU-1", 10), stock(f.near, "SKU-1", 10))
	req := request(
		order.Line{SKUID: "SKU-1", RequestedQty: 8},
		order.Line{SKUID: "SKU-1", RequestedQty: 8},
		order.Line{SKUID: "SKU-2", RequestedQty: 0},
	)

	plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

	require.NoError(t, err)
	assert.Equal(t, []allocation.Split{
		{WarehouseID: f.local.ID(), Qty: 2, HopLevel: 0},
		{WarehouseID: f.near.ID(), Qty: 6, HopLevel: 1},
	}, plan.Lines[1].Splits)
	assert.Empty(t, plan.Lines[2].Splits)
	assert.Zero(t, plan.Lines[2].Shortfall)
	assert.Equal(t, []inventory.ReservedItem{
		{WarehouseID: f.local.ID(), SKUID: "SKU-1", Qty: 10},
		{WarehouseID: f.near.ID(), SKUID: "SKU-1", Qty: 6},
	}, plan.ReservedItems())
}

func TestAllocationPlanner_ConservesQuantity(t *testing.T) {
	f := newPlannerFixture(t)
	snapshot := inventory.NewSnapshot(
		stock(f.local, "SKU-1", 3), stock(f.near, "SKU-1", 4), stock(f.far, "SKU-1", 6),
		stock(f.near, "SKU-2", 2))

	for _, hopping := range []bool{true, false} {
		for _, split := range []bool{true, false} {
			for maxHops := 0; maxHops <= 3; maxHops++ {
				for qty := 0; qty <= 16; qty += 4 {
					req := request(order.Line{SKUID: "SKU-1", RequestedQty: qty}, order.Line{SKUID: "SKU-2", RequestedQty: qty})
					req.Config = allocation.Config{EnableHopping: hopping, MaxHops: maxHops, SplitOrderAllowed: split}

					plan, err := f.planner.Plan(context.Background(), req, f.warehouses(), snapshot)

					require.NoError(t, err)
					require.NoError(t, plan.CheckConservation())
					assert.LessOrEqual(t, plan.MaxHopLevel(), maxHops)
					for _, l := range plan.Lines {
						assert.GreaterOrEqual(t, l.Shortfall, 0)
					}
				}
			}
		}
	}
}

func TestAllocationPlanner_InvalidRequest(t *testing.T) {
	f := newPlannerFixture(t)

	_, err := f.planner.Plan(context.Background(), allocation.Request{}, f.warehouses(), inventory.NewSnapshot())
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = f.planner.Plan(context.Background(), request(order.Line{SKUID: "SKU-1", RequestedQty: -1}),
		f.warehouses(), inventory.NewSnapshot())
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}
