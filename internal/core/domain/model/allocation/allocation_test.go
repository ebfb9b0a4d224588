package allocation_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := allocation.Request{
			OrderID:     "ORD-1",
			Lines:       []order.Line{{SKUID: "X", RequestedQty: 15}},
			Destination: kernel.MustPincode("560001"),
			Config:      allocation.DefaultConfig(),
		}
		require.NoError(t, req.Validate())
	})

	t.Run("negative quantity and missing fields", func(t *testing.T) {
		req := allocation.Request{
			Lines:  []order.Line{{SKUID: "X", RequestedQty: -1}},
			Config: allocation.Config{MaxHops: -1},
		}

		err := req.Validate()

		require.ErrorIs(t, err, errs.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "orderId")
		assert.Contains(t, err.Error(), "requestedQty")
		assert.Contains(t, err.Error(), "maxHops")
	})
}

func TestPlan_Helpers(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()
	plan := allocation.Plan{
		OrderID: "ORD-1",
		Lines: []allocation.LineAllocation{
			{SKUID: "X", RequestedQty: 15, Splits: []allocation.Split{
				{WarehouseID: a, Qty: 10, HopLevel: 0},
				{WarehouseID: b, Qty: 5, HopLevel: 1},
			}},
			{SKUID: "Y", RequestedQty: 4, Splits: []allocation.Split{{WarehouseID: a, Qty: 1}}, Shortfall: 3},
		},
	}

	require.NoError(t, plan.CheckConservation())
	assert.Equal(t, 1, plan.MaxHopLevel())
	assert.Equal(t, 3, plan.TotalShortfall())
	assert.True(t, plan.HasShortfall())

	items := plan.ReservedItems()
	require.Len(t, items, 3)
	assert.Equal(t, "X", items[0].SKUID)
	assert.Equal(t, 10, items[0].Qty)

	plan.Lines[1].Shortfall = 2
	require.Error(t, plan.CheckConservation())
}
