package services_test

import (
	"fmt"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("ORD-%03d", i+1)
	}
	return ids
}

func newOptimizer(t *testing.T) services.PicklistOptimizer {
	t.Helper()
	o, err := services.NewPicklistOptimizer(picklist.DefaultTunables())
	require.NoError(t, err)
	return o
}

func TestPicklistOptimizer_Wave(t *testing.T) {
	ids := orderIDs(100)

	res, err := newOptimizer(t).Optimize(ids, picklist.Strategy{Type: picklist.Wave, MaxOrdersPerWave: 50})

	require.NoError(t, err)
	require.Len(t, res.Batches, 2)
	assert.Equal(t, ids[:50], res.Batches[0].OrderIDs)
	assert.Equal(t, ids[50:], res.Batches[1].OrderIDs)
	assert.Equal(t, 150, res.Batches[0].EstimatedItems)
	assert.Equal(t, time.Hour, res.Batches[0].EstimatedTime)
	assert.Equal(t, picklist.Optimization{TotalOrders: 100, TotalBatches: 2, EstimatedTimeSaved: 30 * time.Minute},
		res.Optimization)
}

func TestPicklistOptimizer_SingleOrderSavesNothing(t *testing.T) {
	res, err := newOptimizer(t).Optimize(orderIDs(7), picklist.Strategy{Type: picklist.SingleOrder})

	require.NoError(t, err)
	assert.Len(t, res.Batches, 7)
	assert.Zero(t, res.Optimization.EstimatedTimeSaved)
}

func TestPicklistOptimizer_BatchUsesDefaultSize(t *testing.T) {
	res, err := newOptimizer(t).Optimize(orderIDs(45), picklist.Strategy{Type: picklist.Batch})

	require.NoError(t, err)
	require.Len(t, res.Batches, 3)
	assert.Len(t, res.Batches[0].OrderIDs, 20)
	assert.Len(t, res.Batches[2].OrderIDs, 5)
	for _, b := range res.Batches {
		assert.Nil(t, b.Zone)
	}
}

func TestPicklistOptimizer_ZoneLabelsRotate(t *testing.T) {
	res, err := newOptimizer(t).Optimize(orderIDs(5), picklist.Strategy{Type: picklist.Zone, MaxOrdersPerWave: 1})

	require.NoError(t, err)
	var labels []string
	for _, b := range res.Batches {
		require.NotNil(t, b.Zone)
		labels = append(labels, *b.Zone)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "A"}, labels)
}

func TestPicklistOptimizer_EveryOrderOnceAndSavingsNonNegative(t *testing.T) {
	o := newOptimizer(t)
	for _, st := range []picklist.StrategyType{picklist.SingleOrder, picklist.Wave, picklist.Batch, picklist.Zone} {
		for _, n := range []int{1, 19, 20, 21, 99} {
			ids := orderIDs(n)
			res, err := o.Optimize(ids, picklist.Strategy{Type: st})
			require.NoError(t, err)

			var seen []string
			for _, b := range res.Batches {
				assert.NotEmpty(t, b.OrderIDs)
				seen = append(seen, b.OrderIDs...)
			}
			assert.Equal(t, ids, seen, "%s with %d orders", st, n)
			assert.GreaterOrEqual(t, res.Optimization.EstimatedTimeSaved, time.Duration(0))
		}
	}
}

func TestPicklistOptimizer_FreshIdentifiers(t *testing.T) {
	o := newOptimizer(t)
	ids := orderIDs(3)

	first, err := o.Optimize(ids, picklist.Strategy{Type: picklist.Wave})
	require.NoError(t, err)
	second, err := o.Optimize(ids, picklist.Strategy{Type: picklist.Wave})
	require.NoError(t, err)

	assert.False(t, first.GenerationID.IsEqual(second.GenerationID))
	assert.False(t, first.Batches[0].ID.IsEqual(second.Batches[0].ID))
}

func TestPicklistOptimizer_RejectsBadInput(t *testing.T) {
	o := newOptimizer(t)
	tests := map[string]struct {
		ids      []string
		strategy picklist.Strategy
	}{
		"no orders":        {nil, picklist.Strategy{Type: picklist.Wave}},
		"blank order":      {[]string{"ORD-1", " "}, picklist.Strategy{Type: picklist.Wave}},
		"duplicate order":  {[]string{"ORD-1", "ORD-1"}, picklist.Strategy{Type: picklist.Wave}},
		"unknown strategy": {[]string{"ORD-1"}, picklist.Strategy{}},
		"negative wave":    {[]string{"ORD-1"}, picklist.Strategy{Type: picklist.Wave, MaxOrdersPerWave: -1}},
		"negative batch":   {[]string{"ORD-1"}, picklist.Strategy{Type: picklist.Batch, BatchSize: -5}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := o.Optimize(tt.ids, tt.strategy)
			require.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}

func TestNewPicklistOptimizer_RequiresEfficiencyOrder(t *testing.T) {
	tunables := picklist.DefaultTunables()
	tunables.PerItemSeconds[picklist.Wave] = 30

	_, err := services.NewPicklistOptimizer(tunables)

	require.ErrorIs(t, err, errs.ErrConfiguration)
}
