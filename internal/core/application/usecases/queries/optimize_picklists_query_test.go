package queries_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizePicklistsQueryHandler_Handle(t *testing.T) {
	optimizer, err := services.NewPicklistOptimizer(picklist.DefaultTunables())
	require.NoError(t, err)

	ids := make([]string, 45)
	for i := range ids {
		ids[i] = fmt.Sprintf("ORD-%03d", i)
	}
	query, err := queries.NewOptimizePicklistsQuery(ids, picklist.Strategy{Type: picklist.Batch})
	require.NoError(t, err)
	ids[0] = "mutated"

	result, err := queries.NewOptimizePicklistsQueryHandler(optimizer).Handle(t.Context(), query)

	require.NoError(t, err)
	require.Len(t, result.Batches, 3)
	assert.Equal(t, "ORD-000", result.Batches[0].OrderIDs[0])
	assert.Len(t, result.Batches[2].OrderIDs, 5)
	assert.Equal(t, 45, result.Optimization.TotalOrders)
}

func TestNewOptimizePicklistsQuery_InvalidInput(t *testing.T) {
	_, err := queries.NewOptimizePicklistsQuery(nil, picklist.Strategy{})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
