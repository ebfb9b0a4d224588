package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/core/domain/services"
)

type OptimizePicklistsQueryHandler struct {
	optimizer services.PicklistOptimizer
}

func NewOptimizePicklistsQueryHandler(optimizer services.PicklistOptimizer) OptimizePicklistsQueryHandler {
	return OptimizePicklistsQueryHandler{optimizer: optimizer}
}

func (h OptimizePicklistsQueryHandler) Handle(_ context.Context, query OptimizePicklistsQuery) (picklist.Result, error) {
	if err := query.Validate(); err != nil {
		return picklist.Result{}, err
	}
	return h.optimizer.Optimize(query.OrderIDs(), query.Strategy())
}
