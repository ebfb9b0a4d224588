package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/services"
)

type CalculateSLAQueryHandler struct {
	calculator services.SLACalculator
}

func NewCalculateSLAQueryHandler(calculator services.SLACalculator) CalculateSLAQueryHandler {
	return CalculateSLAQueryHandler{calculator: calculator}
}

// Handle returns errs.ConfigurationError when the order type or its zone has no SLA profile.
func (h CalculateSLAQueryHandler) Handle(_ context.Context, query CalculateSLAQuery) (sla.Plan, error) {
	if err := query.Validate(); err != nil {
		return sla.Plan{}, err
	}
	return h.calculator.Calculate(query.OrderType(), query.Origin(), query.Destination(), query.PlacedAt())
}
