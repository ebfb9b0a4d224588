package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/services"
)

type ValidateOrderQueryHandler struct {
	resolver services.ServiceabilityResolver
}

func NewValidateOrderQueryHandler(resolver services.ServiceabilityResolver) ValidateOrderQueryHandler {
	return ValidateOrderQueryHandler{resolver: resolver}
}

func (h ValidateOrderQueryHandler) Handle(
	ctx context.Context,
	query ValidateOrderQuery,
) (serviceability.ValidationResult, error) {
	if err := query.Validate(); err != nil {
		return serviceability.ValidationResult{}, err
	}
	return h.resolver.ValidateOrder(ctx,
		query.Origin(), query.Destination(), query.PaymentMode(), query.WeightKg(), query.DeclaredValue())
}
