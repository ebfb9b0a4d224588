package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/services"
)

// CheckServiceabilityQueryResponse carries Pincode for pincode queries and Route for
// route queries. The other field is nil.
type CheckServiceabilityQueryResponse struct {
	Pincode *serviceability.Result
	Route   *serviceability.RouteResult
}

type CheckServiceabilityQueryHandler struct {
	resolver services.ServiceabilityResolver
}

func NewCheckServiceabilityQueryHandler(resolver services.ServiceabilityResolver) CheckServiceabilityQueryHandler {
	return CheckServiceabilityQueryHandler{resolver: resolver}
}

func (h CheckServiceabilityQueryHandler) Handle(
	ctx context.Context,
	query CheckServiceabilityQuery,
) (CheckServiceabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckServiceabilityQueryResponse{}, err
	}

	if query.IsRoute() {
		route, err := h.resolver.ResolveRoute(ctx, query.Origin(), query.Destination(), query.PaymentMode())
		if err != nil {
			return CheckServiceabilityQueryResponse{}, err
		}
		return CheckServiceabilityQueryResponse{Route: &route}, nil
	}

	result, err := h.resolver.ResolvePincode(ctx, query.Pincode())
	if err != nil {
		return CheckServiceabilityQueryResponse{}, err
	}
	return CheckServiceabilityQueryResponse{Pincode: &result}, nil
}
