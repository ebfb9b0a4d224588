package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/services"
)

type SelectTransporterQueryHandler struct {
	selector services.TransporterSelector
}

func NewSelectTransporterQueryHandler(selector services.TransporterSelector) SelectTransporterQueryHandler {
	return SelectTransporterQueryHandler{selector: selector}
}

// Handle returns a Selection with a nil Recommended and a Reason when the route is
// unserviceable or no carrier qualifies. Those are results, not errors.
func (h SelectTransporterQueryHandler) Handle(ctx context.Context, query SelectTransporterQuery) (carrier.Selection, error) {
	if err := query.Validate(); err != nil {
		return carrier.Selection{}, err
	}
	return h.selector.Select(ctx, query.Request())
}
