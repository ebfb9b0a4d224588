package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/services"
)

// GetOrderSLAStatusQueryHandler recomputes the order's promise, including any delay
// recorded when it was split across warehouses, and tracks the live status against it.
// Compliance is never stored.
type GetOrderSLAStatusQueryHandler struct {
	orders     OrderReader
	calculator services.SLACalculator
	tracker    services.ComplianceTracker
}

func NewGetOrderSLAStatusQueryHandler(
	orders OrderReader,
	calculator services.SLACalculator,
	tracker services.ComplianceTracker,
) GetOrderSLAStatusQueryHandler {
	return GetOrderSLAStatusQueryHandler{orders: orders, calculator: calculator, tracker: tracker}
}

func (h GetOrderSLAStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderSLAStatusQuery,
) (sla.ComplianceStatus, error) {
	if err := query.Validate(); err != nil {
		return sla.ComplianceStatus{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return sla.ComplianceStatus{}, err
	}
	return trackOrder(h.calculator, h.tracker, o, query.Now())
}

func trackOrder(
	calculator services.SLACalculator,
	tracker services.ComplianceTracker,
	o *order.Order,
	now time.Time,
) (sla.ComplianceStatus, error) {
	plan, err := calculator.CalculateWithDelay(o.Type(), o.Origin(), o.Destination(), o.PlacedAt(), o.PromiseDelayDays())
	if err != nil {
		return sla.ComplianceStatus{}, err
	}
	return tracker.Track(o.ID().String(), o.Status(), now, plan), nil
}
