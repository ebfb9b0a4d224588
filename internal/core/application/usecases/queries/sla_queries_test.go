package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSLAQueryHandler_Handle(t *testing.T) {
	e := newEngine(t, catalog{})
	query, err := queries.NewCalculateSLAQuery(order.Standard,
		kernel.MustPincode("110001"), kernel.MustPincode("560001"), wednesdayMorning)
	require.NoError(t, err)

	plan, err := queries.NewCalculateSLAQueryHandler(e.calculator).Handle(t.Context(), query)

	require.NoError(t, err)
	assert.Equal(t, zone.Metro, plan.Zone)
	assert.Equal(t, 3, plan.TatDays)
	assert.Equal(t, wednesdayMorning.AddDate(0, 0, 3), plan.PromisedDate)
}

func TestCalculateSLAQueryHandler_Handle_UnknownOrderType(t *testing.T) {
	e := newEngine(t, catalog{})
	query, err := queries.NewCalculateSLAQuery(order.Express,
		kernel.MustPincode("110001"), kernel.MustPincode("560001"), wednesdayMorning)
	require.NoError(t, err)

	_, err = queries.NewCalculateSLAQueryHandler(e.calculator).Handle(t.Context(), query)

	require.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestNewCalculateSLAQuery_InvalidInput(t *testing.T) {
	_, err := queries.NewCalculateSLAQuery("", kernel.Pincode{}, kernel.MustPincode("560001"), time.Time{})

	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.ErrorIs(t, queries.CalculateSLAQuery{}.Validate(), queries.ErrCalculateSLAQueryIsNotConstructed)
}

func TestGetOrderSLAStatusQueryHandler_Handle_AppliesPromiseDelay(t *testing.T) {
	ctx := t.Context()
	e := newEngine(t, catalog{})
	o := newOrder(t, wednesdayMorning, order.Allocated, 1)

	reader := new(MockOrderReader)
	reader.On("Get", ctx, o.ID()).Return(o, nil).Once()

	// day 3.5 of a 4 day promise: the pickup milestone is already missed
	now := wednesdayMorning.Add(84 * time.Hour)
	query, err := queries.NewGetOrderSLAStatusQuery(o.ID(), now)
	require.NoError(t, err)

	status, err := queries.NewGetOrderSLAStatusQueryHandler(reader, e.calculator, e.tracker).Handle(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, o.ID().String(), status.OrderID)
	assert.Equal(t, wednesdayMorning.AddDate(0, 0, 4), status.PromisedDate)
	assert.Equal(t, sla.AtRisk, status.SLAStatus)
	assert.Contains(t, status.BreachedMilestones, "PICKUP_EXPECTED")
	reader.AssertExpectations(t)
}

func TestGetOrderSLAStatusQueryHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	e := newEngine(t, catalog{})
	id := kernel.NewUUID()

	reader := new(MockOrderReader)
	reader.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()

	query, err := queries.NewGetOrderSLAStatusQuery(id, wednesdayMorning)
	require.NoError(t, err)

	_, err = queries.NewGetOrderSLAStatusQueryHandler(reader, e.calculator, e.tracker).Handle(ctx, query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetSLAComplianceReportQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	e := newEngine(t, catalog{})
	now := wednesdayMorning.AddDate(0, 0, 5)

	onTrack := newOrder(t, now.Add(-time.Hour), order.Allocated, 0)
	breachedByDay := newOrder(t, wednesdayMorning, order.Shipped, 0)
	breachedByHour := newOrder(t, wednesdayMorning.AddDate(0, 0, 1).Add(23*time.Hour), order.InTransit, 0)

	reader := new(MockOrderReader)
	reader.On("GetAllOpen", ctx).Return([]*order.Order{onTrack, breachedByHour, breachedByDay}, nil).Once()

	query, err := queries.NewGetSLAComplianceReportQuery(now)
	require.NoError(t, err)

	report, err := queries.NewGetSLAComplianceReportQueryHandler(reader, e.calculator, e.tracker).Handle(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, map[sla.Status]int{sla.OnTrack: 1, sla.AtRisk: 0, sla.Breached: 2}, report.Counts)
	assert.Equal(t, 3, report.Total())
	require.Len(t, report.Attention, 2)
	assert.Equal(t, breachedByDay.ID().String(), report.Attention[0].OrderID)
	assert.Greater(t, report.Attention[0].DelayMinutes, report.Attention[1].DelayMinutes)
}

func TestGetSLAComplianceReportQueryHandler_Handle_MissingProfile(t *testing.T) {
	ctx := t.Context()
	e := newEngine(t, catalog{})

	o, err := order.RestoreOrder(kernel.NewUUID(), order.Details{
		Type:        order.B2B,
		PlacedAt:    wednesdayMorning,
		PaymentMode: serviceability.Prepaid,
		Origin:      kernel.MustPincode("110001"),
		Destination: kernel.MustPincode("560001"),
		Lines:       []order.Line{{SKUID: "SKU-1", RequestedQty: 1}},
	}, order.Allocated, 0)
	require.NoError(t, err)

	reader := new(MockOrderReader)
	reader.On("GetAllOpen", ctx).Return([]*order.Order{o}, nil).Once()

	query, err := queries.NewGetSLAComplianceReportQuery(wednesdayMorning)
	require.NoError(t, err)

	_, err = queries.NewGetSLAComplianceReportQueryHandler(reader, e.calculator, e.tracker).Handle(ctx, query)

	require.ErrorIs(t, err, errs.ErrConfiguration)
	assert.ErrorContains(t, err, o.ID().String())
}
