package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) GetAllOpen(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

// catalog serves every listed pincode with COD and no carrier restriction.
type catalog map[string]bool

func (c catalog) Lookup(_ context.Context, p kernel.Pincode) (*serviceability.Record, error) {
	cod, ok := c[p.String()]
	if !ok {
		return nil, nil
	}
	return &serviceability.Record{
		Pincode:          p,
		HubID:            "HUB-" + p.ServiceArea(),
		IsServiceable:    true,
		CODAvailable:     cod,
		PrepaidAvailable: true,
	}, nil
}

type fixedRates []carrier.Quote

func (r fixedRates) Quote(context.Context, kernel.Pincode, kernel.Pincode, float64, bool) ([]carrier.Quote, error) {
	return r, nil
}

// wednesdayMorning is before the 14:00 cutoff.
var wednesdayMorning = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

type engine struct {
	classifier services.ZoneClassifier
	resolver   services.ServiceabilityResolver
	calculator services.SLACalculator
	tracker    services.ComplianceTracker
	selector   services.TransporterSelector
}

func newEngine(t *testing.T, known catalog, quotes ...carrier.Quote) engine {
	t.Helper()
	classifier, err := services.NewZoneClassifier(services.DefaultZoneConfig())
	require.NoError(t, err)

	resolver := services.NewServiceabilityResolver(known, classifier, serviceability.DefaultLimits(), nil)

	calculator, err := services.NewSLACalculator(classifier, services.SLAConfig{
		Profiles: map[order.Type]sla.Profile{
			order.Standard: {
				OrderType: order.Standard,
				BaseTatDaysByZone: map[zone.Zone]int{
					zone.Local: 1, zone.Regional: 2, zone.Metro: 3, zone.RestOfIndia: 5,
				},
				Cutoff: sla.Cutoff{Hour: 14},
			},
		},
	})
	require.NoError(t, err)

	selector, err := services.NewTransporterSelector(resolver, classifier, fixedRates(quotes), carrier.DefaultWeights())
	require.NoError(t, err)

	return engine{
		classifier: classifier,
		resolver:   resolver,
		calculator: calculator,
		tracker:    services.NewComplianceTracker(0),
		selector:   selector,
	}
}

// newOrder places a STANDARD Delhi to Bengaluru order (METRO, 3 days) at placedAt.
func newOrder(t *testing.T, placedAt time.Time, status order.Status, delayDays int) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(kernel.NewUUID(), order.Details{
		Type:          order.Standard,
		PlacedAt:      placedAt,
		PaymentMode:   serviceability.Prepaid,
		Origin:        kernel.MustPincode("110001"),
		Destination:   kernel.MustPincode("560001"),
		Lines:         []order.Line{{SKUID: "SKU-1", RequestedQty: 1}},
		WeightKg:      1,
		DeclaredValue: decimal.NewFromInt(999),
	}, status, delayDays)
	require.NoError(t, err)
	return o
}
