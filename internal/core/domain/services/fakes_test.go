package services_test

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

	"github.com/stretchr/testify/require"
)

type catalogStub struct {
	records map[string]serviceability.Record
	err     error
}

func (c *catalogStub) Lookup(_ context.Context, p kernel.Pincode) (*serviceability.Record, error) {
	if c.err != nil {
		return nil, c.err
	}
	rec, ok := c.records[p.String()]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (c *catalogStub) add(pincode string, cod bool, partners ...string) *catalogStub {
	if c.records == nil {
		c.records = map[string]serviceability.Record{}
	}
	c.records[pincode] = serviceability.Record{
		Pincode:          kernel.MustPincode(pincode),
		HubID:            "HUB-" + pincode[:3],
		IsServiceable:    true,
		CODAvailable:     cod,
		PrepaidAvailable: true,
		Partners:         partners,
	}
	return c
}

type ratesStub struct {
	quotes []carrier.Quote
	err    error
	calls  int
}

func (r *ratesStub) Quote(context.Context, kernel.Pincode, kernel.Pincode, float64, bool) ([]carrier.Quote, error) {
	r.calls++
	return r.quotes, r.err
}

func newClassifier(t *testing.T) services.ZoneClassifier {
	t.Helper()
	c, err := services.NewZoneClassifier(services.DefaultZoneConfig())
	require.NoError(t, err)
	return c
}

func newResolver(t *testing.T, catalog *catalogStub) services.ServiceabilityResolver {
	t.Helper()
	return services.NewServiceabilityResolver(catalog, newClassifier(t), serviceability.DefaultLimits(), nil)
}

func standardProfile() sla.Profile {
	return sla.Profile{
		OrderType: order.Standard,
		BaseTatDaysByZone: map[zone.Zone]int{
			zone.Local: 1, zone.Regional: 2, zone.Metro: 3, zone.RestOfIndia: 5,
		},
		Cutoff: sla.Cutoff{Hour: 14},
		MinSafeTatDaysByZone: map[zone.Zone]int{
			zone.Metro: 3, zone.RestOfIndia: 4,
		},
		ElevatedRisk: sla.RiskHigh,
	}
}

func newCalculator(t *testing.T, profiles ...sla.Profile) services.SLACalculator {
	t.Helper()
	if len(profiles) == 0 {
		profiles = []sla.Profile{standardProfile()}
	}
	byType := make(map[order.Type]sla.Profile, len(profiles))
	for _, p := range profiles {
		byType[p.OrderType] = p
	}
	c, err := services.NewSLACalculator(newClassifier(t), services.SLAConfig{
		Profiles: byType,
		Location: time.UTC,
	})
	require.NoError(t, err)
	return c
}
