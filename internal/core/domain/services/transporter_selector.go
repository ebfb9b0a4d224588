package services

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
)

// TransporterSelector ranks the carriers that can serve a shipment.
//
// Eligible carriers are those the route's catalog partners allow (any carrier
// when the catalog names none), that collect cash for COD shipments and whose COD
// ceiling covers the amount. Each is scored on
//   - rate: cheapest rate / carrier rate
//   - TAT: zone transit days / carrier TAT days, capped at 1
//   - COD: 1 when the carrier supports COD
//
// combined with the configured weights. Ties go to the lower rate, then the
// shorter TAT, then the carrier code.
type TransporterSelector struct {
	resolver   ServiceabilityResolver
	classifier ZoneClassifier
	rates      ports.CarrierRateProvider
	weights    carrier.Weights
}

func NewTransporterSelector(
	resolver ServiceabilityResolver,
	classifier ZoneClassifier,
	rates ports.CarrierRateProvider,
	weights carrier.Weights,
) (TransporterSelector, error) {
	if err := weights.Validate(); err != nil {
		return TransporterSelector{}, err
	}
	return TransporterSelector{
		resolver:   resolver,
		classifier: classifier,
		rates:      rates,
		weights:    weights,
	}, nil
}

// Select returns a nil Recommended, not an error, when no carrier qualifies.
func (s TransporterSelector) Select(ctx context.Context, req carrier.Request) (carrier.Selection, error) {
	if err := req.Validate(); err != nil {
		return carrier.Selection{}, err
	}

	mode := serviceability.Prepaid
	if req.IsCOD {
		mode = serviceability.COD
	}
	route, err := s.resolver.ResolveRoute(ctx, req.Origin, req.Destination, mode)
	if err != nil {
		return carrier.Selection{}, err
	}
	selection := carrier.Selection{Zone: route.Zone}
	if !route.IsServiceable {
		selection.Reason = route.Reason
		return selection, nil
	}

	quotes, err := s.rates.Quote(ctx, req.Origin, req.Destination, req.WeightKg, req.IsCOD)
	if err != nil {
		return carrier.Selection{}, fmt.Errorf("carrier quotes: %w", err)
	}

	eligible := s.filter(quotes, route.ServiceablePartners, req)
	if len(eligible) == 0 {
		selection.Reason = "no carrier serves the route"
		return selection, nil
	}

	expectedTat, err := s.classifier.TransitDays(route.Zone)
	if err != nil {
		return carrier.Selection{}, err
	}
	candidates := s.score(eligible, expectedTat)

	best := candidates[0]
	selection.Recommended = &best
	selection.Alternatives = candidates[1:]
	return selection, nil
}

func (s TransporterSelector) filter(quotes []carrier.Quote, partners []string, req carrier.Request) []carrier.Quote {
	out := make([]carrier.Quote, 0, len(quotes))
	for _, q := range quotes {
		if !q.Rate.IsPositive() || q.TatDays <= 0 {
			continue
		}
		if len(partners) > 0 && !slices.Contains(partners, q.CarrierCode) {
			continue
		}
		if req.IsCOD {
			if !q.CODSupported {
				continue
			}
			if q.MaxCODAmount.IsPositive() && req.CODAmount.GreaterThan(q.MaxCODAmount) {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}

func (s TransporterSelector) score(quotes []carrier.Quote, expectedTat int) []carrier.Candidate {
	minRate := quotes[0].Rate
	for _, q := range quotes[1:] {
		minRate = decimal.Min(minRate, q.Rate)
	}
	total := s.weights.Rate + s.weights.Tat + s.weights.COD

	candidates := make([]carrier.Candidate, 0, len(quotes))
	for _, q := range quotes {
		rateScore, _ := minRate.Div(q.Rate).Float64()
		tatScore := math.Min(1, float64(expectedTat)/float64(q.TatDays))
		codScore := 0.0
		if q.CODSupported {
			codScore = 1
		}
		score := (s.weights.Rate*rateScore + s.weights.Tat*tatScore + s.weights.COD*codScore) / total
		candidates = append(candidates, carrier.Candidate{Quote: q, Score: math.Round(score*1e4) / 1e4})
	}

	slices.SortStableFunc(candidates, func(a, b carrier.Candidate) int {
		return cmp.Or(
			cmp.Compare(b.Score, a.Score),
			a.Quote.Rate.Cmp(b.Quote.Rate),
			cmp.Compare(a.Quote.TatDays, b.Quote.TatDays),
			cmp.Compare(a.Quote.CarrierCode, b.Quote.CarrierCode),
		)
	})
	return candidates
}
