// Package carrierrates quotes carriers from per-zone rate cards and guards remote
// rate sources with a circuit breaker.
package carrierrates

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"
)

// CardSource returns the rate cards published for a zone. The postgres rate card
// repository and the in-memory rate cards both satisfy it.
type CardSource interface {
	CardsForZone(ctx context.Context, z zone.Zone) ([]carrier.RateCard, error)
}

// ZoneClassifier is the part of the zone classifier the provider needs.
type ZoneClassifier interface {
	Classify(origin, destination kernel.Pincode) (zone.Zone, error)
}

// RateCardProvider prices a lane with every carrier that publishes a card for
// the lane's zone.
type RateCardProvider struct {
	cards      CardSource
	classifier ZoneClassifier
}

func NewRateCardProvider(cards CardSource, classifier ZoneClassifier) *RateCardProvider {
	return &RateCardProvider{cards: cards, classifier: classifier}
}

func (p *RateCardProvider) Quote(
	ctx context.Context, origin, destination kernel.Pincode, weightKg float64, isCOD bool,
) ([]carrier.Quote, error) {
	z, err := p.classifier.Classify(origin, destination)
	if err != nil {
		return nil, err
	}

	cards, err := p.cards.CardsForZone(ctx, z)
	if err != nil {
		return nil, fmt.Errorf("rate cards for zone %s: %w", z, err)
	}

	quotes := make([]carrier.Quote, 0, len(cards))
	for _, card := range cards {
		quotes = append(quotes, card.Quote(weightKg, isCOD))
	}
	return quotes, nil
}
