package carrierrates

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
	"fulfillment/internal/pkg/resilience"

	"github.com/sony/gobreaker"
)

// BreakerProvider sends every quote request through a circuit breaker. While the
// breaker is open it fails fast with resilience.ErrCircuitOpen.
type BreakerProvider struct {
	next    ports.CarrierRateProvider
	breaker *resilience.CircuitBreaker
}

// NewBreakerProvider exports the breaker state to m when m is not nil.
func NewBreakerProvider(
	next ports.CarrierRateProvider, cfg resilience.Config, m *metrics.Metrics, logger *slog.Logger,
) *BreakerProvider {
	listener := func(name string, to gobreaker.State) {
		m.SetCircuitBreakerState(name, int(to))
	}
	m.SetCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return &BreakerProvider{
		next:    next,
		breaker: resilience.NewCircuitBreaker(cfg, logger, listener),
	}
}

func (p *BreakerProvider) Quote(
	ctx context.Context, origin, destination kernel.Pincode, weightKg float64, isCOD bool,
) ([]carrier.Quote, error) {
	res, err := p.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
		return p.next.Quote(ctx, origin, destination, weightKg, isCOD)
	})
	if err != nil {
		return nil, err
	}
	quotes, _ := res.([]carrier.Quote)
	return quotes, nil
}

func (p *BreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}
