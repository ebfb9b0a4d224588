// Package resilience wraps calls to remote collaborators in circuit breakers.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without calling the collaborator while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

const (
	DefaultMaxRequests           uint32        = 3
	DefaultInterval              time.Duration = 60 * time.Second
	DefaultTimeout               time.Duration = 30 * time.Second
	DefaultFailureThreshold      uint32        = 5
	DefaultFailureRatioThreshold float64       = 0.5
	DefaultMinRequestsToTrip     uint32        = 10
)

type Config struct {
	Name string
	// MaxRequests is how many calls are let through while half-open.
	MaxRequests uint32
	// Interval clears the counts while closed. 0 never clears them.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout               time.Duration
	FailureThreshold      uint32
	FailureRatioThreshold float64
	MinRequestsToTrip     uint32
}

func DefaultConfig(name string) Config {
	return Config{
		Name:                  name,
		MaxRequests:           DefaultMaxRequests,
		Interval:              DefaultInterval,
		Timeout:               DefaultTimeout,
		FailureThreshold:      DefaultFailureThreshold,
		FailureRatioThreshold: DefaultFailureRatioThreshold,
		MinRequestsToTrip:     DefaultMinRequestsToTrip,
	}
}

// StateListener is told about every state change, e.g. to export it as a metric.
type StateListener func(name string, to gobreaker.State)

type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *slog.Logger
}

// NewCircuitBreaker trips after FailureThreshold consecutive failures, or once
// MinRequestsToTrip calls have been seen with a failure ratio of at least
// FailureRatioThreshold.
func NewCircuitBreaker(cfg Config, logger *slog.Logger, listeners ...StateListener) *CircuitBreaker {
	logger = logger.With("component", "circuit_breaker", "name", cfg.Name)

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.FailureThreshold {
				return true
			}
			if cfg.MinRequestsToTrip > 0 && counts.Requests >= cfg.MinRequestsToTrip {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= cfg.FailureRatioThreshold
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "from", from.String(), "to", to.String())
			for _, l := range listeners {
				l(name, to)
			}
		},
	}

	return &CircuitBreaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		name:   cfg.Name,
		logger: logger,
	}
}

// Execute runs fn through the breaker. A cancelled context is not counted as a failure
// of the collaborator.
func (c *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ctxErr error
	result, err := c.cb.Execute(func() (any, error) {
		res, err := fn(ctx)
		if err != nil && ctx.Err() != nil {
			ctxErr = err
			return nil, nil
		}
		return res, err
	})
	if ctxErr != nil {
		return nil, ctxErr
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.WarnContext(ctx, "Call rejected by circuit breaker", "error", err)
		return nil, fmt.Errorf("%w: %s (%v)", ErrCircuitOpen, c.name, err)
	}
	return result, err
}

func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

func (c *CircuitBreaker) Name() string {
	return c.name
}
