// Package picklist models pick batches: groups of allocated orders released to the
// warehouse floor together under one picking strategy.
package picklist

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// StrategyType is the picking strategy. The declaration order is the efficiency
// order: every type picks an item faster than the one before it.
type StrategyType int

const (
	UnknownStrategy StrategyType = iota
	SingleOrder
	Wave
	Batch
	Zone
)

var strategyNames = []string{"UNKNOWN", "SINGLE_ORDER", "WAVE", "BATCH", "ZONE"}

func ParseStrategyType(s string) (StrategyType, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range strategyNames {
		if i > 0 && name == needle {
			return StrategyType(i), nil
		}
	}
	return UnknownStrategy, errs.NewValueIsInvalidErrorWithCause("strategy", fmt.Errorf("%q is not a picking strategy", s))
}

func (s StrategyType) String() string {
	if s < UnknownStrategy || s > Zone {
		return strategyNames[UnknownStrategy]
	}
	return strategyNames[s]
}

func (s StrategyType) Validate() error {
	if s < SingleOrder || s > Zone {
		return errs.NewValueIsInvalidErrorWithCause("strategy", fmt.Errorf("%d is not a picking strategy", s))
	}
	return nil
}

func (s StrategyType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Strategy is a strategy type plus its tunables. Zero tunables fall back to Tunables defaults.
type Strategy struct {
	Type             StrategyType
	MaxOrdersPerWave int
	BatchSize        int
}

// Tunables are the engine-wide picking parameters.
type Tunables struct {
	DefaultMaxOrdersPerWave int
	DefaultBatchSize        int
	AvgItemsPerOrder        int
	// PerItemSeconds must be strictly decreasing from SINGLE_ORDER to ZONE.
	PerItemSeconds map[StrategyType]int
	// Zones label ZONE batches in rotation.
	Zones []string
}

func DefaultTunables() Tunables {
	return Tunables{
		DefaultMaxOrdersPerWave: 50,
		DefaultBatchSize:        20,
		AvgItemsPerOrder:        3,
		PerItemSeconds: map[StrategyType]int{
			SingleOrder: 30,
			Wave:        24,
			Batch:       20,
			Zone:        18,
		},
		Zones: []string{"A", "B", "C", "D"},
	}
}

// Validate enforces the efficiency ordering that keeps time saved non-negative.
func (t Tunables) Validate() error {
	if t.DefaultMaxOrdersPerWave <= 0 || t.DefaultBatchSize <= 0 || t.AvgItemsPerOrder <= 0 {
		return errs.NewConfigurationError("picklist sizes must be positive")
	}
	if len(t.Zones) == 0 {
		return errs.NewConfigurationError("picklist zones are empty")
	}
	prev := 0
	for s := Zone; s >= SingleOrder; s-- {
		secs, ok := t.PerItemSeconds[s]
		if !ok || secs <= 0 {
			return errs.NewConfigurationError(fmt.Sprintf("picklist per item seconds for %s", s))
		}
		if secs <= prev {
			return errs.NewConfigurationError(fmt.Sprintf("picklist per item seconds for %s must exceed %d", s, prev))
		}
		prev = secs
	}
	return nil
}

// PickBatch is immutable once created.
type PickBatch struct {
	ID             kernel.UUID
	Strategy       StrategyType
	OrderIDs       []string
	Zone           *string
	EstimatedItems int
	EstimatedTime  time.Duration
}

type Optimization struct {
	TotalOrders        int
	TotalBatches       int
	EstimatedTimeSaved time.Duration
}

// Result is one optimization generation. Re-optimizing yields a new GenerationID.
type Result struct {
	GenerationID kernel.UUID
	Strategy     StrategyType
	Batches      []PickBatch
	Optimization Optimization
}
