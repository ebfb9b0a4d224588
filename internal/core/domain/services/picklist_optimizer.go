package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/pkg/errs"
)

// PicklistOptimizer groups allocated orders into pick batches.
//
//   - SINGLE_ORDER: one batch per order, the baseline
//   - WAVE: groups of MaxOrdersPerWave in input order
//   - BATCH: groups of BatchSize in input order
//   - ZONE: wave sized groups, each labelled with the next zone in rotation
//
// BATCH is size based and does not look at SKU overlap.
type PicklistOptimizer struct {
	tunables picklist.Tunables
}

func NewPicklistOptimizer(tunables picklist.Tunables) (PicklistOptimizer, error) {
	if err := tunables.Validate(); err != nil {
		return PicklistOptimizer{}, err
	}
	return PicklistOptimizer{tunables: tunables}, nil
}

// Optimize produces a new generation of batches. Every call returns fresh batch
// and generation ids, even for the same input.
func (o PicklistOptimizer) Optimize(orderIDs []string, strategy picklist.Strategy) (picklist.Result, error) {
	if err := o.validate(orderIDs, strategy); err != nil {
		return picklist.Result{}, err
	}

	size := o.groupSize(strategy)
	perItem := time.Duration(o.tunables.PerItemSeconds[strategy.Type]) * time.Second
	baselinePerItem := time.Duration(o.tunables.PerItemSeconds[picklist.SingleOrder]) * time.Second
	avgItems := o.tunables.AvgItemsPerOrder

	result := picklist.Result{
		GenerationID: kernel.NewUUID(),
		Strategy:     strategy.Type,
		Batches:      make([]picklist.PickBatch, 0, (len(orderIDs)+size-1)/size),
	}

	var spent time.Duration
	for start, n := 0, 0; start < len(orderIDs); start, n = start+size, n+1 {
		group := orderIDs[start:min(start+size, len(orderIDs))]
		items := len(group) * avgItems
		batch := picklist.PickBatch{
			ID:             kernel.NewUUID(),
			Strategy:       strategy.Type,
			OrderIDs:       append([]string(nil), group...),
			EstimatedItems: items,
			EstimatedTime:  time.Duration(items) * perItem,
		}
		if strategy.Type == picklist.Zone {
			label := o.tunables.Zones[n%len(o.tunables.Zones)]
			batch.Zone = &label
		}
		spent += batch.EstimatedTime
		result.Batches = append(result.Batches, batch)
	}

	baseline := time.Duration(len(orderIDs)*avgItems) * baselinePerItem
	result.Optimization = picklist.Optimization{
		TotalOrders:        len(orderIDs),
		TotalBatches:       len(result.Batches),
		EstimatedTimeSaved: max(0, baseline-spent),
	}
	return result, nil
}

func (o PicklistOptimizer) groupSize(strategy picklist.Strategy) int {
	switch strategy.Type {
	case picklist.Wave, picklist.Zone:
		if strategy.MaxOrdersPerWave > 0 {
			return strategy.MaxOrdersPerWave
		}
		return o.tunables.DefaultMaxOrdersPerWave
	case picklist.Batch:
		if strategy.BatchSize > 0 {
			return strategy.BatchSize
		}
		return o.tunables.DefaultBatchSize
	default:
		return 1
	}
}

func (o PicklistOptimizer) validate(orderIDs []string, strategy picklist.Strategy) error {
	var problems []error
	if len(orderIDs) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("orderIds"))
	}
	seen := make(map[string]struct{}, len(orderIDs))
	for i, id := range orderIDs {
		if strings.TrimSpace(id) == "" {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"orderIds", fmt.Errorf("entry %d is blank", i)))
			continue
		}
		if _, dup := seen[id]; dup {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"orderIds", fmt.Errorf("%s appears more than once", id)))
		}
		seen[id] = struct{}{}
	}
	problems = append(problems, strategy.Type.Validate())
	if strategy.MaxOrdersPerWave < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("maxOrdersPerWave", strategy.MaxOrdersPerWave, 1, "unbounded"))
	}
	if strategy.BatchSize < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("batchSize", strategy.BatchSize, 1, "unbounded"))
	}
	return errors.Join(problems...)
}
