package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// AllocationPlanner decides, per SKU line, which warehouses source the quantity.
//
// The preferred warehouse (or the one nearest to the destination) is the primary,
// hop level 0. With hopping enabled, the rest are tried by increasing logistical
// distance from the destination; every additional warehouse that contributes takes
// the next hop level, and no split goes beyond MaxHops. Whatever cannot be sourced
// is recorded as shortfall, so for every line
//
//	sum(splits.qty) + shortfall == requestedQty
//
// The planner only reads the snapshot it is given; reserving the plan is the
// caller's job.
type AllocationPlanner struct {
	classifier ZoneClassifier
	resolver   ServiceabilityResolver
	calculator SLACalculator
}

func NewAllocationPlanner(
	classifier ZoneClassifier,
	resolver ServiceabilityResolver,
	calculator SLACalculator,
) AllocationPlanner {
	return AllocationPlanner{
		classifier: classifier,
		resolver:   resolver,
		calculator: calculator,
	}
}

// Plan builds an allocation plan. An unserviceable destination is not an error:
// every line becomes shortfall and DestinationServiceable is false. Only a plan
// that splits a line across warehouses carries an SLAImpact.
func (p AllocationPlanner) Plan(
	ctx context.Context,
	req allocation.Request,
	warehouses []inventory.Warehouse,
	snapshot inventory.Snapshot,
) (allocation.Plan, error) {
	if err := req.Validate(); err != nil {
		return allocation.Plan{}, err
	}
	for _, w := range warehouses {
		if err := w.Validate(); err != nil {
			return allocation.Plan{}, err
		}
	}

	dest, err := p.resolver.ResolvePincode(ctx, req.Destination)
	if err != nil {
		return allocation.Plan{}, err
	}
	if !dest.IsServiceable {
		return shortfallPlan(req), nil
	}

	ranked, err := p.rank(req, warehouses)
	if err != nil {
		return allocation.Plan{}, err
	}

	plan := allocation.Plan{
		OrderID:                req.OrderID,
		Lines:                  make([]allocation.LineAllocation, 0, len(req.Lines)),
		DestinationServiceable: true,
	}

	working := snapshot.Clone()
	for _, line := range req.Lines {
		var la allocation.LineAllocation
		if req.Config.SplitOrderAllowed {
			la = allocateSplit(line, ranked, working, req.Config)
		} else {
			la = allocateWhole(line, ranked, working, req.Config)
		}
		plan.Lines = append(plan.Lines, la)
	}

	for _, la := range plan.Lines {
		if len(la.Splits) > 1 {
			plan.SplitRequired = true
		}
		for _, s := range la.Splits {
			if s.HopLevel > 0 {
				plan.TotalHops++
			}
		}
	}

	if err = plan.CheckConservation(); err != nil {
		return allocation.Plan{}, fmt.Errorf("allocation plan for %s: %w", req.OrderID, err)
	}

	if plan.SplitRequired {
		impact, err := p.slaImpact(req, ranked[0], plan)
		if err != nil {
			return allocation.Plan{}, err
		}
		plan.SLAImpact = impact
	}
	return plan, nil
}

// rank puts the primary warehouse first, then the rest by zone, pincode distance and code.
func (p AllocationPlanner) rank(req allocation.Request, warehouses []inventory.Warehouse) ([]inventory.Warehouse, error) {
	ranked := slices.Clone(warehouses)
	slices.SortStableFunc(ranked, func(a, b inventory.Warehouse) int {
		za := p.classifier.zoneOf(a.Pincode(), req.Destination)
		zb := p.classifier.zoneOf(b.Pincode(), req.Destination)
		return cmp.Or(
			cmp.Compare(za.Rank(), zb.Rank()),
			cmp.Compare(a.Pincode().Distance(req.Destination), b.Pincode().Distance(req.Destination)),
			cmp.Compare(a.Code(), b.Code()),
		)
	})

	if req.PreferredWarehouseID == nil {
		return ranked, nil
	}
	i := slices.IndexFunc(ranked, func(w inventory.Warehouse) bool {
		return w.ID().IsEqual(*req.PreferredWarehouseID)
	})
	if i < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("preferredWarehouseId",
			errs.NewObjectNotFoundError("warehouse", req.PreferredWarehouseID.String()))
	}
	preferred := ranked[i]
	ranked = slices.Delete(ranked, i, i+1)
	return slices.Insert(ranked, 0, preferred), nil
}

func (p AllocationPlanner) slaImpact(
	req allocation.Request,
	primary inventory.Warehouse,
	plan allocation.Plan,
) (*allocation.SLAImpact, error) {
	if req.OrderType == "" || req.PlacedAt.IsZero() {
		return nil, nil
	}
	delay := plan.MaxHopLevel() * req.Config.DelayDaysPerHop

	original, err := p.calculator.Calculate(req.OrderType, primary.Pincode(), req.Destination, req.PlacedAt)
	if err != nil {
		return nil, err
	}
	adjusted, err := p.calculator.CalculateWithDelay(
		req.OrderType, primary.Pincode(), req.Destination, req.PlacedAt, delay)
	if err != nil {
		return nil, err
	}

	return &allocation.SLAImpact{
		OriginalETA: original.PromisedDate,
		AdjustedETA: adjusted.PromisedDate,
		Reason: fmt.Sprintf("split across %d warehouses, deepest hop %d adds %d day(s)",
			countWarehouses(plan), plan.MaxHopLevel(), delay),
	}, nil
}

// allocateSplit fills the line from the primary, then hops through the ranked list.
func allocateSplit(
	line order.Line,
	ranked []inventory.Warehouse,
	working inventory.Snapshot,
	cfg allocation.Config,
) allocation.LineAllocation {
	la := allocation.LineAllocation{SKUID: line.SKUID, RequestedQty: line.RequestedQty}
	remaining := line.RequestedQty
	if remaining == 0 || len(ranked) == 0 {
		la.Shortfall = remaining
		return la
	}

	if taken := working.Take(keyOf(ranked[0], line.SKUID), remaining); taken > 0 {
		la.Splits = append(la.Splits, allocation.Split{WarehouseID: ranked[0].ID(), Qty: taken, HopLevel: 0})
		remaining -= taken
	}

	hop := 0
	if cfg.EnableHopping {
		for _, w := range ranked[1:] {
			if remaining == 0 || hop+1 > cfg.MaxHops {
				break
			}
			key := keyOf(w, line.SKUID)
			if working.Available(key) == 0 {
				continue
			}
			hop++
			taken := working.Take(key, remaining)
			la.Splits = append(la.Splits, allocation.Split{WarehouseID: w.ID(), Qty: taken, HopLevel: hop})
			remaining -= taken
		}
	}

	la.Shortfall = remaining
	return la
}

// allocateWhole sources the line from a single warehouse or not at all. The primary
// is hop 0; any other warehouse used is the first hop and needs hopping enabled.
func allocateWhole(
	line order.Line,
	ranked []inventory.Warehouse,
	working inventory.Snapshot,
	cfg allocation.Config,
) allocation.LineAllocation {
	la := allocation.LineAllocation{SKUID: line.SKUID, RequestedQty: line.RequestedQty, Shortfall: line.RequestedQty}
	if line.RequestedQty == 0 {
		return la
	}

	for i, w := range ranked {
		hop := min(i, 1)
		if hop > 0 && (!cfg.EnableHopping || cfg.MaxHops < 1) {
			break
		}
		key := keyOf(w, line.SKUID)
		if working.Available(key) < line.RequestedQty {
			continue
		}
		working.Take(key, line.RequestedQty)
		la.Splits = []allocation.Split{{WarehouseID: w.ID(), Qty: line.RequestedQty, HopLevel: hop}}
		la.Shortfall = 0
		return la
	}
	return la
}

func shortfallPlan(req allocation.Request) allocation.Plan {
	plan := allocation.Plan{
		OrderID: req.OrderID,
		Lines:   make([]allocation.LineAllocation, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		plan.Lines = append(plan.Lines, allocation.LineAllocation{
			SKUID:        l.SKUID,
			RequestedQty: l.RequestedQty,
			Shortfall:    l.RequestedQty,
		})
	}
	return plan
}

func keyOf(w inventory.Warehouse, skuID string) inventory.Key {
	return inventory.Key{WarehouseID: w.ID(), SKUID: skuID}
}

func countWarehouses(plan allocation.Plan) int {
	seen := make(map[kernel.UUID]struct{})
	for _, l := range plan.Lines {
		for _, s := range l.Splits {
			seen[s.WarehouseID] = struct{}{}
		}
	}
	return len(seen)
}
