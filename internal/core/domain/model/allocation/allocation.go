// Package allocation holds the inputs and the immutable result of allocation planning:
// which warehouses source each SKU line, at which hop level, and what is short.
package allocation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Config is the per-request hopping policy.
type Config struct {
	EnableHopping     bool
	MaxHops           int
	SplitOrderAllowed bool
	// DelayDaysPerHop is added to the promise for each hop level of the deepest split.
	DelayDaysPerHop int
}

func DefaultConfig() Config {
	return Config{
		EnableHopping:     true,
		MaxHops:           2,
		SplitOrderAllowed: true,
		DelayDaysPerHop:   1,
	}
}

func (c Config) Validate() error {
	var problems []error
	if c.MaxHops < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("maxHops", c.MaxHops, 0, "unbounded"))
	}
	if c.DelayDaysPerHop < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("delayDaysPerHop", c.DelayDaysPerHop, 0, "unbounded"))
	}
	return errors.Join(problems...)
}

// Request is everything the planner needs besides the inventory read.
type Request struct {
	OrderID              string
	Lines                []order.Line
	Destination          kernel.Pincode
	PreferredWarehouseID *kernel.UUID
	// OrderType and PlacedAt are only used to price the SLA impact of a split.
	OrderType order.Type
	PlacedAt  time.Time
	Config    Config
}

func (r Request) Validate() error {
	var problems []error
	if strings.TrimSpace(r.OrderID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("orderId"))
	}
	if len(r.Lines) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("lines"))
	}
	for _, l := range r.Lines {
		problems = append(problems, l.Validate())
	}
	problems = append(problems, r.Destination.Validate(), r.Config.Validate())
	if r.PreferredWarehouseID != nil {
		problems = append(problems, r.PreferredWarehouseID.Validate())
	}
	return errors.Join(problems...)
}

// Split is the quantity one warehouse contributes to a line.
type Split struct {
	WarehouseID kernel.UUID
	Qty         int
	// HopLevel is 0 for the primary warehouse and grows by one for every
	// additional warehouse used on the line.
	HopLevel int
}

// LineAllocation satisfies sum(Splits.Qty) + Shortfall == RequestedQty.
type LineAllocation struct {
	SKUID        string
	RequestedQty int
	Splits       []Split
	Shortfall    int
}

func (l LineAllocation) Allocated() int {
	total := 0
	for _, s := range l.Splits {
		total += s.Qty
	}
	return total
}

// SLAImpact is how far a multi-warehouse split moves the promised date.
type SLAImpact struct {
	OriginalETA time.Time
	AdjustedETA time.Time
	Reason      string
}

// Plan is the planner's immutable output. Re-planning produces a new Plan.
type Plan struct {
	OrderID                string
	Lines                  []LineAllocation
	TotalHops              int
	SplitRequired          bool
	DestinationServiceable bool
	SLAImpact              *SLAImpact
}

// MaxHopLevel is the deepest hop used by any split.
func (p Plan) MaxHopLevel() int {
	deepest := 0
	for _, l := range p.Lines {
		for _, s := range l.Splits {
			deepest = max(deepest, s.HopLevel)
		}
	}
	return deepest
}

func (p Plan) TotalShortfall() int {
	total := 0
	for _, l := range p.Lines {
		total += l.Shortfall
	}
	return total
}

func (p Plan) HasShortfall() bool {
	return p.TotalShortfall() > 0
}

// ReservedItems merges splits by warehouse and SKU, in first-seen order.
func (p Plan) ReservedItems() []inventory.ReservedItem {
	index := make(map[inventory.Key]int)
	var items []inventory.ReservedItem
	for _, l := range p.Lines {
		for _, s := range l.Splits {
			if s.Qty <= 0 {
				continue
			}
			key := inventory.Key{WarehouseID: s.WarehouseID, SKUID: l.SKUID}
			if i, ok := index[key]; ok {
				items[i].Qty += s.Qty
				continue
			}
			index[key] = len(items)
			items = append(items, inventory.ReservedItem{WarehouseID: s.WarehouseID, SKUID: l.SKUID, Qty: s.Qty})
		}
	}
	return items
}

// CheckConservation verifies every line accounts for its full requested quantity.
func (p Plan) CheckConservation() error {
	for _, l := range p.Lines {
		if l.Allocated()+l.Shortfall != l.RequestedQty || l.Shortfall < 0 {
			return fmt.Errorf("line %s: allocated %d + shortfall %d != requested %d",
				l.SKUID, l.Allocated(), l.Shortfall, l.RequestedQty)
		}
	}
	return nil
}
