// Package sla holds delivery promise profiles, the SLA plans computed from them and
// the compliance status derived from a plan and the live order state.
package sla

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/pkg/errs"
)

// RiskLevel grades how tight a promise is.
type RiskLevel string

const (
	RiskNormal   RiskLevel = "NORMAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Cutoff is the local wall-clock time after which an order misses the day's dispatch.
type Cutoff struct {
	Hour   int
	Minute int
}

// ParseCutoff reads "HH:MM".
func ParseCutoff(s string) (Cutoff, error) {
	var c Cutoff
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Cutoff{}, errs.NewValueIsInvalidErrorWithCause("cutoff", err)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Cutoff{}, errs.NewValueIsInvalidErrorWithCause("cutoff", fmt.Errorf("%q is not a time of day", s))
	}
	return c, nil
}

func (c Cutoff) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Profile is the SLA configuration of one order type.
type Profile struct {
	OrderType         order.Type
	BaseTatDaysByZone map[zone.Zone]int
	Cutoff            Cutoff
	BusinessDaysOnly  bool
	// MinSafeTatDaysByZone: promises shorter than this are flagged with ElevatedRisk.
	MinSafeTatDaysByZone map[zone.Zone]int
	ElevatedRisk         RiskLevel
}

// MilestoneTemplate places a milestone at Fraction of the TAT window. Status is the
// order status that satisfies it.
type MilestoneTemplate struct {
	Event    string
	Fraction float64
	Status   order.Status
}

// DefaultMilestones is the pickup, in-transit, delivery timeline.
func DefaultMilestones() []MilestoneTemplate {
	return []MilestoneTemplate{
		{Event: "PICKUP_EXPECTED", Fraction: 0.2, Status: order.Shipped},
		{Event: "IN_TRANSIT_EXPECTED", Fraction: 0.6, Status: order.InTransit},
		{Event: "OUT_FOR_DELIVERY_EXPECTED", Fraction: 0.9, Status: order.OutForDelivery},
		{Event: "DELIVERY_EXPECTED", Fraction: 1.0, Status: order.Delivered},
	}
}

type Milestone struct {
	Event      string
	ExpectedBy time.Time
	Status     order.Status
}

// Plan is a delivery promise. Milestones are sorted by ExpectedBy and the last
// one is not after PromisedDate.
type Plan struct {
	OrderType    order.Type
	Zone         zone.Zone
	PlacedAt     time.Time
	PromisedDate time.Time
	TatDays      int
	RiskLevel    RiskLevel
	Milestones   []Milestone
}

// Status is the compliance classification of a live order.
type Status string

const (
	OnTrack  Status = "ON_TRACK"
	AtRisk   Status = "AT_RISK"
	Breached Status = "BREACHED"
)

// ComplianceStatus is recomputed on demand and never stored.
type ComplianceStatus struct {
	OrderID            string
	SLAStatus          Status
	DelayMinutes       int64
	BreachedMilestones []string
	NextMilestone      *Milestone
	PromisedDate       time.Time
}
