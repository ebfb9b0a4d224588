package services

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
)

// DefaultWarningThreshold is how close an unmet milestone may get before the order is AT_RISK.
const DefaultWarningThreshold = 2 * time.Hour

// ComplianceTracker classifies a live order against its SLA plan.
type ComplianceTracker struct {
	warningThreshold time.Duration
}

func NewComplianceTracker(warningThreshold time.Duration) ComplianceTracker {
	if warningThreshold <= 0 {
		warningThreshold = DefaultWarningThreshold
	}
	return ComplianceTracker{warningThreshold: warningThreshold}
}

// Track walks the plan's milestones in order.
//
// A milestone is breached when now is past ExpectedBy and the order has not reached
// the milestone's status. The order is BREACHED past the promised date unless it was
// delivered, AT_RISK when a milestone is already breached or the next unmet one is
// within the warning threshold, and ON_TRACK otherwise.
func (t ComplianceTracker) Track(orderID string, current order.Status, now time.Time, plan sla.Plan) sla.ComplianceStatus {
	status := sla.ComplianceStatus{
		OrderID:      orderID,
		SLAStatus:    sla.OnTrack,
		PromisedDate: plan.PromisedDate,
	}
	if current.HasReached(order.Delivered) {
		return status
	}

	for i := range plan.Milestones {
		m := plan.Milestones[i]
		if current.HasReached(m.Status) {
			continue
		}
		if now.After(m.ExpectedBy) {
			status.BreachedMilestones = append(status.BreachedMilestones, m.Event)
			continue
		}
		if status.NextMilestone == nil {
			status.NextMilestone = &m
		}
	}

	switch {
	case now.After(plan.PromisedDate):
		status.SLAStatus = sla.Breached
		status.DelayMinutes = int64(now.Sub(plan.PromisedDate) / time.Minute)
	case len(status.BreachedMilestones) > 0:
		status.SLAStatus = sla.AtRisk
	case status.NextMilestone != nil && status.NextMilestone.ExpectedBy.Sub(now) < t.warningThreshold:
		status.SLAStatus = sla.AtRisk
	}
	return status
}
