package queries

import (
	"context"
	"fmt"
	"sort"

	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/services"
)

// SLAComplianceReport counts open orders per SLA status. Attention lists the orders
// that are not ON_TRACK, most delayed first.
type SLAComplianceReport struct {
	Counts    map[sla.Status]int
	Attention []sla.ComplianceStatus
}

// Total is the number of orders tracked.
func (r SLAComplianceReport) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

type GetSLAComplianceReportQueryHandler struct {
	orders     OrderReader
	calculator services.SLACalculator
	tracker    services.ComplianceTracker
}

func NewGetSLAComplianceReportQueryHandler(
	orders OrderReader,
	calculator services.SLACalculator,
	tracker services.ComplianceTracker,
) GetSLAComplianceReportQueryHandler {
	return GetSLAComplianceReportQueryHandler{orders: orders, calculator: calculator, tracker: tracker}
}

func (h GetSLAComplianceReportQueryHandler) Handle(
	ctx context.Context,
	query GetSLAComplianceReportQuery,
) (SLAComplianceReport, error) {
	if err := query.Validate(); err != nil {
		return SLAComplianceReport{}, err
	}

	open, err := h.orders.GetAllOpen(ctx)
	if err != nil {
		return SLAComplianceReport{}, err
	}

	report := SLAComplianceReport{
		Counts: map[sla.Status]int{sla.OnTrack: 0, sla.AtRisk: 0, sla.Breached: 0},
	}
	for _, o := range open {
		status, err := trackOrder(h.calculator, h.tracker, o, query.Now())
		if err != nil {
			return SLAComplianceReport{}, fmt.Errorf("order %s: %w", o.ID(), err)
		}
		report.Counts[status.SLAStatus]++
		if status.SLAStatus != sla.OnTrack {
			report.Attention = append(report.Attention, status)
		}
	}

	sort.SliceStable(report.Attention, func(i, j int) bool {
		return report.Attention[i].DelayMinutes > report.Attention[j].DelayMinutes
	})
	return report, nil
}
