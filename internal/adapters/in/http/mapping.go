package http

import (
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/generated/servers"
)

func toAllocationPlan(p allocation.Plan) servers.AllocationPlan {
	out := servers.AllocationPlan{
		OrderId:                p.OrderID,
		Lines:                  make([]servers.LineAllocation, 0, len(p.Lines)),
		TotalHops:              p.TotalHops,
		SplitRequired:          p.SplitRequired,
		DestinationServiceable: p.DestinationServiceable,
		TotalShortfall:         p.TotalShortfall(),
	}
	for _, l := range p.Lines {
		line := servers.LineAllocation{
			SkuId:        l.SKUID,
			RequestedQty: l.RequestedQty,
			AllocatedQty: l.Allocated(),
			Shortfall:    l.Shortfall,
			Splits:       make([]servers.Split, 0, len(l.Splits)),
		}
		for _, s := range l.Splits {
			line.Splits = append(line.Splits, servers.Split{
				WarehouseId: s.WarehouseID.Bytes(),
				Quantity:    s.Qty,
				HopLevel:    s.HopLevel,
			})
		}
		out.Lines = append(out.Lines, line)
	}
	if p.SLAImpact != nil {
		out.SlaImpact = &servers.SlaImpact{
			OriginalEta: p.SLAImpact.OriginalETA,
			AdjustedEta: p.SLAImpact.AdjustedETA,
			Reason:      p.SLAImpact.Reason,
		}
	}
	return out
}

func toReservation(r *inventory.Reservation) *servers.Reservation {
	if r == nil {
		return nil
	}
	out := &servers.Reservation{
		Id:        r.ID().Bytes(),
		OrderId:   r.OrderID(),
		Status:    r.Status().String(),
		CreatedAt: r.CreatedAt(),
		ExpiresAt: r.ExpiresAt(),
	}
	for _, item := range r.Items() {
		out.Items = append(out.Items, servers.ReservedItem{
			WarehouseId: item.WarehouseID.Bytes(),
			SkuId:       item.SKUID,
			Quantity:    item.Qty,
		})
	}
	return out
}

func toMilestone(m sla.Milestone) servers.Milestone {
	return servers.Milestone{Event: m.Event, ExpectedBy: m.ExpectedBy, Status: m.Status.String()}
}

func toSLAPlan(p sla.Plan) servers.SlaPlan {
	out := servers.SlaPlan{
		OrderType:    p.OrderType.String(),
		Zone:         p.Zone.String(),
		PlacedAt:     p.PlacedAt,
		PromisedDate: p.PromisedDate,
		TatDays:      p.TatDays,
		RiskLevel:    string(p.RiskLevel),
		Milestones:   make([]servers.Milestone, 0, len(p.Milestones)),
	}
	for _, m := range p.Milestones {
		out.Milestones = append(out.Milestones, toMilestone(m))
	}
	return out
}

func toComplianceStatus(c sla.ComplianceStatus) servers.ComplianceStatus {
	out := servers.ComplianceStatus{
		OrderId:            c.OrderID,
		SlaStatus:          string(c.SLAStatus),
		DelayMinutes:       c.DelayMinutes,
		BreachedMilestones: append([]string{}, c.BreachedMilestones...),
		PromisedDate:       c.PromisedDate,
	}
	if c.NextMilestone != nil {
		next := toMilestone(*c.NextMilestone)
		out.NextMilestone = &next
	}
	return out
}

func toPicklistResult(r picklist.Result) servers.PicklistResult {
	out := servers.PicklistResult{
		GenerationId: r.GenerationID.Bytes(),
		Strategy:     r.Strategy.String(),
		Batches:      make([]servers.PickBatch, 0, len(r.Batches)),
		Optimization: servers.PicklistOptimization{
			TotalOrders:               r.Optimization.TotalOrders,
			TotalBatches:              r.Optimization.TotalBatches,
			EstimatedTimeSavedSeconds: int64(r.Optimization.EstimatedTimeSaved.Seconds()),
		},
	}
	for _, b := range r.Batches {
		out.Batches = append(out.Batches, servers.PickBatch{
			Id:                   b.ID.Bytes(),
			Strategy:             b.Strategy.String(),
			OrderIds:             b.OrderIDs,
			Zone:                 b.Zone,
			EstimatedItems:       b.EstimatedItems,
			EstimatedTimeSeconds: int64(b.EstimatedTime.Seconds()),
		})
	}
	return out
}

func toServiceabilityResponse(r queries.CheckServiceabilityQueryResponse) servers.ServiceabilityResponse {
	var out servers.ServiceabilityResponse
	if p := r.Pincode; p != nil {
		out.Pincode = &servers.PincodeServiceability{
			Pincode:          p.Pincode,
			IsServiceable:    p.IsServiceable,
			CodAvailable:     p.CODAvailable,
			PrepaidAvailable: p.PrepaidAvailable,
			HubId:            p.HubID,
		}
		if p.Zone != nil {
			z := p.Zone.String()
			out.Pincode.Zone = &z
		}
	}
	if route := r.Route; route != nil {
		out.Route = &servers.RouteServiceability{
			IsServiceable:       route.IsServiceable,
			Zone:                route.Zone.String(),
			ServiceablePartners: append([]string{}, route.ServiceablePartners...),
			Reason:              route.Reason,
		}
	}
	return out
}

func toValidationResult(v serviceability.ValidationResult) servers.ValidationResult {
	out := servers.ValidationResult{
		IsValid:      v.IsValid,
		Reason:       v.Reason,
		Zone:         v.Zone.String(),
		CodAvailable: v.CODAvailable,
	}
	if v.FailedRule != "" {
		rule := string(v.FailedRule)
		out.FailedRule = &rule
	}
	if v.SuggestedPaymentMode != nil {
		mode := v.SuggestedPaymentMode.String()
		out.SuggestedPaymentMode = &mode
	}
	return out
}

func toCandidate(c carrier.Candidate) servers.Candidate {
	out := servers.Candidate{
		CarrierCode:  c.Quote.CarrierCode,
		Rate:         c.Quote.Rate.StringFixed(2),
		TatDays:      c.Quote.TatDays,
		CodSupported: c.Quote.CODSupported,
		Score:        c.Score,
	}
	if !c.Quote.MaxCODAmount.IsZero() {
		ceiling := c.Quote.MaxCODAmount.StringFixed(2)
		out.MaxCodAmount = &ceiling
	}
	return out
}

func toTransporterSelection(s carrier.Selection) servers.TransporterSelection {
	out := servers.TransporterSelection{
		Zone:         s.Zone.String(),
		Alternatives: make([]servers.Candidate, 0, len(s.Alternatives)),
		Reason:       s.Reason,
	}
	if s.Recommended != nil {
		rec := toCandidate(*s.Recommended)
		out.Recommended = &rec
	}
	for _, c := range s.Alternatives {
		out.Alternatives = append(out.Alternatives, toCandidate(c))
	}
	return out
}
