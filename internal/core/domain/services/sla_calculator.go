package services

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/pkg/errs"
)

// SLAConfig holds the SLA profiles per order type, the milestone template and the
// time zone in which cutoffs and business days are evaluated.
type SLAConfig struct {
	Profiles   map[order.Type]sla.Profile
	Milestones []sla.MilestoneTemplate
	Location   *time.Location
}

// SLACalculator computes delivery promises. It never invents a TAT: a missing
// profile or zone entry is an errs.ConfigurationError.
type SLACalculator struct {
	classifier ZoneClassifier
	profiles   map[order.Type]sla.Profile
	milestones []sla.MilestoneTemplate
	location   *time.Location
}

// NewSLACalculator validates the milestone template: at least one milestone,
// fractions within (0, 1] and non-decreasing.
func NewSLACalculator(classifier ZoneClassifier, cfg SLAConfig) (SLACalculator, error) {
	milestones := cfg.Milestones
	if len(milestones) == 0 {
		milestones = sla.DefaultMilestones()
	}
	milestones = slices.Clone(milestones)
	slices.SortStableFunc(milestones, func(a, b sla.MilestoneTemplate) int {
		return cmp.Compare(a.Fraction, b.Fraction)
	})
	for _, m := range milestones {
		if m.Fraction <= 0 || m.Fraction > 1 || math.IsNaN(m.Fraction) {
			return SLACalculator{}, errs.NewConfigurationError(
				fmt.Sprintf("milestone %s fraction %v is outside (0, 1]", m.Event, m.Fraction))
		}
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return SLACalculator{
		classifier: classifier,
		profiles:   cfg.Profiles,
		milestones: milestones,
		location:   loc,
	}, nil
}

// Calculate promises an order placed at placedAt.
//
// TAT is the profile's base days for the zone, plus one day when placedAt is after
// the profile cutoff. Milestones are placed at their fraction of the TAT window.
func (c SLACalculator) Calculate(
	orderType order.Type,
	origin, destination kernel.Pincode,
	placedAt time.Time,
) (sla.Plan, error) {
	return c.CalculateWithDelay(orderType, origin, destination, placedAt, 0)
}

// CalculateWithDelay is Calculate with extraDays added to the TAT, used when an
// allocation split pushes the promise out.
func (c SLACalculator) CalculateWithDelay(
	orderType order.Type,
	origin, destination kernel.Pincode,
	placedAt time.Time,
	extraDays int,
) (sla.Plan, error) {
	var problems []error
	if placedAt.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("placedAt"))
	}
	if extraDays < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("extraDays", extraDays, 0, "unbounded"))
	}
	if err := errors.Join(problems...); err != nil {
		return sla.Plan{}, err
	}

	z, err := c.classifier.Classify(origin, destination)
	if err != nil {
		return sla.Plan{}, err
	}

	profile, ok := c.profiles[orderType]
	if !ok {
		return sla.Plan{}, errs.NewConfigurationError(fmt.Sprintf("no SLA profile for order type %s", orderType))
	}
	base, ok := profile.BaseTatDaysByZone[z]
	if !ok {
		return sla.Plan{}, errs.NewConfigurationError(
			fmt.Sprintf("SLA profile %s has no TAT for zone %s", orderType, z))
	}

	local := placedAt.In(c.location)
	tat := base + extraDays
	if c.afterCutoff(local, profile.Cutoff) {
		tat++
	}

	promised := local.AddDate(0, 0, tat)
	if profile.BusinessDaysOnly {
		promised = addBusinessDays(local, tat)
	}

	risk := sla.RiskNormal
	if minSafe, ok := profile.MinSafeTatDaysByZone[z]; ok && tat < minSafe {
		risk = profile.ElevatedRisk
		if risk == "" {
			risk = sla.RiskHigh
		}
	}

	return sla.Plan{
		OrderType:    orderType,
		Zone:         z,
		PlacedAt:     local,
		PromisedDate: promised,
		TatDays:      tat,
		RiskLevel:    risk,
		Milestones:   c.buildMilestones(local, promised),
	}, nil
}

func (c SLACalculator) afterCutoff(local time.Time, cutoff sla.Cutoff) bool {
	at := time.Date(local.Year(), local.Month(), local.Day(), cutoff.Hour, cutoff.Minute, 0, 0, c.location)
	return local.After(at)
}

func (c SLACalculator) buildMilestones(from, to time.Time) []sla.Milestone {
	window := to.Sub(from)
	out := make([]sla.Milestone, 0, len(c.milestones))
	for _, m := range c.milestones {
		expected := from.Add(time.Duration(float64(window) * m.Fraction))
		if expected.After(to) {
			expected = to
		}
		out = append(out, sla.Milestone{Event: m.Event, ExpectedBy: expected, Status: m.Status})
	}
	return out
}

// addBusinessDays skips Saturdays and Sundays.
func addBusinessDays(from time.Time, days int) time.Time {
	d := from
	for added := 0; added < days; {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return d
}
