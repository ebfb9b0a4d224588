// Package serviceability models pincode coverage as published by the external
// serviceability catalog, and the results the engine derives from it.
package serviceability

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"

	"github.com/shopspring/decimal"
)

// Record is one catalog row. The engine only reads it.
type Record struct {
	Pincode          kernel.Pincode
	HubID            string
	IsServiceable    bool
	CODAvailable     bool
	PrepaidAvailable bool
	// Partners lists carrier codes that deliver to or pick up from the pincode.
	// An empty list means the catalog does not restrict carriers.
	Partners []string
}

// Result describes a single pincode. When the catalog has no record every optional
// field is nil and IsServiceable is false.
type Result struct {
	Pincode          string
	IsServiceable    bool
	CODAvailable     *bool
	PrepaidAvailable *bool
	HubID            *string
	// Zone is relative to the configured home origin, when there is one.
	Zone *zone.Zone
}

// RouteResult describes an origin to destination lane for one payment mode.
type RouteResult struct {
	IsServiceable       bool
	Zone                zone.Zone
	ServiceablePartners []string
	Reason              string
}

// Rule names the validation rule that rejected an order.
type Rule string

const (
	RuleOriginServiceable      Rule = "ORIGIN_SERVICEABLE"
	RuleDestinationServiceable Rule = "DESTINATION_SERVICEABLE"
	RuleCODEligibility         Rule = "COD_ELIGIBILITY"
	RuleMaxWeight              Rule = "MAX_WEIGHT"
	RuleMaxCODValue            Rule = "MAX_COD_VALUE"
)

// ValidationResult is the outcome of order validation. A COD value above the ceiling
// keeps IsValid true and suggests PREPAID instead of failing.
type ValidationResult struct {
	IsValid              bool
	Reason               string
	FailedRule           Rule
	Zone                 zone.Zone
	CODAvailable         bool
	SuggestedPaymentMode *PaymentMode
}

// Limits are the per-shipment ceilings enforced by order validation.
type Limits struct {
	MaxWeightKg float64
	MaxCODValue decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		MaxWeightKg: 30,
		MaxCODValue: decimal.NewFromInt(50000),
	}
}
