package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ServiceabilityResolver answers coverage questions from the external catalog.
// A missing catalog record is a negative answer, never an error; only catalog
// failures and malformed input produce errors.
type ServiceabilityResolver struct {
	catalog    ports.ServiceabilityCatalog
	classifier ZoneClassifier
	limits     serviceability.Limits
	homeOrigin *kernel.Pincode
}

// NewServiceabilityResolver builds a resolver. homeOrigin may be nil; when set,
// ResolvePincode reports the zone of the pincode relative to it.
func NewServiceabilityResolver(
	catalog ports.ServiceabilityCatalog,
	classifier ZoneClassifier,
	limits serviceability.Limits,
	homeOrigin *kernel.Pincode,
) ServiceabilityResolver {
	return ServiceabilityResolver{
		catalog:    catalog,
		classifier: classifier,
		limits:     limits,
		homeOrigin: homeOrigin,
	}
}

// Limits returns the validation ceilings in force.
func (r ServiceabilityResolver) Limits() serviceability.Limits {
	return r.limits
}

// ResolvePincode describes a single pincode.
func (r ServiceabilityResolver) ResolvePincode(ctx context.Context, pincode kernel.Pincode) (serviceability.Result, error) {
	if err := pincode.Validate(); err != nil {
		return serviceability.Result{}, err
	}

	rec, err := r.lookup(ctx, pincode)
	if err != nil {
		return serviceability.Result{}, err
	}

	result := serviceability.Result{Pincode: pincode.String()}
	if rec == nil {
		return result, nil
	}

	cod, prepaid, hub := rec.CODAvailable, rec.PrepaidAvailable, rec.HubID
	result.IsServiceable = rec.IsServiceable
	result.CODAvailable = &cod
	result.PrepaidAvailable = &prepaid
	result.HubID = &hub

	if r.homeOrigin != nil {
		z, err := r.classifier.Classify(*r.homeOrigin, pincode)
		if err != nil {
			return serviceability.Result{}, err
		}
		result.Zone = &z
	}
	return result, nil
}

// ResolveRoute checks an origin to destination lane. The route is serviceable only
// when both ends are, and for COD only when the destination collects cash.
func (r ServiceabilityResolver) ResolveRoute(
	ctx context.Context,
	origin, destination kernel.Pincode,
	mode serviceability.PaymentMode,
) (serviceability.RouteResult, error) {
	if err := validatePaymentMode(mode); err != nil {
		return serviceability.RouteResult{}, err
	}
	z, err := r.classifier.Classify(origin, destination)
	if err != nil {
		return serviceability.RouteResult{}, err
	}

	from, to, err := r.lookupPair(ctx, origin, destination)
	if err != nil {
		return serviceability.RouteResult{}, err
	}

	result := serviceability.RouteResult{Zone: z}
	switch {
	case !servesRecord(from):
		result.Reason = fmt.Sprintf("origin %s is not serviceable", origin)
	case !servesRecord(to):
		result.Reason = fmt.Sprintf("destination %s is not serviceable", destination)
	case mode == serviceability.COD && !to.CODAvailable:
		result.Reason = fmt.Sprintf("COD is not available at destination %s", destination)
	default:
		result.IsServiceable = true
		result.ServiceablePartners = intersectPartners(from.Partners, to.Partners)
	}
	return result, nil
}

// ValidateOrder runs the acceptance rules in order and stops at the first failure.
// A COD declared value above the ceiling is not a failure: the order stays valid
// with COD withdrawn and PREPAID suggested.
func (r ServiceabilityResolver) ValidateOrder(
	ctx context.Context,
	origin, destination kernel.Pincode,
	mode serviceability.PaymentMode,
	weightKg float64,
	declaredValue decimal.Decimal,
) (serviceability.ValidationResult, error) {
	if err := validateShipment(mode, weightKg, declaredValue); err != nil {
		return serviceability.ValidationResult{}, err
	}
	z, err := r.classifier.Classify(origin, destination)
	if err != nil {
		return serviceability.ValidationResult{}, err
	}

	from, to, err := r.lookupPair(ctx, origin, destination)
	if err != nil {
		return serviceability.ValidationResult{}, err
	}

	fail := func(rule serviceability.Rule, reason string) serviceability.ValidationResult {
		return serviceability.ValidationResult{Zone: z, FailedRule: rule, Reason: reason}
	}

	if !servesRecord(from) {
		return fail(serviceability.RuleOriginServiceable,
			fmt.Sprintf("origin pincode %s is not serviceable", origin)), nil
	}
	if !servesRecord(to) {
		return fail(serviceability.RuleDestinationServiceable,
			fmt.Sprintf("destination pincode %s is not serviceable", destination)), nil
	}
	if mode == serviceability.COD && !to.CODAvailable {
		res := fail(serviceability.RuleCODEligibility,
			fmt.Sprintf("COD is not available for destination pincode %s", destination))
		res.SuggestedPaymentMode = paymentModePtr(serviceability.Prepaid)
		return res, nil
	}
	if weightKg > r.limits.MaxWeightKg {
		return fail(serviceability.RuleMaxWeight,
			fmt.Sprintf("weight %s kg exceeds the maximum of %s kg",
				formatKg(weightKg), formatKg(r.limits.MaxWeightKg))), nil
	}

	result := serviceability.ValidationResult{
		IsValid:      true,
		Zone:         z,
		CODAvailable: to.CODAvailable,
	}
	if mode == serviceability.COD && declaredValue.GreaterThan(r.limits.MaxCODValue) {
		result.CODAvailable = false
		result.FailedRule = serviceability.RuleMaxCODValue
		result.Reason = fmt.Sprintf("declared value ₹%s exceeds the COD limit of ₹%s, use PREPAID",
			declaredValue.StringFixedBank(0), r.limits.MaxCODValue.StringFixedBank(0))
		result.SuggestedPaymentMode = paymentModePtr(serviceability.Prepaid)
	}
	return result, nil
}

func (r ServiceabilityResolver) lookup(ctx context.Context, p kernel.Pincode) (*serviceability.Record, error) {
	rec, err := r.catalog.Lookup(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("serviceability lookup %s: %w", p, err)
	}
	return rec, nil
}

func (r ServiceabilityResolver) lookupPair(
	ctx context.Context,
	origin, destination kernel.Pincode,
) (*serviceability.Record, *serviceability.Record, error) {
	from, err := r.lookup(ctx, origin)
	if err != nil {
		return nil, nil, err
	}
	to, err := r.lookup(ctx, destination)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func servesRecord(rec *serviceability.Record) bool {
	return rec != nil && rec.IsServiceable
}

// intersectPartners treats an empty list as "any carrier".
func intersectPartners(a, b []string) []string {
	switch {
	case len(a) == 0:
		return slices.Clone(b)
	case len(b) == 0:
		return slices.Clone(a)
	}
	out := make([]string, 0, min(len(a), len(b)))
	for _, p := range a {
		if slices.Contains(b, p) && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func validatePaymentMode(mode serviceability.PaymentMode) error {
	if mode != serviceability.Prepaid && mode != serviceability.COD {
		return errs.NewValueIsInvalidErrorWithCause("paymentMode", fmt.Errorf("%d is not a payment mode", mode))
	}
	return nil
}

func validateShipment(mode serviceability.PaymentMode, weightKg float64, declaredValue decimal.Decimal) error {
	var problems []error
	problems = append(problems, validatePaymentMode(mode))
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"weightKg", fmt.Errorf("%v is not greater than 0", weightKg)))
	}
	if declaredValue.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"declaredValue", fmt.Errorf("%s is negative", declaredValue)))
	}
	return errors.Join(problems...)
}

func paymentModePtr(m serviceability.PaymentMode) *serviceability.PaymentMode {
	return &m
}

func formatKg(kg float64) string {
	return decimal.NewFromFloat(kg).String()
}
