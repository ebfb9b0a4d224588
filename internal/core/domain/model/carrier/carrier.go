// Package carrier models carrier quotes and the ranked selection made from them.
package carrier

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Quote is one carrier's offer for a lane, weight and payment mode.
type Quote struct {
	CarrierCode  string
	Rate         decimal.Decimal
	TatDays      int
	CODSupported bool
	// MaxCODAmount is the carrier's COD collection ceiling. Zero means no ceiling.
	MaxCODAmount decimal.Decimal
}

// Candidate is a scored quote. Score is in [0, 1].
type Candidate struct {
	Quote Quote
	Score float64
}

// Selection is the outcome of transporter selection. Recommended is nil when no carrier qualifies.
type Selection struct {
	Zone         zone.Zone
	Recommended  *Candidate
	Alternatives []Candidate
	Reason       string
}

// Weights balance the scoring terms. They are normalized before use.
type Weights struct {
	Rate float64
	Tat  float64
	COD  float64
}

func DefaultWeights() Weights {
	return Weights{Rate: 0.5, Tat: 0.35, COD: 0.15}
}

func (w Weights) Validate() error {
	if w.Rate < 0 || w.Tat < 0 || w.COD < 0 || w.Rate+w.Tat+w.COD <= 0 {
		return errs.NewConfigurationError("carrier score weights must be non-negative with a positive sum")
	}
	return nil
}

// Request describes the shipment to place.
type Request struct {
	Origin      kernel.Pincode
	Destination kernel.Pincode
	WeightKg    float64
	IsCOD       bool
	CODAmount   decimal.Decimal
}

func (r Request) Validate() error {
	var problems []error
	problems = append(problems, r.Origin.Validate(), r.Destination.Validate())
	if r.WeightKg <= 0 || math.IsNaN(r.WeightKg) || math.IsInf(r.WeightKg, 0) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"weightKg", fmt.Errorf("%v is not greater than 0", r.WeightKg)))
	}
	if r.CODAmount.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"codAmount", fmt.Errorf("%s is negative", r.CODAmount)))
	}
	return errors.Join(problems...)
}

// RateCard prices one carrier on one zone: BaseRate plus PerKgRate for every
// started kilogram, plus CODFee for COD shipments.
type RateCard struct {
	CarrierCode  string
	Zone         zone.Zone
	BaseRate     decimal.Decimal
	PerKgRate    decimal.Decimal
	CODFee       decimal.Decimal
	TatDays      int
	CODSupported bool
	MaxCODAmount decimal.Decimal
}

// Quote prices a shipment of weightKg.
func (c RateCard) Quote(weightKg float64, isCOD bool) Quote {
	kg := decimal.NewFromFloat(math.Ceil(weightKg))
	rate := c.BaseRate.Add(c.PerKgRate.Mul(kg))
	if isCOD {
		rate = rate.Add(c.CODFee)
	}
	return Quote{
		CarrierCode:  c.CarrierCode,
		Rate:         rate.Round(2),
		TatDays:      c.TatDays,
		CODSupported: c.CODSupported,
		MaxCODAmount: c.MaxCODAmount,
	}
}
