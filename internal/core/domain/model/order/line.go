package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Type selects the SLA profile used to promise an order, e.g. STANDARD or EXPRESS.
// The set of types is configuration, so Type is an open string.
type Type string

const (
	Standard Type = "STANDARD"
	Express  Type = "EXPRESS"
	B2B      Type = "B2B"
)

// ParseType upper-cases and trims s. Any non-empty value is accepted here; an order type
// without an SLA profile is a configuration error raised by the calculator.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if t == "" {
		return "", errs.NewValueIsRequiredError("orderType")
	}
	return t, nil
}

func (t Type) String() string {
	return string(t)
}

// Line is one SKU of an order. A zero quantity is legal and allocates nothing.
type Line struct {
	SKUID        string
	RequestedQty int
}

func (l Line) Validate() error {
	if strings.TrimSpace(l.SKUID) == "" {
		return errs.NewValueIsRequiredError("skuId")
	}
	if l.RequestedQty < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"requestedQty", fmt.Errorf("%d is negative for sku %s", l.RequestedQty, l.SKUID))
	}
	return nil
}
