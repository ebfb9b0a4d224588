package serviceability

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// PaymentMode is how the consignee pays for an order.
type PaymentMode int

const (
	UnknownPaymentMode PaymentMode = iota
	Prepaid
	COD
)

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PREPAID":
		return Prepaid, nil
	case "COD":
		return COD, nil
	default:
		return UnknownPaymentMode, errs.NewValueIsInvalidErrorWithCause(
			"paymentMode", fmt.Errorf("%q is not PREPAID or COD", s))
	}
}

func (m PaymentMode) String() string {
	switch m {
	case Prepaid:
		return "PREPAID"
	case COD:
		return "COD"
	default:
		return "UNKNOWN"
	}
}

func (m PaymentMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *PaymentMode) UnmarshalText(text []byte) error {
	parsed, err := ParsePaymentMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
