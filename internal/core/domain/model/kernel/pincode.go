package kernel

import (
	"strconv"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// PincodeLength is the number of digits in a postal index number.
const PincodeLength = 6

// ErrPincodeIsNotConstructed is returned when a zero value Pincode is used.
var ErrPincodeIsNotConstructed = errs.NewValueIsRequiredError("pincode must be created via NewPincode")

// Pincode is a six digit Indian postal index number.
//
// The first digit identifies the postal macro-region (1..9, never 0) and the first
// three digits identify the sorting district, which the engine treats as the local
// service area.
//
// Example:
//
//	p, err := kernel.NewPincode("560001")
//	p.Region()      // '5'
//	p.ServiceArea() // "560"
type Pincode struct {
	value string
	guard guard.ConstructorGuard
}

// NewPincode validates s and returns a Pincode.
//
// Returns errs.PincodeIsInvalidError (an invalid argument) when s is not exactly
// six ASCII digits or starts with 0.
func NewPincode(s string) (Pincode, error) {
	if len(s) != PincodeLength || s[0] == '0' {
		return Pincode{}, errs.NewPincodeIsInvalidError(s)
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return Pincode{}, errs.NewPincodeIsInvalidError(s)
		}
	}
	return Pincode{value: s, guard: guard.NewConstructorGuard()}, nil
}

// MustPincode is NewPincode for literals known to be valid. It panics otherwise.
func MustPincode(s string) Pincode {
	p, err := NewPincode(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pincode) Validate() error {
	return p.guard.Validate(ErrPincodeIsNotConstructed)
}

func (p Pincode) String() string {
	return p.value
}

// Region returns the first digit, the postal macro-region.
func (p Pincode) Region() byte {
	if p.value == "" {
		return 0
	}
	return p.value[0]
}

// ServiceArea returns the first three digits.
func (p Pincode) ServiceArea() string {
	if len(p.value) < 3 {
		return ""
	}
	return p.value[:3]
}

func (p Pincode) IsEqual(other Pincode) bool {
	return p.value == other.value
}

// Distance is the absolute numeric difference between two pincodes. It is a coarse
// proxy for geographic distance inside the same zone: neighbouring sorting districts
// get neighbouring numbers.
func (p Pincode) Distance(other Pincode) int {
	a, _ := strconv.Atoi(p.value)
	b, _ := strconv.Atoi(other.value)
	if a > b {
		return a - b
	}
	return b - a
}
