// Package zone defines the coarse delivery-distance classes derived from a pincode pair.
package zone

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Zone is never stored on its own; it is always recomputed from the origin and
// destination pincodes that produced it.
type Zone int

const (
	Unknown Zone = iota
	// Local is a shipment inside one sorting district (same first three digits).
	Local
	// Regional stays inside one postal macro-region (same first digit).
	Regional
	// Metro crosses regions into a configured metro region.
	Metro
	// RestOfIndia is everything else.
	RestOfIndia
)

var names = map[Zone]string{
	Unknown:     "UNKNOWN",
	Local:       "LOCAL",
	Regional:    "REGIONAL",
	Metro:       "METRO",
	RestOfIndia: "ROI",
}

// All returns the valid zones ordered from nearest to farthest.
func All() []Zone {
	return []Zone{Local, Regional, Metro, RestOfIndia}
}

// Parse accepts the wire names LOCAL, REGIONAL, METRO and ROI (case-insensitive).
func Parse(s string) (Zone, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, z := range All() {
		if names[z] == needle {
			return z, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("zone", fmt.Errorf("%q is not a zone", s))
}

func (z Zone) String() string {
	if n, ok := names[z]; ok {
		return n
	}
	return names[Unknown]
}

func (z Zone) Validate() error {
	if z < Local || z > RestOfIndia {
		return errs.NewValueIsInvalidErrorWithCause("zone", fmt.Errorf("%d is not a valid zone", z))
	}
	return nil
}

// Rank orders zones by logistical distance, 0 being the nearest.
func (z Zone) Rank() int {
	return int(z) - int(Local)
}

func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *Zone) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}
