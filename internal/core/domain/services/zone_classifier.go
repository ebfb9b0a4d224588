package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/pkg/errs"
)

// ZoneConfig is the zone table: which destination regions count as metro and the
// base transit days of every zone.
type ZoneConfig struct {
	// MetroRegions are first digits ('1'..'9') of metro destinations.
	MetroRegions []byte
	TransitDays  map[zone.Zone]int
}

func DefaultZoneConfig() ZoneConfig {
	return ZoneConfig{
		MetroRegions: []byte{'1', '4', '5', '6', '7'},
		TransitDays: map[zone.Zone]int{
			zone.Local:       1,
			zone.Regional:    2,
			zone.Metro:       3,
			zone.RestOfIndia: 5,
		},
	}
}

// ZoneClassifier maps an origin and destination pincode to a delivery zone.
//
// Rules, first match wins:
//   - same first three digits: LOCAL
//   - same first digit: REGIONAL
//   - destination region in the metro set: METRO
//   - otherwise: ROI
type ZoneClassifier struct {
	metro       [10]bool
	transitDays map[zone.Zone]int
}

// NewZoneClassifier validates cfg. Every zone needs a positive transit time.
func NewZoneClassifier(cfg ZoneConfig) (ZoneClassifier, error) {
	c := ZoneClassifier{transitDays: make(map[zone.Zone]int, len(cfg.TransitDays))}

	var problems []error
	for _, r := range cfg.MetroRegions {
		if r < '1' || r > '9' {
			problems = append(problems, errs.NewConfigurationError(fmt.Sprintf("metro region %q", r)))
			continue
		}
		c.metro[r-'0'] = true
	}
	for _, z := range zone.All() {
		days, ok := cfg.TransitDays[z]
		if !ok || days <= 0 {
			problems = append(problems, errs.NewConfigurationError(fmt.Sprintf("transit days for zone %s", z)))
			continue
		}
		c.transitDays[z] = days
	}
	if err := errors.Join(problems...); err != nil {
		return ZoneClassifier{}, err
	}
	return c, nil
}

// Classify is deterministic and has no side effects.
func (c ZoneClassifier) Classify(origin, destination kernel.Pincode) (zone.Zone, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return zone.Unknown, err
	}

	switch {
	case origin.ServiceArea() == destination.ServiceArea():
		return zone.Local, nil
	case origin.Region() == destination.Region():
		return zone.Regional, nil
	case c.metro[destination.Region()-'0']:
		return zone.Metro, nil
	default:
		return zone.RestOfIndia, nil
	}
}

// ClassifyCodes parses both pincodes first; malformed input yields errs.ErrInvalidPincode.
func (c ZoneClassifier) ClassifyCodes(origin, destination string) (zone.Zone, error) {
	o, err := kernel.NewPincode(origin)
	if err != nil {
		return zone.Unknown, err
	}
	d, err := kernel.NewPincode(destination)
	if err != nil {
		return zone.Unknown, err
	}
	return c.Classify(o, d)
}

// TransitDays returns the base transit time of z.
func (c ZoneClassifier) TransitDays(z zone.Zone) (int, error) {
	days, ok := c.transitDays[z]
	if !ok {
		return 0, errs.NewConfigurationError(fmt.Sprintf("transit days for zone %s", z))
	}
	return days, nil
}

// Resolve classifies the pair and returns its base transit days.
func (c ZoneClassifier) Resolve(origin, destination kernel.Pincode) (zone.Zone, int, error) {
	z, err := c.Classify(origin, destination)
	if err != nil {
		return zone.Unknown, 0, err
	}
	days, err := c.TransitDays(z)
	if err != nil {
		return zone.Unknown, 0, err
	}
	return z, days, nil
}

// zoneOf is Classify without the error for pincodes already validated by the caller.
func (c ZoneClassifier) zoneOf(origin, destination kernel.Pincode) zone.Zone {
	z, err := c.Classify(origin, destination)
	if err != nil {
		return zone.Unknown
	}
	return z
}
