// Package yamlconfig loads the engine tables (zones, SLA profiles, limits, picking
// tunables, carrier weights, allocation defaults) and the reference data used by
// the in-memory storage mode from a YAML document.
package yamlconfig

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed engine.yaml
var defaultDocument []byte

// Engine is the decoded configuration, ready to hand to the service constructors.
type Engine struct {
	Zones            services.ZoneConfig
	SLA              services.SLAConfig
	WarningThreshold time.Duration
	Limits           serviceability.Limits
	HomeOrigin       *kernel.Pincode
	Allocation       allocation.Config
	ReservationTTL   time.Duration
	MaxAttempts      int
	Picklist         picklist.Tunables
	CarrierWeights   carrier.Weights
	Seed             Seed
}

// Seed is reference data for the in-memory adapters.
type Seed struct {
	Warehouses     []inventory.Warehouse
	Inventory      []inventory.Unit
	Serviceability []serviceability.Record
	RateCards      []carrier.RateCard
}

// Default returns the embedded configuration.
func Default() (Engine, error) {
	return Parse(defaultDocument)
}

// Load reads path, or the embedded configuration when path is empty.
func Load(path string) (Engine, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Engine{}, errs.NewConfigurationErrorWithCause(path, err)
	}
	return Parse(data)
}

// Parse decodes a document. Unknown keys are rejected so typos surface at startup.
func Parse(data []byte) (Engine, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Engine{}, errs.NewConfigurationErrorWithCause("engine yaml", err)
	}

	engine, err := doc.toEngine()
	if err != nil {
		return Engine{}, errs.NewConfigurationErrorWithCause("engine yaml", err)
	}
	return engine, nil
}

type document struct {
	Timezone       string            `yaml:"timezone"`
	Zones          zonesSection      `yaml:"zones"`
	Serviceability limitsSection     `yaml:"serviceability"`
	SLA            slaSection        `yaml:"sla"`
	Allocation     allocationSection `yaml:"allocation"`
	Picklist       picklistSection   `yaml:"picklist"`
	CarrierWeights carrier.Weights   `yaml:"carrierWeights"`
	Seed           seedSection       `yaml:"seed"`
}

type zonesSection struct {
	MetroRegions []string       `yaml:"metroRegions"`
	TransitDays  map[string]int `yaml:"transitDays"`
}

type limitsSection struct {
	HomeOrigin  string  `yaml:"homeOrigin"`
	MaxWeightKg float64 `yaml:"maxWeightKg"`
	MaxCODValue string  `yaml:"maxCODValue"`
}

type slaSection struct {
	WarningThreshold time.Duration             `yaml:"warningThreshold"`
	Milestones       []milestoneEntry          `yaml:"milestones"`
	Profiles         map[string]profileSection `yaml:"profiles"`
}

type milestoneEntry struct {
	Event    string  `yaml:"event"`
	Fraction float64 `yaml:"fraction"`
	Status   string  `yaml:"status"`
}

type profileSection struct {
	Cutoff           string         `yaml:"cutoff"`
	BusinessDaysOnly bool           `yaml:"businessDaysOnly"`
	BaseTatDays      map[string]int `yaml:"baseTatDays"`
	MinSafeTatDays   map[string]int `yaml:"minSafeTatDays"`
	ElevatedRisk     string         `yaml:"elevatedRisk"`
}

type allocationSection struct {
	EnableHopping     bool          `yaml:"enableHopping"`
	MaxHops           int           `yaml:"maxHops"`
	SplitOrderAllowed bool          `yaml:"splitOrderAllowed"`
	DelayDaysPerHop   int           `yaml:"delayDaysPerHop"`
	ReservationTTL    time.Duration `yaml:"reservationTTL"`
	MaxAttempts       int           `yaml:"maxAttempts"`
}

type picklistSection struct {
	DefaultMaxOrdersPerWave int            `yaml:"defaultMaxOrdersPerWave"`
	DefaultBatchSize        int            `yaml:"defaultBatchSize"`
	AvgItemsPerOrder        int            `yaml:"avgItemsPerOrder"`
	PerItemSeconds          map[string]int `yaml:"perItemSeconds"`
	Zones                   []string       `yaml:"zones"`
}

type seedSection struct {
	Warehouses     []warehouseEntry      `yaml:"warehouses"`
	Inventory      []inventoryEntry      `yaml:"inventory"`
	Serviceability []serviceabilityEntry `yaml:"serviceability"`
	RateCards      []rateCardEntry       `yaml:"rateCards"`
}

type warehouseEntry struct {
	ID            string `yaml:"id"`
	Code          string `yaml:"code"`
	Pincode       string `yaml:"pincode"`
	CapacityUnits int    `yaml:"capacityUnits"`
}

type inventoryEntry struct {
	Warehouse string `yaml:"warehouse"`
	SKU       string `yaml:"sku"`
	Qty       int    `yaml:"qty"`
}

type serviceabilityEntry struct {
	Pincode     string   `yaml:"pincode"`
	HubID       string   `yaml:"hubId"`
	Serviceable bool     `yaml:"serviceable"`
	COD         bool     `yaml:"cod"`
	Prepaid     bool     `yaml:"prepaid"`
	Partners    []string `yaml:"partners"`
}

type rateCardEntry struct {
	Carrier      string `yaml:"carrier"`
	Zone         string `yaml:"zone"`
	BaseRate     string `yaml:"baseRate"`
	PerKgRate    string `yaml:"perKgRate"`
	CODFee       string `yaml:"codFee"`
	TatDays      int    `yaml:"tatDays"`
	CODSupported bool   `yaml:"codSupported"`
	MaxCODAmount string `yaml:"maxCODAmount"`
}

func (d document) toEngine() (Engine, error) {
	var e Engine
	var problems []error
	collect := func(err error) {
		if err != nil {
			problems = append(problems, err)
		}
	}

	loc := time.UTC
	if d.Timezone != "" {
		l, err := time.LoadLocation(d.Timezone)
		collect(err)
		if err == nil {
			loc = l
		}
	}

	zones, err := d.Zones.toConfig()
	collect(err)
	e.Zones = zones

	limits, origin, err := d.Serviceability.toLimits()
	collect(err)
	e.Limits, e.HomeOrigin = limits, origin

	slaCfg, err := d.SLA.toConfig(loc)
	collect(err)
	e.SLA = slaCfg
	e.WarningThreshold = d.SLA.WarningThreshold

	e.Allocation = allocation.Config{
		EnableHopping:     d.Allocation.EnableHopping,
		MaxHops:           d.Allocation.MaxHops,
		SplitOrderAllowed: d.Allocation.SplitOrderAllowed,
		DelayDaysPerHop:   d.Allocation.DelayDaysPerHop,
	}
	collect(e.Allocation.Validate())
	e.ReservationTTL = d.Allocation.ReservationTTL
	e.MaxAttempts = d.Allocation.MaxAttempts

	tunables, err := d.Picklist.toTunables()
	collect(err)
	e.Picklist = tunables

	e.CarrierWeights = d.CarrierWeights
	collect(e.CarrierWeights.Validate())

	seed, err := d.Seed.toSeed()
	collect(err)
	e.Seed = seed

	if err := errors.Join(problems...); err != nil {
		return Engine{}, err
	}
	return e, nil
}

func (s zonesSection) toConfig() (services.ZoneConfig, error) {
	cfg := services.ZoneConfig{TransitDays: make(map[zone.Zone]int, len(s.TransitDays))}
	var problems []error
	for _, r := range s.MetroRegions {
		if len(r) != 1 {
			problems = append(problems, fmt.Errorf("metro region %q is not a single digit", r))
			continue
		}
		cfg.MetroRegions = append(cfg.MetroRegions, r[0])
	}
	days, err := zoneTable(s.TransitDays)
	problems = append(problems, err)
	cfg.TransitDays = days
	return cfg, errors.Join(problems...)
}

func (s limitsSection) toLimits() (serviceability.Limits, *kernel.Pincode, error) {
	limits := serviceability.Limits{MaxWeightKg: s.MaxWeightKg}
	var problems []error

	if s.MaxWeightKg <= 0 {
		problems = append(problems, fmt.Errorf("maxWeightKg %v is not positive", s.MaxWeightKg))
	}
	v, err := decimal.NewFromString(s.MaxCODValue)
	if err != nil {
		problems = append(problems, fmt.Errorf("maxCODValue: %w", err))
	}
	limits.MaxCODValue = v

	var origin *kernel.Pincode
	if s.HomeOrigin != "" {
		p, err := kernel.NewPincode(s.HomeOrigin)
		if err != nil {
			problems = append(problems, fmt.Errorf("homeOrigin: %w", err))
		} else {
			origin = &p
		}
	}
	return limits, origin, errors.Join(problems...)
}

func (s slaSection) toConfig(loc *time.Location) (services.SLAConfig, error) {
	cfg := services.SLAConfig{
		Profiles: make(map[order.Type]sla.Profile, len(s.Profiles)),
		Location: loc,
	}
	var problems []error

	for _, m := range s.Milestones {
		status, err := order.ParseStatus(m.Status)
		if err != nil {
			problems = append(problems, fmt.Errorf("milestone %s: %w", m.Event, err))
			continue
		}
		cfg.Milestones = append(cfg.Milestones, sla.MilestoneTemplate{Event: m.Event, Fraction: m.Fraction, Status: status})
	}

	for name, p := range s.Profiles {
		t, err := order.ParseType(name)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		profile, err := p.toProfile(t)
		if err != nil {
			problems = append(problems, fmt.Errorf("profile %s: %w", t, err))
			continue
		}
		cfg.Profiles[t] = profile
	}
	return cfg, errors.Join(problems...)
}

func (p profileSection) toProfile(t order.Type) (sla.Profile, error) {
	cutoff, err := sla.ParseCutoff(p.Cutoff)
	if err != nil {
		return sla.Profile{}, err
	}
	base, err := zoneTable(p.BaseTatDays)
	if err != nil {
		return sla.Profile{}, err
	}
	minSafe, err := zoneTable(p.MinSafeTatDays)
	if err != nil {
		return sla.Profile{}, err
	}

	risk := sla.RiskLevel(strings.ToUpper(p.ElevatedRisk))
	switch risk {
	case "":
		risk = sla.RiskHigh
	case sla.RiskNormal, sla.RiskHigh, sla.RiskCritical:
	default:
		return sla.Profile{}, fmt.Errorf("elevatedRisk %q is not a risk level", p.ElevatedRisk)
	}

	return sla.Profile{
		OrderType:            t,
		BaseTatDaysByZone:    base,
		Cutoff:               cutoff,
		BusinessDaysOnly:     p.BusinessDaysOnly,
		MinSafeTatDaysByZone: minSafe,
		ElevatedRisk:         risk,
	}, nil
}

func (s picklistSection) toTunables() (picklist.Tunables, error) {
	t := picklist.Tunables{
		DefaultMaxOrdersPerWave: s.DefaultMaxOrdersPerWave,
		DefaultBatchSize:        s.DefaultBatchSize,
		AvgItemsPerOrder:        s.AvgItemsPerOrder,
		PerItemSeconds:          make(map[picklist.StrategyType]int, len(s.PerItemSeconds)),
		Zones:                   s.Zones,
	}
	for name, seconds := range s.PerItemSeconds {
		st, err := picklist.ParseStrategyType(name)
		if err != nil {
			return picklist.Tunables{}, err
		}
		t.PerItemSeconds[st] = seconds
	}
	return t, t.Validate()
}

func (s seedSection) toSeed() (Seed, error) {
	var seed Seed
	var problems []error
	byCode := make(map[string]kernel.UUID, len(s.Warehouses))

	for _, w := range s.Warehouses {
		id, err := kernel.UUIDFromString(w.ID)
		if err != nil {
			problems = append(problems, fmt.Errorf("warehouse %s: %w", w.Code, err))
			continue
		}
		pincode, err := kernel.NewPincode(w.Pincode)
		if err != nil {
			problems = append(problems, fmt.Errorf("warehouse %s: %w", w.Code, err))
			continue
		}
		wh, err := inventory.NewWarehouse(id, w.Code, pincode, w.CapacityUnits)
		if err != nil {
			problems = append(problems, fmt.Errorf("warehouse %s: %w", w.Code, err))
			continue
		}
		byCode[w.Code] = id
		seed.Warehouses = append(seed.Warehouses, wh)
	}

	for _, i := range s.Inventory {
		id, ok := byCode[i.Warehouse]
		if !ok {
			problems = append(problems, fmt.Errorf("inventory %s: unknown warehouse %q", i.SKU, i.Warehouse))
			continue
		}
		if i.SKU == "" || i.Qty < 0 {
			problems = append(problems, fmt.Errorf("inventory %s/%s: sku and a non-negative qty are required", i.Warehouse, i.SKU))
			continue
		}
		seed.Inventory = append(seed.Inventory, inventory.Unit{WarehouseID: id, SKUID: i.SKU, AvailableQty: i.Qty})
	}

	for _, r := range s.Serviceability {
		pincode, err := kernel.NewPincode(r.Pincode)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		seed.Serviceability = append(seed.Serviceability, serviceability.Record{
			Pincode:          pincode,
			HubID:            r.HubID,
			IsServiceable:    r.Serviceable,
			CODAvailable:     r.COD,
			PrepaidAvailable: r.Prepaid,
			Partners:         r.Partners,
		})
	}

	for _, c := range s.RateCards {
		card, err := c.toRateCard()
		if err != nil {
			problems = append(problems, fmt.Errorf("rate card %s/%s: %w", c.Carrier, c.Zone, err))
			continue
		}
		seed.RateCards = append(seed.RateCards, card)
	}

	return seed, errors.Join(problems...)
}

func (c rateCardEntry) toRateCard() (carrier.RateCard, error) {
	z, err := zone.Parse(c.Zone)
	if err != nil {
		return carrier.RateCard{}, err
	}
	amounts := make([]decimal.Decimal, 4)
	for i, raw := range []string{c.BaseRate, c.PerKgRate, c.CODFee, c.MaxCODAmount} {
		if raw == "" {
			continue
		}
		if amounts[i], err = decimal.NewFromString(raw); err != nil {
			return carrier.RateCard{}, err
		}
	}
	if c.Carrier == "" || c.TatDays <= 0 {
		return carrier.RateCard{}, errors.New("carrier and a positive tatDays are required")
	}

	return carrier.RateCard{
		CarrierCode:  strings.ToUpper(c.Carrier),
		Zone:         z,
		BaseRate:     amounts[0],
		PerKgRate:    amounts[1],
		CODFee:       amounts[2],
		TatDays:      c.TatDays,
		CODSupported: c.CODSupported,
		MaxCODAmount: amounts[3],
	}, nil
}

// zoneTable converts a zone name keyed table. An empty table stays nil.
func zoneTable(raw map[string]int) (map[zone.Zone]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	table := make(map[zone.Zone]int, len(raw))
	for name, v := range raw {
		z, err := zone.Parse(name)
		if err != nil {
			return nil, err
		}
		table[z] = v
	}
	return table, nil
}
