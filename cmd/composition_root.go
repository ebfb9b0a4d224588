package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/carrierrates"
	"fulfillment/internal/adapters/out/yamlconfig"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"
	"fulfillment/internal/pkg/resilience"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs Config
	engine  yamlconfig.Engine
	storage storage
	metrics *metrics.Metrics
	logger  *slog.Logger

	classifier services.ZoneClassifier
	resolver   services.ServiceabilityResolver
	calculator services.SLACalculator
	tracker    services.ComplianceTracker
	planner    services.AllocationPlanner
	optimizer  services.PicklistOptimizer
	selector   services.TransporterSelector
}

// NewCompositionRoot wires the engine over postgres when gormDB is not nil and
// over the in-memory adapters otherwise.
func NewCompositionRoot(
	ctx context.Context,
	configs Config,
	engine yamlconfig.Engine,
	gormDB *gorm.DB,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	if configs.HomeOrigin != "" {
		home, err := kernel.NewPincode(configs.HomeOrigin)
		if err != nil {
			return nil, fmt.Errorf("home origin: %w", err)
		}
		engine.HomeOrigin = &home
	}

	var (
		s   storage
		err error
	)
	if gormDB != nil {
		s, err = newPostgresStorage(ctx, configs, gormDB, engine.Seed)
	} else {
		s, err = newMemoryStorage(configs, engine.Seed)
	}
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{configs: configs, engine: engine, storage: s, metrics: m, logger: logger}
	if err = c.buildServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) buildServices() error {
	var err error
	if c.classifier, err = services.NewZoneClassifier(c.engine.Zones); err != nil {
		return fmt.Errorf("zone classifier: %w", err)
	}
	c.resolver = services.NewServiceabilityResolver(c.storage.catalog, c.classifier, c.engine.Limits, c.engine.HomeOrigin)
	if c.calculator, err = services.NewSLACalculator(c.classifier, c.engine.SLA); err != nil {
		return fmt.Errorf("sla calculator: %w", err)
	}
	c.tracker = services.NewComplianceTracker(c.engine.WarningThreshold)
	c.planner = services.NewAllocationPlanner(c.classifier, c.resolver, c.calculator)
	if c.optimizer, err = services.NewPicklistOptimizer(c.engine.Picklist); err != nil {
		return fmt.Errorf("picklist optimizer: %w", err)
	}

	breakerCfg := resilience.DefaultConfig("carrier-rates")
	if c.configs.CarrierBreakerTimeout > 0 {
		breakerCfg.Timeout = c.configs.CarrierBreakerTimeout
	}
	if c.configs.CarrierBreakerThreshold > 0 {
		breakerCfg.FailureThreshold = c.configs.CarrierBreakerThreshold
	}
	rates := carrierrates.NewBreakerProvider(
		carrierrates.NewRateCardProvider(c.storage.rateCards, c.classifier),
		breakerCfg, c.metrics, c.logger)
	if c.selector, err = services.NewTransporterSelector(c.resolver, c.classifier, rates, c.engine.CarrierWeights); err != nil {
		return fmt.Errorf("transporter selector: %w", err)
	}
	return nil
}

func (c *CompositionRoot) reservationUoWFactory() commands.ReservationUoWFactory {
	return FuncReservationUoWFactory(func() commands.ReservationUoW {
		return c.storage.newUoW()
	})
}

func (c *CompositionRoot) uowFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.storage.newUoW()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.storage.newUoW()
	})
}

func (c *CompositionRoot) reservationPolicy() commands.ReservationPolicy {
	ttl := c.engine.ReservationTTL
	if c.configs.ReservationTTL > 0 {
		ttl = c.configs.ReservationTTL
	}
	return commands.ReservationPolicy{TTL: ttl, MaxAttempts: c.engine.MaxAttempts}
}

func (c *CompositionRoot) CreateAllocateOrderCommandHandler() commands.AllocateOrderCommandHandler {
	return commands.NewAllocateOrderCommandHandler(
		c.reservationUoWFactory(), c.storage.warehouses, c.planner, c.reservationPolicy(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateConfirmAllocationCommandHandler() commands.ConfirmAllocationCommandHandler {
	return commands.NewConfirmAllocationCommandHandler(c.reservationUoWFactory())
}

func (c *CompositionRoot) CreateReleaseAllocationCommandHandler() commands.ReleaseAllocationCommandHandler {
	return commands.NewReleaseAllocationCommandHandler(c.reservationUoWFactory(), c.metrics)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReleaseExpiredReservationsCommandHandler() commands.ReleaseExpiredReservationsCommandHandler {
	return commands.NewReleaseExpiredReservationsCommandHandler(c.reservationUoWFactory(), c.metrics)
}

func (c *CompositionRoot) CreateAllocatePendingOrdersCommandHandler() commands.AllocatePendingOrdersCommandHandler {
	return commands.NewAllocatePendingOrdersCommandHandler(
		c.uowFactory(),
		c.CreateAllocateOrderCommandHandler(),
		c.CreateReleaseAllocationCommandHandler(),
		c.configs.AllocationWorkers,
		c.logger,
	)
}

func (c *CompositionRoot) CreateCalculateSLAQueryHandler() queries.CalculateSLAQueryHandler {
	return queries.NewCalculateSLAQueryHandler(c.calculator)
}

func (c *CompositionRoot) CreateGetOrderSLAStatusQueryHandler() queries.GetOrderSLAStatusQueryHandler {
	return queries.NewGetOrderSLAStatusQueryHandler(c.storage.orders, c.calculator, c.tracker)
}

func (c *CompositionRoot) CreateGetSLAComplianceReportQueryHandler() queries.GetSLAComplianceReportQueryHandler {
	return queries.NewGetSLAComplianceReportQueryHandler(c.storage.orders, c.calculator, c.tracker)
}

func (c *CompositionRoot) CreateOptimizePicklistsQueryHandler() queries.OptimizePicklistsQueryHandler {
	return queries.NewOptimizePicklistsQueryHandler(c.optimizer)
}

func (c *CompositionRoot) CreateCheckServiceabilityQueryHandler() queries.CheckServiceabilityQueryHandler {
	return queries.NewCheckServiceabilityQueryHandler(c.resolver)
}

func (c *CompositionRoot) CreateValidateOrderQueryHandler() queries.ValidateOrderQueryHandler {
	return queries.NewValidateOrderQueryHandler(c.resolver)
}

func (c *CompositionRoot) CreateSelectTransporterQueryHandler() queries.SelectTransporterQueryHandler {
	return queries.NewSelectTransporterQueryHandler(c.selector)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		AllocateOrder:       c.CreateAllocateOrderCommandHandler(),
		ConfirmAllocation:   c.CreateConfirmAllocationCommandHandler(),
		ReleaseAllocation:   c.CreateReleaseAllocationCommandHandler(),
		AcceptOrder:         c.CreateAcceptOrderCommandHandler(),
		CalculateSLA:        c.CreateCalculateSLAQueryHandler(),
		GetOrderSLAStatus:   c.CreateGetOrderSLAStatusQueryHandler(),
		OptimizePicklists:   c.CreateOptimizePicklistsQueryHandler(),
		CheckServiceability: c.CreateCheckServiceabilityQueryHandler(),
		ValidateOrder:       c.CreateValidateOrderQueryHandler(),
		SelectTransporter:   c.CreateSelectTransporterQueryHandler(),
	}, c.engine.Allocation)
}

// CreateJobManager registers every job with a non-empty schedule.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	jm := jobs.NewJobManager()
	if s := c.configs.ReservationExpirySchedule; s != "" {
		jm.Add("reservation expiry", jobs.NewReservationExpiryJob(
			c.CreateReleaseExpiredReservationsCommandHandler(), s, c.configs.ExpiryBatchSize, c.logger))
	}
	if s := c.configs.PendingAllocationSchedule; s != "" {
		jm.Add("pending allocation", jobs.NewPendingAllocationJob(
			c.CreateAllocatePendingOrdersCommandHandler(), s, c.configs.PendingBatchSize, c.engine.Allocation, c.logger))
	}
	if s := c.configs.ComplianceSweepSchedule; s != "" {
		jm.Add("compliance sweep", jobs.NewComplianceSweepJob(
			c.CreateGetSLAComplianceReportQueryHandler(), s, c.metrics, c.logger))
	}
	return jm
}

type FuncReservationUoWFactory func() commands.ReservationUoW

func (f FuncReservationUoWFactory) Create() commands.ReservationUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}
