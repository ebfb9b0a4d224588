package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

const (
	DefaultReservationTTL = 15 * time.Minute
	DefaultMaxAttempts    = 3
)

// errStockMoved ends an attempt whose plan no longer matches the arena.
var errStockMoved = errors.New("planned stock is no longer available")

// ReservationPolicy bounds how long a hold lives and how often a lost race is re-planned.
type ReservationPolicy struct {
	TTL         time.Duration
	MaxAttempts int
}

func DefaultReservationPolicy() ReservationPolicy {
	return ReservationPolicy{TTL: DefaultReservationTTL, MaxAttempts: DefaultMaxAttempts}
}

// AllocateOrderResult is the plan that was held. Reservation is nil when the
// plan sources nothing.
type AllocateOrderResult struct {
	Plan        allocation.Plan
	Reservation *inventory.Reservation
}

// AllocateOrderCommandHandler plans an order and reserves the plan, item by item,
// with per-key compare-and-swap. Items are reserved in inventory.Key order so two
// transactions never wait on each other's rows in opposite order.
//
// When a reservation loses a race or finds the stock gone, everything reserved in
// that attempt is released and the order is re-planned from a fresh snapshot. After
// MaxAttempts it fails with errs.ResourceContentionError, which callers may retry.
type AllocateOrderCommandHandler struct {
	uowFactory ReservationUoWFactory
	warehouses ports.WarehouseDirectory
	planner    services.AllocationPlanner
	policy     ReservationPolicy
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

func NewAllocateOrderCommandHandler(
	uowFactory ReservationUoWFactory,
	warehouses ports.WarehouseDirectory,
	planner services.AllocationPlanner,
	policy ReservationPolicy,
	m *metrics.Metrics,
	logger *slog.Logger,
) AllocateOrderCommandHandler {
	if policy.TTL <= 0 {
		policy.TTL = DefaultReservationTTL
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	return AllocateOrderCommandHandler{
		uowFactory: uowFactory,
		warehouses: warehouses,
		planner:    planner,
		policy:     policy,
		metrics:    m,
		logger:     logger.With("component", "allocate_order"),
		now:        time.Now,
	}
}

func (h AllocateOrderCommandHandler) Handle(ctx context.Context, command AllocateOrderCommand) (AllocateOrderResult, error) {
	if err := command.Validate(); err != nil {
		return AllocateOrderResult{}, err
	}

	warehouses, err := h.warehouses.All(ctx)
	if err != nil {
		return AllocateOrderResult{}, err
	}

	var lastConflict error
	for attempt := 1; attempt <= h.policy.MaxAttempts; attempt++ {
		result, err := h.attempt(ctx, command, warehouses)
		if err == nil {
			h.metrics.RecordAllocation(outcomeOf(result.Plan))
			return result, nil
		}
		if !errors.Is(err, errs.ErrReservationConflict) && !errors.Is(err, errStockMoved) {
			h.metrics.RecordAllocation(metrics.OutcomeFailed)
			return AllocateOrderResult{}, err
		}

		lastConflict = err
		h.metrics.RecordReservationConflict()
		h.logger.DebugContext(ctx, "Re-planning after lost reservation race",
			"orderId", command.Request().OrderID, "attempt", attempt, "error", err)
	}

	h.metrics.RecordAllocation(metrics.OutcomeContention)
	return AllocateOrderResult{}, errs.NewResourceContentionError(
		"order "+command.Request().OrderID, h.policy.MaxAttempts, lastConflict)
}

func (h AllocateOrderCommandHandler) attempt(
	ctx context.Context,
	command AllocateOrderCommand,
	warehouses []inventory.Warehouse,
) (AllocateOrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AllocateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	inventoryRepo := uow.InventoryRepository()
	reservationRepo := uow.ReservationRepository()

	snapshot, err := inventoryRepo.Snapshot(ctx, command.SKUIDs())
	if err != nil {
		return AllocateOrderResult{}, err
	}

	plan, err := h.planner.Plan(ctx, command.Request(), warehouses, snapshot)
	if err != nil {
		return AllocateOrderResult{}, err
	}

	items := plan.ReservedItems()
	if len(items) == 0 {
		return AllocateOrderResult{Plan: plan}, uow.Commit(ctx)
	}
	slices.SortFunc(items, func(a, b inventory.ReservedItem) int {
		return a.Key().Compare(b.Key())
	})

	reserved := make([]inventory.ReservedItem, 0, len(items))
	for _, item := range items {
		ok, err := inventoryRepo.Reserve(ctx, item.Key(), item.Qty)
		if err == nil && !ok {
			err = fmt.Errorf("%w: %s of %s at %s", errStockMoved, qtyString(item.Qty), item.SKUID, item.WarehouseID)
		}
		if err != nil {
			if releaseErr := releaseItems(ctx, inventoryRepo, reserved); releaseErr != nil {
				return AllocateOrderResult{}, errors.Join(err, releaseErr)
			}
			return AllocateOrderResult{}, err
		}
		reserved = append(reserved, item)
	}

	reservation, err := inventory.NewReservation(kernel.NewUUID(), plan.OrderID, reserved, h.now(), h.policy.TTL)
	if err != nil {
		return AllocateOrderResult{}, err
	}
	if err = reservationRepo.Add(ctx, reservation); err != nil {
		return AllocateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AllocateOrderResult{}, err
	}

	return AllocateOrderResult{Plan: plan, Reservation: reservation}, nil
}

// releaseItems gives reserved quantities back to the arena.
func releaseItems(ctx context.Context, repo ports.InventoryRepository, items []inventory.ReservedItem) error {
	var problems []error
	for _, item := range items {
		if err := repo.Release(ctx, item.Key(), item.Qty); err != nil {
			problems = append(problems, fmt.Errorf("release %s at %s: %w", item.SKUID, item.WarehouseID, err))
		}
	}
	return errors.Join(problems...)
}

func outcomeOf(plan allocation.Plan) string {
	if !plan.DestinationServiceable || plan.HasShortfall() {
		return metrics.OutcomeBackordered
	}
	return metrics.OutcomeAllocated
}

func qtyString(qty int) string {
	if qty == 1 {
		return "1 unit"
	}
	return fmt.Sprintf("%d units", qty)
}
