package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/order"

	"golang.org/x/sync/errgroup"
)

const DefaultAllocationWorkers = 4

// OrderAllocator plans and holds one order. AllocateOrderCommandHandler implements it.
type OrderAllocator interface {
	Handle(ctx context.Context, command AllocateOrderCommand) (AllocateOrderResult, error)
}

// AllocationReleaser cancels a hold. ReleaseAllocationCommandHandler implements it.
type AllocationReleaser interface {
	Handle(ctx context.Context, command ReleaseAllocationCommand) error
}

type AllocatePendingOrdersResult struct {
	Allocated   int
	Backordered int
	Failed      int
}

// AllocatePendingOrdersCommandHandler works through the backlog of CREATED orders
// with a bounded pool of workers.
//
// A fully sourced order has its reservation confirmed and moves to ALLOCATED with
// the promise delay of its deepest hop. An order with any shortfall, or an
// unserviceable destination, has its hold released and stays CREATED so the next
// run tries again. One order failing does not stop the others.
type AllocatePendingOrdersCommandHandler struct {
	uowFactory UoWFactory
	allocator  OrderAllocator
	releaser   AllocationReleaser
	workers    int
	logger     *slog.Logger
	now        func() time.Time
}

func NewAllocatePendingOrdersCommandHandler(
	uowFactory UoWFactory,
	allocator OrderAllocator,
	releaser AllocationReleaser,
	workers int,
	logger *slog.Logger,
) AllocatePendingOrdersCommandHandler {
	if workers <= 0 {
		workers = DefaultAllocationWorkers
	}
	return AllocatePendingOrdersCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		releaser:   releaser,
		workers:    workers,
		logger:     logger.With("component", "allocate_pending_orders"),
		now:        time.Now,
	}
}

func (h AllocatePendingOrdersCommandHandler) Handle(
	ctx context.Context,
	command AllocatePendingOrdersCommand,
) (AllocatePendingOrdersResult, error) {
	if err := command.Validate(); err != nil {
		return AllocatePendingOrdersResult{}, err
	}

	pending, err := h.pendingOrders(ctx, command.BatchSize())
	if err != nil {
		return AllocatePendingOrdersResult{}, err
	}

	var (
		mu       sync.Mutex
		result   AllocatePendingOrdersResult
		failures []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)
	for _, o := range pending {
		g.Go(func() error {
			allocated, err := h.allocateOne(gctx, o, command.Config())

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				failures = append(failures, fmt.Errorf("order %s: %w", o.ID(), err))
			case allocated:
				result.Allocated++
			default:
				result.Backordered++
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		h.logger.WarnContext(ctx, "Some pending orders could not be allocated",
			"failed", result.Failed, "allocated", result.Allocated, "backordered", result.Backordered)
	}
	return result, errors.Join(failures...)
}

func (h AllocatePendingOrdersCommandHandler) pendingOrders(ctx context.Context, limit int) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetAllInStatus(ctx, order.Created, limit)
}

// allocateOne reports whether the order was fully allocated.
func (h AllocatePendingOrdersCommandHandler) allocateOne(
	ctx context.Context,
	o *order.Order,
	config allocation.Config,
) (bool, error) {
	cmd, err := NewAllocateOrderCommand(allocation.Request{
		OrderID:     o.ID().String(),
		Lines:       o.Lines(),
		Destination: o.Destination(),
		OrderType:   o.Type(),
		PlacedAt:    o.PlacedAt(),
		Config:      config,
	})
	if err != nil {
		return false, err
	}

	res, err := h.allocator.Handle(ctx, cmd)
	if err != nil {
		return false, err
	}

	if !res.Plan.DestinationServiceable || res.Plan.HasShortfall() {
		return false, h.release(ctx, res)
	}

	if err = h.finalize(ctx, o, res, config); err != nil {
		return false, errors.Join(err, h.release(ctx, res))
	}
	return true, nil
}

func (h AllocatePendingOrdersCommandHandler) release(ctx context.Context, res AllocateOrderResult) error {
	if res.Reservation == nil {
		return nil
	}
	cmd, err := NewReleaseAllocationCommand(res.Reservation.ID())
	if err != nil {
		return err
	}
	return h.releaser.Handle(ctx, cmd)
}

// finalize confirms the hold and marks the order ALLOCATED in one transaction.
func (h AllocatePendingOrdersCommandHandler) finalize(
	ctx context.Context,
	o *order.Order,
	res AllocateOrderResult,
	config allocation.Config,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if res.Reservation != nil {
		reservationRepo := uow.ReservationRepository()
		reservation, err := reservationRepo.Get(ctx, res.Reservation.ID())
		if err != nil {
			return err
		}
		if err = reservation.Confirm(h.now()); err != nil {
			return err
		}
		if err = reservationRepo.Update(ctx, reservation); err != nil {
			return err
		}
	}

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, o.ID())
	if err != nil {
		return err
	}
	if err = current.MarkAllocated(res.Plan.MaxHopLevel() * config.DelayDaysPerHop); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, current); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
