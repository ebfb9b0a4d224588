package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/allocation"

	"github.com/robfig/cron/v3"
)

type PendingOrdersAllocator interface {
	Handle(ctx context.Context, command commands.AllocatePendingOrdersCommand) (commands.AllocatePendingOrdersResult, error)
}

// PendingAllocationJob allocates the backlog of CREATED orders on a schedule.
type PendingAllocationJob struct {
	handler   PendingOrdersAllocator
	schedule  string
	batchSize int
	config    allocation.Config
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewPendingAllocationJob(
	handler PendingOrdersAllocator,
	schedule string,
	batchSize int,
	config allocation.Config,
	logger *slog.Logger,
) *PendingAllocationJob {
	return &PendingAllocationJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		config:    config,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "pending_allocation_job"),
	}
}

func (j *PendingAllocationJob) Run(ctx context.Context) {
	cmd, err := commands.NewAllocatePendingOrdersCommand(j.batchSize, j.config)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pending allocation job failed", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pending allocation job failed", "error", err)
		return
	}
	if result.Allocated+result.Backordered+result.Failed == 0 {
		return
	}

	level := slog.LevelInfo
	if result.Failed > 0 {
		level = slog.LevelWarn
	}
	j.logger.Log(ctx, level, "Pending orders processed",
		"allocated", result.Allocated,
		"backordered", result.Backordered,
		"failed", result.Failed,
	)
}

func (j *PendingAllocationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending allocation job started", "schedule", j.schedule)
	return nil
}

func (j *PendingAllocationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Pending allocation job stopped")
}
