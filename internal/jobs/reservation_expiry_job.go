package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type ExpiredReservationsReleaser interface {
	Handle(ctx context.Context, command commands.ReleaseExpiredReservationsCommand) (int, error)
}

// ReservationExpiryJob gives back the stock of holds whose TTL has passed.
type ReservationExpiryJob struct {
	handler   ExpiredReservationsReleaser
	schedule  string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewReservationExpiryJob(
	handler ExpiredReservationsReleaser,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *ReservationExpiryJob {
	if batchSize <= 0 {
		batchSize = commands.DefaultExpiryBatchSize
	}
	return &ReservationExpiryJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "reservation_expiry_job"),
	}
}

// Run expires batches until a batch comes back short, so a backlog is drained in one tick.
func (j *ReservationExpiryJob) Run(ctx context.Context) {
	total := 0
	for {
		cmd, err := commands.NewReleaseExpiredReservationsCommand(j.now(), j.batchSize)
		if err != nil {
			j.logger.ErrorContext(ctx, "Reservation expiry job failed", "error", err)
			return
		}
		released, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Reservation expiry job failed", "error", err, "released", total)
			return
		}
		total += released
		if released < j.batchSize {
			break
		}
	}
	if total > 0 {
		j.logger.InfoContext(ctx, "Expired reservations released", "count", total)
	}
}

func (j *ReservationExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation expiry job started", "schedule", j.schedule)
	return nil
}

func (j *ReservationExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reservation expiry job stopped")
}
