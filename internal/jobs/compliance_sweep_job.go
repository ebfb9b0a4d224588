package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

var slaStatuses = []string{string(sla.OnTrack), string(sla.AtRisk), string(sla.Breached)}

type ComplianceReporter interface {
	Handle(ctx context.Context, query queries.GetSLAComplianceReportQuery) (queries.SLAComplianceReport, error)
}

// ComplianceSweepJob tracks every open order and publishes the per-status counts
// as the sla_orders gauge.
type ComplianceSweepJob struct {
	reporter ComplianceReporter
	schedule string
	metrics  *metrics.Metrics
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewComplianceSweepJob(
	reporter ComplianceReporter,
	schedule string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ComplianceSweepJob {
	return &ComplianceSweepJob{
		reporter: reporter,
		schedule: schedule,
		metrics:  m,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "compliance_sweep_job"),
	}
}

func (j *ComplianceSweepJob) Run(ctx context.Context) {
	query, err := queries.NewGetSLAComplianceReportQuery(j.now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Compliance sweep failed", "error", err)
		return
	}

	report, err := j.reporter.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Compliance sweep failed", "error", err)
		return
	}

	counts := make(map[string]int, len(report.Counts))
	for status, n := range report.Counts {
		counts[string(status)] = n
	}
	j.metrics.SetSLAOrders(slaStatuses, counts)

	for _, s := range report.Attention {
		if s.SLAStatus == sla.Breached {
			j.logger.WarnContext(ctx, "Order breached its promise",
				"order_id", s.OrderID, "delay_minutes", s.DelayMinutes)
		}
	}
	j.logger.DebugContext(ctx, "Compliance sweep finished",
		"tracked", report.Total(),
		"at_risk", report.Counts[sla.AtRisk],
		"breached", report.Counts[sla.Breached],
	)
}

func (j *ComplianceSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Compliance sweep job started", "schedule", j.schedule)
	return nil
}

func (j *ComplianceSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Compliance sweep job stopped")
}
