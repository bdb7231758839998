package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// SweepRunner is satisfied by every commands.AssignmentStrategy.
type SweepRunner interface {
	Handle(ctx context.Context, command commands.SweepPendingOrdersCommand) (sweep.Report, error)
}

// DispatchSweepJob runs one dispatch sweep per cron tick.
// Ticks may overlap; the store's conditional updates keep concurrent sweeps safe.
type DispatchSweepJob struct {
	runner   SweepRunner
	policy   services.Policy
	schedule string
	deadline time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewDispatchSweepJob(
	runner SweepRunner,
	policy services.Policy,
	schedule string,
	deadline time.Duration,
	logger *slog.Logger,
) *DispatchSweepJob {
	return &DispatchSweepJob{
		runner:   runner,
		policy:   policy,
		schedule: schedule,
		deadline: deadline,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "dispatch_sweep_job"),
	}
}

// Start registers the sweep with the configured schedule.
func (j *DispatchSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch sweep job started", "schedule", j.schedule)
	return nil
}

// Run performs a single sweep bounded by the job deadline.
func (j *DispatchSweepJob) Run(ctx context.Context) {
	ctx, cancel := withDeadline(ctx, j.deadline)
	defer cancel()

	cmd, err := commands.NewSweepPendingOrdersCommand(j.now(), j.policy)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch sweep command is invalid", "error", err)
		return
	}

	report, err := j.runner.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch sweep failed", "error", err)
		return
	}

	logReport(ctx, j.logger, report)
}

// Stop stops the dispatch sweep job.
func (j *DispatchSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch sweep job stopped")
}

func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func logReport(ctx context.Context, logger *slog.Logger, report sweep.Report) {
	if report.Failure != "" {
		logger.ErrorContext(ctx, "Pass could not run", "mode", report.Mode, "failure", report.Failure)
		return
	}

	if report.Checked == 0 {
		return
	}

	level := slog.LevelInfo
	if report.Errors > 0 {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "Pass finished",
		"mode", report.Mode,
		"checked", report.Checked,
		"assigned", report.Assigned,
		"rejected", report.Rejected,
		"still_pending", report.StillPending(),
		"errors", report.Errors,
	)
}
