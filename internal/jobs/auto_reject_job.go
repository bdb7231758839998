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

type RejectRunner interface {
	Handle(ctx context.Context, command commands.RejectExpiredOrdersCommand) (sweep.Report, error)
}

// AutoRejectJob rejects expired orders nobody can take. It never offers.
type AutoRejectJob struct {
	runner   RejectRunner
	policy   services.Policy
	schedule string
	deadline time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewAutoRejectJob(
	runner RejectRunner,
	policy services.Policy,
	schedule string,
	deadline time.Duration,
	logger *slog.Logger,
) *AutoRejectJob {
	return &AutoRejectJob{
		runner:   runner,
		policy:   policy,
		schedule: schedule,
		deadline: deadline,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "auto_reject_job"),
	}
}

func (j *AutoRejectJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto reject job started", "schedule", j.schedule)
	return nil
}

func (j *AutoRejectJob) Run(ctx context.Context) {
	ctx, cancel := withDeadline(ctx, j.deadline)
	defer cancel()

	cmd, err := commands.NewRejectExpiredOrdersCommand(j.now(), j.policy)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto reject command is invalid", "error", err)
		return
	}

	report, err := j.runner.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto reject failed", "error", err)
		return
	}

	logReport(ctx, j.logger, report)
}

func (j *AutoRejectJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto reject job stopped")
}
