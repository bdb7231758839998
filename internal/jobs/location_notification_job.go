package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type NotifyRunner interface {
	Handle(
		ctx context.Context,
		command commands.NotifyLocationChangesCommand,
	) (commands.NotifyLocationChangesResult, error)
}

// LocationNotificationJob forwards customer location changes to offered drivers.
type LocationNotificationJob struct {
	runner   NotifyRunner
	schedule string
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewLocationNotificationJob(runner NotifyRunner, schedule string, logger *slog.Logger) *LocationNotificationJob {
	return &LocationNotificationJob{
		runner:   runner,
		schedule: schedule,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "location_notification_job"),
	}
}

func (j *LocationNotificationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Location notification job started", "schedule", j.schedule)
	return nil
}

func (j *LocationNotificationJob) Run(ctx context.Context) {
	cmd, err := commands.NewNotifyLocationChangesCommand(j.now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Location notification command is invalid", "error", err)
		return
	}

	result, err := j.runner.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Location notification failed", "error", err)
		return
	}

	if result.Notified > 0 || result.Failed > 0 {
		j.logger.InfoContext(ctx, "Location changes forwarded",
			"notified", result.Notified,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
}

func (j *LocationNotificationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Location notification job stopped")
}
