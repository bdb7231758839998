package cmd

import (
	"log/slog"

	"orderdispatch/internal/adapters/out/kafkanotifier"
	"orderdispatch/internal/adapters/out/postgres"
	"orderdispatch/internal/adapters/out/postgres/driverrepo"
	"orderdispatch/internal/adapters/out/redisgeo"
	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/application/usecases/queries"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/jobs"
	"orderdispatch/internal/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config       Config
	gormDB       *gorm.DB
	uowFactory   *postgres.GormUnitOfWorkFactory
	driverIndex  *redisgeo.DriverIndex
	positions    *driverrepo.GormDriverPositionRepository
	notifier     *kafkanotifier.Notifier
	sweepMetrics *metrics.SweepMetrics
	logger       *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient redis.UniversalClient,
	notifier *kafkanotifier.Notifier,
	sweepMetrics *metrics.SweepMetrics,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:       config,
		gormDB:       gormDB,
		uowFactory:   postgres.NewGormUnitOfWorkFactory(gormDB),
		driverIndex:  redisgeo.NewDriverIndex(redisClient, redisgeo.WithRadiusKm(config.SearchRadiusKm)),
		positions:    driverrepo.NewGormDriverPositionRepository(gormDB),
		notifier:     notifier,
		sweepMetrics: sweepMetrics,
		logger:       logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) handlerOptions() []commands.Option {
	return []commands.Option{
		commands.WithConcurrency(c.config.SweepConcurrency),
		commands.WithLogger(c.logger),
	}
}

// CreateAssignmentStrategy returns the configured strategy wrapped with metrics.
func (c *CompositionRoot) CreateAssignmentStrategy() commands.AssignmentStrategy {
	var strategy commands.AssignmentStrategy

	switch c.config.Strategy {
	case sweep.ModeDelegated:
		strategy = commands.NewDelegatedSweepHandler(
			postgres.NewGormPendingOrdersProcedure(c.gormDB),
			c.notifier,
			c.handlerOptions()...,
		)
	default:
		strategy = commands.NewInlineSweepHandler(c.uow(), c.driverIndex, c.notifier, c.handlerOptions()...)
	}

	return metrics.Instrument(strategy, c.sweepMetrics)
}

func (c *CompositionRoot) CreateRejectExpiredOrdersCommandHandler() commands.RejectExpiredOrdersCommandHandler {
	return commands.NewRejectExpiredOrdersCommandHandler(c.uow(), c.driverIndex, c.notifier, c.handlerOptions()...)
}

func (c *CompositionRoot) CreateRecordDriverDeclineCommandHandler() commands.RecordDriverDeclineCommandHandler {
	return commands.NewRecordDriverDeclineCommandHandler(c.uow(), c.notifier, commands.WithLogger(c.logger))
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.driverIndex, c.positions)
}

func (c *CompositionRoot) CreateUpdateCustomerLocationCommandHandler() commands.UpdateCustomerLocationCommandHandler {
	return commands.NewUpdateCustomerLocationCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateNotifyLocationChangesCommandHandler() commands.NotifyLocationChangesCommandHandler {
	return commands.NewNotifyLocationChangesCommandHandler(c.uow(), c.notifier, commands.WithLogger(c.logger))
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderRejectionsQueryHandler() queries.GetOrderRejectionsQueryHandler {
	return queries.NewGetOrderRejectionsQueryHandler(c.gormDB)
}

// CreateJobManager wires the scheduled passes. The auto-reject job is only
// added when a schedule is configured.
func (c *CompositionRoot) CreateJobManager(strategy commands.AssignmentStrategy) *jobs.JobManager {
	jm := jobs.NewJobManager().
		Add("dispatch sweep", jobs.NewDispatchSweepJob(
			strategy, c.config.Policy, c.config.SweepSchedule, c.config.SweepDeadline, c.logger)).
		Add("location notification", jobs.NewLocationNotificationJob(
			c.CreateNotifyLocationChangesCommandHandler(), c.config.LocationNotifyEvery, c.logger))

	if c.config.RejectSchedule != "" {
		jm.Add("auto reject", jobs.NewAutoRejectJob(
			c.CreateRejectExpiredOrdersCommandHandler(),
			c.config.Policy, c.config.RejectSchedule, c.config.SweepDeadline, c.logger))
	}

	return jm
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
