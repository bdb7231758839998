package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdispatch/cmd"
	httpin "orderdispatch/internal/adapters/in/http"
	"orderdispatch/internal/adapters/out/kafkanotifier"
	"orderdispatch/internal/adapters/out/postgres"
	"orderdispatch/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = postgres.Migrate(ctx, gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
	defer redisClient.Close()

	if err = redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	notifier := kafkanotifier.NewNotifier(kafkanotifier.NewWriter(configs.KafkaBrokers, configs.KafkaDispatchTopic))
	defer notifier.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sweepMetrics, err := metrics.NewSweepMetrics(registry)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, notifier, sweepMetrics, logger)
	strategy := app.CreateAssignmentStrategy()

	jobManager := app.CreateJobManager(strategy)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	logger.InfoContext(ctx, "Dispatcher started", "strategy", strategy.Mode(), "policy", configs.Policy)

	startWebServer(ctx, app, strategy, registry, logger, configs)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func startWebServer(
	ctx context.Context,
	app cmd.CompositionRoot,
	strategy httpin.SweepHandler,
	registry *prometheus.Registry,
	logger *slog.Logger,
	configs cmd.Config,
) {
	server := httpin.NewServer(httpin.Handlers{
		Sweep:            strategy,
		RejectExpired:    app.CreateRejectExpiredOrdersCommandHandler(),
		Decline:          app.CreateRecordDriverDeclineCommandHandler(),
		CustomerLocation: app.CreateUpdateCustomerLocationCommandHandler(),
		DriverLocation:   app.CreateUpdateDriverLocationCommandHandler(),
		PendingOrders:    app.CreateGetPendingOrdersQueryHandler(),
		OrderRejections:  app.CreateGetOrderRejectionsQueryHandler(),
	}, configs.Policy)

	e, err := httpin.NewRouter(server, registry, logger)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("HTTP shutdown failed", "error", shutdownErr)
		}
	}()

	if err = e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
