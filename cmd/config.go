package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr          string
	KafkaBrokers       []string
	KafkaDispatchTopic string

	Strategy            sweep.Mode
	Policy              services.Policy
	SweepSchedule       string
	SweepDeadline       time.Duration
	SweepConcurrency    int
	RejectSchedule      string
	SearchRadiusKm      float64
	LocationNotifyEvery string
}

// DSN builds the Postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the configuration through getenv, usually os.Getenv.
// Every invalid value is reported; the errors are joined.
func LoadConfig(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errList []error

	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(get(key, def))
		if err != nil {
			errList = append(errList, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}

	cfg := Config{
		HTTPPort:            get("HTTP_PORT", "8080"),
		DBHost:              get("DB_HOST", "localhost"),
		DBPort:              get("DB_PORT", "5432"),
		DBUser:              get("DB_USER", "postgres"),
		DBPassword:          get("DB_PASSWORD", ""),
		DBName:              get("DB_NAME", "dispatch"),
		DBSslMode:           get("DB_SSLMODE", "disable"),
		RedisAddr:           get("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:        splitList(get("KAFKA_BROKERS", "localhost:9092")),
		KafkaDispatchTopic:  get("KAFKA_DISPATCH_TOPIC", "dispatch.events"),
		SweepSchedule:       get("DISPATCH_SWEEP_SCHEDULE", "* * * * * *"),
		SweepDeadline:       duration("DISPATCH_SWEEP_DEADLINE", "5s"),
		RejectSchedule:      get("DISPATCH_REJECT_SCHEDULE", ""),
		LocationNotifyEvery: get("LOCATION_NOTIFY_SCHEDULE", "*/2 * * * * *"),
	}

	mode, err := commands.ParseMode(get("DISPATCH_STRATEGY", string(sweep.ModeInline)))
	if err != nil {
		errList = append(errList, fmt.Errorf("DISPATCH_STRATEGY: %w", err))
	}
	cfg.Strategy = mode

	policy, err := services.NewPolicy(
		duration("DISPATCH_ASSIGNMENT_TIMEOUT", services.DefaultAssignmentTimeout.String()),
		duration("DISPATCH_OFFER_TIMEOUT", services.DefaultOfferTimeout.String()),
	)
	if err != nil {
		errList = append(errList, err)
	}
	cfg.Policy = policy

	if cfg.SweepConcurrency, err = strconv.Atoi(get("DISPATCH_SWEEP_CONCURRENCY", "8")); err != nil {
		errList = append(errList, fmt.Errorf("DISPATCH_SWEEP_CONCURRENCY: %w", err))
	}

	if cfg.SearchRadiusKm, err = strconv.ParseFloat(get("DISPATCH_SEARCH_RADIUS_KM", "5"), 64); err != nil {
		errList = append(errList, fmt.Errorf("DISPATCH_SEARCH_RADIUS_KM: %w", err))
	}

	if len(cfg.KafkaBrokers) == 0 {
		errList = append(errList, errors.New("KAFKA_BROKERS: at least one broker is required"))
	}

	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
