package commands

import (
	"context"
	"fmt"
	"log/slog"

	"orderdispatch/internal/core/domain/model/sweep"
)

// AssignmentStrategy runs one sweep. It is chosen once at startup: either
// InlineSweepHandler, which carries out every step itself, or
// DelegatedSweepHandler, which hands the whole pass to the store.
type AssignmentStrategy interface {
	Mode() sweep.Mode
	Handle(ctx context.Context, command SweepPendingOrdersCommand) (sweep.Report, error)
}

// ParseMode maps configuration text to a strategy mode.
func ParseMode(s string) (sweep.Mode, error) {
	switch m := sweep.Mode(s); m {
	case sweep.ModeInline, sweep.ModeDelegated:
		return m, nil
	default:
		return "", fmt.Errorf("unknown dispatch strategy %q, expected %q or %q", s, sweep.ModeInline, sweep.ModeDelegated)
	}
}

// Option configures the sweep handlers.
type Option func(*options)

type options struct {
	concurrency int
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		concurrency: 1,
		logger:      slog.Default(),
	}
}

// WithConcurrency bounds how many orders one sweep processes at a time.
// Values below one are treated as one.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.concurrency = n
	}
}

// WithLogger sets the logger. The handlers add their own component attribute.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
