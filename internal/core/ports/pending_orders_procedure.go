package ports

import (
	"context"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
)

// ProcedureResult is the procedure's verdict on one order. RevokedDriverID is
// set when the pass took a stale offer back from that driver before deciding.
type ProcedureResult struct {
	sweep.Outcome
	RevokedDriverID *kernel.UUID
}

// PendingOrdersProcedure is the store's combined assign-or-reassign
// operation. When configured, the dispatcher delegates a whole sweep to it.
type PendingOrdersProcedure interface {
	AssignOrReassignAllPending(ctx context.Context, now time.Time, policy services.Policy) ([]ProcedureResult, error)
}
