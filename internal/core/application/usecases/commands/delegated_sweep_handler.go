package commands

import (
	"context"

	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"
)

// DelegatedSweepHandler hands a whole sweep to the store's combined
// assign-or-reassign procedure and reports its per-order results in the
// same shape as InlineSweepHandler.
type DelegatedSweepHandler struct {
	procedure ports.PendingOrdersProcedure
	steps     dispatchSteps
}

func NewDelegatedSweepHandler(
	procedure ports.PendingOrdersProcedure,
	notifier ports.DispatchNotifier,
	opts ...Option,
) DelegatedSweepHandler {
	o := applyOptions(opts)

	return DelegatedSweepHandler{
		procedure: procedure,
		steps: dispatchSteps{
			notifier: notifier,
			logger:   o.logger.With("component", "DelegatedSweepHandler"),
		},
	}
}

func (h DelegatedSweepHandler) Mode() sweep.Mode {
	return sweep.ModeDelegated
}

// Handle calls the procedure once. A procedure failure yields a report with
// Failure set; the error return is reserved for an unconstructed command.
func (h DelegatedSweepHandler) Handle(ctx context.Context, command SweepPendingOrdersCommand) (sweep.Report, error) {
	if err := command.Validate(); err != nil {
		return sweep.Report{}, err
	}

	now := command.Now()

	results, err := h.procedure.AssignOrReassignAllPending(ctx, now, command.Policy())
	if err != nil {
		h.steps.logger.ErrorContext(ctx, "assign-or-reassign procedure failed", "error", err)
		return sweep.FailedReport(sweep.ModeDelegated, now, errs.NewCollaboratorError("assign-or-reassign procedure", err)), nil
	}

	outcomes := make([]sweep.Outcome, 0, len(results))
	events := make([]ports.DispatchEvent, 0, len(results))
	for _, o := range results {
		outcomes = append(outcomes, o.Outcome)

		if o.RevokedDriverID != nil {
			events = append(events, ports.DispatchEvent{
				Type:       ports.OrderOfferRevoked,
				OrderID:    o.OrderID,
				DriverID:   o.RevokedDriverID,
				OccurredAt: now,
			})
		}

		switch o.Kind {
		case sweep.Assigned:
			events = append(events, ports.DispatchEvent{
				Type:       ports.OrderOffered,
				OrderID:    o.OrderID,
				DriverID:   o.DriverID,
				OccurredAt: now,
			})
		case sweep.Rejected:
			events = append(events, ports.DispatchEvent{
				Type:       ports.OrderRejected,
				OrderID:    o.OrderID,
				OccurredAt: now,
			})
		case sweep.StillPending, sweep.Error:
		}
	}
	h.steps.publish(ctx, events...)

	return sweep.NewReport(sweep.ModeDelegated, now, outcomes), nil
}
