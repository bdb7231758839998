package commands

import (
	"context"

	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"
)

// RejectExpiredOrdersCommandHandler runs the narrow auto-reject pass: an
// unassigned order past its assignment timeout is rejected when the selector
// has no candidate for it. Orders with a candidate are left for the sweep,
// and offered orders are never touched.
type RejectExpiredOrdersCommandHandler struct {
	steps dispatchSteps
}

func NewRejectExpiredOrdersCommandHandler(
	uowFactory UoWFactory,
	selector ports.CandidateSelector,
	notifier ports.DispatchNotifier,
	opts ...Option,
) RejectExpiredOrdersCommandHandler {
	o := applyOptions(opts)

	return RejectExpiredOrdersCommandHandler{
		steps: dispatchSteps{
			uowFactory: uowFactory,
			selector:   selector,
			notifier:   notifier,
			dispatcher: services.NewOrderDispatcher(),
			logger:     o.logger.With("component", "RejectExpiredOrdersCommandHandler"),
		},
	}
}

func (h RejectExpiredOrdersCommandHandler) Handle(
	ctx context.Context,
	command RejectExpiredOrdersCommand,
) (sweep.Report, error) {
	if err := command.Validate(); err != nil {
		return sweep.Report{}, err
	}

	now := command.Now()

	orders, unreadable, err := h.steps.uowFactory.Create().OrderRepository().FetchPending(ctx)
	if err != nil {
		return sweep.FailedReport(sweep.ModeRejectExpired, now, errs.NewCollaboratorError("order store", err)), nil
	}

	outcomes := make([]sweep.Outcome, 0, len(orders)+len(unreadable))
	for _, o := range orders {
		if ctx.Err() != nil {
			outcomes = append(outcomes, sweep.Pending(o.ID()))
			continue
		}

		decision, classifyErr := h.steps.dispatcher.Classify(o, now, command.Policy())
		if classifyErr != nil {
			outcomes = append(outcomes, h.steps.failed(ctx, o.ID(), classifyErr))
			continue
		}
		if decision.Action != services.Offer {
			outcomes = append(outcomes, sweep.Pending(o.ID()))
			continue
		}

		excluded, ledgerErr := h.steps.excludedDrivers(ctx, o.ID())
		if ledgerErr != nil {
			outcomes = append(outcomes, h.steps.failed(ctx, o.ID(), ledgerErr))
			continue
		}

		_, found, selectErr := h.steps.selectCandidate(ctx, o, excluded)
		if selectErr != nil {
			outcomes = append(outcomes, h.steps.failed(ctx, o.ID(), selectErr))
			continue
		}
		if found {
			outcomes = append(outcomes, sweep.Pending(o.ID()))
			continue
		}

		outcomes = append(outcomes, h.steps.reject(ctx, o, now))
	}

	outcomes = append(outcomes, h.steps.unreadable(ctx, unreadable)...)

	return sweep.NewReport(sweep.ModeRejectExpired, now, outcomes), nil
}
