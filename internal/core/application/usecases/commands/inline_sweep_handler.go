package commands

import (
	"context"
	"time"

	"orderdispatch/internal/core/domain/model/order"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

// InlineSweepHandler carries out a sweep step by step against the store,
// the ledger and the candidate selector.
//
// For every pending order it:
//   - revokes an offer older than the offer timeout, recording a timeout
//     rejection in the same transaction, then tries to offer the order again
//     in the same pass
//   - offers an order unassigned for longer than the assignment timeout to a
//     driver outside its exclusion set
//   - rejects such an order when no candidate remains
//
// Orders are independent: each mutation is conditioned on the order's own
// state, so orders run in parallel up to the configured concurrency and
// overlapping sweeps are safe. A failing order becomes an error outcome and
// never stops the sweep.
//
// Example:
//
//	handler := NewInlineSweepHandler(uowFactory, selector, notifier, WithConcurrency(8))
//	cmd, _ := NewSweepPendingOrdersCommand(time.Now(), services.DefaultPolicy())
//	report, err := handler.Handle(ctx, cmd)
type InlineSweepHandler struct {
	steps       dispatchSteps
	concurrency int
}

// NewInlineSweepHandler creates the inline assignment strategy.
func NewInlineSweepHandler(
	uowFactory UoWFactory,
	selector ports.CandidateSelector,
	notifier ports.DispatchNotifier,
	opts ...Option,
) InlineSweepHandler {
	o := applyOptions(opts)

	return InlineSweepHandler{
		steps: dispatchSteps{
			uowFactory: uowFactory,
			selector:   selector,
			notifier:   notifier,
			dispatcher: services.NewOrderDispatcher(),
			logger:     o.logger.With("component", "InlineSweepHandler"),
		},
		concurrency: o.concurrency,
	}
}

func (h InlineSweepHandler) Mode() sweep.Mode {
	return sweep.ModeInline
}

// Handle runs one sweep at command.Now().
// The returned error is non-nil only for an unconstructed command. A store
// that cannot list pending orders yields a report with Failure set.
// When ctx ends mid-sweep, unprocessed orders are reported as still pending.
// Orders the store could not restore become error outcomes.
func (h InlineSweepHandler) Handle(ctx context.Context, command SweepPendingOrdersCommand) (sweep.Report, error) {
	if err := command.Validate(); err != nil {
		return sweep.Report{}, err
	}

	now := command.Now()

	orders, unreadable, err := h.steps.uowFactory.Create().OrderRepository().FetchPending(ctx)
	if err != nil {
		h.steps.logger.ErrorContext(ctx, "failed to fetch pending orders", "error", err)
		return sweep.FailedReport(sweep.ModeInline, now, errs.NewCollaboratorError("order store", err)), nil
	}

	outcomes := make([]sweep.Outcome, len(orders), len(orders)+len(unreadable))

	var g errgroup.Group
	g.SetLimit(h.concurrency)

	for i, o := range orders {
		g.Go(func() error {
			outcomes[i] = h.processOrder(ctx, o, now, command.Policy())
			return nil
		})
	}

	_ = g.Wait()

	outcomes = append(outcomes, h.steps.unreadable(ctx, unreadable)...)

	return sweep.NewReport(sweep.ModeInline, now, outcomes), nil
}

func (h InlineSweepHandler) processOrder(
	ctx context.Context,
	o *order.Order,
	now time.Time,
	policy services.Policy,
) sweep.Outcome {
	if ctx.Err() != nil {
		return sweep.Pending(o.ID())
	}

	decision, err := h.steps.dispatcher.Classify(o, now, policy)
	if err != nil {
		return h.steps.failed(ctx, o.ID(), err)
	}

	switch decision.Action {
	case services.Wait:
		return sweep.Pending(o.ID())

	case services.RevokeStaleOffer:
		freed, releaseErr := h.steps.releaseStaleOffer(ctx, o, decision.StaleDriverID, now)
		if releaseErr != nil {
			return h.steps.failed(ctx, o.ID(), releaseErr)
		}
		if !freed {
			return sweep.Pending(o.ID())
		}

		// Mirror the committed revoke so the retry below sees a fresh clock.
		if err = o.RevokeOffer(decision.StaleDriverID, now); err != nil {
			return h.steps.failed(ctx, o.ID(), err)
		}
		return h.offerOrReject(ctx, o, now, policy)

	case services.Offer:
		return h.offerOrReject(ctx, o, now, policy)
	}

	return sweep.Pending(o.ID())
}

func (h InlineSweepHandler) offerOrReject(
	ctx context.Context,
	o *order.Order,
	now time.Time,
	policy services.Policy,
) sweep.Outcome {
	excluded, err := h.steps.excludedDrivers(ctx, o.ID())
	if err != nil {
		return h.steps.failed(ctx, o.ID(), err)
	}

	candidate, found, err := h.steps.selectCandidate(ctx, o, excluded)
	if err != nil {
		return h.steps.failed(ctx, o.ID(), err)
	}

	if found {
		return h.steps.offer(ctx, o, candidate, now)
	}

	if !h.steps.dispatcher.ShouldRejectWithoutCandidate(o, now, policy) {
		return sweep.Pending(o.ID())
	}

	return h.steps.reject(ctx, o, now)
}
