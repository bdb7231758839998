package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"
	"orderdispatch/internal/core/domain/model/rejection"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"
)

// dispatchSteps holds the per-order steps shared by the inline sweep and the
// auto-reject pass. Every step is a single conditional update, or a ledger
// append plus a conditional update in one transaction. No lock is held
// across collaborator calls.
type dispatchSteps struct {
	uowFactory UoWFactory
	selector   ports.CandidateSelector
	notifier   ports.DispatchNotifier
	dispatcher services.OrderDispatcher
	logger     *slog.Logger
}

// releaseStaleOffer appends a timeout rejection for staleDriverID and clears
// the driver, in one transaction. It returns false without error when the
// order changed underneath (accepted, cancelled, re-offered).
func (s dispatchSteps) releaseStaleOffer(
	ctx context.Context,
	o *order.Order,
	staleDriverID kernel.UUID,
	now time.Time,
) (bool, error) {
	record, err := rejection.NewRecord(o.ID(), staleDriverID, rejection.Timeout, now)
	if err != nil {
		return false, err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, errs.NewCollaboratorError("order store", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RejectionLedger().Append(ctx, record); err != nil {
		return false, errs.NewCollaboratorError("rejection ledger", err)
	}

	err = uow.OrderRepository().TryClearDriver(ctx, o.ID(), staleDriverID, now)
	if errors.Is(err, errs.ErrPreconditionFailed) {
		s.logger.DebugContext(ctx, "stale offer already resolved",
			"orderId", o.ID().String(), "driverId", staleDriverID.String())
		return false, nil
	}
	if err != nil {
		return false, errs.NewCollaboratorError("order store", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return false, errs.NewCollaboratorError("order store", err)
	}

	s.publish(ctx, ports.DispatchEvent{
		Type:       ports.OrderOfferRevoked,
		OrderID:    o.ID(),
		DriverID:   &staleDriverID,
		OccurredAt: now,
	})

	return true, nil
}

// excludedDrivers reads the exclusion set of an order from the ledger.
func (s dispatchSteps) excludedDrivers(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	excluded, err := s.uowFactory.Create().RejectionLedger().ListDriversForOrder(ctx, orderID)
	if err != nil {
		return nil, errs.NewCollaboratorError("rejection ledger", err)
	}
	return excluded, nil
}

// selectCandidate asks the selector for a driver outside the exclusion set.
func (s dispatchSteps) selectCandidate(
	ctx context.Context,
	o *order.Order,
	excluded []kernel.UUID,
) (kernel.UUID, bool, error) {
	candidate, found, err := s.selector.SelectCandidateDriver(ctx, o, excluded)
	if err != nil {
		return kernel.UUID{}, false, errs.NewCollaboratorError("candidate selector", err)
	}
	if !found {
		return kernel.UUID{}, false, nil
	}

	if err = s.dispatcher.CheckCandidate(candidate, excluded); err != nil {
		return kernel.UUID{}, false, err
	}

	return candidate, true, nil
}

// offer assigns the candidate with a compare-and-swap. A lost race leaves
// the order pending for the next sweep.
func (s dispatchSteps) offer(ctx context.Context, o *order.Order, driverID kernel.UUID, now time.Time) sweep.Outcome {
	err := s.uowFactory.Create().OrderRepository().TryAssignDriver(ctx, o.ID(), driverID, now)
	if errors.Is(err, errs.ErrPreconditionFailed) {
		s.logger.DebugContext(ctx, "offer lost to a concurrent update", "orderId", o.ID().String())
		return sweep.Pending(o.ID())
	}
	if err != nil {
		return s.failed(ctx, o.ID(), errs.NewCollaboratorError("order store", err))
	}

	s.publish(ctx, ports.DispatchEvent{
		Type:       ports.OrderOffered,
		OrderID:    o.ID(),
		DriverID:   &driverID,
		Location:   o.PickupLocation(),
		OccurredAt: now,
	})

	return sweep.AssignedTo(o.ID(), driverID)
}

// reject finalizes an order nobody can take.
func (s dispatchSteps) reject(ctx context.Context, o *order.Order, now time.Time) sweep.Outcome {
	err := s.uowFactory.Create().OrderRepository().TryRejectOrder(ctx, o.ID(), o.OfferRevokedAt())
	if errors.Is(err, errs.ErrPreconditionFailed) {
		s.logger.DebugContext(ctx, "rejection lost to a concurrent update", "orderId", o.ID().String())
		return sweep.Pending(o.ID())
	}
	if err != nil {
		return s.failed(ctx, o.ID(), errs.NewCollaboratorError("order store", err))
	}

	s.publish(ctx, ports.DispatchEvent{
		Type:       ports.OrderRejected,
		OrderID:    o.ID(),
		OccurredAt: now,
	})

	return sweep.RejectedOrder(o.ID())
}

func (s dispatchSteps) failed(ctx context.Context, orderID kernel.UUID, err error) sweep.Outcome {
	s.logger.WarnContext(ctx, "order left for next sweep", "orderId", orderID.String(), "error", err)
	return sweep.Failed(orderID, err)
}

// unreadable turns orders the store could not restore into error outcomes.
func (s dispatchSteps) unreadable(ctx context.Context, rows []ports.UnreadableOrder) []sweep.Outcome {
	outcomes := make([]sweep.Outcome, 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, s.failed(ctx, row.OrderID, row.Err))
	}
	return outcomes
}

func (s dispatchSteps) publish(ctx context.Context, events ...ports.DispatchEvent) {
	if s.notifier == nil || len(events) == 0 {
		return
	}
	if err := s.notifier.Publish(ctx, events...); err != nil {
		s.logger.WarnContext(ctx, "failed to publish dispatch events", "count", len(events), "error", err)
	}
}
