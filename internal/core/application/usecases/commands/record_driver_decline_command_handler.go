package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderdispatch/internal/core/domain/model/rejection"
	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"
)

// RecordDriverDeclineCommandHandler appends a declined rejection and, when
// the declining driver is still the one offered, clears the offer in the
// same transaction so the next sweep can re-offer the order elsewhere.
//
// Example:
//
//	handler := NewRecordDriverDeclineCommandHandler(uowFactory, notifier)
//	cmd, _ := NewRecordDriverDeclineCommand(orderID, driverID, time.Now())
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type RecordDriverDeclineCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.DispatchNotifier
	logger     *slog.Logger
}

func NewRecordDriverDeclineCommandHandler(
	uowFactory UoWFactory,
	notifier ports.DispatchNotifier,
	opts ...Option,
) RecordDriverDeclineCommandHandler {
	o := applyOptions(opts)

	return RecordDriverDeclineCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     o.logger.With("component", "RecordDriverDeclineCommandHandler"),
	}
}

func (h RecordDriverDeclineCommandHandler) Handle(ctx context.Context, command RecordDriverDeclineCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	record, err := rejection.NewRecord(command.OrderID(), command.DriverID(), rejection.Declined, command.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = uow.RejectionLedger().Append(ctx, record); err != nil {
		return err
	}

	revoked := false
	if o.IsOfferedTo(command.DriverID()) {
		err = orderRepo.TryClearDriver(ctx, command.OrderID(), command.DriverID(), command.Now())
		switch {
		case errors.Is(err, errs.ErrPreconditionFailed):
		case err != nil:
			return err
		default:
			revoked = true
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if revoked && h.notifier != nil {
		driverID := command.DriverID()
		err = h.notifier.Publish(ctx, ports.DispatchEvent{
			Type:       ports.OrderOfferRevoked,
			OrderID:    command.OrderID(),
			DriverID:   &driverID,
			OccurredAt: command.Now(),
		})
		if err != nil {
			h.logger.WarnContext(ctx, "failed to publish dispatch events",
				"orderId", command.OrderID().String(), "count", 1, "error", err)
		}
	}

	return nil
}
