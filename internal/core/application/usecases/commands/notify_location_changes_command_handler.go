package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"
)

// NotifyLocationChangesResult counts one notification pass.
type NotifyLocationChangesResult struct {
	Notified int
	Skipped  int
	Failed   int
}

// NotifyLocationChangesCommandHandler tells offered drivers about customer
// location changes. Each order is marked notified with a conditional update
// after its event is published, so a re-offer in between is never marked on
// behalf of the previous driver.
type NotifyLocationChangesCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.DispatchNotifier
	logger     *slog.Logger
}

func NewNotifyLocationChangesCommandHandler(
	uowFactory UoWFactory,
	notifier ports.DispatchNotifier,
	opts ...Option,
) NotifyLocationChangesCommandHandler {
	o := applyOptions(opts)

	return NotifyLocationChangesCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     o.logger.With("component", "NotifyLocationChangesCommandHandler"),
	}
}

func (h NotifyLocationChangesCommandHandler) Handle(
	ctx context.Context,
	command NotifyLocationChangesCommand,
) (NotifyLocationChangesResult, error) {
	var result NotifyLocationChangesResult

	if err := command.Validate(); err != nil {
		return result, err
	}

	orderRepo := h.uowFactory.Create().OrderRepository()

	orders, unreadable, err := orderRepo.FetchUnnotifiedOffered(ctx)
	if err != nil {
		return result, err
	}

	for _, row := range unreadable {
		h.logger.WarnContext(ctx, "skipping unreadable order", "orderId", row.OrderID.String(), "error", row.Err)
		result.Failed++
	}

	for _, o := range orders {
		driverID := o.DriverID()
		if driverID == nil || o.CustomerLocation() == nil {
			result.Skipped++
			continue
		}

		err = h.notifier.Publish(ctx, ports.DispatchEvent{
			Type:       ports.CustomerLocationChanged,
			OrderID:    o.ID(),
			DriverID:   driverID,
			Location:   o.CustomerLocation(),
			OccurredAt: command.Now(),
		})
		if err != nil {
			h.logger.WarnContext(ctx, "failed to notify driver of location change",
				"orderId", o.ID().String(), "error", err)
			result.Failed++
			continue
		}

		err = orderRepo.TryMarkDriverNotified(ctx, o.ID(), *driverID)
		switch {
		case errors.Is(err, errs.ErrPreconditionFailed):
			result.Skipped++
		case err != nil:
			h.logger.WarnContext(ctx, "failed to mark driver notified", "orderId", o.ID().String(), "error", err)
			result.Failed++
		default:
			result.Notified++
		}
	}

	return result, nil
}
