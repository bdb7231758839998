package commands

import (
	"context"
)

// UpdateCustomerLocationCommandHandler stores a customer's new position and
// flags the order so the offered driver gets notified.
type UpdateCustomerLocationCommandHandler struct {
	uowFactory UoWFactory
}

func NewUpdateCustomerLocationCommandHandler(uowFactory UoWFactory) UpdateCustomerLocationCommandHandler {
	return UpdateCustomerLocationCommandHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound for unknown orders and
// errs.ErrPreconditionFailed for orders that already left dispatch.
func (h UpdateCustomerLocationCommandHandler) Handle(ctx context.Context, command UpdateCustomerLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.uowFactory.Create().OrderRepository().UpdateCustomerLocation(ctx, command.OrderID(), command.Location())
}
