package commands

import (
	"errors"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/pkg/guard"
)

var ErrUpdateCustomerLocationCommandIsNotConstructed = errors.New(
	"UpdateCustomerLocationCommand must be created via NewUpdateCustomerLocationCommand constructor",
)

// UpdateCustomerLocationCommand stores the customer's new position on the
// order. The offered driver is told about it by NotifyLocationChangesCommand.
type UpdateCustomerLocationCommand struct {
	orderID  kernel.UUID
	location kernel.Location
	guard    guard.ConstructorGuard
}

func NewUpdateCustomerLocationCommand(orderID kernel.UUID, location kernel.Location) (UpdateCustomerLocationCommand, error) {
	if err := errors.Join(
		wrapRequired("orderId", orderID.Validate()),
		location.Validate(),
	); err != nil {
		return UpdateCustomerLocationCommand{}, err
	}

	return UpdateCustomerLocationCommand{
		orderID:  orderID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCustomerLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateCustomerLocationCommand) Location() kernel.Location {
	return c.location
}

func (c UpdateCustomerLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCustomerLocationCommandIsNotConstructed)
}
