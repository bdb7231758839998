package commands

import (
	"errors"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/pkg/guard"
)

var ErrRemoveDriverCommandIsNotConstructed = errors.New(
	"RemoveDriverCommand must be created via NewRemoveDriverCommand constructor",
)

// RemoveDriverCommand takes a driver that went offline out of candidate selection.
// Offers already made to the driver are left to expire.
type RemoveDriverCommand struct {
	driverID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewRemoveDriverCommand(driverID kernel.UUID) (RemoveDriverCommand, error) {
	if err := wrapRequired("driverId", driverID.Validate()); err != nil {
		return RemoveDriverCommand{}, err
	}

	return RemoveDriverCommand{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c RemoveDriverCommand) Validate() error {
	return c.guard.Validate(ErrRemoveDriverCommandIsNotConstructed)
}
