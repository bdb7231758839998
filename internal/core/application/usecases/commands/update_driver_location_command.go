package commands

import (
	"errors"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand records a driver's latest position so the
// candidate selector can find them.
type UpdateDriverLocationCommand struct {
	driverID kernel.UUID
	location kernel.Location
	guard    guard.ConstructorGuard
}

func NewUpdateDriverLocationCommand(driverID kernel.UUID, location kernel.Location) (UpdateDriverLocationCommand, error) {
	if err := errors.Join(
		wrapRequired("driverId", driverID.Validate()),
		location.Validate(),
	); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return UpdateDriverLocationCommand{
		driverID: driverID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDriverLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDriverLocationCommand) Location() kernel.Location {
	return c.location
}

func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}
