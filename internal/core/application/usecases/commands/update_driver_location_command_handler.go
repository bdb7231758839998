package commands

import (
	"context"
	"errors"

	"orderdispatch/internal/core/ports"
)

// UpdateDriverLocationCommandHandler writes driver positions into every
// index a candidate selector searches. All indexes are attempted; their
// errors are joined.
type UpdateDriverLocationCommandHandler struct {
	indexes []ports.DriverLocationIndex
}

func NewUpdateDriverLocationCommandHandler(indexes ...ports.DriverLocationIndex) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{indexes: indexes}
}

func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, command UpdateDriverLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	var errList []error
	for _, index := range h.indexes {
		if err := index.UpdateDriverLocation(ctx, command.DriverID(), command.Location()); err != nil {
			errList = append(errList, err)
		}
	}

	return errors.Join(errList...)
}

// HandleRemove drops the driver from every index.
func (h UpdateDriverLocationCommandHandler) HandleRemove(ctx context.Context, command RemoveDriverCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	var errList []error
	for _, index := range h.indexes {
		if err := index.RemoveDriver(ctx, command.DriverID()); err != nil {
			errList = append(errList, err)
		}
	}

	return errors.Join(errList...)
}
