package commands

import (
	"errors"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/pkg/errs"
	"orderdispatch/internal/pkg/guard"
)

var ErrRecordDriverDeclineCommandIsNotConstructed = errors.New(
	"RecordDriverDeclineCommand must be created via NewRecordDriverDeclineCommand constructor",
)

// RecordDriverDeclineCommand records that a driver turned an order down.
// It is the second entry point into the rejection ledger next to the sweep's
// timeout path.
//
// Example:
//
//	cmd, err := NewRecordDriverDeclineCommand(orderID, driverID, time.Now())
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type RecordDriverDeclineCommand struct {
	orderID  kernel.UUID
	driverID kernel.UUID
	now      time.Time
	guard    guard.ConstructorGuard
}

func NewRecordDriverDeclineCommand(orderID, driverID kernel.UUID, now time.Time) (RecordDriverDeclineCommand, error) {
	var nowErr error
	if now.IsZero() {
		nowErr = errs.NewValueIsRequiredError("now")
	}

	if err := errors.Join(
		wrapRequired("orderId", orderID.Validate()),
		wrapRequired("driverId", driverID.Validate()),
		nowErr,
	); err != nil {
		return RecordDriverDeclineCommand{}, err
	}

	return RecordDriverDeclineCommand{
		orderID:  orderID,
		driverID: driverID,
		now:      now,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecordDriverDeclineCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordDriverDeclineCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c RecordDriverDeclineCommand) Now() time.Time {
	return c.now
}

func (c RecordDriverDeclineCommand) Validate() error {
	return c.guard.Validate(ErrRecordDriverDeclineCommandIsNotConstructed)
}

func wrapRequired(param string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(param, err)
}
