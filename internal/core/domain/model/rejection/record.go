package rejection

import (
	"errors"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/pkg/errs"
)

// ErrRecordIsNotConstructed is returned for a Record not built by NewRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

// Record is one (order, driver, reason) entry of the ledger.
// Records are never updated or deleted.
type Record struct {
	orderID   kernel.UUID
	driverID  kernel.UUID
	reason    Reason
	createdAt time.Time

	isConstructed bool
}

// NewRecord validates and builds a ledger entry.
//
// Example:
//
//	rec, err := rejection.NewRecord(orderID, driverID, rejection.Timeout, now)
func NewRecord(orderID, driverID kernel.UUID, reason Reason, createdAt time.Time) (Record, error) {
	var timeErr error
	if createdAt.IsZero() {
		timeErr = errs.NewValueIsRequiredError("createdAt")
	}

	if err := errors.Join(orderID.Validate(), driverID.Validate(), reason.Validate(), timeErr); err != nil {
		return Record{}, err
	}

	return Record{
		orderID:       orderID,
		driverID:      driverID,
		reason:        reason,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func (r Record) Validate() error {
	if !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

func (r Record) OrderID() kernel.UUID {
	return r.orderID
}

func (r Record) DriverID() kernel.UUID {
	return r.driverID
}

func (r Record) Reason() Reason {
	return r.reason
}

func (r Record) CreatedAt() time.Time {
	return r.createdAt
}
