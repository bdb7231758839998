package sweep

import (
	"orderdispatch/internal/core/domain/model/kernel"
)

// Kind is the per-order result of a pass.
type Kind string

const (
	Assigned     Kind = "assigned"
	Rejected     Kind = "rejected"
	StillPending Kind = "still_pending"
	Error        Kind = "error"
)

// Outcome is what happened to one order.
type Outcome struct {
	OrderID kernel.UUID
	Kind    Kind

	// DriverID is the newly offered driver for Assigned outcomes.
	DriverID *kernel.UUID

	// Error carries the detail of Error outcomes.
	Error string
}

func AssignedTo(orderID, driverID kernel.UUID) Outcome {
	return Outcome{OrderID: orderID, Kind: Assigned, DriverID: &driverID}
}

func RejectedOrder(orderID kernel.UUID) Outcome {
	return Outcome{OrderID: orderID, Kind: Rejected}
}

func Pending(orderID kernel.UUID) Outcome {
	return Outcome{OrderID: orderID, Kind: StillPending}
}

func Failed(orderID kernel.UUID, err error) Outcome {
	o := Outcome{OrderID: orderID, Kind: Error}
	if err != nil {
		o.Error = err.Error()
	}
	return o
}
