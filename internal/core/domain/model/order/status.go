package order

import (
	"fmt"

	"orderdispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// Only Pending and Rejected are written by the dispatcher. Assigned, Accepted,
// Delivered and Cancelled are set by collaborators and are read-only here.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending orders are awaiting an offer or awaiting driver acceptance.
	Pending

	// Assigned orders are owned by a driver-side workflow.
	Assigned

	// Accepted orders were taken by the offered driver. Terminal for dispatch.
	Accepted

	// Rejected orders had no eligible driver left. Terminal.
	Rejected

	// Delivered orders are complete. Terminal.
	Delivered

	// Cancelled orders were withdrawn by an external actor. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Assigned:  "assigned",
		Accepted:  "accepted",
		Rejected:  "rejected",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// ParseStatus maps the stored textual form back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsDispatchable reports whether the dispatcher may still act on the order.
func (s Status) IsDispatchable() bool {
	return s == Pending
}

// IsTerminal reports whether the order has left dispatch for good.
func (s Status) IsTerminal() bool {
	switch s {
	case Accepted, Rejected, Delivered, Cancelled:
		return true
	case Unknown, Pending, Assigned:
		return false
	}
	return false
}
