// Package ports defines the contracts between the dispatch core and its
// collaborators: the order store, the rejection ledger, the candidate driver
// selector, the driver location index, the event notifier and the store's
// combined assignment procedure.
//
// Every conditional update ("Try" method) returns an error wrapping
// errs.ErrPreconditionFailed when its guard no longer holds. Callers treat
// that as a lost race and retry on a later sweep.
package ports

import (
	"context"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"
)

// UnreadableOrder is a stored order that could not be restored, for example
// because a stored coordinate is out of range. Fetches report such rows next
// to the orders they could read.
type UnreadableOrder struct {
	OrderID kernel.UUID
	Err     error
}

// OrderRepository is the order store as seen by the dispatcher.
type OrderRepository interface {
	// Add persists a new order. Orders are created upstream; Add serves
	// intake adapters and tests.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by ID.
	// Returns errs.ErrObjectNotFound when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FetchPending returns every order with status pending. Rows that cannot
	// be restored are returned as UnreadableOrder; the error is reserved for
	// a failed read.
	FetchPending(ctx context.Context) ([]*order.Order, []UnreadableOrder, error)

	// FetchUnnotifiedOffered returns pending offered orders with a customer
	// location the offered driver has not been told about yet.
	FetchUnnotifiedOffered(ctx context.Context) ([]*order.Order, []UnreadableOrder, error)

	// TryAssignDriver sets driverId and driverAssignedAt = now.
	// Guard: status pending and no driver offered.
	TryAssignDriver(ctx context.Context, orderID, driverID kernel.UUID, now time.Time) error

	// TryClearDriver clears driverId and driverAssignedAt and records the revoke time.
	// Guard: status pending and driverId == expectedDriverID.
	TryClearDriver(ctx context.Context, orderID, expectedDriverID kernel.UUID, now time.Time) error

	// TryRejectOrder sets status rejected.
	// Guard: status pending, no driver offered and offerRevokedAt still equal
	// to expectedRevokedAt (both nil counts as equal). A revoke that landed
	// after the order was read restarts its unassigned clock and fails the guard.
	TryRejectOrder(ctx context.Context, orderID kernel.UUID, expectedRevokedAt *time.Time) error

	// UpdateCustomerLocation stores the customer's position and clears the
	// driver-notified flag. Guard: the order is not terminal.
	UpdateCustomerLocation(ctx context.Context, orderID kernel.UUID, loc kernel.Location) error

	// TryMarkDriverNotified sets the driver-notified flag.
	// Guard: driverId == driverID and the flag is false.
	TryMarkDriverNotified(ctx context.Context, orderID, driverID kernel.UUID) error
}
