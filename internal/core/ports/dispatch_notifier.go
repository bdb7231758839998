package ports

import (
	"context"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
)

type DispatchEventType string

const (
	OrderOffered            DispatchEventType = "order.offered"
	OrderRejected           DispatchEventType = "order.rejected"
	OrderOfferRevoked       DispatchEventType = "order.offer_revoked"
	CustomerLocationChanged DispatchEventType = "order.customer_location_changed"
)

// DispatchEvent tells drivers and upstream systems what the dispatcher did.
type DispatchEvent struct {
	Type       DispatchEventType
	OrderID    kernel.UUID
	DriverID   *kernel.UUID
	Location   *kernel.Location
	OccurredAt time.Time
}

// DispatchNotifier publishes dispatch events. Failures never change the
// outcome of the operation that produced the event.
type DispatchNotifier interface {
	Publish(ctx context.Context, events ...DispatchEvent) error
}
