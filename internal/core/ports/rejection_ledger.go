package ports

import (
	"context"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/rejection"
)

// RejectionLedger is the append-only record of drivers excluded from orders.
type RejectionLedger interface {
	// Append records that a driver must not be offered the order again.
	Append(ctx context.Context, record rejection.Record) error

	// ListDriversForOrder returns every driver with a record for the order,
	// without duplicates.
	ListDriversForOrder(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error)

	// ListForOrder returns the records of one order, oldest first.
	ListForOrder(ctx context.Context, orderID kernel.UUID) ([]rejection.Record, error)
}
