package ports

import (
	"context"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"
)

// CandidateSelector returns the next eligible driver for an order.
// Ranking is the selector's business; the dispatcher only requires that no
// excluded driver is returned.
type CandidateSelector interface {
	// SelectCandidateDriver returns found == false when no eligible driver remains.
	SelectCandidateDriver(
		ctx context.Context,
		o *order.Order,
		excluded []kernel.UUID,
	) (driverID kernel.UUID, found bool, err error)
}

// DriverLocationIndex stores the last known position of drivers.
type DriverLocationIndex interface {
	UpdateDriverLocation(ctx context.Context, driverID kernel.UUID, loc kernel.Location) error
	RemoveDriver(ctx context.Context, driverID kernel.UUID) error
}
