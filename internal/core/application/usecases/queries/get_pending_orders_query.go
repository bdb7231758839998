// Package queries contains read operations for retrieving dispatch state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models built with direct SQL rather than aggregates.
package queries

import (
	"errors"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/pkg/guard"
)

var (
	ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
		"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
	)
)

// GetPendingOrdersQuery lists every order the dispatcher is still working on.
//
// Example:
//
//	query := NewGetPendingOrdersQuery()
//	handler := NewGetPendingOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get pending orders: %w", err)
//	}
//
//	for _, o := range orders {
//	    if o.DriverID != nil {
//	        fmt.Printf("order %s offered to %s since %s\n", o.ID, o.DriverID, o.DriverAssignedAt)
//	    }
//	}
type GetPendingOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetPendingOrdersQuery() GetPendingOrdersQuery {
	return GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

// GetPendingOrdersQueryResponse is one pending order with its offer state.
type GetPendingOrdersQueryResponse struct {
	ID               kernel.UUID
	CreatedAt        time.Time
	DriverID         *kernel.UUID
	DriverAssignedAt *time.Time
	OfferRevokedAt   *time.Time
	PickupLocation   *kernel.Location
}
