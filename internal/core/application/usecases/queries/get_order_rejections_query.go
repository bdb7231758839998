package queries

import (
	"errors"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/rejection"
	"orderdispatch/internal/pkg/errs"
	"orderdispatch/internal/pkg/guard"
)

var (
	ErrGetOrderRejectionsQueryIsNotConstructed = errors.New(
		"GetOrderRejectionsQuery must be created via NewGetOrderRejectionsQuery constructor",
	)
)

// GetOrderRejectionsQuery lists the rejection ledger of one order.
type GetOrderRejectionsQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderRejectionsQuery(orderID kernel.UUID) (GetOrderRejectionsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderRejectionsQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	return GetOrderRejectionsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderRejectionsQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderRejectionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderRejectionsQueryIsNotConstructed)
}

// GetOrderRejectionsQueryResponse is one ledger entry.
type GetOrderRejectionsQueryResponse struct {
	DriverID  kernel.UUID
	Reason    rejection.Reason
	CreatedAt time.Time
}
