package queries

import (
	"context"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/rejection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderRejectionsQueryHandler reads the order_rejections table.
// An unknown order has an empty ledger; the orders table is not consulted.
type GetOrderRejectionsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderRejectionsQueryHandler(db *gorm.DB) GetOrderRejectionsQueryHandler {
	return GetOrderRejectionsQueryHandler{db: db}
}

func (h GetOrderRejectionsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderRejectionsQuery,
) ([]GetOrderRejectionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetOrderRejectionsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			driver_id,
			reason,
			created_at
		FROM order_rejections
		WHERE order_id = ?
		ORDER BY id
	`, query.OrderID().Google()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp     GetOrderRejectionsQueryResponse
			driverID uuid.UUID
			reason   string
		)

		if err = rows.Scan(&driverID, &reason, &resp.CreatedAt); err != nil {
			return nil, err
		}

		if resp.DriverID, err = kernel.UUIDFromGoogle(driverID); err != nil {
			return nil, err
		}

		if resp.Reason, err = rejection.ParseReason(reason); err != nil {
			return nil, err
		}

		records = append(records, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
