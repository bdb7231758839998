package queries

import (
	"context"
	"database/sql"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingOrdersQueryHandler reads pending orders straight from the orders table.
type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle returns pending orders oldest first.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			created_at,
			driver_id,
			driver_assigned_at,
			offer_revoked_at,
			pickup_lat,
			pickup_lng
		FROM orders
		WHERE status = ?
		ORDER BY created_at, id
	`, order.Pending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp             GetPendingOrdersQueryResponse
			id               uuid.UUID
			driverID         uuid.NullUUID
			driverAssignedAt sql.NullTime
			offerRevokedAt   sql.NullTime
			pickupLat        sql.NullFloat64
			pickupLng        sql.NullFloat64
		)

		err = rows.Scan(&id, &resp.CreatedAt, &driverID, &driverAssignedAt, &offerRevokedAt, &pickupLat, &pickupLng)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}

		if driverID.Valid {
			d, driverErr := kernel.UUIDFromGoogle(driverID.UUID)
			if driverErr != nil {
				return nil, driverErr
			}
			resp.DriverID = &d
		}

		resp.DriverAssignedAt = nullTime(driverAssignedAt)
		resp.OfferRevokedAt = nullTime(offerRevokedAt)

		if pickupLat.Valid && pickupLng.Valid {
			loc, locErr := kernel.NewLocation(pickupLat.Float64, pickupLng.Float64)
			if locErr != nil {
				return nil, locErr
			}
			resp.PickupLocation = &loc
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
