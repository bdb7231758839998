package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPendingOrdersProcedure calls assign_or_reassign_pending_orders and
// maps its rows to procedure results. It implements ports.PendingOrdersProcedure.
type GormPendingOrdersProcedure struct {
	db *gorm.DB
}

func NewGormPendingOrdersProcedure(db *gorm.DB) *GormPendingOrdersProcedure {
	return &GormPendingOrdersProcedure{db: db}
}

func (p *GormPendingOrdersProcedure) AssignOrReassignAllPending(
	ctx context.Context,
	now time.Time,
	policy services.Policy,
) ([]ports.ProcedureResult, error) {
	rows, err := p.db.WithContext(ctx).Raw(`
		SELECT order_id, outcome, driver_id, detail, revoked_driver_id
		FROM assign_or_reassign_pending_orders(?, make_interval(secs => ?), make_interval(secs => ?))
	`, now, policy.AssignmentTimeout.Seconds(), policy.OfferTimeout.Seconds()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]ports.ProcedureResult, 0)
	for rows.Next() {
		var (
			orderID   uuid.UUID
			kind      string
			driverID  uuid.NullUUID
			detail    sql.NullString
			revokedID uuid.NullUUID
		)
		if err = rows.Scan(&orderID, &kind, &driverID, &detail, &revokedID); err != nil {
			return nil, err
		}

		outcome, mapErr := toOutcome(orderID, kind, driverID, detail)
		if mapErr != nil {
			return nil, mapErr
		}

		result := ports.ProcedureResult{Outcome: outcome}
		if revokedID.Valid {
			revoked, revokedErr := kernel.UUIDFromGoogle(revokedID.UUID)
			if revokedErr != nil {
				return nil, revokedErr
			}
			result.RevokedDriverID = &revoked
		}
		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func toOutcome(orderID uuid.UUID, kind string, driverID uuid.NullUUID, detail sql.NullString) (sweep.Outcome, error) {
	id, err := kernel.UUIDFromGoogle(orderID)
	if err != nil {
		return sweep.Outcome{}, err
	}

	switch sweep.Kind(kind) {
	case sweep.Assigned:
		if !driverID.Valid {
			return sweep.Outcome{}, fmt.Errorf("procedure assigned order %s without a driver", id)
		}
		d, driverErr := kernel.UUIDFromGoogle(driverID.UUID)
		if driverErr != nil {
			return sweep.Outcome{}, driverErr
		}
		return sweep.AssignedTo(id, d), nil
	case sweep.Rejected:
		return sweep.RejectedOrder(id), nil
	case sweep.StillPending:
		return sweep.Pending(id), nil
	case sweep.Error:
		return sweep.Outcome{OrderID: id, Kind: sweep.Error, Error: detail.String}, nil
	default:
		return sweep.Outcome{}, fmt.Errorf("procedure returned unknown outcome %q for order %s", kind, id)
	}
}
