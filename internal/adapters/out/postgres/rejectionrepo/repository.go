package rejectionrepo

import (
	"context"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/rejection"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormRejectionLedger implements ports.RejectionLedger using GORM.
type GormRejectionLedger struct {
	db *gorm.DB
}

func NewGormRejectionLedger(db *gorm.DB) *GormRejectionLedger {
	return &GormRejectionLedger{db: db}
}

// Append inserts a record. The ledger keeps duplicates, so a driver that
// timed out and later declined has two rows.
func (l *GormRejectionLedger) Append(ctx context.Context, record rejection.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return l.db.WithContext(ctx).Create(&dto).Error
}

// ListDriversForOrder returns each driver with a record for orderID once.
func (l *GormRejectionLedger) ListDriversForOrder(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var raw pq.StringArray
	err := l.db.WithContext(ctx).Raw(`
		SELECT array_agg(DISTINCT driver_id::text)
		FROM order_rejections
		WHERE order_id = ?
	`, orderID.Google()).Row().Scan(&raw)
	if err != nil {
		return nil, err
	}

	drivers := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, parseErr := kernel.UUIDFromString(s)
		if parseErr != nil {
			return nil, parseErr
		}
		drivers = append(drivers, id)
	}

	return drivers, nil
}

// ListForOrder returns the records for orderID in the order they were appended.
func (l *GormRejectionLedger) ListForOrder(ctx context.Context, orderID kernel.UUID) ([]rejection.Record, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RejectionDTO
	err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID.Google()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]rejection.Record, 0, len(dtos))
	for _, dto := range dtos {
		r, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		records = append(records, r)
	}

	return records, nil
}
