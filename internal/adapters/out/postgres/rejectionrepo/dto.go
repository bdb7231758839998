// Package rejectionrepo stores the append-only rejection ledger.
package rejectionrepo

import (
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/rejection"

	"github.com/google/uuid"
)

// RejectionDTO is one order_rejections row. Rows are never updated.
type RejectionDTO struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_order_rejections_order_driver"`
	DriverID  uuid.UUID `gorm:"type:uuid;not null;index:idx_order_rejections_order_driver"`
	Reason    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (RejectionDTO) TableName() string {
	return "order_rejections"
}

func fromDomain(r rejection.Record) RejectionDTO {
	return RejectionDTO{
		OrderID:   r.OrderID().Google(),
		DriverID:  r.DriverID().Google(),
		Reason:    r.Reason().String(),
		CreatedAt: r.CreatedAt(),
	}
}

func toDomain(dto RejectionDTO) (rejection.Record, error) {
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return rejection.Record{}, err
	}

	driverID, err := kernel.UUIDFromGoogle(dto.DriverID)
	if err != nil {
		return rejection.Record{}, err
	}

	reason, err := rejection.ParseReason(dto.Reason)
	if err != nil {
		return rejection.Record{}, err
	}

	return rejection.NewRecord(orderID, driverID, reason, dto.CreatedAt)
}
