// Package driverrepo keeps the last known position of each driver in
// Postgres, where the assign-or-reassign procedure picks candidates from.
package driverrepo

import (
	"context"
	"errors"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DriverPositionDTO is one driver_positions row.
type DriverPositionDTO struct {
	DriverID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Lat       float64   `gorm:"not null"`
	Lng       float64   `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DriverPositionDTO) TableName() string {
	return "driver_positions"
}

// GormDriverPositionRepository implements ports.DriverLocationIndex.
type GormDriverPositionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormDriverPositionRepository(db *gorm.DB) *GormDriverPositionRepository {
	return &GormDriverPositionRepository{db: db, now: time.Now}
}

// UpdateDriverLocation upserts the driver's position.
func (r *GormDriverPositionRepository) UpdateDriverLocation(
	ctx context.Context,
	driverID kernel.UUID,
	loc kernel.Location,
) error {
	if err := errors.Join(driverID.Validate(), loc.Validate()); err != nil {
		return err
	}

	dto := DriverPositionDTO{
		DriverID:  driverID.Google(),
		Lat:       loc.Lat(),
		Lng:       loc.Lng(),
		UpdatedAt: r.now().UTC(),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "driver_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"lat", "lng", "updated_at"}),
	}).Create(&dto).Error
}

// RemoveDriver deletes the driver's position. Removing an unknown driver is
// not an error.
func (r *GormDriverPositionRepository) RemoveDriver(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&DriverPositionDTO{}, "driver_id = ?", driverID.Google()).Error
}
