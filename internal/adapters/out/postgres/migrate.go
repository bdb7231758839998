package postgres

import (
	"context"
	_ "embed"

	"orderdispatch/internal/adapters/out/postgres/driverrepo"
	"orderdispatch/internal/adapters/out/postgres/orderrepo"
	"orderdispatch/internal/adapters/out/postgres/rejectionrepo"

	"gorm.io/gorm"
)

//go:embed sql/assign_or_reassign_pending_orders.sql
var assignOrReassignPendingOrdersSQL string

// Migrate creates the orders, order_rejections and driver_positions tables
// and installs the assign-or-reassign procedure.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&orderrepo.OrderDTO{},
		&rejectionrepo.RejectionDTO{},
		&driverrepo.DriverPositionDTO{},
	)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Exec(assignOrReassignPendingOrdersSQL).Error
}
