package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"
	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// Every Try method is a single conditional UPDATE. When it matches no row the
// repository tells a missing order apart from a failed precondition.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FetchPending returns every pending order, oldest first.
func (r *GormOrderRepository) FetchPending(ctx context.Context) ([]*order.Order, []ports.UnreadableOrder, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", order.Pending.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, nil, err
	}

	orders, unreadable := toDomainList(dtos)
	return orders, unreadable, nil
}

// FetchUnnotifiedOffered returns offered pending orders whose customer
// location changed since the driver was last told.
func (r *GormOrderRepository) FetchUnnotifiedOffered(
	ctx context.Context,
) ([]*order.Order, []ports.UnreadableOrder, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", order.Pending.String()).
		Where("driver_id IS NOT NULL").
		Where("customer_lat IS NOT NULL AND customer_lng IS NOT NULL").
		Where("driver_notified_of_location = ?", false).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, nil, err
	}

	orders, unreadable := toDomainList(dtos)
	return orders, unreadable, nil
}

// TryAssignDriver offers the order to driverID if it is pending with no driver.
func (r *GormOrderRepository) TryAssignDriver(ctx context.Context, orderID, driverID kernel.UUID, now time.Time) error {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", orderID.Google(), order.Pending.String()).
		Updates(map[string]any{
			"driver_id":                   driverID.Google(),
			"driver_assigned_at":          now,
			"driver_notified_of_location": false,
		})

	return r.checkConditional(ctx, result, orderID, "status pending and no driver offered")
}

// TryClearDriver revokes the offer made to expected and restarts the
// unassigned clock at now.
func (r *GormOrderRepository) TryClearDriver(ctx context.Context, orderID, expected kernel.UUID, now time.Time) error {
	if err := errors.Join(orderID.Validate(), expected.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id = ?", orderID.Google(), order.Pending.String(), expected.Google()).
		Updates(map[string]any{
			"driver_id":          nil,
			"driver_assigned_at": nil,
			"offer_revoked_at":   now,
		})

	return r.checkConditional(ctx, result, orderID, fmt.Sprintf("status pending and driver %s offered", expected))
}

// TryRejectOrder finalizes a pending order that has no driver offered and
// whose offer was not revoked since expectedRevokedAt was read.
func (r *GormOrderRepository) TryRejectOrder(ctx context.Context, orderID kernel.UUID, expectedRevokedAt *time.Time) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NULL AND offer_revoked_at IS NOT DISTINCT FROM ?",
			orderID.Google(), order.Pending.String(), expectedRevokedAt).
		Update("status", order.Rejected.String())

	return r.checkConditional(ctx, result, orderID, "status pending, no driver offered and no newer revoke")
}

// UpdateCustomerLocation stores the customer's position and marks the
// offered driver as not yet notified.
func (r *GormOrderRepository) UpdateCustomerLocation(ctx context.Context, orderID kernel.UUID, loc kernel.Location) error {
	if err := errors.Join(orderID.Validate(), loc.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status IN ?", orderID.Google(), []string{order.Pending.String(), order.Assigned.String()}).
		Updates(map[string]any{
			"customer_lat":                loc.Lat(),
			"customer_lng":                loc.Lng(),
			"driver_notified_of_location": false,
		})

	return r.checkConditional(ctx, result, orderID, "non-terminal status")
}

// TryMarkDriverNotified sets the notified flag if driverID is still the
// offered driver.
func (r *GormOrderRepository) TryMarkDriverNotified(ctx context.Context, orderID, driverID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND driver_id = ? AND driver_notified_of_location = ?", orderID.Google(), driverID.Google(), false).
		Update("driver_notified_of_location", true)

	return r.checkConditional(ctx, result, orderID,
		fmt.Sprintf("driver %s offered and not yet notified", driverID))
}

func (r *GormOrderRepository) checkConditional(
	ctx context.Context,
	result *gorm.DB,
	orderID kernel.UUID,
	condition string,
) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", orderID.Google()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("orderId", orderID.String())
	}
	return errs.NewPreconditionFailedError("order", orderID, condition)
}

// toDomainList restores every row it can. A row that fails is reported under
// its order ID and does not affect the others.
func toDomainList(dtos []OrderDTO) ([]*order.Order, []ports.UnreadableOrder) {
	orders := make([]*order.Order, 0, len(dtos))
	var unreadable []ports.UnreadableOrder

	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			// The primary key is never nil, so the conversion cannot fail here.
			id, _ := kernel.UUIDFromGoogle(dto.ID)
			unreadable = append(unreadable, ports.UnreadableOrder{
				OrderID: id,
				Err:     fmt.Errorf("restore order %s: %w", dto.ID, err),
			})
			continue
		}
		orders = append(orders, o)
	}

	return orders, unreadable
}
