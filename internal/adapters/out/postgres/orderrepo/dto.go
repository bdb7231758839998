// Package orderrepo maps orders to the orders table and implements the
// conditional updates the dispatcher relies on.
package orderrepo

import (
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table row. Status is stored as its text form so the
// assign-or-reassign procedure can compare against literals.
type OrderDTO struct {
	ID                       uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Status                   string      `gorm:"type:varchar(16);not null;index"`
	CreatedAt                time.Time   `gorm:"not null"`
	DriverID                 *uuid.UUID  `gorm:"type:uuid;index"`
	DriverAssignedAt         *time.Time
	OfferRevokedAt           *time.Time
	Pickup                   LocationDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Customer                 LocationDTO `gorm:"embedded;embeddedPrefix:customer_"`
	DriverNotifiedOfLocation bool        `gorm:"not null;default:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO is an optional geo point. Both columns are null or both are set.
type LocationDTO struct {
	Lat *float64
	Lng *float64
}

func locationFromDomain(loc *kernel.Location) LocationDTO {
	if loc == nil {
		return LocationDTO{}
	}
	lat, lng := loc.Lat(), loc.Lng()
	return LocationDTO{Lat: &lat, Lng: &lng}
}

func (l LocationDTO) toDomain() (*kernel.Location, error) {
	if l.Lat == nil || l.Lng == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(*l.Lat, *l.Lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func fromDomain(o *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := o.DriverID(); id != nil {
		raw := id.Google()
		driverID = &raw
	}

	return OrderDTO{
		ID:                       o.ID().Google(),
		Status:                   o.Status().String(),
		CreatedAt:                o.CreatedAt(),
		DriverID:                 driverID,
		DriverAssignedAt:         o.DriverAssignedAt(),
		OfferRevokedAt:           o.OfferRevokedAt(),
		Pickup:                   locationFromDomain(o.PickupLocation()),
		Customer:                 locationFromDomain(o.CustomerLocation()),
		DriverNotifiedOfLocation: o.DriverNotifiedOfLocation(),
	}
}

// toDomain restores the order without enforcing the driver invariant, so a
// broken row still reaches the dispatcher and is reported there.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromGoogle(*dto.DriverID)
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	pickup, err := dto.Pickup.toDomain()
	if err != nil {
		return nil, err
	}

	customer, err := dto.Customer.toDomain()
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:                       id,
		Status:                   status,
		CreatedAt:                dto.CreatedAt,
		DriverID:                 driverID,
		DriverAssignedAt:         dto.DriverAssignedAt,
		OfferRevokedAt:           dto.OfferRevokedAt,
		PickupLocation:           pickup,
		CustomerLocation:         customer,
		DriverNotifiedOfLocation: dto.DriverNotifiedOfLocation,
	})
}
