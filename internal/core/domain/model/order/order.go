package order

import (
	"errors"
	"fmt"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrDriverAssignmentInconsistent marks an order whose driver and offer time
	// disagree: one is set and the other is not.
	ErrDriverAssignmentInconsistent = errors.New("driverId and driverAssignedAt must be set together")
)

// Order is the unit of work of the dispatcher.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a creation time
//   - driverID is non-nil if and only if driverAssignedAt is non-nil
//   - Offers, revokes and rejections only apply while the status is Pending
//
// Restored orders may violate the driver invariant when storage holds bad
// data. CheckIntegrity reports that instead of RestoreOrder, so a single bad
// row never hides the rest of the pending set.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// status represents the current state in the order lifecycle
	status Status

	// createdAt is set upstream when the order is placed
	createdAt time.Time

	// driverID is the currently offered driver (nil if none)
	driverID *kernel.UUID

	// driverAssignedAt is when driverID was last set (nil if none)
	driverAssignedAt *time.Time

	// offerRevokedAt is when the last offer was withdrawn (nil if never)
	offerRevokedAt *time.Time

	// pickupLocation is where candidate drivers are searched around
	pickupLocation *kernel.Location

	// customerLocation is the latest position reported by the customer
	customerLocation *kernel.Location

	// driverNotifiedOfLocation is false until the offered driver has been
	// told about the latest customerLocation
	driverNotifiedOfLocation bool

	isConstructed bool
}

// NewOrder creates a pending order with no driver.
//
// Parameters:
//   - id: unique identifier (must be valid UUID)
//   - createdAt: creation time (must not be zero)
//   - pickup: optional pickup location used for candidate search
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: validation error if any parameter is invalid
//
// Example:
//
//	pickup, _ := kernel.NewLocation(52.52, 13.405)
//	o, err := order.NewOrder(kernel.NewUUID(), time.Now(), &pickup)
func NewOrder(id kernel.UUID, createdAt time.Time, pickup *kernel.Location) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCreatedAt(createdAt),
		o.setPickupLocation(pickup),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreParams carries persisted order state into RestoreOrder.
type RestoreParams struct {
	ID                       kernel.UUID
	Status                   Status
	CreatedAt                time.Time
	DriverID                 *kernel.UUID
	DriverAssignedAt         *time.Time
	OfferRevokedAt           *time.Time
	PickupLocation           *kernel.Location
	CustomerLocation         *kernel.Location
	DriverNotifiedOfLocation bool
}

// RestoreOrder rebuilds an order read from storage.
// Identity, status and creation time are validated. The driver invariant is
// left to CheckIntegrity.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		status:                   p.Status,
		driverNotifiedOfLocation: p.DriverNotifiedOfLocation,
		isConstructed:            true,
	}

	var driverErr error
	if p.DriverID != nil {
		if driverErr = p.DriverID.Validate(); driverErr == nil {
			id := *p.DriverID
			o.driverID = &id
		}
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setCreatedAt(p.CreatedAt),
		p.Status.Validate(),
		driverErr,
		o.setPickupLocation(p.PickupLocation),
		o.setCustomerLocation(p.CustomerLocation),
	); err != nil {
		return nil, err
	}

	o.driverAssignedAt = copyTime(p.DriverAssignedAt)
	o.offerRevokedAt = copyTime(p.OfferRevokedAt)

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// CheckIntegrity reports ErrDriverAssignmentInconsistent when exactly one of
// driverID and driverAssignedAt is set.
func (o *Order) CheckIntegrity() error {
	if err := o.Validate(); err != nil {
		return err
	}

	if (o.driverID == nil) != (o.driverAssignedAt == nil) {
		return fmt.Errorf("order %s: %w", o.id, ErrDriverAssignmentInconsistent)
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DriverID returns a copy of the offered driver's ID, or nil.
func (o *Order) DriverID() *kernel.UUID {
	if o.driverID == nil {
		return nil
	}
	id := *o.driverID
	return &id
}

func (o *Order) DriverAssignedAt() *time.Time {
	return copyTime(o.driverAssignedAt)
}

func (o *Order) OfferRevokedAt() *time.Time {
	return copyTime(o.offerRevokedAt)
}

func (o *Order) PickupLocation() *kernel.Location {
	return copyLocation(o.pickupLocation)
}

func (o *Order) CustomerLocation() *kernel.Location {
	return copyLocation(o.customerLocation)
}

func (o *Order) DriverNotifiedOfLocation() bool {
	return o.driverNotifiedOfLocation
}

// IsOffered reports whether a driver is currently offered the order.
func (o *Order) IsOffered() bool {
	return o.driverID != nil
}

// IsOfferedTo reports whether driverID is the currently offered driver.
func (o *Order) IsOfferedTo(driverID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(driverID)
}

// UnassignedSince is the start of the unassigned clock: the later of
// createdAt and the last revoke.
func (o *Order) UnassignedSince() time.Time {
	if o.offerRevokedAt != nil && o.offerRevokedAt.After(o.createdAt) {
		return *o.offerRevokedAt
	}
	return o.createdAt
}

// OfferTo offers the order to driverID at now.
// Requires status Pending and no current driver.
func (o *Order) OfferTo(driverID kernel.UUID, now time.Time) error {
	if err := errors.Join(o.Validate(), driverID.Validate()); err != nil {
		return err
	}

	if o.status != Pending || o.driverID != nil {
		return errs.NewPreconditionFailedError("order", o.id, "status pending and no driver offered")
	}

	o.driverID = &driverID
	o.driverAssignedAt = &now
	o.driverNotifiedOfLocation = false
	return nil
}

// RevokeOffer withdraws the offer made to expectedDriverID and restarts the
// unassigned clock at now.
// Requires status Pending and expectedDriverID being the offered driver.
func (o *Order) RevokeOffer(expectedDriverID kernel.UUID, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.status != Pending || !o.IsOfferedTo(expectedDriverID) {
		return errs.NewPreconditionFailedError("order", o.id,
			fmt.Sprintf("status pending and driver %s offered", expectedDriverID))
	}

	o.driverID = nil
	o.driverAssignedAt = nil
	o.offerRevokedAt = &now
	o.driverNotifiedOfLocation = false
	return nil
}

// Reject finalizes the order as Rejected.
// Requires status Pending and no current driver, so a concurrent offer is
// never overwritten.
func (o *Order) Reject() error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.status != Pending || o.driverID != nil {
		return errs.NewPreconditionFailedError("order", o.id, "status pending and no driver offered")
	}

	o.status = Rejected
	return nil
}

// UpdateCustomerLocation records the customer's latest position and marks
// the offered driver as not yet notified. Terminal orders are left alone.
func (o *Order) UpdateCustomerLocation(loc kernel.Location) error {
	if err := errors.Join(o.Validate(), loc.Validate()); err != nil {
		return err
	}

	if o.status.IsTerminal() {
		return errs.NewPreconditionFailedError("order", o.id, "non-terminal status")
	}

	o.customerLocation = &loc
	o.driverNotifiedOfLocation = false
	return nil
}

// MarkDriverNotified records that expectedDriverID received the latest
// customer location.
func (o *Order) MarkDriverNotified(expectedDriverID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if !o.IsOfferedTo(expectedDriverID) || o.driverNotifiedOfLocation {
		return errs.NewPreconditionFailedError("order", o.id,
			fmt.Sprintf("driver %s offered and not yet notified", expectedDriverID))
	}

	o.driverNotifiedOfLocation = true
	return nil
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.driverID = o.DriverID()
	c.driverAssignedAt = copyTime(o.driverAssignedAt)
	c.offerRevokedAt = copyTime(o.offerRevokedAt)
	c.pickupLocation = copyLocation(o.pickupLocation)
	c.customerLocation = copyLocation(o.customerLocation)
	return &c
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	o.id = id
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}

	o.createdAt = createdAt
	return nil
}

func (o *Order) setPickupLocation(loc *kernel.Location) error {
	if loc == nil {
		return nil
	}
	if err := loc.Validate(); err != nil {
		return err
	}

	o.pickupLocation = copyLocation(loc)
	return nil
}

func (o *Order) setCustomerLocation(loc *kernel.Location) error {
	if loc == nil {
		return nil
	}
	if err := loc.Validate(); err != nil {
		return err
	}

	o.customerLocation = copyLocation(loc)
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyLocation(l *kernel.Location) *kernel.Location {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
