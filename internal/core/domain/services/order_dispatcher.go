package services

import (
	"errors"
	"fmt"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"
)

// ErrCandidateExcluded is returned when the selector proposes a driver that
// already has a rejection record for the order.
var ErrCandidateExcluded = errors.New("candidate driver is excluded for this order")

// Action is what the dispatcher should do with a pending order this sweep.
type Action int

const (
	// Wait leaves the order untouched: it is inside its grace period or no
	// longer pending.
	Wait Action = iota

	// RevokeStaleOffer withdraws an offer the driver did not answer in time.
	RevokeStaleOffer

	// Offer looks for a candidate driver for an unassigned, expired order.
	Offer
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case RevokeStaleOffer:
		return "revoke_stale_offer"
	case Offer:
		return "offer"
	}
	return "unknown"
}

// Decision is the outcome of classifying one order.
type Decision struct {
	Action Action

	// StaleDriverID is set for RevokeStaleOffer.
	StaleDriverID kernel.UUID
}

// OrderDispatcher is a domain service that applies a Policy to pending orders.
//
// Business rules:
//   - Orders with an inconsistent driver assignment are reported, never acted on
//   - An offered order whose offer is at least OfferTimeout old is revoked
//   - An unoffered order unassigned for at least AssignmentTimeout is offered
//   - An unoffered expired order with no candidate is rejected; an order whose
//     offer was revoked in the same sweep has a fresh clock and stays pending
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher()
//	decision, err := dispatcher.Classify(o, now, services.DefaultPolicy())
//	if err != nil {
//	    // data-integrity problem, skip this order
//	}
//	switch decision.Action {
//	case services.RevokeStaleOffer:
//	    // clear decision.StaleDriverID and append a timeout rejection
//	case services.Offer:
//	    // ask the selector for a candidate
//	}
type OrderDispatcher struct{}

// NewOrderDispatcher creates a new OrderDispatcher instance.
func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// Classify decides what to do with o at now.
//
// Parameters:
//   - o: the order as fetched from storage
//   - now: the sweep's reference time
//   - policy: the timeouts to apply
//
// Returns:
//   - Decision: the action to take
//   - error: order.ErrDriverAssignmentInconsistent or a construction error
func (d OrderDispatcher) Classify(o *order.Order, now time.Time, policy Policy) (Decision, error) {
	if err := o.CheckIntegrity(); err != nil {
		return Decision{}, err
	}

	if !o.Status().IsDispatchable() {
		return Decision{Action: Wait}, nil
	}

	if o.IsOffered() {
		if now.Sub(*o.DriverAssignedAt()) >= policy.OfferTimeout {
			return Decision{Action: RevokeStaleOffer, StaleDriverID: *o.DriverID()}, nil
		}
		return Decision{Action: Wait}, nil
	}

	if d.IsUnassignedExpired(o, now, policy) {
		return Decision{Action: Offer}, nil
	}

	return Decision{Action: Wait}, nil
}

// IsUnassignedExpired reports whether o has had no driver for at least
// AssignmentTimeout, counting from its creation or its last revoke.
func (d OrderDispatcher) IsUnassignedExpired(o *order.Order, now time.Time, policy Policy) bool {
	return !o.IsOffered() && now.Sub(o.UnassignedSince()) >= policy.AssignmentTimeout
}

// ShouldRejectWithoutCandidate reports whether an order for which the
// selector returned no driver must be finalized as rejected. An order freed
// earlier in the same sweep has a fresh unassigned clock and is kept.
func (d OrderDispatcher) ShouldRejectWithoutCandidate(o *order.Order, now time.Time, policy Policy) bool {
	return o.Status().IsDispatchable() && d.IsUnassignedExpired(o, now, policy)
}

// CheckCandidate guards against offering an order twice to the same driver,
// whatever the selector returned.
func (d OrderDispatcher) CheckCandidate(candidate kernel.UUID, excluded []kernel.UUID) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	for _, id := range excluded {
		if id.IsEqual(candidate) {
			return fmt.Errorf("%w: driver %s", ErrCandidateExcluded, candidate)
		}
	}

	return nil
}
