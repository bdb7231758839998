package services

import (
	"errors"
	"time"

	"orderdispatch/internal/pkg/errs"
)

const (
	DefaultAssignmentTimeout = 30 * time.Second
	DefaultOfferTimeout      = 30 * time.Second
)

// Policy holds the dispatch timeouts. They are independent and need not be equal.
type Policy struct {
	// AssignmentTimeout is how long an order may stay without a driver before
	// the dispatcher offers it or, failing that, rejects it.
	AssignmentTimeout time.Duration

	// OfferTimeout is how long an offered driver has to accept.
	OfferTimeout time.Duration
}

// NewPolicy validates that both timeouts are positive.
func NewPolicy(assignmentTimeout, offerTimeout time.Duration) (Policy, error) {
	var errAssignment, errOffer error
	if assignmentTimeout <= 0 {
		errAssignment = errs.NewValueIsOutOfRangeError("assignmentTimeout", assignmentTimeout, "1ns", "unbounded")
	}
	if offerTimeout <= 0 {
		errOffer = errs.NewValueIsOutOfRangeError("offerTimeout", offerTimeout, "1ns", "unbounded")
	}
	if err := errors.Join(errAssignment, errOffer); err != nil {
		return Policy{}, err
	}

	return Policy{AssignmentTimeout: assignmentTimeout, OfferTimeout: offerTimeout}, nil
}

// DefaultPolicy returns the 30s/30s policy.
func DefaultPolicy() Policy {
	return Policy{AssignmentTimeout: DefaultAssignmentTimeout, OfferTimeout: DefaultOfferTimeout}
}
