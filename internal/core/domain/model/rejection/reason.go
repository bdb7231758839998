package rejection

import (
	"fmt"

	"orderdispatch/internal/pkg/errs"
)

// Reason explains why a driver was excluded from an order.
type Reason string

const (
	// Timeout is recorded by the dispatcher when an offer expires.
	Timeout Reason = "timeout"

	// Declined is recorded when the driver turns the offer down.
	Declined Reason = "declined"
)

// ParseReason maps the stored textual form to a Reason.
func ParseReason(s string) (Reason, error) {
	r := Reason(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Reason) Validate() error {
	switch r {
	case Timeout, Declined:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("reason", fmt.Errorf("%q is not a valid rejection reason", string(r)))
}

func (r Reason) String() string {
	return string(r)
}
