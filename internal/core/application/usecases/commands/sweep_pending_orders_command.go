package commands

import (
	"errors"
	"time"

	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/pkg/errs"
	"orderdispatch/internal/pkg/guard"
)

var ErrSweepPendingOrdersCommandIsNotConstructed = errors.New(
	"SweepPendingOrdersCommand must be created via NewSweepPendingOrdersCommand constructor",
)

// SweepPendingOrdersCommand runs one dispatch pass over every pending order.
// The reference time is supplied by the caller; handlers never read the clock.
//
// Example:
//
//	policy, _ := services.NewPolicy(30*time.Second, 30*time.Second)
//	cmd, err := NewSweepPendingOrdersCommand(time.Now(), policy)
//	if err != nil {
//	    return err
//	}
//	report, err := strategy.Handle(ctx, cmd)
type SweepPendingOrdersCommand struct {
	now    time.Time
	policy services.Policy
	guard  guard.ConstructorGuard
}

// NewSweepPendingOrdersCommand validates the reference time and the policy.
func NewSweepPendingOrdersCommand(now time.Time, policy services.Policy) (SweepPendingOrdersCommand, error) {
	var nowErr error
	if now.IsZero() {
		nowErr = errs.NewValueIsRequiredError("now")
	}

	_, policyErr := services.NewPolicy(policy.AssignmentTimeout, policy.OfferTimeout)

	if err := errors.Join(nowErr, policyErr); err != nil {
		return SweepPendingOrdersCommand{}, err
	}

	return SweepPendingOrdersCommand{
		now:    now,
		policy: policy,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c SweepPendingOrdersCommand) Now() time.Time {
	return c.now
}

func (c SweepPendingOrdersCommand) Policy() services.Policy {
	return c.policy
}

// Validate ensures the command was created through the constructor.
func (c SweepPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrSweepPendingOrdersCommandIsNotConstructed)
}
