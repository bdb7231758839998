package commands

import (
	"errors"
	"time"

	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/pkg/errs"
	"orderdispatch/internal/pkg/guard"
)

var ErrRejectExpiredOrdersCommandIsNotConstructed = errors.New(
	"RejectExpiredOrdersCommand must be created via NewRejectExpiredOrdersCommand constructor",
)

// RejectExpiredOrdersCommand rejects pending orders that are past their
// assignment timeout and for which no candidate driver remains. It never
// makes offers.
type RejectExpiredOrdersCommand struct {
	now    time.Time
	policy services.Policy
	guard  guard.ConstructorGuard
}

func NewRejectExpiredOrdersCommand(now time.Time, policy services.Policy) (RejectExpiredOrdersCommand, error) {
	var nowErr error
	if now.IsZero() {
		nowErr = errs.NewValueIsRequiredError("now")
	}

	_, policyErr := services.NewPolicy(policy.AssignmentTimeout, policy.OfferTimeout)

	if err := errors.Join(nowErr, policyErr); err != nil {
		return RejectExpiredOrdersCommand{}, err
	}

	return RejectExpiredOrdersCommand{
		now:    now,
		policy: policy,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RejectExpiredOrdersCommand) Now() time.Time {
	return c.now
}

func (c RejectExpiredOrdersCommand) Policy() services.Policy {
	return c.policy
}

func (c RejectExpiredOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRejectExpiredOrdersCommandIsNotConstructed)
}
