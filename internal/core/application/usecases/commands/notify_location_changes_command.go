package commands

import (
	"errors"
	"time"

	"orderdispatch/internal/pkg/errs"
	"orderdispatch/internal/pkg/guard"
)

var ErrNotifyLocationChangesCommandIsNotConstructed = errors.New(
	"NotifyLocationChangesCommand must be created via NewNotifyLocationChangesCommand constructor",
)

// NotifyLocationChangesCommand sends pending customer location changes to
// the drivers currently offered those orders.
type NotifyLocationChangesCommand struct {
	now   time.Time
	guard guard.ConstructorGuard
}

func NewNotifyLocationChangesCommand(now time.Time) (NotifyLocationChangesCommand, error) {
	if now.IsZero() {
		return NotifyLocationChangesCommand{}, errs.NewValueIsRequiredError("now")
	}

	return NotifyLocationChangesCommand{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (c NotifyLocationChangesCommand) Now() time.Time {
	return c.now
}

func (c NotifyLocationChangesCommand) Validate() error {
	return c.guard.Validate(ErrNotifyLocationChangesCommandIsNotConstructed)
}
