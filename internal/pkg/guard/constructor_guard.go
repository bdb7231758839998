// Package guard protects domain values from being used in their zero-value form.
//
// Commands, queries and entities embed a ConstructorGuard that only their
// constructors set. Handlers call Validate before acting, so a literal such as
// commands.SweepPendingOrdersCommand{} is rejected instead of silently
// producing a sweep with zero timeouts.
package guard

import "errors"

var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for constructed values. For zero values it returns err,
// or ErrDefaultConstructorGuard when err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.constructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
