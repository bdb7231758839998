// Package order provides the Order aggregate as seen by the dispatcher.
//
// The package includes:
//   - Order: identity, status, the current offer (driver and offer time) and
//     the location data exchanged with drivers
//   - Status: the order lifecycle, of which the dispatcher only writes Pending
//     and Rejected
//
// Key business rules:
//   - An order carries a driver if and only if it carries an offer time
//   - Only pending orders are offered, revoked or rejected
//   - An offer is made only when no driver is currently offered
//   - A revoke names the driver it expects, so a stale revoke never clears a newer offer
//   - The unassigned clock restarts when an offer is revoked
//
// Every guarded mutation returns an errs.PreconditionFailedError when its
// guard does not hold. Storage adapters express the same guards as
// conditional updates.
package order
