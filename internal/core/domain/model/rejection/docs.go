// Package rejection models the rejection ledger: append-only facts that a
// driver must not be offered an order again, either because the offer timed
// out or because the driver declined it.
package rejection
