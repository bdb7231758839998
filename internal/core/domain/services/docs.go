// Package services provides the domain services of the dispatcher.
//
// The package includes:
//   - OrderDispatcher: applies the timeout policy to a pending order and
//     decides whether to wait, revoke a stale offer, make an offer, or reject
//   - Policy: the two independent timeouts the decisions depend on
//
// OrderDispatcher is pure: it reads an order and a timestamp and never talks
// to storage or to the candidate selector. Application handlers carry out the
// decisions with conditional updates.
package services
