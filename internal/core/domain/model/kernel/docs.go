// Package kernel provides the shared value objects of the dispatch domain.
//
// The package includes:
//   - UUID: identifier of orders and drivers
//   - Location: a validated WGS84 point used for pickup, customer and driver positions
//
// Both values are immutable and fail validation in their zero form, so an order
// restored from storage with a missing identifier never reaches the dispatcher.
package kernel
