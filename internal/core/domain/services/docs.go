// Package services holds domain services that coordinate several aggregates at once.
//
//   - VehicleAllocator: loads packets onto vehicles under the capacity and
//     single-destination-city rules, and dispatches whole vehicle loads.
//
// Services are stateless; persistence and locking belong to the command handlers.
package services
