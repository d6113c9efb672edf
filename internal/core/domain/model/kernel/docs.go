// Package kernel holds the value objects shared by every aggregate of the courier domain:
//
//   - UUID: identifiers; aggregates reference each other only by UUID
//   - Coordinates: a validated latitude/longitude pair with the distance functions
//     used by the proximity engine and by read models
//   - Role and Actor: the already-authenticated caller every command carries
//
// All types are immutable values and safe for concurrent use.
package kernel
