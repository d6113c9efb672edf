// Package errs provides the error taxonomy shared by the dispatch and tracking core.
//
// Every error kind follows the same shape:
//   - a sentinel error variable (e.g., ErrConflict)
//   - a struct type carrying the details
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The kinds map onto the four failure classes surfaced to callers:
//   - ObjectNotFoundError: unknown packet, vehicle, pickup request or agent
//   - ConflictError: illegal state transition, already applied side effect, unusable vehicle
//   - ForbiddenError: caller role not allowed to run the operation
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed payload
package errs
