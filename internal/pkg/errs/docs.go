// Package errs provides standardized error types for the fulfillment engine.
// Every error type follows the same pattern: a sentinel variable, a struct with the
// error details, constructors with and without cause, Error() and Unwrap().
//
// Sentinels are grouped into classes the callers act on:
//   - ErrInvalidArgument: malformed input, rejected before any side effect
//     (ErrValueIsInvalid, ErrValueIsOutOfRange, ErrValueIsRequired, ErrInvalidPincode)
//   - ErrResourceContention: retryable, raised after reservation attempts are exhausted
//   - ErrConfiguration: missing SLA profile or other engine table entry
//   - ErrObjectNotFound: lookups by identifier
//
// Business outcomes such as an unserviceable route or an inventory shortfall are
// not errors and never use this package.
package errs
