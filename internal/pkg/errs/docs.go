// Package errs provides standardized error types for the dispatch service.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value breaks a domain rule
//   - ValueIsOutOfRangeError: a value lies outside its allowed bounds
//   - ObjectNotFoundError: an object cannot be found
//   - PreconditionFailedError: a compare-and-swap update lost its race
//   - CollaboratorError: an external store, ledger, selector or notifier failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// The dispatch sweep relies on the sentinels to tell a lost race
// (ErrPreconditionFailed) apart from infrastructure failure
// (ErrCollaboratorFailure) when building per-order outcomes.
package errs
