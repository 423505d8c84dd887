// Package errs defines the error kinds raised by registry operations.
// Every kind reflects a caller input or state problem, never a transient
// fault, so callers match with errors.Is and render a message; nothing is
// retried.
package errs

import "errors"

var (
	// ErrDuplicateIdentity is returned when a registration reuses an email
	// already held by another account.
	ErrDuplicateIdentity = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned on an unknown email or a password
	// digest mismatch. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is returned when an id does not resolve to an entity of
	// the expected kind.
	ErrNotFound = errors.New("not found")

	// ErrSchedulingConflict is returned when a doctor already has an active
	// appointment at the requested time.
	ErrSchedulingConflict = errors.New("doctor is not available at this time")

	// ErrInvalidPayment is returned for non-positive payment amounts.
	ErrInvalidPayment = errors.New("payment amount must be positive")

	// ErrUnauthorized is returned when the requester's role does not permit
	// the operation.
	ErrUnauthorized = errors.New("unauthorized access")
)
