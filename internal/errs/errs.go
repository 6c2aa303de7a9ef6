// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateIdentity indicates a unique constraint violation on
	// username or email during signup.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrInvalidCredentials indicates a failed login. The same error is
	// returned for an unknown username and a wrong password so that callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive indicates a valid identity whose account has been
	// deactivated. Inactive users cannot log in or use authenticated routes.
	ErrAccountInactive = errors.New("account inactive")

	// ErrTokenExpired indicates a bearer token whose expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed indicates a bearer token that failed decoding or
	// signature verification.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrModelUnavailable indicates the risk model artifact is not loaded.
	// This is a startup precondition, not a per-request condition.
	ErrModelUnavailable = errors.New("risk model unavailable")

	// ErrValidation indicates a structurally valid request with
	// unacceptable field values.
	ErrValidation = errors.New("validation failed")
)

// Reason returns the stable machine-readable reason string for err, used in
// HTTP error bodies. Unrecognized errors map to "internal_error" so that
// internal detail never leaks to callers.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateIdentity):
		return "duplicate_identity"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenMalformed):
		return "token_malformed"
	case errors.Is(err, ErrModelUnavailable):
		return "dependency_unavailable"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	default:
		return "internal_error"
	}
}
