package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of them so the
// transport layer can map by category with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrDependency     = errors.New("dependency unavailable")
)

// Credentials and sessions.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthentication)
	ErrMissingToken       = fmt.Errorf("%w: missing token", ErrAuthentication)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrAuthentication)
	ErrExpiredToken       = fmt.Errorf("%w: token expired", ErrAuthentication)
	ErrPrincipalNotFound  = fmt.Errorf("%w: principal no longer exists", ErrAuthentication)
	ErrVerificationFailed = fmt.Errorf("%w: identity could not be verified", ErrAuthentication)

	ErrForbidden       = fmt.Errorf("%w: access forbidden", ErrAuthorization)
	ErrAccountInactive = fmt.Errorf("%w: account is not active", ErrAuthorization)

	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrDuplicateIdentity = fmt.Errorf("%w: username or email already registered", ErrConflict)

	ErrWeakPassword = fmt.Errorf("%w: password must be between %d and %d characters", ErrValidation, MinPasswordLength, MaxPasswordLength)
	ErrInvalidOTP   = fmt.Errorf("%w: invalid or expired reset code", ErrValidation)

	// ErrHashing is returned when the password primitive itself fails. It has
	// no category and surfaces as a generic 500.
	ErrHashing = errors.New("password hashing failed")
)

// Trips.
var (
	ErrTripNotFound        = fmt.Errorf("%w: trip not found", ErrNotFound)
	ErrTripRequestNotFound = fmt.Errorf("%w: trip request not found", ErrNotFound)
	ErrInvalidTransition   = fmt.Errorf("%w: invalid request status transition", ErrValidation)
	ErrOwnTrip             = fmt.Errorf("%w: cannot request to join your own trip", ErrValidation)
	ErrDuplicateRequest    = fmt.Errorf("%w: trip request already exists", ErrConflict)
)

// Media.
var (
	ErrMediaTooLarge   = fmt.Errorf("%w: image exceeds size limit", ErrValidation)
	ErrMediaNotAnImage = fmt.Errorf("%w: file is not an image", ErrValidation)
)

// ValidationError wraps a free-form validation message (usually produced by the
// request validator) under ErrValidation.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// DependencyError wraps an infrastructure failure under ErrDependency while
// keeping the cause for logging.
func DependencyError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependency, op, err)
}
