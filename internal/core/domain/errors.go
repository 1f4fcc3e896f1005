package domain

import "errors"

// Authentication and token errors.
var (
	ErrInvalidDomain      = errors.New("email domain not allowed")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMalformedToken     = errors.New("malformed token")
	ErrInvalidSignature   = errors.New("invalid token signature")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
)

// Access errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
)

// Resident and staff management errors.
var (
	ErrResidentNotFound  = errors.New("resident not found")
	ErrNotCaregiver      = errors.New("user is not a caregiver")
	ErrInvalidDeleteType = errors.New("invalid delete type")
	ErrInvalidInput      = errors.New("invalid input")
)
