package services

import "errors"

// Domain errors surfaced by the services. Handlers map these to HTTP
// status codes with errors.Is; everything else is a 500.
var (
	// ErrValidation means required input was missing or malformed.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials is deliberately undifferentiated: it never
	// reveals whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the session token was missing, expired or tampered.
	ErrUnauthorized = errors.New("not authorized")

	// ErrForbidden means the caller is authenticated but not entitled,
	// e.g. posting without being in a couple.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRoomFull means both partner slots of a couple are already taken.
	ErrRoomFull = errors.New("couple is full")

	// ErrAlreadyExists means a unique field (email) is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict means the operation clashes with current state,
	// e.g. creating a couple while already in one.
	ErrConflict = errors.New("conflict")
)
