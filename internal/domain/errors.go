package domain

import "errors"

// Sentinel errors for the business-level failure taxonomy. Services wrap
// them with context via fmt.Errorf("%w: ..."), the API layer matches with
// errors.Is to pick a status code.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("unavailable")
)
