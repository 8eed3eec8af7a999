package domain

import "errors"

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrVenueConflict      = errors.New("venue conflict: another event is scheduled at the same time and venue")
	ErrHasDependencies    = errors.New("cannot delete event due to existing dependencies")
	// ErrRejected is returned when the store refuses a write for a constraint or data
	// reason other than the ones above (e.g. value too long, check violation).
	ErrRejected = errors.New("rejected by store")
)
