package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	// Not found
	ErrNotFound             = errors.New("requested resource not found")
	ErrHeatNotFound         = errors.New("heat not found")
	ErrHeatEntryNotFound    = errors.New("heat entry not found")
	ErrChampionshipNotFound = errors.New("championship not found")
	ErrWodNotFound          = errors.New("wod not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	// Validation and business rules (checked before any mutation)
	ErrValidationFailed      = errors.New("validation failed")
	ErrLaneCountInvalid      = errors.New("lane count must be at least 1")
	ErrStartTimeRequired     = errors.New("start time is required")
	ErrNothingToSchedule     = errors.New("no categories or wods to build heats for")
	ErrHeatNumberInvalid     = errors.New("heat number out of range")
	ErrLaneIndexInvalid      = errors.New("target lane index out of range")
	ErrRosterEmpty           = errors.New("category has no approved competitors")
	ErrHeatsEmpty            = errors.New("heats have no entries to redistribute")
	ErrWrongChampionship     = errors.New("heat belongs to a different championship")
	ErrBannerTypeUnsupported = errors.New("unsupported banner content type")

	// Conflicts
	ErrHeatCapacityExceeded = errors.New("target heat is already at capacity")
	ErrEntryConflict        = errors.New("competitor already holds a lane in the target wod")
)
