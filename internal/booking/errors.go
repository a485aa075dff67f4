package booking

import "errors"

var (
	ErrStartInPast     = errors.New("start date is in the past")
	ErrEndBeforeStart  = errors.New("end date must be after start date")
	ErrDateTooFar      = errors.New("start date is too far in the future")
	ErrRoomRequired    = errors.New("room is required")
	ErrCheckInProgress = errors.New("an availability check is already in progress")
	ErrStaleCheck      = errors.New("availability result discarded: flow moved on")
	ErrInvalidState    = errors.New("operation not allowed in current state")
)
