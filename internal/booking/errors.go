package booking

import "errors"

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrFacilityNotFound = errors.New("facility not found")
	ErrSlotConflict     = errors.New("requested slot conflicts with an existing booking")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("caller does not own this booking")
)
