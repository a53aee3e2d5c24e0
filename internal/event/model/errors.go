package model

import "errors"

var (
	// ErrEventNotFound is returned when event doesn't exist or isn't visible to the caller.
	ErrEventNotFound = errors.New("event not found")

	// ErrForbidden is returned when the caller cannot manage the event.
	ErrForbidden = errors.New("not allowed to manage this event")

	// ErrInvalidDates is returned when end_date precedes start_date.
	ErrInvalidDates = errors.New("end_date must not be before start_date")

	// ErrInvalidRegistrationWindow is returned when registration_end precedes registration_start.
	ErrInvalidRegistrationWindow = errors.New("registration_end must not be before registration_start")

	// ErrInvalidSubmissionWindow is returned when submission_end precedes submission_start.
	ErrInvalidSubmissionWindow = errors.New("submission_end must not be before submission_start")
)
