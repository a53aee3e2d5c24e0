package model

import "errors"

var (
	// ErrRegistrationNotFound is returned when registration doesn't exist.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrAlreadyRegistered is returned when the user already registered for the event.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrRegistrationClosed is returned outside the registration window or for unpublished events.
	ErrRegistrationClosed = errors.New("registration is closed")

	// ErrEventFull is returned when max_participants is reached.
	ErrEventFull = errors.New("event is full")

	// ErrInvalidStatus is returned for an unknown status filter.
	ErrInvalidStatus = errors.New("invalid registration status")
)
