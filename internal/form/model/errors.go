package model

import "errors"

var (
	// ErrFormNotFound is returned when the event has no form.
	ErrFormNotFound = errors.New("form not found")

	// ErrInvalidResponses is returned when form responses fail validation.
	ErrInvalidResponses = errors.New("invalid form responses")

	// ErrOptionsRequired is returned when a select or radio field has no options.
	ErrOptionsRequired = errors.New("select and radio fields require options")

	// ErrAlreadySubmitted is returned when the user already submitted the form.
	ErrAlreadySubmitted = errors.New("form already submitted")
)
