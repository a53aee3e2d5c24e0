package model

import "errors"

var (
	// ErrProfileNotFound is returned when profile doesn't exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEmailTaken is returned when an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrBanned is returned when a banned account tries to log in.
	ErrBanned = errors.New("account is banned")

	// ErrNotAdmin is returned when a non-admin uses the admin login.
	ErrNotAdmin = errors.New("account is not an administrator")

	// ErrInvalidRole is returned for an unknown role.
	ErrInvalidRole = errors.New("invalid role")

	// ErrSelfModification is returned when an admin changes their own role, ban or account.
	ErrSelfModification = errors.New("cannot modify own account")
)
