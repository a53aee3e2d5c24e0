package model

import "errors"

var (
	// ErrProjectNotFound indicates that the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectExists indicates that the team already submitted a project to the event.
	ErrProjectExists = errors.New("team already submitted a project")
	// ErrSubmissionClosed indicates that the event's submission window is closed.
	ErrSubmissionClosed = errors.New("submission window is closed")
	// ErrNotApproved indicates that the user has no approved registration for the event.
	ErrNotApproved = errors.New("approved registration required")
	// ErrNotOwner indicates that only a project owner may perform the action.
	ErrNotOwner = errors.New("only a project owner can do this")
	// ErrMemberExists indicates that the user is already a project member.
	ErrMemberExists = errors.New("user is already a project member")
	// ErrMemberNotFound indicates that the user is not a project member.
	ErrMemberNotFound = errors.New("member not found")
	// ErrLastOwner indicates that the last owner cannot be removed.
	ErrLastOwner = errors.New("cannot remove the last owner")
	// ErrUserNotFound indicates that no account has the given email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRole indicates an unknown member role.
	ErrInvalidRole = errors.New("invalid member role")
)
