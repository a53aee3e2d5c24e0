package model

import "errors"

var (
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamNameTaken indicates that the event already has a team with this name.
	ErrTeamNameTaken = errors.New("team name already taken")
	// ErrTeamFull indicates that the team reached the event's team size.
	ErrTeamFull = errors.New("team is full")
	// ErrAlreadyInTeam indicates that the user already belongs to a team in this event.
	ErrAlreadyInTeam = errors.New("already in a team for this event")
	// ErrInvalidReferralCode indicates that no team in the event has this referral code.
	ErrInvalidReferralCode = errors.New("invalid referral code")
	// ErrNotInTeam indicates that the user has no team in this event.
	ErrNotInTeam = errors.New("not in a team for this event")
	// ErrNotLeader indicates that only the team leader may perform the action.
	ErrNotLeader = errors.New("only the team leader can do this")
	// ErrNotApproved indicates that the user has no approved registration for the event.
	ErrNotApproved = errors.New("approved registration required")
	// ErrMemberNotFound indicates that the user is not a member of the team.
	ErrMemberNotFound = errors.New("member not found")
	// ErrCannotRemoveSelf indicates that a leader must leave instead of removing themself.
	ErrCannotRemoveSelf = errors.New("use leave to remove yourself")
	// ErrInvalidTeamName indicates that the provided team name is invalid (e.g., empty).
	ErrInvalidTeamName = errors.New("invalid team name")
)
