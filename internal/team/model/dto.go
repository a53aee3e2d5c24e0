// Package model provides domain models and DTOs for team module.
package model

import (
	"time"

	"github.com/google/uuid"
)

// CreateTeamRequest represents the request to create a team.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// JoinTeamRequest represents the request to join a team by referral code.
type JoinTeamRequest struct {
	ReferralCode string `json:"referral_code" binding:"required,max=16"`
}

// MemberView is a team member with profile details.
type MemberView struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamResponse represents a team with its members.
type TeamResponse struct {
	ID           uuid.UUID    `json:"id"`
	EventID      uuid.UUID    `json:"event_id"`
	Name         string       `json:"name"`
	ReferralCode string       `json:"referral_code"`
	CreatedBy    uuid.UUID    `json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`
	Capacity     int          `json:"capacity"`
	Members      []MemberView `json:"members"`
}

// IsFull reports whether the team reached its capacity.
func (t *TeamResponse) IsFull() bool {
	return len(t.Members) >= t.Capacity
}

// TeamSummary is a team row in an organizer listing.
type TeamSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ReferralCode string    `json:"referral_code"`
	MemberCount  int64     `json:"member_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Notification types published on a team topic.
const (
	EventMemberJoined = "member_joined"
	EventMemberLeft   = "member_left"
	EventTeamDeleted  = "team_deleted"
)

// LeaveResult describes what happened when a member left a team.
type LeaveResult struct {
	TeamID      uuid.UUID  `json:"team_id"`
	TeamDeleted bool       `json:"team_deleted"`
	NewLeaderID *uuid.UUID `json:"new_leader_id,omitempty"`
}
