package model

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/database/base"
)

// Member roles.
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// ReferralCodeLength is the length of generated referral codes.
const ReferralCodeLength = 8

// referralAlphabet omits characters that are easy to confuse (0/O, 1/I/L).
const referralAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Team represents a hackathon team within one event.
type Team struct {
	base.Model
	EventID      uuid.UUID    `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_teams_event_name" json:"event_id"`
	Name         string       `gorm:"column:name;not null;uniqueIndex:idx_teams_event_name" json:"name"`
	ReferralCode string       `gorm:"column:referral_code;not null;uniqueIndex" json:"referral_code"`
	CreatedBy    uuid.UUID    `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	Members      []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// TeamMember is a user's membership in a team. A user belongs to at most one team per event.
type TeamMember struct {
	base.Model
	TeamID   uuid.UUID `gorm:"column:team_id;type:uuid;not null;index" json:"team_id"`
	EventID  uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_team_members_event_user" json:"event_id"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_team_members_event_user" json:"user_id"`
	Role     string    `gorm:"column:role;not null" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;not null" json:"joined_at"`
}

// TableName specifies the table name for GORM.
func (TeamMember) TableName() string {
	return "team_members"
}

// BeforeCreate stamps JoinedAt and assigns the id.
func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return m.Model.BeforeCreate(tx)
}

// NewReferralCode returns a random code from the unambiguous alphabet.
func NewReferralCode() (string, error) {
	max := big.NewInt(int64(len(referralAlphabet)))
	code := make([]byte, ReferralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = referralAlphabet[n.Int64()]
	}
	return string(code), nil
}

// TopicForTeam is the realtime topic carrying membership changes of a team.
func TopicForTeam(teamID uuid.UUID) string {
	return "team:" + teamID.String()
}
