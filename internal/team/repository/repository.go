// Package repository provides data access layer for team module.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/eventhub/internal/database/database"
	teamModel "github.com/festy23/eventhub/internal/team/model"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// Create creates a new team.
	Create(ctx context.Context, team *teamModel.Team) error

	// GetByID finds team by id.
	GetByID(ctx context.Context, id uuid.UUID) (*teamModel.Team, error)

	// GetByIDForUpdate finds team by id and locks its row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*teamModel.Team, error)

	// GetByReferralCode finds the event's team with the given code.
	GetByReferralCode(ctx context.Context, eventID uuid.UUID, code string) (*teamModel.Team, error)

	// ReferralCodeExists reports whether any team uses code.
	ReferralCodeExists(ctx context.Context, code string) (bool, error)

	// NameExists reports whether the event already has a team called name.
	NameExists(ctx context.Context, eventID uuid.UUID, name string) (bool, error)

	// AddMember inserts a membership.
	AddMember(ctx context.Context, member *teamModel.TeamMember) error

	// CountMembers returns the number of members of a team.
	CountMembers(ctx context.Context, teamID uuid.UUID) (int64, error)

	// GetMembership finds the user's membership in the event.
	GetMembership(ctx context.Context, eventID, userID uuid.UUID) (*teamModel.TeamMember, error)

	// ListMembers returns team members with profile details, oldest first.
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]teamModel.MemberView, error)

	// RemoveMember deletes the user's membership in the team.
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error

	// Leave removes the user from their team in the event. Leadership passes to the
	// earliest remaining member and an empty team is deleted. Must run inside a transaction.
	Leave(ctx context.Context, eventID, userID uuid.UUID) (*teamModel.LeaveResult, error)

	// Delete removes a team and its memberships.
	Delete(ctx context.Context, teamID uuid.UUID) error

	// ListByEvent returns every team of the event with member counts.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]teamModel.TeamSummary, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new team repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create creates a new team.
func (r *repository) Create(ctx context.Context, team *teamModel.Team) error {
	if err := r.db.WithContext(ctx).Omit("Members").Create(team).Error; err != nil {
		if database.IsDuplicateError(err) {
			return teamModel.ErrTeamNameTaken
		}
		r.logger.Errorw("Create database error", "event_id", team.EventID, "error", err)
		return err
	}
	return nil
}

// GetByID finds team by id.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*teamModel.Team, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), teamModel.ErrTeamNotFound)
}

// GetByIDForUpdate finds team by id and locks its row until the transaction ends.
func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*teamModel.Team, error) {
	query := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
	return r.first(query, teamModel.ErrTeamNotFound)
}

// GetByReferralCode finds the event's team with the given code.
func (r *repository) GetByReferralCode(ctx context.Context, eventID uuid.UUID, code string) (*teamModel.Team, error) {
	query := r.db.WithContext(ctx).Where("event_id = ? AND referral_code = ?", eventID, code)
	return r.first(query, teamModel.ErrInvalidReferralCode)
}

func (r *repository) first(query *gorm.DB, notFound error) (*teamModel.Team, error) {
	var team teamModel.Team
	if err := query.First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		r.logger.Errorw("team lookup database error", "error", err)
		return nil, err
	}
	return &team, nil
}

// ReferralCodeExists reports whether any team uses code.
func (r *repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&teamModel.Team{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// NameExists reports whether the event already has a team called name.
func (r *repository) NameExists(ctx context.Context, eventID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("event_id = ? AND name = ?", eventID, name).
		Count(&count).Error
	return count > 0, err
}

// AddMember inserts a membership.
func (r *repository) AddMember(ctx context.Context, member *teamModel.TeamMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if database.IsDuplicateError(err) {
			return teamModel.ErrAlreadyInTeam
		}
		r.logger.Errorw("AddMember database error", "team_id", member.TeamID, "user_id", member.UserID, "error", err)
		return err
	}
	return nil
}

// CountMembers returns the number of members of a team.
func (r *repository) CountMembers(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&teamModel.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// GetMembership finds the user's membership in the event.
func (r *repository) GetMembership(ctx context.Context, eventID, userID uuid.UUID) (*teamModel.TeamMember, error) {
	var member teamModel.TeamMember
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrNotInTeam
		}
		r.logger.Errorw("GetMembership database error", "event_id", eventID, "user_id", userID, "error", err)
		return nil, err
	}
	return &member, nil
}

// ListMembers returns team members with profile details, oldest first.
func (r *repository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]teamModel.MemberView, error) {
	members := []teamModel.MemberView{}
	err := r.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.user_id, profiles.full_name, profiles.email, team_members.role, team_members.joined_at").
		Joins("JOIN profiles ON profiles.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("team_members.joined_at ASC").
		Scan(&members).Error
	if err != nil {
		r.logger.Errorw("ListMembers database error", "team_id", teamID, "error", err)
		return nil, err
	}
	return members, nil
}

// RemoveMember deletes the user's membership in the team.
func (r *repository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.TeamMember{})
	if result.Error != nil {
		r.logger.Errorw("RemoveMember database error", "team_id", teamID, "user_id", userID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrMemberNotFound
	}
	return nil
}

// Leave removes the user from their team in the event.
func (r *repository) Leave(ctx context.Context, eventID, userID uuid.UUID) (*teamModel.LeaveResult, error) {
	membership, err := r.GetMembership(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := r.GetByIDForUpdate(ctx, membership.TeamID); err != nil {
		return nil, err
	}
	if err := r.RemoveMember(ctx, membership.TeamID, userID); err != nil {
		return nil, err
	}

	result := &teamModel.LeaveResult{TeamID: membership.TeamID}

	var next teamModel.TeamMember
	err = r.db.WithContext(ctx).
		Where("team_id = ?", membership.TeamID).
		Order("joined_at ASC").
		First(&next).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.Delete(ctx, membership.TeamID); err != nil {
			return nil, err
		}
		result.TeamDeleted = true
		return result, nil
	case err != nil:
		r.logger.Errorw("Leave next member lookup error", "team_id", membership.TeamID, "error", err)
		return nil, err
	}

	if membership.Role == teamModel.RoleLeader && next.Role != teamModel.RoleLeader {
		err := r.db.WithContext(ctx).
			Model(&teamModel.TeamMember{}).
			Where("id = ?", next.ID).
			Update("role", teamModel.RoleLeader).Error
		if err != nil {
			r.logger.Errorw("Leave promote error", "team_id", membership.TeamID, "error", err)
			return nil, err
		}
		result.NewLeaderID = &next.UserID
	}
	return result, nil
}

// Delete removes a team and its memberships.
func (r *repository) Delete(ctx context.Context, teamID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("team_id = ?", teamID).Delete(&teamModel.TeamMember{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", teamID).Delete(&teamModel.Team{})
	if result.Error != nil {
		r.logger.Errorw("Delete database error", "team_id", teamID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrTeamNotFound
	}
	r.logger.Infow("team deleted", "team_id", teamID)
	return nil
}

// ListByEvent returns every team of the event with member counts.
func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]teamModel.TeamSummary, error) {
	teams := []teamModel.TeamSummary{}
	err := r.db.WithContext(ctx).
		Table("teams").
		Select("teams.id, teams.name, teams.referral_code, teams.created_at, COUNT(team_members.id) AS member_count").
		Joins("LEFT JOIN team_members ON team_members.team_id = teams.id").
		Where("teams.event_id = ?", eventID).
		Group("teams.id, teams.name, teams.referral_code, teams.created_at").
		Order("teams.created_at ASC").
		Scan(&teams).Error
	if err != nil {
		r.logger.Errorw("ListByEvent database error", "event_id", eventID, "error", err)
		return nil, err
	}
	return teams, nil
}
