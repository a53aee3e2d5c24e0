// Package repository provides data access layer for project module.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/database/database"
	"github.com/festy23/eventhub/internal/project/model"
)

// Repository defines the interface for project data access operations.
type Repository interface {
	// Create inserts a project.
	Create(ctx context.Context, project *model.Project) error

	// GetByID finds project by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)

	// Update saves every column of the project.
	Update(ctx context.Context, project *model.Project) error

	// Delete removes the project and its memberships.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsForTeam reports whether the team already submitted to the event.
	ExistsForTeam(ctx context.Context, eventID, teamID uuid.UUID) (bool, error)

	// ExistsForMember reports whether the user is a member of any project submitted to the event.
	ExistsForMember(ctx context.Context, eventID, userID uuid.UUID) (bool, error)

	// AddMember inserts a membership.
	AddMember(ctx context.Context, member *model.ProjectMember) error

	// GetMember finds the user's membership in the project.
	GetMember(ctx context.Context, projectID, userID uuid.UUID) (*model.ProjectMember, error)

	// RemoveMember deletes the user's membership in the project.
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error

	// CountOwners returns the number of owners of the project.
	CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error)

	// ListMembers returns project members with profile details.
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]model.MemberView, error)

	// ListByUser returns the projects the user is a member of, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error)

	// ListSubmissions returns the event's projects flattened for review.
	ListSubmissions(ctx context.Context, eventID uuid.UUID) ([]model.SubmissionRow, error)

	// List returns a filtered page of projects and the total match count.
	List(ctx context.Context, filter model.ListFilter) ([]model.Project, int64, error)

	// Count returns the number of projects, optionally restricted to an event.
	Count(ctx context.Context, eventID *uuid.UUID) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new project repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a project.
func (r *repository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		if database.IsDuplicateError(err) {
			return model.ErrProjectExists
		}
		r.logger.Errorw("Create database error", "title", project.Title, "error", err)
		return err
	}
	return nil
}

// GetByID finds project by id.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProjectNotFound
		}
		r.logger.Errorw("GetByID database error", "id", id, "error", err)
		return nil, err
	}
	return &project, nil
}

// Update saves every column of the project.
func (r *repository) Update(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		r.logger.Errorw("Update database error", "id", project.ID, "error", err)
		return err
	}
	return nil
}

// Delete removes the project and its memberships.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
		r.logger.Errorw("Delete members database error", "id", id, "error", err)
		return err
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if result.Error != nil {
		r.logger.Errorw("Delete database error", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}

// ExistsForTeam reports whether the team already submitted to the event.
func (r *repository) ExistsForTeam(ctx context.Context, eventID, teamID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("event_id = ? AND team_id = ?", eventID, teamID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("ExistsForTeam database error", "event_id", eventID, "team_id", teamID, "error", err)
		return false, err
	}
	return count > 0, nil
}

// ExistsForMember reports whether the user is a member of any project submitted to the event.
func (r *repository) ExistsForMember(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Where("projects.event_id = ? AND project_members.user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("ExistsForMember database error", "event_id", eventID, "user_id", userID, "error", err)
		return false, err
	}
	return count > 0, nil
}

// AddMember inserts a membership.
func (r *repository) AddMember(ctx context.Context, member *model.ProjectMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if database.IsDuplicateError(err) {
			return model.ErrMemberExists
		}
		r.logger.Errorw("AddMember database error", "project_id", member.ProjectID, "error", err)
		return err
	}
	return nil
}

// GetMember finds the user's membership in the project.
func (r *repository) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrMemberNotFound
		}
		r.logger.Errorw("GetMember database error", "project_id", projectID, "error", err)
		return nil, err
	}
	return &member, nil
}

// RemoveMember deletes the user's membership in the project.
func (r *repository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{})
	if result.Error != nil {
		r.logger.Errorw("RemoveMember database error", "project_id", projectID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrMemberNotFound
	}
	return nil
}

// CountOwners returns the number of owners of the project.
func (r *repository) CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, model.RoleOwner).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("CountOwners database error", "project_id", projectID, "error", err)
		return 0, err
	}
	return count, nil
}

// ListMembers returns project members with profile details.
func (r *repository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]model.MemberView, error) {
	members := []model.MemberView{}
	err := r.db.WithContext(ctx).
		Table("project_members").
		Select("project_members.user_id, profiles.full_name, profiles.email, project_members.role").
		Joins("JOIN profiles ON profiles.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.created_at ASC").
		Scan(&members).Error
	if err != nil {
		r.logger.Errorw("ListMembers database error", "project_id", projectID, "error", err)
		return nil, err
	}
	return members, nil
}

// ListByUser returns the projects the user is a member of, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	projects := []model.Project{}
	err := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		r.logger.Errorw("ListByUser database error", "user_id", userID, "error", err)
		return nil, err
	}
	return projects, nil
}

// ListSubmissions returns the event's projects flattened for review.
func (r *repository) ListSubmissions(ctx context.Context, eventID uuid.UUID) ([]model.SubmissionRow, error) {
	memberCounts := r.db.
		Table("project_members").
		Select("project_id, COUNT(*) AS member_count").
		Group("project_id")

	rows := []model.SubmissionRow{}
	err := r.db.WithContext(ctx).
		Table("projects").
		Select("projects.id, projects.title, COALESCE(teams.name, '') AS team_name, projects.repo_url, "+
			"projects.demo_url, projects.video_url, profiles.full_name AS owner_name, "+
			"profiles.email AS owner_email, COALESCE(mc.member_count, 0) AS member_count, projects.submitted_at").
		Joins("LEFT JOIN teams ON teams.id = projects.team_id").
		Joins("JOIN profiles ON profiles.id = projects.created_by").
		Joins("LEFT JOIN (?) AS mc ON mc.project_id = projects.id", memberCounts).
		Where("projects.event_id = ?", eventID).
		Order("projects.submitted_at ASC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("ListSubmissions database error", "event_id", eventID, "error", err)
		return nil, err
	}
	return rows, nil
}

// List returns a filtered page of projects and the total match count.
func (r *repository) List(ctx context.Context, filter model.ListFilter) ([]model.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Project{})
	if filter.EventID != "" {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.logger.Errorw("List count error", "error", err)
		return nil, 0, err
	}

	projects := []model.Project{}
	err := query.
		Order("created_at DESC").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset()).
		Find(&projects).Error
	if err != nil {
		r.logger.Errorw("List database error", "error", err)
		return nil, 0, err
	}

	return projects, total, nil
}

// Count returns the number of projects, optionally restricted to an event.
func (r *repository) Count(ctx context.Context, eventID *uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Project{})
	if eventID != nil {
		query = query.Where("event_id = ?", *eventID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		r.logger.Errorw("Count database error", "error", err)
		return 0, err
	}
	return count, nil
}
