// Package model provides domain models and DTOs for project module.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/festy23/eventhub/internal/database/base"
)

// Member roles.
const (
	RoleOwner       = "owner"
	RoleContributor = "contributor"
)

// Project is a hackathon submission or a standalone portfolio project.
// A team submits at most one project per event.
type Project struct {
	base.Model
	EventID     *uuid.UUID                  `gorm:"column:event_id;type:uuid;uniqueIndex:idx_projects_event_team" json:"event_id"`
	TeamID      *uuid.UUID                  `gorm:"column:team_id;type:uuid;uniqueIndex:idx_projects_event_team" json:"team_id"`
	Title       string                      `gorm:"column:title;not null" json:"title"`
	Description string                      `gorm:"column:description" json:"description"`
	RepoURL     string                      `gorm:"column:repo_url" json:"repo_url"`
	DemoURL     string                      `gorm:"column:demo_url" json:"demo_url"`
	VideoURL    string                      `gorm:"column:video_url" json:"video_url"`
	ImageURL    string                      `gorm:"column:image_url" json:"image_url"`
	TechStack   datatypes.JSONSlice[string] `gorm:"column:tech_stack" json:"tech_stack"`
	CreatedBy   uuid.UUID                   `gorm:"column:created_by;type:uuid;not null;index" json:"created_by"`
	SubmittedAt *time.Time                  `gorm:"column:submitted_at" json:"submitted_at"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// IsEventProject reports whether the project was submitted to an event.
func (p *Project) IsEventProject() bool {
	return p.EventID != nil
}

// ProjectMember links a user to a project.
type ProjectMember struct {
	base.Model
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:idx_project_members_project_user" json:"project_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_project_members_project_user;index" json:"user_id"`
	Role      string    `gorm:"column:role;not null" json:"role"`
}

// TableName specifies the table name for GORM.
func (ProjectMember) TableName() string {
	return "project_members"
}

// IsValidRole reports whether role is a known member role.
func IsValidRole(role string) bool {
	return role == RoleOwner || role == RoleContributor
}
