package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/festy23/eventhub/internal/pagination"
)

// ProjectRequest is the body of create and update requests.
type ProjectRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"max=10000"`
	RepoURL     string   `json:"repo_url" binding:"omitempty,http_url"`
	DemoURL     string   `json:"demo_url" binding:"omitempty,http_url"`
	VideoURL    string   `json:"video_url" binding:"omitempty,http_url"`
	ImageURL    string   `json:"image_url" binding:"omitempty,http_url"`
	TechStack   []string `json:"tech_stack" binding:"max=30,dive,required,max=50"`
}

// Apply copies the request onto p.
func (r *ProjectRequest) Apply(p *Project) {
	p.Title = r.Title
	p.Description = r.Description
	p.RepoURL = r.RepoURL
	p.DemoURL = r.DemoURL
	p.VideoURL = r.VideoURL
	p.ImageURL = r.ImageURL
	p.TechStack = r.TechStack
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
}

// AddMemberRequest adds a user to a project by email.
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=owner contributor"`
}

// MemberView is a project member with profile details.
type MemberView struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// ProjectResponse is a project with its members.
type ProjectResponse struct {
	Project
	TeamName string       `json:"team_name,omitempty"`
	Members  []MemberView `json:"members"`
}

// ListFilter narrows an admin project listing.
type ListFilter struct {
	EventID string
	Query   string
	Page    pagination.Params
}

// ListResponse is a page of projects.
type ListResponse struct {
	Projects []Project `json:"projects"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// SubmissionRow is a flattened event project used for organizer listings and export.
type SubmissionRow struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	TeamName    string     `json:"team_name"`
	RepoURL     string     `json:"repo_url"`
	DemoURL     string     `json:"demo_url"`
	VideoURL    string     `json:"video_url"`
	OwnerName   string     `json:"owner_name"`
	OwnerEmail  string     `json:"owner_email"`
	MemberCount int64      `json:"member_count"`
	SubmittedAt *time.Time `json:"submitted_at"`
}
