package model

import (
	"time"

	"github.com/festy23/eventhub/internal/pagination"
)

// EventRequest is the body of create and update requests.
type EventRequest struct {
	Title             string     `json:"title" binding:"required,max=255"`
	Description       string     `json:"description"`
	EventType         string     `json:"event_type" binding:"required,eventtype"`
	Mode              string     `json:"mode" binding:"omitempty,eventmode"`
	Location          string     `json:"location" binding:"max=255"`
	StartDate         time.Time  `json:"start_date" binding:"required"`
	EndDate           time.Time  `json:"end_date" binding:"required"`
	RegistrationStart *time.Time `json:"registration_start"`
	RegistrationEnd   *time.Time `json:"registration_end"`
	SubmissionStart   *time.Time `json:"submission_start"`
	SubmissionEnd     *time.Time `json:"submission_end"`
	TeamSize          *int       `json:"team_size" binding:"omitempty,min=1,max=100"`
	MaxParticipants   int        `json:"max_participants" binding:"min=0"`
	RequiresApproval  bool       `json:"requires_approval"`
	IsPublished       bool       `json:"is_published"`
}

// Validate checks the cross-field rules binding tags cannot express.
func (r *EventRequest) Validate() error {
	if r.EndDate.Before(r.StartDate) {
		return ErrInvalidDates
	}
	if r.RegistrationStart != nil && r.RegistrationEnd != nil && r.RegistrationEnd.Before(*r.RegistrationStart) {
		return ErrInvalidRegistrationWindow
	}
	if r.SubmissionStart != nil && r.SubmissionEnd != nil && r.SubmissionEnd.Before(*r.SubmissionStart) {
		return ErrInvalidSubmissionWindow
	}
	return nil
}

// Apply copies the request onto e.
func (r *EventRequest) Apply(e *Event) {
	e.Title = r.Title
	e.Description = r.Description
	e.EventType = r.EventType
	e.Mode = r.Mode
	if e.Mode == "" {
		e.Mode = ModeOnline
	}
	e.Location = r.Location
	e.StartDate = r.StartDate
	e.EndDate = r.EndDate
	e.RegistrationStart = r.RegistrationStart
	e.RegistrationEnd = r.RegistrationEnd
	e.SubmissionStart = r.SubmissionStart
	e.SubmissionEnd = r.SubmissionEnd
	e.TeamSize = DefaultTeamSize
	if r.TeamSize != nil {
		e.TeamSize = *r.TeamSize
	}
	e.MaxParticipants = r.MaxParticipants
	e.RequiresApproval = r.RequiresApproval
	e.IsPublished = r.IsPublished
}

// ListFilter narrows an event listing.
type ListFilter struct {
	EventType     string
	Query         string
	UpcomingOnly  bool
	IncludeHidden bool
	OrganizerID   string
	Now           time.Time
	Page          pagination.Params
}

// ListResponse is a page of events.
type ListResponse struct {
	Events   []Event `json:"events"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// SubmissionWindowResponse describes an event's submission window.
type SubmissionWindowResponse struct {
	Open     bool       `json:"open"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}
