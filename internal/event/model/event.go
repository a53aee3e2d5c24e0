// Package model contains data models for the event module.
package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/festy23/eventhub/internal/database/base"
)

// Event types.
const (
	TypeHackathon  = "hackathon"
	TypeWebinar    = "webinar"
	TypeMeetup     = "meetup"
	TypeContest    = "contest"
	TypeBootcamp   = "bootcamp"
	TypeWorkshop   = "workshop"
	TypeConference = "conference"
	TypeOther      = "other"
)

// Event modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

// DefaultTeamSize applies when an event does not set team_size.
const DefaultTeamSize = 4

// Types lists every event type.
var Types = []string{
	TypeHackathon, TypeWebinar, TypeMeetup, TypeContest,
	TypeBootcamp, TypeWorkshop, TypeConference, TypeOther,
}

// Modes lists every event mode.
var Modes = []string{ModeOnline, ModeOffline, ModeHybrid}

// Event represents an event published by an organizer.
type Event struct {
	base.Model
	Title             string     `json:"title" gorm:"column:title;not null"`
	Description       string     `json:"description" gorm:"column:description"`
	EventType         string     `json:"event_type" gorm:"column:event_type;not null;index"`
	Mode              string     `json:"mode" gorm:"column:mode;not null"`
	Location          string     `json:"location" gorm:"column:location"`
	BannerURL         string     `json:"banner_url" gorm:"column:banner_url"`
	StartDate         time.Time  `json:"start_date" gorm:"column:start_date;not null;index"`
	EndDate           time.Time  `json:"end_date" gorm:"column:end_date;not null"`
	RegistrationStart *time.Time `json:"registration_start" gorm:"column:registration_start"`
	RegistrationEnd   *time.Time `json:"registration_end" gorm:"column:registration_end"`
	SubmissionStart   *time.Time `json:"submission_start" gorm:"column:submission_start"`
	SubmissionEnd     *time.Time `json:"submission_end" gorm:"column:submission_end"`
	TeamSize          int        `json:"team_size" gorm:"column:team_size;not null"`
	MaxParticipants   int        `json:"max_participants" gorm:"column:max_participants;not null"`
	RequiresApproval  bool       `json:"requires_approval" gorm:"column:requires_approval;not null"`
	IsPublished       bool       `json:"is_published" gorm:"column:is_published;not null"`
	OrganizerID       uuid.UUID  `json:"organizer_id" gorm:"column:organizer_id;type:uuid;not null;index"`
}

// TableName specifies the table name for Event model.
func (Event) TableName() string {
	return "events"
}

// RegistrationOpen reports whether registration is open at now. Missing bounds are open.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return withinWindow(now, e.RegistrationStart, e.RegistrationEnd)
}

// SubmissionOpen reports whether project submission is open at now. Missing bounds are open.
func (e *Event) SubmissionOpen(now time.Time) bool {
	return withinWindow(now, e.SubmissionStart, e.SubmissionEnd)
}

// ManagedBy reports whether the user may manage the event.
func (e *Event) ManagedBy(userID uuid.UUID, isAdmin bool) bool {
	return isAdmin || e.OrganizerID == userID
}

// HasCapacityLimit reports whether max_participants restricts registrations.
func (e *Event) HasCapacityLimit() bool {
	return e.MaxParticipants > 0
}

// TypeDisplayName renders the event type for people, e.g. "Hackathon".
func (e *Event) TypeDisplayName() string {
	return cases.Title(language.English).String(e.EventType)
}

func withinWindow(now time.Time, start, end *time.Time) bool {
	if start != nil && now.Before(*start) {
		return false
	}
	if end != nil && now.After(*end) {
		return false
	}
	return true
}

// IsValidType reports whether t is a known event type.
func IsValidType(t string) bool {
	return contains(Types, t)
}

// IsValidMode reports whether m is a known event mode.
func IsValidMode(m string) bool {
	return contains(Modes, m)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
