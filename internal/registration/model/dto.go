package model

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the body of a registration.
type RegisterRequest struct {
	UTMSource string         `json:"utm_source" binding:"max=255"`
	Responses map[string]any `json:"responses"`
}

// RegistrationView is a registration joined with the registrant's profile.
type RegistrationView struct {
	ID         uuid.UUID  `json:"id"`
	EventID    uuid.UUID  `json:"event_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Status     string     `json:"status"`
	UTMSource  string     `json:"utm_source"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	College    string     `json:"college"`
	Phone      string     `json:"phone"`
}

// MyRegistration is a registration joined with its event summary.
type MyRegistration struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	EventTitle string    `json:"event_title"`
	EventType  string    `json:"event_type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	BannerURL  string    `json:"banner_url"`
}

// StatusCount is the number of registrations with a status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
