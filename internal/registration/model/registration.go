// Package model contains data models for the registration module.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/festy23/eventhub/internal/database/base"
)

// Registration statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Registration is a user's registration for an event. A user registers at most once per event.
type Registration struct {
	base.Model
	EventID    uuid.UUID  `json:"event_id" gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_registrations_event_user"`
	UserID     uuid.UUID  `json:"user_id" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_registrations_event_user;index"`
	Status     string     `json:"status" gorm:"column:status;not null"`
	UTMSource  string     `json:"utm_source" gorm:"column:utm_source"`
	ReviewedBy *uuid.UUID `json:"reviewed_by,omitempty" gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty" gorm:"column:reviewed_at"`
}

// TableName specifies the table name for Registration model.
func (Registration) TableName() string {
	return "registrations"
}

// IsApproved reports whether the registration grants dashboard access.
func (r *Registration) IsApproved() bool {
	return r.Status == StatusApproved
}

// IsValidStatus reports whether s is a known status.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
