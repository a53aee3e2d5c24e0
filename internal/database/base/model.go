// Package base provides the common columns shared by every table.
package base

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model provides a UUID primary key and timestamps.
type Model struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the UUID if it is not already set.
func (m *Model) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
