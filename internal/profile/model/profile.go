// Package model contains data models for the profile module.
package model

import (
	"strings"

	"github.com/festy23/eventhub/internal/database/base"
)

// Profile roles.
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Profile represents a user account.
type Profile struct {
	base.Model
	Email        string `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	FullName     string `json:"full_name" gorm:"column:full_name"`
	AvatarURL    string `json:"avatar_url" gorm:"column:avatar_url"`
	Bio          string `json:"bio" gorm:"column:bio"`
	College      string `json:"college" gorm:"column:college"`
	Phone        string `json:"phone" gorm:"column:phone"`
	Role         string `json:"role" gorm:"column:role;not null;default:user"`
	IsBanned     bool   `json:"is_banned" gorm:"column:is_banned;not null;default:false"`
}

// TableName specifies the table name for Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// IsValidRole reports whether role is a known role.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
