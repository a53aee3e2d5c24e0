package model

import (
	"time"

	"github.com/festy23/eventhub/internal/pagination"
)

// SignupRequest represents the request to create an account.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=320"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,max=255"`
}

// LoginRequest represents the request to obtain a token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   Profile   `json:"profile"`
}

// UpdateProfileRequest represents editable profile fields.
type UpdateProfileRequest struct {
	FullName  string `json:"full_name" binding:"required,max=255"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,http_url"`
	Bio       string `json:"bio" binding:"max=2000"`
	College   string `json:"college" binding:"max=255"`
	Phone     string `json:"phone" binding:"max=32"`
}

// SetRoleRequest represents an admin role change.
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user organizer admin"`
}

// SetBanRequest represents an admin ban toggle.
type SetBanRequest struct {
	Banned *bool `json:"banned" binding:"required"`
}

// ListFilter narrows an admin user listing.
type ListFilter struct {
	Role  string
	Query string
	Page  pagination.Params
}

// ListResponse is a page of profiles.
type ListResponse struct {
	Users    []Profile `json:"users"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
