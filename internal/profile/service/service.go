// Package service provides business logic layer for profile module.
package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/pagination"
	"github.com/festy23/eventhub/internal/profile/model"
	"github.com/festy23/eventhub/internal/profile/repository"
)

// TokenIssuer issues access tokens.
type TokenIssuer interface {
	Issue(subject uuid.UUID, email, role string) (string, time.Time, error)
}

// ImageUploader stores uploaded images.
type ImageUploader interface {
	UploadImage(ctx context.Context, prefix string, fh *multipart.FileHeader) (string, error)
}

// Service defines the interface for profile business logic operations.
type Service interface {
	// Signup creates an account and returns a token for it.
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)

	// Login checks credentials and returns a token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// AdminLogin is Login restricted to administrators.
	AdminLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// EnsureAdmin creates or refreshes the bootstrap administrator.
	EnsureAdmin(ctx context.Context, email, passwordHash, name string) error

	// GetMe returns the caller's profile.
	GetMe(ctx context.Context, userID uuid.UUID) (*model.Profile, error)

	// UpdateMe updates the caller's editable fields.
	UpdateMe(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error)

	// UploadAvatar stores an avatar image and sets avatar_url.
	UploadAvatar(ctx context.Context, userID uuid.UUID, fh *multipart.FileHeader) (*model.Profile, error)

	// ListUsers returns a page of profiles.
	ListUsers(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error)

	// SetRole changes a user's role.
	SetRole(ctx context.Context, actorID, userID uuid.UUID, role string) (*model.Profile, error)

	// SetBanned bans or unbans a user.
	SetBanned(ctx context.Context, actorID, userID uuid.UUID, banned bool) (*model.Profile, error)

	// DeleteUser removes a user and everything they own.
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
}

type service struct {
	repo     repository.Repository
	tokens   TokenIssuer
	uploader ImageUploader
	logger   *zap.SugaredLogger
}

// New creates a new profile service instance.
func New(repo repository.Repository, tokens TokenIssuer, uploader ImageUploader, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, tokens: tokens, uploader: uploader, logger: logger}
}

// Signup creates an account and returns a token for it.
func (s *service) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		Email:        model.NormalizeEmail(req.Email),
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         model.RoleUser,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Infow("profile created", "id", profile.ID)
	return s.issue(profile)
}

// Login checks credentials and returns a token.
func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	profile, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(profile.PasswordHash, req.Password) {
		s.logger.Debugw("Login wrong password", "id", profile.ID)
		return nil, model.ErrInvalidCredentials
	}
	if profile.IsBanned {
		s.logger.Infow("Login rejected for banned profile", "id", profile.ID)
		return nil, model.ErrBanned
	}

	return s.issue(profile)
}

// AdminLogin is Login restricted to administrators.
func (s *service) AdminLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	resp, err := s.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Profile.Role != model.RoleAdmin {
		s.logger.Warnw("AdminLogin by non-admin", "id", resp.Profile.ID)
		return nil, model.ErrNotAdmin
	}
	return resp, nil
}

// EnsureAdmin creates or refreshes the bootstrap administrator.
func (s *service) EnsureAdmin(ctx context.Context, email, passwordHash, name string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		profile := &model.Profile{
			Email:        model.NormalizeEmail(email),
			PasswordHash: passwordHash,
			FullName:     name,
			Role:         model.RoleAdmin,
		}
		if err := s.repo.Create(ctx, profile); err != nil {
			return err
		}
		s.logger.Infow("bootstrap admin created", "id", profile.ID)
		return nil
	case err != nil:
		return err
	}

	existing.PasswordHash = passwordHash
	existing.Role = model.RoleAdmin
	existing.IsBanned = false
	if existing.FullName == "" {
		existing.FullName = name
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return err
	}
	s.logger.Infow("bootstrap admin refreshed", "id", existing.ID)
	return nil
}

// GetMe returns the caller's profile.
func (s *service) GetMe(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateMe updates the caller's editable fields.
func (s *service) UpdateMe(
	ctx context.Context,
	userID uuid.UUID,
	req *model.UpdateProfileRequest,
) (*model.Profile, error) {
	return s.repo.UpdateFields(ctx, userID, map[string]interface{}{
		"full_name":  req.FullName,
		"avatar_url": req.AvatarURL,
		"bio":        req.Bio,
		"college":    req.College,
		"phone":      req.Phone,
	})
}

// UploadAvatar stores an avatar image and sets avatar_url.
func (s *service) UploadAvatar(ctx context.Context, userID uuid.UUID, fh *multipart.FileHeader) (*model.Profile, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	url, err := s.uploader.UploadImage(ctx, "avatars/"+userID.String(), fh)
	if err != nil {
		s.logger.Warnw("avatar upload failed", "id", userID, "error", err)
		return nil, err
	}

	return s.repo.UpdateFields(ctx, userID, map[string]interface{}{"avatar_url": url})
}

// ListUsers returns a page of profiles.
func (s *service) ListUsers(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error) {
	if filter.Role != "" && !model.IsValidRole(filter.Role) {
		return nil, model.ErrInvalidRole
	}
	filter.Page = pagination.New(filter.Page.Page, filter.Page.PageSize)

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.ListResponse{
		Users:    users,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

// SetRole changes a user's role.
func (s *service) SetRole(ctx context.Context, actorID, userID uuid.UUID, role string) (*model.Profile, error) {
	if !model.IsValidRole(role) {
		return nil, model.ErrInvalidRole
	}
	if actorID == userID {
		return nil, model.ErrSelfModification
	}

	profile, err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"role": role})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("role changed", "id", userID, "role", role, "by", actorID)
	return profile, nil
}

// SetBanned bans or unbans a user.
func (s *service) SetBanned(ctx context.Context, actorID, userID uuid.UUID, banned bool) (*model.Profile, error) {
	if actorID == userID {
		return nil, model.ErrSelfModification
	}

	profile, err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"is_banned": banned})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("ban changed", "id", userID, "banned", banned, "by", actorID)
	return profile, nil
}

// DeleteUser removes a user and everything they own.
func (s *service) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return model.ErrSelfModification
	}
	return s.repo.Delete(ctx, userID)
}

func (s *service) issue(profile *model.Profile) (*model.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(profile.ID, profile.Email, profile.Role)
	if err != nil {
		s.logger.Errorw("token issue failed", "id", profile.ID, "error", err)
		return nil, err
	}
	return &model.AuthResponse{Token: token, ExpiresAt: expiresAt, Profile: *profile}, nil
}
