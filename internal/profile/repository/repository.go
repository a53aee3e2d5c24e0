// Package repository provides data access layer for profile module.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/database/database"
	"github.com/festy23/eventhub/internal/profile/model"
)

// Repository defines the interface for profile data access operations.
type Repository interface {
	// Create inserts a new profile.
	Create(ctx context.Context, profile *model.Profile) error

	// GetByID finds profile by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)

	// GetByEmail finds profile by normalized email.
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)

	// Update saves every column of the profile.
	Update(ctx context.Context, profile *model.Profile) error

	// UpdateFields updates selected columns and returns the fresh profile.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Profile, error)

	// List returns a filtered page of profiles and the total match count.
	List(ctx context.Context, filter model.ListFilter) ([]model.Profile, int64, error)

	// Delete removes the profile.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of profiles.
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new profile repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new profile.
func (r *repository) Create(ctx context.Context, profile *model.Profile) error {
	r.logger.Debugw("Create called", "email", profile.Email)

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if database.IsDuplicateError(err) {
			return model.ErrEmailTaken
		}
		r.logger.Errorw("Create database error", "email", profile.Email, "error", err)
		return err
	}
	return nil
}

// GetByID finds profile by id.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProfileNotFound
		}
		r.logger.Errorw("GetByID database error", "id", id, "error", err)
		return nil, err
	}
	return &profile, nil
}

// GetByEmail finds profile by normalized email.
func (r *repository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProfileNotFound
		}
		r.logger.Errorw("GetByEmail database error", "error", err)
		return nil, err
	}
	return &profile, nil
}

// Update saves every column of the profile.
func (r *repository) Update(ctx context.Context, profile *model.Profile) error {
	result := r.db.WithContext(ctx).Save(profile)
	if result.Error != nil {
		if database.IsDuplicateError(result.Error) {
			return model.ErrEmailTaken
		}
		r.logger.Errorw("Update database error", "id", profile.ID, "error", result.Error)
		return result.Error
	}
	return nil
}

// UpdateFields updates selected columns and returns the fresh profile.
func (r *repository) UpdateFields(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]interface{},
) (*model.Profile, error) {
	r.logger.Infow("UpdateFields called", "id", id, "fields", len(fields))

	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		r.logger.Errorw("UpdateFields database error", "id", id, "error", result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, model.ErrProfileNotFound
	}

	return r.GetByID(ctx, id)
}

// List returns a filtered page of profiles and the total match count.
func (r *repository) List(ctx context.Context, filter model.ListFilter) ([]model.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Profile{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.logger.Errorw("List count error", "error", err)
		return nil, 0, err
	}

	profiles := []model.Profile{}
	err := query.
		Order("created_at DESC").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset()).
		Find(&profiles).Error
	if err != nil {
		r.logger.Errorw("List database error", "error", err)
		return nil, 0, err
	}

	return profiles, total, nil
}

// Delete removes the profile.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Profile{})
	if result.Error != nil {
		r.logger.Errorw("Delete database error", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrProfileNotFound
	}
	r.logger.Infow("profile deleted", "id", id)
	return nil
}

// Count returns the number of profiles.
func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&count).Error
	return count, err
}
