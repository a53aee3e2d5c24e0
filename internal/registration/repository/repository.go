// Package repository provides data access layer for registration module.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/database/database"
	"github.com/festy23/eventhub/internal/registration/model"
)

// Repository defines the interface for registration data access operations.
type Repository interface {
	// Create inserts a registration.
	Create(ctx context.Context, registration *model.Registration) error

	// GetByID finds registration by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Registration, error)

	// GetByEventAndUser finds the user's registration for the event.
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*model.Registration, error)

	// CountActive returns pending plus approved registrations of the event.
	CountActive(ctx context.Context, eventID uuid.UUID) (int64, error)

	// UpdateStatus sets the status and reviewer of a registration.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, at time.Time) error

	// Delete removes a registration.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByEvent returns the event's registrations with profile details, optionally filtered by status.
	ListByEvent(ctx context.Context, eventID uuid.UUID, status string) ([]model.RegistrationView, error)

	// ListByUser returns the user's registrations with event summaries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.MyRegistration, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new registration repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a registration.
func (r *repository) Create(ctx context.Context, registration *model.Registration) error {
	if err := r.db.WithContext(ctx).Create(registration).Error; err != nil {
		if database.IsDuplicateError(err) {
			return model.ErrAlreadyRegistered
		}
		r.logger.Errorw("Create database error",
			"event_id", registration.EventID, "user_id", registration.UserID, "error", err)
		return err
	}
	return nil
}

// GetByID finds registration by id.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByEventAndUser finds the user's registration for the event.
func (r *repository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*model.Registration, error) {
	return r.first(r.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID))
}

func (r *repository) first(query *gorm.DB) (*model.Registration, error) {
	var registration model.Registration
	if err := query.First(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrRegistrationNotFound
		}
		r.logger.Errorw("registration lookup database error", "error", err)
		return nil, err
	}
	return &registration, nil
}

// CountActive returns pending plus approved registrations of the event.
func (r *repository) CountActive(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Registration{}).
		Where("event_id = ? AND status IN ?", eventID, []string{model.StatusPending, model.StatusApproved}).
		Count(&count).Error
	return count, err
}

// UpdateStatus sets the status and reviewer of a registration.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
	reviewerID uuid.UUID,
	at time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&model.Registration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		})
	if result.Error != nil {
		r.logger.Errorw("UpdateStatus database error", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrRegistrationNotFound
	}
	return nil
}

// Delete removes a registration.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Registration{})
	if result.Error != nil {
		r.logger.Errorw("Delete database error", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrRegistrationNotFound
	}
	return nil
}

// ListByEvent returns the event's registrations with profile details, optionally filtered by status.
func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID, status string) ([]model.RegistrationView, error) {
	query := r.db.WithContext(ctx).
		Table("registrations").
		Select("registrations.id, registrations.event_id, registrations.user_id, registrations.status, " +
			"registrations.utm_source, registrations.reviewed_at, registrations.created_at, " +
			"profiles.full_name, profiles.email, profiles.college, profiles.phone").
		Joins("JOIN profiles ON profiles.id = registrations.user_id").
		Where("registrations.event_id = ?", eventID)
	if status != "" {
		query = query.Where("registrations.status = ?", status)
	}

	views := []model.RegistrationView{}
	if err := query.Order("registrations.created_at ASC").Scan(&views).Error; err != nil {
		r.logger.Errorw("ListByEvent database error", "event_id", eventID, "error", err)
		return nil, err
	}
	return views, nil
}

// ListByUser returns the user's registrations with event summaries, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.MyRegistration, error) {
	registrations := []model.MyRegistration{}
	err := r.db.WithContext(ctx).
		Table("registrations").
		Select("registrations.id, registrations.event_id, registrations.status, registrations.created_at, " +
			"events.title AS event_title, events.event_type, events.start_date, events.end_date, events.banner_url").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.user_id = ?", userID).
		Order("registrations.created_at DESC").
		Scan(&registrations).Error
	if err != nil {
		r.logger.Errorw("ListByUser database error", "user_id", userID, "error", err)
		return nil, err
	}
	return registrations, nil
}
