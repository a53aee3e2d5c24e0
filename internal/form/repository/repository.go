// Package repository provides data access layer for form module.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/database/database"
	"github.com/festy23/eventhub/internal/form/model"
)

// Repository defines the interface for form data access operations.
type Repository interface {
	// GetByEventID finds the event's form with fields ordered by position.
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Form, error)

	// Replace stores form as the event's definition, replacing any previous fields.
	// Must run inside a transaction.
	Replace(ctx context.Context, form *model.Form) error

	// DeleteByEventID removes the event's form, its fields and submissions.
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error

	// CreateSubmission stores a user's answers.
	CreateSubmission(ctx context.Context, submission *model.FormSubmission) error

	// DeleteSubmission removes the user's submission for the event.
	DeleteSubmission(ctx context.Context, eventID, userID uuid.UUID) error

	// GetSubmissionsByUsers returns the event's submissions keyed by user id.
	GetSubmissionsByUsers(ctx context.Context, eventID uuid.UUID) (map[uuid.UUID]model.FormSubmission, error)

	// ListSubmissions returns the event's submissions joined with profiles.
	ListSubmissions(ctx context.Context, eventID uuid.UUID) ([]model.SubmissionView, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new form repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// GetByEventID finds the event's form with fields ordered by position.
func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Form, error) {
	var form model.Form
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("event_id = ?", eventID).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrFormNotFound
		}
		r.logger.Errorw("GetByEventID database error", "event_id", eventID, "error", err)
		return nil, err
	}
	return &form, nil
}

// Replace stores form as the event's definition, replacing any previous fields.
// The form row keeps its id so existing submissions stay attached.
func (r *repository) Replace(ctx context.Context, form *model.Form) error {
	r.logger.Debugw("Replace called", "event_id", form.EventID, "fields", len(form.Fields))

	db := r.db.WithContext(ctx)

	var existing model.Form
	err := db.Where("event_id = ?", form.EventID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fields := form.Fields
		form.Fields = nil
		if err := db.Create(form).Error; err != nil {
			r.logger.Errorw("Replace create form error", "event_id", form.EventID, "error", err)
			return err
		}
		form.Fields = fields
	case err != nil:
		r.logger.Errorw("Replace lookup error", "event_id", form.EventID, "error", err)
		return err
	default:
		form.ID = existing.ID
		form.CreatedAt = existing.CreatedAt
		err := db.Model(&existing).Updates(map[string]interface{}{
			"title":       form.Title,
			"description": form.Description,
			"updated_at":  time.Now(),
		}).Error
		if err != nil {
			r.logger.Errorw("Replace update form error", "id", existing.ID, "error", err)
			return err
		}
		if err := db.Where("form_id = ?", existing.ID).Delete(&model.FormField{}).Error; err != nil {
			r.logger.Errorw("Replace delete fields error", "id", existing.ID, "error", err)
			return err
		}
	}

	for i := range form.Fields {
		form.Fields[i].FormID = form.ID
	}
	if len(form.Fields) > 0 {
		if err := db.Create(&form.Fields).Error; err != nil {
			r.logger.Errorw("Replace create fields error", "id", form.ID, "error", err)
			return err
		}
	}
	return nil
}

// DeleteByEventID removes the event's form, its fields and submissions.
func (r *repository) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	db := r.db.WithContext(ctx)

	var form model.Form
	if err := db.Where("event_id = ?", eventID).First(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrFormNotFound
		}
		r.logger.Errorw("DeleteByEventID lookup error", "event_id", eventID, "error", err)
		return err
	}

	if err := db.Where("form_id = ?", form.ID).Delete(&model.FormSubmission{}).Error; err != nil {
		return err
	}
	if err := db.Where("form_id = ?", form.ID).Delete(&model.FormField{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&form).Error; err != nil {
		r.logger.Errorw("DeleteByEventID database error", "event_id", eventID, "error", err)
		return err
	}

	r.logger.Infow("form deleted", "event_id", eventID, "id", form.ID)
	return nil
}

// CreateSubmission stores a user's answers.
func (r *repository) CreateSubmission(ctx context.Context, submission *model.FormSubmission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		if database.IsDuplicateError(err) {
			return model.ErrAlreadySubmitted
		}
		r.logger.Errorw("CreateSubmission database error", "form_id", submission.FormID, "error", err)
		return err
	}
	return nil
}

// DeleteSubmission removes the user's submission for the event.
func (r *repository) DeleteSubmission(ctx context.Context, eventID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&model.FormSubmission{}).Error
	if err != nil {
		r.logger.Errorw("DeleteSubmission database error", "event_id", eventID, "user_id", userID, "error", err)
	}
	return err
}

// GetSubmissionsByUsers returns the event's submissions keyed by user id.
func (r *repository) GetSubmissionsByUsers(
	ctx context.Context,
	eventID uuid.UUID,
) (map[uuid.UUID]model.FormSubmission, error) {
	var submissions []model.FormSubmission
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&submissions).Error; err != nil {
		r.logger.Errorw("GetSubmissionsByUsers database error", "event_id", eventID, "error", err)
		return nil, err
	}

	byUser := make(map[uuid.UUID]model.FormSubmission, len(submissions))
	for _, s := range submissions {
		byUser[s.UserID] = s
	}
	return byUser, nil
}

type submissionRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FullName  string
	Email     string
	Responses datatypes.JSONMap
	CreatedAt time.Time
}

// ListSubmissions returns the event's submissions joined with profiles.
func (r *repository) ListSubmissions(ctx context.Context, eventID uuid.UUID) ([]model.SubmissionView, error) {
	var rows []submissionRow
	err := r.db.WithContext(ctx).
		Table("form_submissions").
		Select("form_submissions.id, form_submissions.user_id, profiles.full_name, profiles.email, " +
			"form_submissions.responses, form_submissions.created_at").
		Joins("JOIN profiles ON profiles.id = form_submissions.user_id").
		Where("form_submissions.event_id = ?", eventID).
		Order("form_submissions.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("ListSubmissions database error", "event_id", eventID, "error", err)
		return nil, err
	}

	views := make([]model.SubmissionView, 0, len(rows))
	for _, row := range rows {
		responses := map[string]any(row.Responses)
		if responses == nil {
			responses = map[string]any{}
		}
		views = append(views, model.SubmissionView{
			ID:        row.ID,
			UserID:    row.UserID,
			FullName:  row.FullName,
			Email:     row.Email,
			Responses: responses,
			CreatedAt: row.CreatedAt,
		})
	}
	return views, nil
}
