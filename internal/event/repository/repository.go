// Package repository provides data access layer for event module.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/eventhub/internal/event/model"
)

// Repository defines the interface for event data access operations.
type Repository interface {
	// Create inserts a new event.
	Create(ctx context.Context, event *model.Event) error

	// GetByID finds event by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)

	// GetByIDForUpdate finds event by id and locks its row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Event, error)

	// Update saves every column of the event.
	Update(ctx context.Context, event *model.Event) error

	// SetBanner updates banner_url.
	SetBanner(ctx context.Context, id uuid.UUID, url string) error

	// Delete removes the event.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a filtered page of events and the total match count.
	List(ctx context.Context, filter model.ListFilter) ([]model.Event, int64, error)

	// Count returns the number of events.
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new event repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new event.
func (r *repository) Create(ctx context.Context, event *model.Event) error {
	r.logger.Debugw("Create called", "title", event.Title)

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.logger.Errorw("Create database error", "title", event.Title, "error", err)
		return err
	}
	return nil
}

// GetByID finds event by id.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetByIDForUpdate finds event by id and locks its row until the transaction ends.
func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) get(query *gorm.DB, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := query.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrEventNotFound
		}
		r.logger.Errorw("GetByID database error", "id", id, "error", err)
		return nil, err
	}
	return &event, nil
}

// Update saves every column of the event.
func (r *repository) Update(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		r.logger.Errorw("Update database error", "id", event.ID, "error", err)
		return err
	}
	return nil
}

// SetBanner updates banner_url.
func (r *repository) SetBanner(ctx context.Context, id uuid.UUID, url string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Update("banner_url", url)
	if result.Error != nil {
		r.logger.Errorw("SetBanner database error", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrEventNotFound
	}
	return nil
}

// Delete removes the event.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Event{})
	if result.Error != nil {
		r.logger.Errorw("Delete database error", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrEventNotFound
	}
	r.logger.Infow("event deleted", "id", id)
	return nil
}

// List returns a filtered page of events and the total match count.
func (r *repository) List(ctx context.Context, filter model.ListFilter) ([]model.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Event{})
	if !filter.IncludeHidden {
		query = query.Where("is_published = ?", true)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.OrganizerID != "" {
		query = query.Where("organizer_id = ?", filter.OrganizerID)
	}
	if filter.UpcomingOnly {
		query = query.Where("end_date >= ?", filter.Now)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.logger.Errorw("List count error", "error", err)
		return nil, 0, err
	}

	events := []model.Event{}
	err := query.
		Order("start_date ASC").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset()).
		Find(&events).Error
	if err != nil {
		r.logger.Errorw("List database error", "error", err)
		return nil, 0, err
	}

	return events, total, nil
}

// Count returns the number of events.
func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error
	return count, err
}
