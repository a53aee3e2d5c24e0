// Package service provides business logic layer for form module.
package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	"github.com/festy23/eventhub/internal/export"
	"github.com/festy23/eventhub/internal/form/model"
	"github.com/festy23/eventhub/internal/form/repository"
)

// Service defines the interface for form business logic operations.
type Service interface {
	// Get returns the form of a visible event.
	Get(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*model.Form, error)

	// Replace stores a new form definition for the event.
	Replace(ctx context.Context, actor *auth.Principal, eventID uuid.UUID, req *model.FormRequest) (*model.Form, error)

	// Delete removes the event's form.
	Delete(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) error

	// ListSubmissions returns every submission for the event.
	ListSubmissions(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) ([]model.SubmissionView, error)

	// ExportSubmissions builds a table with one column per form field.
	ExportSubmissions(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*export.Table, error)
}

type service struct {
	repo   repository.Repository
	events eventRepository.Repository
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new form service instance.
func New(
	repo repository.Repository,
	events eventRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
) Service {
	return &service{repo: repo, events: events, db: db, logger: logger}
}

// Get returns the form of a visible event.
func (s *service) Get(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*model.Form, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished && !managedBy(event, actor) {
		return nil, eventModel.ErrEventNotFound
	}
	return s.repo.GetByEventID(ctx, eventID)
}

// Replace stores a new form definition for the event.
func (s *service) Replace(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	req *model.FormRequest,
) (*model.Form, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.manage(ctx, actor, eventID); err != nil {
		return nil, err
	}

	form := req.ToForm(eventID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.New(tx, s.logger).Replace(ctx, form)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("form replaced", "event_id", eventID, "fields", len(form.Fields))
	return form, nil
}

// Delete removes the event's form.
func (s *service) Delete(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) error {
	if _, err := s.manage(ctx, actor, eventID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.New(tx, s.logger).DeleteByEventID(ctx, eventID)
	})
}

// ListSubmissions returns every submission for the event.
func (s *service) ListSubmissions(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
) ([]model.SubmissionView, error) {
	if _, err := s.manage(ctx, actor, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissions(ctx, eventID)
}

// ExportSubmissions builds a table with one column per form field.
func (s *service) ExportSubmissions(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
) (*export.Table, error) {
	if _, err := s.manage(ctx, actor, eventID); err != nil {
		return nil, err
	}

	form, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.repo.ListSubmissions(ctx, eventID)
	if err != nil {
		return nil, err
	}

	table := &export.Table{Headers: []string{"Name", "Email", "Submitted At"}}
	for _, field := range form.Fields {
		table.Headers = append(table.Headers, field.Label)
	}
	for _, sub := range submissions {
		createdAt := sub.CreatedAt
		row := []string{sub.FullName, sub.Email, export.FormatTime(&createdAt)}
		for _, field := range form.Fields {
			row = append(row, model.FormatResponse(sub.Responses[field.ID.String()]))
		}
		table.AddRow(row...)
	}

	s.logger.Infow("submissions exported", "event_id", eventID, "rows", len(table.Rows))
	return table, nil
}

func (s *service) manage(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*eventModel.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !managedBy(event, actor) {
		return nil, eventModel.ErrForbidden
	}
	return event, nil
}

func managedBy(event *eventModel.Event, actor *auth.Principal) bool {
	return actor != nil && event.ManagedBy(actor.ID, actor.IsAdmin())
}
