// Package service provides business logic layer for event module.
package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/event/repository"
	"github.com/festy23/eventhub/internal/pagination"
)

// ImageUploader stores uploaded images.
type ImageUploader interface {
	UploadImage(ctx context.Context, prefix string, fh *multipart.FileHeader) (string, error)
}

// Service defines the interface for event business logic operations.
type Service interface {
	// List returns a page of events visible to the caller.
	List(ctx context.Context, actor *auth.Principal, filter model.ListFilter) (*model.ListResponse, error)

	// Get returns an event. Drafts are visible to their managers only.
	Get(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Event, error)

	// Create publishes a new event organized by the caller.
	Create(ctx context.Context, actor *auth.Principal, req *model.EventRequest) (*model.Event, error)

	// Update replaces the editable fields of an event.
	Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req *model.EventRequest) (*model.Event, error)

	// Delete removes an event and everything attached to it.
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error

	// UploadBanner stores a banner image and sets banner_url.
	UploadBanner(ctx context.Context, actor *auth.Principal, id uuid.UUID, fh *multipart.FileHeader) (*model.Event, error)

	// SubmissionWindow reports whether project submission is currently open.
	SubmissionWindow(ctx context.Context, id uuid.UUID) (*model.SubmissionWindowResponse, error)

	// Manage returns the event when the caller may manage it.
	Manage(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Event, error)
}

type service struct {
	repo     repository.Repository
	uploader ImageUploader
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates a new event service instance.
func New(repo repository.Repository, uploader ImageUploader, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, uploader: uploader, logger: logger, now: time.Now}
}

// List returns a page of events visible to the caller.
func (s *service) List(
	ctx context.Context,
	actor *auth.Principal,
	filter model.ListFilter,
) (*model.ListResponse, error) {
	if !actor.IsStaff() {
		filter.IncludeHidden = false
	}
	if filter.IncludeHidden && !actor.IsAdmin() {
		// Organizers only see their own drafts.
		filter.OrganizerID = actor.ID.String()
	}
	filter.Page = pagination.New(filter.Page.Page, filter.Page.PageSize)
	filter.Now = s.now()

	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.ListResponse{
		Events:   events,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

// Get returns an event. Drafts are visible to their managers only.
func (s *service) Get(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished && !managedBy(event, actor) {
		return nil, model.ErrEventNotFound
	}
	return event, nil
}

// Create publishes a new event organized by the caller.
func (s *service) Create(ctx context.Context, actor *auth.Principal, req *model.EventRequest) (*model.Event, error) {
	if !actor.IsStaff() {
		return nil, model.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event := &model.Event{OrganizerID: actor.ID}
	req.Apply(event)
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Infow("event created", "id", event.ID, "organizer_id", actor.ID, "type", event.EventType)
	return event, nil
}

// Update replaces the editable fields of an event.
func (s *service) Update(
	ctx context.Context,
	actor *auth.Principal,
	id uuid.UUID,
	req *model.EventRequest,
) (*model.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.Manage(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	req.Apply(event)
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Infow("event updated", "id", event.ID, "actor_id", actor.ID)
	return event, nil
}

// Delete removes an event and everything attached to it.
func (s *service) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	if _, err := s.Manage(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UploadBanner stores a banner image and sets banner_url.
func (s *service) UploadBanner(
	ctx context.Context,
	actor *auth.Principal,
	id uuid.UUID,
	fh *multipart.FileHeader,
) (*model.Event, error) {
	event, err := s.Manage(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.UploadImage(ctx, "banners/"+id.String(), fh)
	if err != nil {
		s.logger.Warnw("banner upload failed", "id", id, "error", err)
		return nil, err
	}

	if err := s.repo.SetBanner(ctx, id, url); err != nil {
		return nil, err
	}
	event.BannerURL = url
	return event, nil
}

// SubmissionWindow reports whether project submission is currently open.
func (s *service) SubmissionWindow(ctx context.Context, id uuid.UUID) (*model.SubmissionWindowResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished {
		return nil, model.ErrEventNotFound
	}

	return &model.SubmissionWindowResponse{
		Open:     event.SubmissionOpen(s.now()),
		StartsAt: event.SubmissionStart,
		EndsAt:   event.SubmissionEnd,
	}, nil
}

// Manage returns the event when the caller may manage it.
func (s *service) Manage(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !managedBy(event, actor) {
		if !event.IsPublished {
			return nil, model.ErrEventNotFound
		}
		s.logger.Infow("event management denied", "id", id, "actor_id", actorID(actor))
		return nil, model.ErrForbidden
	}
	return event, nil
}

func managedBy(event *model.Event, actor *auth.Principal) bool {
	if actor == nil {
		return false
	}
	return event.ManagedBy(actor.ID, actor.IsAdmin())
}

func actorID(actor *auth.Principal) uuid.UUID {
	if actor == nil {
		return uuid.Nil
	}
	return actor.ID
}
