// Package service provides business logic layer for registration module.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	"github.com/festy23/eventhub/internal/export"
	formModel "github.com/festy23/eventhub/internal/form/model"
	formRepository "github.com/festy23/eventhub/internal/form/repository"
	"github.com/festy23/eventhub/internal/mail"
	profileRepository "github.com/festy23/eventhub/internal/profile/repository"
	"github.com/festy23/eventhub/internal/registration/model"
	"github.com/festy23/eventhub/internal/registration/repository"
	teamModel "github.com/festy23/eventhub/internal/team/model"
	teamRepository "github.com/festy23/eventhub/internal/team/repository"
)

// TeamPublisher announces membership changes caused by cancellations and rejections.
type TeamPublisher interface {
	PublishLeave(result *teamModel.LeaveResult, userID uuid.UUID)
}

// Notifier sends notification emails.
type Notifier interface {
	Notify(ctx context.Context, kind, to string, data mail.NotificationData) error
}

// Recorder counts registrations by status.
type Recorder interface {
	RegistrationRecorded(status string)
}

// Service defines the interface for registration business logic operations.
type Service interface {
	// Register registers the caller for the event.
	Register(ctx context.Context, actor *auth.Principal, eventID uuid.UUID, req *model.RegisterRequest) (*model.Registration, error)

	// GetMine returns the caller's registration for the event.
	GetMine(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*model.Registration, error)

	// Cancel withdraws the caller's registration and team membership.
	Cancel(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) error

	// MyRegistrations lists the caller's registrations with event summaries.
	MyRegistrations(ctx context.Context, actor *auth.Principal) ([]model.MyRegistration, error)

	// ListByEvent lists the event's registrations, optionally by status.
	ListByEvent(ctx context.Context, actor *auth.Principal, eventID uuid.UUID, status string) ([]model.RegistrationView, error)

	// Approve grants dashboard access.
	Approve(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Registration, error)

	// Reject declines a registration and drops any team membership.
	Reject(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Registration, error)

	// Export builds a table of the event's registrations with form answers.
	Export(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*export.Table, error)
}

type service struct {
	repo     repository.Repository
	events   eventRepository.Repository
	forms    formRepository.Repository
	profiles profileRepository.Repository
	db       *gorm.DB
	teams    TeamPublisher
	notifier Notifier
	recorder Recorder
	validate *validator.Validate
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates a new registration service instance.
func New(
	repo repository.Repository,
	events eventRepository.Repository,
	forms formRepository.Repository,
	profiles profileRepository.Repository,
	db *gorm.DB,
	teams TeamPublisher,
	notifier Notifier,
	recorder Recorder,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		events:   events,
		forms:    forms,
		profiles: profiles,
		db:       db,
		teams:    teams,
		notifier: notifier,
		recorder: recorder,
		validate: validator.New(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register registers the caller for the event.
func (s *service) Register(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	req *model.RegisterRequest,
) (*model.Registration, error) {
	var (
		registration *model.Registration
		event        *eventModel.Event
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		txForms := formRepository.New(tx, s.logger)

		// Locking the event serializes registrations so the capacity check cannot go stale.
		var err error
		event, err = eventRepository.New(tx, s.logger).GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if !event.IsPublished {
			return eventModel.ErrEventNotFound
		}
		if !event.RegistrationOpen(s.now()) {
			return model.ErrRegistrationClosed
		}

		if _, err := txRepo.GetByEventAndUser(ctx, eventID, actor.ID); err == nil {
			return model.ErrAlreadyRegistered
		} else if !errors.Is(err, model.ErrRegistrationNotFound) {
			return err
		}

		if event.HasCapacityLimit() {
			active, err := txRepo.CountActive(ctx, eventID)
			if err != nil {
				return err
			}
			if active >= int64(event.MaxParticipants) {
				return model.ErrEventFull
			}
		}

		form, err := txForms.GetByEventID(ctx, eventID)
		if err != nil && !errors.Is(err, formModel.ErrFormNotFound) {
			return err
		}
		var answers map[string]any
		if form != nil {
			answers, err = form.ValidateResponses(s.validate, req.Responses)
			if err != nil {
				return err
			}
		}

		registration = &model.Registration{
			EventID:   eventID,
			UserID:    actor.ID,
			Status:    model.StatusApproved,
			UTMSource: req.UTMSource,
		}
		if event.RequiresApproval {
			registration.Status = model.StatusPending
		}
		if err := txRepo.Create(ctx, registration); err != nil {
			return err
		}

		if form == nil {
			return nil
		}
		err = txForms.CreateSubmission(ctx, &formModel.FormSubmission{
			FormID:    form.ID,
			EventID:   eventID,
			UserID:    actor.ID,
			Responses: datatypes.JSONMap(answers),
		})
		if errors.Is(err, formModel.ErrAlreadySubmitted) {
			return model.ErrAlreadyRegistered
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("registration created",
		"registration_id", registration.ID, "event_id", eventID, "user_id", actor.ID, "status", registration.Status)
	if s.recorder != nil {
		s.recorder.RegistrationRecorded(registration.Status)
	}

	kind := mail.KindRegistrationReceived
	if registration.Status == model.StatusPending {
		kind = mail.KindRegistrationPending
	}
	s.notify(ctx, kind, registration.UserID, event)

	return registration, nil
}

// GetMine returns the caller's registration for the event.
func (s *service) GetMine(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*model.Registration, error) {
	return s.repo.GetByEventAndUser(ctx, eventID, actor.ID)
}

// Cancel withdraws the caller's registration and team membership.
func (s *service) Cancel(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) error {
	var left *teamModel.LeaveResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		registration, err := txRepo.GetByEventAndUser(ctx, eventID, actor.ID)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(ctx, registration.ID); err != nil {
			return err
		}
		if err := formRepository.New(tx, s.logger).DeleteSubmission(ctx, eventID, actor.ID); err != nil {
			return err
		}
		left, err = leaveTeam(ctx, tx, s.logger, eventID, actor.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Infow("registration cancelled", "event_id", eventID, "user_id", actor.ID)
	s.publishLeave(left, actor.ID)
	return nil
}

// MyRegistrations lists the caller's registrations with event summaries.
func (s *service) MyRegistrations(ctx context.Context, actor *auth.Principal) ([]model.MyRegistration, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// ListByEvent lists the event's registrations, optionally by status.
func (s *service) ListByEvent(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	status string,
) ([]model.RegistrationView, error) {
	if status != "" && !model.IsValidStatus(status) {
		return nil, model.ErrInvalidStatus
	}
	if _, err := s.manage(ctx, actor, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID, status)
}

// Approve grants dashboard access.
func (s *service) Approve(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Registration, error) {
	return s.review(ctx, actor, id, model.StatusApproved)
}

// Reject declines a registration and drops any team membership.
func (s *service) Reject(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Registration, error) {
	return s.review(ctx, actor, id, model.StatusRejected)
}

func (s *service) review(
	ctx context.Context,
	actor *auth.Principal,
	id uuid.UUID,
	status string,
) (*model.Registration, error) {
	registration, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := s.manage(ctx, actor, registration.EventID)
	if err != nil {
		return nil, err
	}

	var (
		left      *teamModel.LeaveResult
		unchanged bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		// The event lock orders reviews against registrations competing for the same seats.
		locked, err := eventRepository.New(tx, s.logger).GetByIDForUpdate(ctx, registration.EventID)
		if err != nil {
			return err
		}
		current, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == status {
			unchanged = true
			return nil
		}

		// A rejected registration holds no seat, so approving it takes one.
		if status == model.StatusApproved && current.Status == model.StatusRejected && locked.HasCapacityLimit() {
			active, err := txRepo.CountActive(ctx, registration.EventID)
			if err != nil {
				return err
			}
			if active >= int64(locked.MaxParticipants) {
				return model.ErrEventFull
			}
		}

		if err := txRepo.UpdateStatus(ctx, id, status, actor.ID, s.now()); err != nil {
			return err
		}
		if status != model.StatusRejected {
			return nil
		}
		left, err = leaveTeam(ctx, tx, s.logger, registration.EventID, registration.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if unchanged {
		s.logger.Debugw("registration review skipped, status unchanged", "registration_id", id, "status", status)
		return s.repo.GetByID(ctx, id)
	}

	s.logger.Infow("registration reviewed", "registration_id", id, "status", status, "reviewer_id", actor.ID)
	if s.recorder != nil {
		s.recorder.RegistrationRecorded(status)
	}
	s.publishLeave(left, registration.UserID)

	kind := mail.KindRegistrationApproved
	if status == model.StatusRejected {
		kind = mail.KindRegistrationRejected
	}
	s.notify(ctx, kind, registration.UserID, event)

	return s.repo.GetByID(ctx, id)
}

// Export builds a table of the event's registrations with form answers.
func (s *service) Export(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*export.Table, error) {
	if _, err := s.manage(ctx, actor, eventID); err != nil {
		return nil, err
	}

	registrations, err := s.repo.ListByEvent(ctx, eventID, "")
	if err != nil {
		return nil, err
	}

	var fields []formModel.FormField
	form, err := s.forms.GetByEventID(ctx, eventID)
	switch {
	case err == nil:
		fields = form.Fields
	case !errors.Is(err, formModel.ErrFormNotFound):
		return nil, err
	}
	submissions, err := s.forms.GetSubmissionsByUsers(ctx, eventID)
	if err != nil {
		return nil, err
	}

	table := &export.Table{
		Headers: []string{"Full Name", "Email", "College", "Phone", "Status", "UTM Source", "Registered At"},
	}
	for _, field := range fields {
		table.Headers = append(table.Headers, field.Label)
	}
	for _, r := range registrations {
		createdAt := r.CreatedAt
		row := []string{r.FullName, r.Email, r.College, r.Phone, r.Status, r.UTMSource, export.FormatTime(&createdAt)}
		sub := submissions[r.UserID]
		for _, field := range fields {
			row = append(row, formModel.FormatResponse(sub.Responses[field.ID.String()]))
		}
		table.AddRow(row...)
	}

	s.logger.Infow("registrations exported", "event_id", eventID, "rows", len(table.Rows))
	return table, nil
}

func (s *service) manage(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*eventModel.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !event.ManagedBy(actor.ID, actor.IsAdmin()) {
		if !event.IsPublished {
			return nil, eventModel.ErrEventNotFound
		}
		return nil, eventModel.ErrForbidden
	}
	return event, nil
}

func (s *service) publishLeave(result *teamModel.LeaveResult, userID uuid.UUID) {
	if result == nil || s.teams == nil {
		return
	}
	s.teams.PublishLeave(result, userID)
}

// notify emails the user without failing the request.
func (s *service) notify(ctx context.Context, kind string, userID uuid.UUID, event *eventModel.Event) {
	if s.notifier == nil {
		return
	}
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warnw("notification recipient lookup failed", "user_id", userID, "error", err)
		return
	}
	err = s.notifier.Notify(ctx, kind, profile.Email, mail.NotificationData{
		Name:       profile.FullName,
		EventTitle: event.Title,
		EventType:  event.TypeDisplayName(),
		EventDate:  event.StartDate.Format("January 2, 2006"),
	})
	if err != nil {
		s.logger.Warnw("notification email failed", "kind", kind, "user_id", userID, "error", err)
	}
}

// leaveTeam drops the user's team membership in the event, if any. Must run inside tx.
func leaveTeam(
	ctx context.Context,
	tx *gorm.DB,
	logger *zap.SugaredLogger,
	eventID, userID uuid.UUID,
) (*teamModel.LeaveResult, error) {
	result, err := teamRepository.New(tx, logger).Leave(ctx, eventID, userID)
	if errors.Is(err, teamModel.ErrNotInTeam) {
		return nil, nil
	}
	return result, err
}
