// Package service provides business logic layer for statistics module.
package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	registrationModel "github.com/festy23/eventhub/internal/registration/model"
	"github.com/festy23/eventhub/internal/statistics/model"
	"github.com/festy23/eventhub/internal/statistics/repository"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// Platform returns totals across every event.
	Platform(ctx context.Context) (*model.PlatformStatistics, error)

	// ForEvent returns the breakdown for one event. Only its managers may read it.
	ForEvent(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*model.EventStatistics, error)
}

type service struct {
	repo   repository.Repository
	events eventRepository.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, events eventRepository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

func (s *service) Platform(ctx context.Context) (*model.PlatformStatistics, error) {
	s.logger.Debugw("Platform statistics called")

	users, err := s.repo.CountProfiles(ctx)
	if err != nil {
		return nil, err
	}
	events, published, err := s.repo.CountEvents(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.RegistrationsByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	teams, err := s.repo.TeamTotals(ctx, nil)
	if err != nil {
		return nil, err
	}
	projects, err := s.repo.CountProjects(ctx, nil)
	if err != nil {
		return nil, err
	}

	registrations, total := everyStatus(byStatus)
	stats := &model.PlatformStatistics{
		Users:              users,
		Events:             events,
		PublishedEvents:    published,
		Registrations:      registrations,
		TotalRegistrations: total,
		Teams:              teams.Teams,
		Projects:           projects,
	}

	s.logger.Infow("Platform statistics completed", "users", users, "events", events)
	return stats, nil
}

func (s *service) ForEvent(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
) (*model.EventStatistics, error) {
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

	byStatus, err := s.repo.RegistrationsByStatus(ctx, &eventID)
	if err != nil {
		return nil, err
	}
	sources, err := s.repo.RegistrationsBySource(ctx, eventID)
	if err != nil {
		return nil, err
	}
	teams, err := s.repo.TeamTotals(ctx, &eventID)
	if err != nil {
		return nil, err
	}
	projects, err := s.repo.CountProjects(ctx, &eventID)
	if err != nil {
		return nil, err
	}

	registrations, total := everyStatus(byStatus)
	s.logger.Infow("Event statistics completed", "event_id", eventID, "registrations", total)
	return &model.EventStatistics{
		EventID:            eventID,
		Registrations:      registrations,
		TotalRegistrations: total,
		UTMSources:         sources,
		Teams:              teams.Teams,
		AverageTeamSize:    teams.AverageTeamSize,
		Projects:           projects,
	}, nil
}

// everyStatus lists every known status in a fixed order, zero-filled, with the grand total.
func everyStatus(counts []registrationModel.StatusCount) ([]registrationModel.StatusCount, int64) {
	byStatus := make(map[string]int64, len(counts))
	var total int64
	for _, c := range counts {
		byStatus[c.Status] += c.Count
		total += c.Count
	}

	statuses := []string{
		registrationModel.StatusPending,
		registrationModel.StatusApproved,
		registrationModel.StatusRejected,
	}
	result := make([]registrationModel.StatusCount, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, registrationModel.StatusCount{Status: status, Count: byStatus[status]})
	}
	return result, total
}
