// Package service provides business logic layer for team module.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	"github.com/festy23/eventhub/internal/mail"
	"github.com/festy23/eventhub/internal/realtime"
	registrationModel "github.com/festy23/eventhub/internal/registration/model"
	registrationRepository "github.com/festy23/eventhub/internal/registration/repository"
	teamModel "github.com/festy23/eventhub/internal/team/model"
	"github.com/festy23/eventhub/internal/team/repository"
)

// QRSize is the edge length in pixels of referral QR codes.
const QRSize = 256

// Join outcomes reported to the recorder.
const (
	OutcomeJoined        = "joined"
	OutcomeFull          = "full"
	OutcomeInvalidCode   = "invalid_code"
	OutcomeAlreadyInTeam = "already_in_team"
	OutcomeError         = "error"
)

const maxReferralAttempts = 5

// Publisher fans out membership changes.
type Publisher interface {
	Publish(topic string, msg realtime.Message) int
	Subscribe(topic string) (<-chan realtime.Message, func())
}

// Notifier sends notification emails.
type Notifier interface {
	Notify(ctx context.Context, kind, to string, data mail.NotificationData) error
}

// Recorder counts join attempts.
type Recorder interface {
	TeamJoin(outcome string)
}

// Service defines the interface for team business logic operations.
type Service interface {
	// Create creates a team in the event with the caller as leader.
	Create(ctx context.Context, actor *auth.Principal, eventID uuid.UUID, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error)

	// Join adds the caller to the team owning the referral code.
	Join(ctx context.Context, actor *auth.Principal, eventID uuid.UUID, req *teamModel.JoinTeamRequest) (*teamModel.TeamResponse, error)

	// GetMine returns the caller's team in the event.
	GetMine(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*teamModel.TeamResponse, error)

	// Leave removes the caller from their team.
	Leave(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*teamModel.LeaveResult, error)

	// RemoveMember lets the leader remove another member.
	RemoveMember(ctx context.Context, actor *auth.Principal, eventID, userID uuid.UUID) error

	// ReferralQR renders the caller's team referral code as a PNG.
	ReferralQR(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) ([]byte, error)

	// Subscribe streams membership changes of the caller's team.
	Subscribe(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (<-chan realtime.Message, func(), error)

	// ListByEvent returns every team of the event for its managers.
	ListByEvent(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) ([]teamModel.TeamSummary, error)

	// PublishLeave announces a membership removal that happened elsewhere.
	PublishLeave(result *teamModel.LeaveResult, userID uuid.UUID)
}

type service struct {
	repo          repository.Repository
	events        eventRepository.Repository
	registrations registrationRepository.Repository
	db            *gorm.DB
	publisher     Publisher
	notifier      Notifier
	recorder      Recorder
	logger        *zap.SugaredLogger
}

// New creates a new team service instance.
func New(
	repo repository.Repository,
	events eventRepository.Repository,
	registrations registrationRepository.Repository,
	db *gorm.DB,
	publisher Publisher,
	notifier Notifier,
	recorder Recorder,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:          repo,
		events:        events,
		registrations: registrations,
		db:            db,
		publisher:     publisher,
		notifier:      notifier,
		recorder:      recorder,
		logger:        logger,
	}
}

// Create creates a team in the event with the caller as leader.
func (s *service) Create(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	req *teamModel.CreateTeamRequest,
) (*teamModel.TeamResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, teamModel.ErrInvalidTeamName
	}

	event, err := s.dashboardEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}

	var team *teamModel.Team
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		if _, err := txRepo.GetMembership(ctx, eventID, actor.ID); err == nil {
			return teamModel.ErrAlreadyInTeam
		} else if !errors.Is(err, teamModel.ErrNotInTeam) {
			return err
		}

		taken, err := txRepo.NameExists(ctx, eventID, name)
		if err != nil {
			return err
		}
		if taken {
			return teamModel.ErrTeamNameTaken
		}

		code, err := s.uniqueReferralCode(ctx, txRepo)
		if err != nil {
			return err
		}

		team = &teamModel.Team{EventID: eventID, Name: name, ReferralCode: code, CreatedBy: actor.ID}
		if err := txRepo.Create(ctx, team); err != nil {
			return err
		}

		return txRepo.AddMember(ctx, &teamModel.TeamMember{
			TeamID:  team.ID,
			EventID: eventID,
			UserID:  actor.ID,
			Role:    teamModel.RoleLeader,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("team created", "team_id", team.ID, "event_id", eventID, "leader_id", actor.ID)
	return s.response(ctx, team, event)
}

func (s *service) uniqueReferralCode(ctx context.Context, repo repository.Repository) (string, error) {
	for attempt := 0; attempt < maxReferralAttempts; attempt++ {
		code, err := teamModel.NewReferralCode()
		if err != nil {
			return "", err
		}
		exists, err := repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.logger.Debugw("referral code collision", "attempt", attempt)
	}
	return "", errors.New("could not generate a unique referral code")
}

// Join adds the caller to the team owning the referral code.
func (s *service) Join(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	req *teamModel.JoinTeamRequest,
) (*teamModel.TeamResponse, error) {
	event, err := s.dashboardEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.ReferralCode))

	var team *teamModel.Team
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		found, err := txRepo.GetByReferralCode(ctx, eventID, code)
		if err != nil {
			return err
		}

		if _, err := txRepo.GetMembership(ctx, eventID, actor.ID); err == nil {
			return teamModel.ErrAlreadyInTeam
		} else if !errors.Is(err, teamModel.ErrNotInTeam) {
			return err
		}

		// The row lock serializes concurrent joins so the count below cannot go stale.
		team, err = txRepo.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}
		count, err := txRepo.CountMembers(ctx, team.ID)
		if err != nil {
			return err
		}
		if count >= int64(event.TeamSize) {
			return teamModel.ErrTeamFull
		}

		return txRepo.AddMember(ctx, &teamModel.TeamMember{
			TeamID:  team.ID,
			EventID: eventID,
			UserID:  actor.ID,
			Role:    teamModel.RoleMember,
		})
	})
	s.recordJoin(err)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("team joined", "team_id", team.ID, "user_id", actor.ID)
	s.publish(team.ID, teamModel.EventMemberJoined, actor.ID)

	resp, err := s.response(ctx, team, event)
	if err != nil {
		return nil, err
	}
	s.notifyJoined(ctx, actor, event, resp)
	return resp, nil
}

func (s *service) recordJoin(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.TeamJoin(OutcomeJoined)
	case errors.Is(err, teamModel.ErrTeamFull):
		s.recorder.TeamJoin(OutcomeFull)
	case errors.Is(err, teamModel.ErrInvalidReferralCode):
		s.recorder.TeamJoin(OutcomeInvalidCode)
	case errors.Is(err, teamModel.ErrAlreadyInTeam):
		s.recorder.TeamJoin(OutcomeAlreadyInTeam)
	default:
		s.recorder.TeamJoin(OutcomeError)
	}
}

func (s *service) notifyJoined(ctx context.Context, actor *auth.Principal, event *eventModel.Event, team *teamModel.TeamResponse) {
	if s.notifier == nil || actor.Email == "" {
		return
	}
	name := ""
	for _, m := range team.Members {
		if m.UserID == actor.ID {
			name = m.FullName
		}
	}
	err := s.notifier.Notify(ctx, mail.KindTeamJoined, actor.Email, mail.NotificationData{
		Name:       name,
		EventTitle: event.Title,
		EventType:  event.TypeDisplayName(),
		TeamName:   team.Name,
	})
	if err != nil {
		s.logger.Warnw("team joined email failed", "team_id", team.ID, "error", err)
	}
}

// GetMine returns the caller's team in the event.
func (s *service) GetMine(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
) (*teamModel.TeamResponse, error) {
	event, err := s.dashboardEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	team, err := s.myTeam(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, team, event)
}

// Leave removes the caller from their team.
func (s *service) Leave(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*teamModel.LeaveResult, error) {
	if _, err := s.dashboardEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}

	var result *teamModel.LeaveResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = repository.New(tx, s.logger).Leave(ctx, eventID, actor.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("team left", "team_id", result.TeamID, "user_id", actor.ID, "team_deleted", result.TeamDeleted)
	s.PublishLeave(result, actor.ID)
	return result, nil
}

// RemoveMember lets the leader remove another member.
func (s *service) RemoveMember(ctx context.Context, actor *auth.Principal, eventID, userID uuid.UUID) error {
	if actor.ID == userID {
		return teamModel.ErrCannotRemoveSelf
	}
	if _, err := s.dashboardEvent(ctx, actor, eventID); err != nil {
		return err
	}

	var teamID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		leader, err := txRepo.GetMembership(ctx, eventID, actor.ID)
		if err != nil {
			return err
		}
		if leader.Role != teamModel.RoleLeader {
			return teamModel.ErrNotLeader
		}
		teamID = leader.TeamID
		if _, err := txRepo.GetByIDForUpdate(ctx, teamID); err != nil {
			return err
		}
		return txRepo.RemoveMember(ctx, teamID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("team member removed", "team_id", teamID, "user_id", userID, "leader_id", actor.ID)
	s.publish(teamID, teamModel.EventMemberLeft, userID)
	return nil
}

// ReferralQR renders the caller's team referral code as a PNG.
func (s *service) ReferralQR(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) ([]byte, error) {
	if _, err := s.dashboardEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}
	team, err := s.myTeam(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(team.ReferralCode, qrcode.Medium, QRSize)
}

// Subscribe streams membership changes of the caller's team.
func (s *service) Subscribe(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
) (<-chan realtime.Message, func(), error) {
	if _, err := s.dashboardEvent(ctx, actor, eventID); err != nil {
		return nil, nil, err
	}
	team, err := s.myTeam(ctx, actor, eventID)
	if err != nil {
		return nil, nil, err
	}

	ch, cancel := s.publisher.Subscribe(teamModel.TopicForTeam(team.ID))
	return ch, cancel, nil
}

// ListByEvent returns every team of the event for its managers.
func (s *service) ListByEvent(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
) ([]teamModel.TeamSummary, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.ManagedBy(actor.ID, actor.IsAdmin()) {
		return nil, eventModel.ErrForbidden
	}
	return s.repo.ListByEvent(ctx, eventID)
}

// PublishLeave announces a membership removal that happened elsewhere.
func (s *service) PublishLeave(result *teamModel.LeaveResult, userID uuid.UUID) {
	if result.TeamDeleted {
		s.publish(result.TeamID, teamModel.EventTeamDeleted, userID)
		return
	}
	s.publish(result.TeamID, teamModel.EventMemberLeft, userID)
}

func (s *service) publish(teamID uuid.UUID, kind string, userID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	delivered := s.publisher.Publish(teamModel.TopicForTeam(teamID), realtime.Message{
		Type:    kind,
		Payload: map[string]any{"team_id": teamID.String(), "user_id": userID.String()},
	})
	s.logger.Debugw("team change published", "team_id", teamID, "type", kind, "subscribers", delivered)
}

// dashboardEvent returns the event when the caller holds an approved registration for it.
func (s *service) dashboardEvent(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*eventModel.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished {
		return nil, eventModel.ErrEventNotFound
	}

	registration, err := s.registrations.GetByEventAndUser(ctx, eventID, actor.ID)
	if err != nil {
		if errors.Is(err, registrationModel.ErrRegistrationNotFound) {
			return nil, teamModel.ErrNotApproved
		}
		return nil, err
	}
	if !registration.IsApproved() {
		return nil, teamModel.ErrNotApproved
	}
	return event, nil
}

func (s *service) myTeam(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*teamModel.Team, error) {
	membership, err := s.repo.GetMembership(ctx, eventID, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, membership.TeamID)
}

func (s *service) response(
	ctx context.Context,
	team *teamModel.Team,
	event *eventModel.Event,
) (*teamModel.TeamResponse, error) {
	members, err := s.repo.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	return &teamModel.TeamResponse{
		ID:           team.ID,
		EventID:      team.EventID,
		Name:         team.Name,
		ReferralCode: team.ReferralCode,
		CreatedBy:    team.CreatedBy,
		CreatedAt:    team.CreatedAt,
		Capacity:     event.TeamSize,
		Members:      members,
	}, nil
}
