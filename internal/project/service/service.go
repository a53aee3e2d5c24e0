// Package service provides business logic layer for project module.
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	"github.com/festy23/eventhub/internal/export"
	"github.com/festy23/eventhub/internal/pagination"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	profileRepository "github.com/festy23/eventhub/internal/profile/repository"
	"github.com/festy23/eventhub/internal/project/model"
	"github.com/festy23/eventhub/internal/project/repository"
	registrationModel "github.com/festy23/eventhub/internal/registration/model"
	registrationRepository "github.com/festy23/eventhub/internal/registration/repository"
	teamModel "github.com/festy23/eventhub/internal/team/model"
	teamRepository "github.com/festy23/eventhub/internal/team/repository"
)

// Service defines the interface for project business logic operations.
type Service interface {
	// Submit creates the caller's project for an event, bound to their team when they have one.
	Submit(ctx context.Context, actor *auth.Principal, eventID uuid.UUID, req *model.ProjectRequest) (*model.ProjectResponse, error)

	// Create creates a standalone project owned by the caller.
	Create(ctx context.Context, actor *auth.Principal, req *model.ProjectRequest) (*model.ProjectResponse, error)

	// Get returns a project with its members.
	Get(ctx context.Context, id uuid.UUID) (*model.ProjectResponse, error)

	// Update edits a project. Event projects are editable only while submission is open.
	Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req *model.ProjectRequest) (*model.ProjectResponse, error)

	// Delete removes a project. Owners and admins may delete.
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error

	// ListMine returns the caller's projects.
	ListMine(ctx context.Context, actor *auth.Principal) ([]model.Project, error)

	// AddMember adds the account with the given email to the project.
	AddMember(ctx context.Context, actor *auth.Principal, id uuid.UUID, req *model.AddMemberRequest) ([]model.MemberView, error)

	// RemoveMember removes a member. The last owner cannot be removed.
	RemoveMember(ctx context.Context, actor *auth.Principal, id, userID uuid.UUID) error

	// ListByEvent returns the event's submissions for its managers.
	ListByEvent(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) ([]model.SubmissionRow, error)

	// ExportByEvent builds a table of the event's submissions.
	ExportByEvent(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*export.Table, error)

	// List returns a filtered page of every project.
	List(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error)
}

type service struct {
	repo          repository.Repository
	events        eventRepository.Repository
	registrations registrationRepository.Repository
	teams         teamRepository.Repository
	profiles      profileRepository.Repository
	db            *gorm.DB
	logger        *zap.SugaredLogger
	now           func() time.Time
}

// New creates a new project service instance.
func New(
	repo repository.Repository,
	events eventRepository.Repository,
	registrations registrationRepository.Repository,
	teams teamRepository.Repository,
	profiles profileRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:          repo,
		events:        events,
		registrations: registrations,
		teams:         teams,
		profiles:      profiles,
		db:            db,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Submit creates the caller's project for an event, bound to their team when they have one.
func (s *service) Submit(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	req *model.ProjectRequest,
) (*model.ProjectResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished {
		return nil, eventModel.ErrEventNotFound
	}

	registration, err := s.registrations.GetByEventAndUser(ctx, eventID, actor.ID)
	if errors.Is(err, registrationModel.ErrRegistrationNotFound) {
		return nil, model.ErrNotApproved
	}
	if err != nil {
		return nil, err
	}
	if !registration.IsApproved() {
		return nil, model.ErrNotApproved
	}

	now := s.now()
	if !event.SubmissionOpen(now) {
		return nil, model.ErrSubmissionClosed
	}

	project := &model.Project{EventID: &eventID, CreatedBy: actor.ID, SubmittedAt: &now}
	req.Apply(project)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		txTeams := teamRepository.New(tx, s.logger)

		contributors := []uuid.UUID{}
		membership, err := txTeams.GetMembership(ctx, eventID, actor.ID)
		switch {
		case err == nil:
			// Locking the team serializes concurrent submissions by its members.
			if _, err := txTeams.GetByIDForUpdate(ctx, membership.TeamID); err != nil {
				return err
			}
			exists, err := txRepo.ExistsForTeam(ctx, eventID, membership.TeamID)
			if err != nil {
				return err
			}
			if exists {
				return model.ErrProjectExists
			}
			project.TeamID = &membership.TeamID

			members, err := txTeams.ListMembers(ctx, membership.TeamID)
			if err != nil {
				return err
			}
			for _, m := range members {
				if m.UserID != actor.ID {
					contributors = append(contributors, m.UserID)
				}
			}
		case errors.Is(err, teamModel.ErrNotInTeam):
			exists, err := txRepo.ExistsForMember(ctx, eventID, actor.ID)
			if err != nil {
				return err
			}
			if exists {
				return model.ErrProjectExists
			}
		default:
			return err
		}

		if err := txRepo.Create(ctx, project); err != nil {
			return err
		}
		return addMembers(ctx, txRepo, project.ID, actor.ID, contributors)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("project submitted", "project_id", project.ID, "event_id", eventID, "team_id", project.TeamID)
	return s.response(ctx, project)
}

// Create creates a standalone project owned by the caller.
func (s *service) Create(
	ctx context.Context,
	actor *auth.Principal,
	req *model.ProjectRequest,
) (*model.ProjectResponse, error) {
	project := &model.Project{CreatedBy: actor.ID}
	req.Apply(project)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		if err := txRepo.Create(ctx, project); err != nil {
			return err
		}
		return addMembers(ctx, txRepo, project.ID, actor.ID, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("project created", "project_id", project.ID, "user_id", actor.ID)
	return s.response(ctx, project)
}

func addMembers(
	ctx context.Context,
	repo repository.Repository,
	projectID, ownerID uuid.UUID,
	contributors []uuid.UUID,
) error {
	owner := &model.ProjectMember{ProjectID: projectID, UserID: ownerID, Role: model.RoleOwner}
	if err := repo.AddMember(ctx, owner); err != nil {
		return err
	}
	for _, userID := range contributors {
		member := &model.ProjectMember{ProjectID: projectID, UserID: userID, Role: model.RoleContributor}
		if err := repo.AddMember(ctx, member); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a project with its members.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.ProjectResponse, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, project)
}

// Update edits a project. Event projects are editable only while submission is open.
func (s *service) Update(
	ctx context.Context,
	actor *auth.Principal,
	id uuid.UUID,
	req *model.ProjectRequest,
) (*model.ProjectResponse, error) {
	project, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if project.IsEventProject() {
		event, err := s.events.GetByID(ctx, *project.EventID)
		if err != nil {
			return nil, err
		}
		if !event.SubmissionOpen(s.now()) {
			return nil, model.ErrSubmissionClosed
		}
	}

	req.Apply(project)
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Infow("project updated", "project_id", id, "user_id", actor.ID)
	return s.response(ctx, project)
}

// Delete removes a project. Owners and admins may delete.
func (s *service) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	if !actor.IsAdmin() {
		if _, err := s.owned(ctx, actor, id); err != nil {
			return err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.New(tx, s.logger).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("project deleted", "project_id", id, "user_id", actor.ID)
	return nil
}

// ListMine returns the caller's projects.
func (s *service) ListMine(ctx context.Context, actor *auth.Principal) ([]model.Project, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// AddMember adds the account with the given email to the project.
func (s *service) AddMember(
	ctx context.Context,
	actor *auth.Principal,
	id uuid.UUID,
	req *model.AddMemberRequest,
) ([]model.MemberView, error) {
	role := req.Role
	if role == "" {
		role = model.RoleContributor
	}
	if !model.IsValidRole(role) {
		return nil, model.ErrInvalidRole
	}

	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByEmail(ctx, req.Email)
	if errors.Is(err, profileModel.ErrProfileNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, &model.ProjectMember{ProjectID: id, UserID: profile.ID, Role: role}); err != nil {
		return nil, err
	}

	s.logger.Infow("project member added", "project_id", id, "user_id", profile.ID, "role", role)
	return s.repo.ListMembers(ctx, id)
}

// RemoveMember removes a member. The last owner cannot be removed.
func (s *service) RemoveMember(ctx context.Context, actor *auth.Principal, id, userID uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		member, err := txRepo.GetMember(ctx, id, userID)
		if err != nil {
			return err
		}
		if member.Role == model.RoleOwner {
			owners, err := txRepo.CountOwners(ctx, id)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return model.ErrLastOwner
			}
		}
		return txRepo.RemoveMember(ctx, id, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("project member removed", "project_id", id, "user_id", userID)
	return nil
}

// ListByEvent returns the event's submissions for its managers.
func (s *service) ListByEvent(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
) ([]model.SubmissionRow, error) {
	if err := s.manage(ctx, actor, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissions(ctx, eventID)
}

// ExportByEvent builds a table of the event's submissions.
func (s *service) ExportByEvent(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*export.Table, error) {
	rows, err := s.ListByEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}

	table := &export.Table{Headers: []string{
		"Title", "Team", "Owner", "Owner Email", "Members", "Repository", "Demo", "Video", "Submitted At",
	}}
	for _, r := range rows {
		table.AddRow(
			r.Title, r.TeamName, r.OwnerName, r.OwnerEmail, strconv.FormatInt(r.MemberCount, 10),
			r.RepoURL, r.DemoURL, r.VideoURL, export.FormatTime(r.SubmittedAt),
		)
	}

	s.logger.Infow("projects exported", "event_id", eventID, "rows", len(table.Rows))
	return table, nil
}

// List returns a filtered page of every project.
func (s *service) List(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error) {
	filter.Page = pagination.New(filter.Page.Page, filter.Page.PageSize)

	projects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.ListResponse{
		Projects: projects,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

// owned returns the project when the caller is one of its owners.
func (s *service) owned(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	member, err := s.repo.GetMember(ctx, id, actor.ID)
	if errors.Is(err, model.ErrMemberNotFound) {
		return nil, model.ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	if member.Role != model.RoleOwner {
		return nil, model.ErrNotOwner
	}
	return project, nil
}

func (s *service) manage(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if actor == nil || !event.ManagedBy(actor.ID, actor.IsAdmin()) {
		return eventModel.ErrForbidden
	}
	return nil
}

func (s *service) response(ctx context.Context, project *model.Project) (*model.ProjectResponse, error) {
	members, err := s.repo.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	resp := &model.ProjectResponse{Project: *project, Members: members}
	if project.TeamID != nil {
		team, err := s.teams.GetByID(ctx, *project.TeamID)
		switch {
		case err == nil:
			resp.TeamName = team.Name
		case !errors.Is(err, teamModel.ErrTeamNotFound):
			return nil, err
		}
	}
	return resp, nil
}
