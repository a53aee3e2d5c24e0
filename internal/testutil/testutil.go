// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	eventModel "github.com/festy23/eventhub/internal/event/model"
	formModel "github.com/festy23/eventhub/internal/form/model"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	projectModel "github.com/festy23/eventhub/internal/project/model"
	registrationModel "github.com/festy23/eventhub/internal/registration/model"
	teamModel "github.com/festy23/eventhub/internal/team/model"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&profileModel.Profile{},
		&eventModel.Event{},
		&registrationModel.Registration{},
		&formModel.Form{},
		&formModel.FormField{},
		&formModel.FormSubmission{},
		&teamModel.Team{},
		&teamModel.TeamMember{},
		&projectModel.Project{},
		&projectModel.ProjectMember{},
	}
}

// NewTestDB opens an in-memory SQLite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Set max open connections to 1 for in-memory SQLite.
	// Each connection to :memory: would otherwise see its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(Models()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateProfile inserts a profile with the given role.
func CreateProfile(t *testing.T, db *gorm.DB, email, role string) *profileModel.Profile {
	t.Helper()

	p := &profileModel.Profile{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FullName:     "User " + email,
		Role:         role,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// EventOption customizes an event fixture.
type EventOption func(e *eventModel.Event)

// WithTeamSize sets the event team size.
func WithTeamSize(n int) EventOption {
	return func(e *eventModel.Event) { e.TeamSize = n }
}

// WithMaxParticipants sets the event capacity.
func WithMaxParticipants(n int) EventOption {
	return func(e *eventModel.Event) { e.MaxParticipants = n }
}

// WithApproval makes registrations require approval.
func WithApproval() EventOption {
	return func(e *eventModel.Event) { e.RequiresApproval = true }
}

// Unpublished leaves the event as a draft.
func Unpublished() EventOption {
	return func(e *eventModel.Event) { e.IsPublished = false }
}

// WithSubmissionWindow sets the submission bounds.
func WithSubmissionWindow(start, end *time.Time) EventOption {
	return func(e *eventModel.Event) {
		e.SubmissionStart = start
		e.SubmissionEnd = end
	}
}

// WithRegistrationWindow sets the registration bounds.
func WithRegistrationWindow(start, end *time.Time) EventOption {
	return func(e *eventModel.Event) {
		e.RegistrationStart = start
		e.RegistrationEnd = end
	}
}

// CreateEvent inserts a published hackathon organized by organizerID.
func CreateEvent(t *testing.T, db *gorm.DB, organizerID uuid.UUID, opts ...EventOption) *eventModel.Event {
	t.Helper()

	start := time.Now().UTC().Add(7 * 24 * time.Hour)
	e := &eventModel.Event{
		Title:       "Hack Night",
		Description: "Build things",
		EventType:   eventModel.TypeHackathon,
		Mode:        eventModel.ModeOnline,
		StartDate:   start,
		EndDate:     start.Add(48 * time.Hour),
		TeamSize:    eventModel.DefaultTeamSize,
		IsPublished: true,
		OrganizerID: organizerID,
	}
	for _, opt := range opts {
		opt(e)
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

// CreateRegistration inserts a registration with the given status.
func CreateRegistration(t *testing.T, db *gorm.DB, eventID, userID uuid.UUID, status string) *registrationModel.Registration {
	t.Helper()

	r := &registrationModel.Registration{EventID: eventID, UserID: userID, Status: status}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateTeam inserts a team led by leaderID.
func CreateTeam(t *testing.T, db *gorm.DB, eventID, leaderID uuid.UUID, name string) *teamModel.Team {
	t.Helper()

	code, err := teamModel.NewReferralCode()
	require.NoError(t, err)

	team := &teamModel.Team{EventID: eventID, Name: name, ReferralCode: code, CreatedBy: leaderID}
	require.NoError(t, db.Create(team).Error)
	AddTeamMember(t, db, team, leaderID, teamModel.RoleLeader)
	return team
}

// AddTeamMember inserts a membership.
func AddTeamMember(t *testing.T, db *gorm.DB, team *teamModel.Team, userID uuid.UUID, role string) {
	t.Helper()

	m := &teamModel.TeamMember{TeamID: team.ID, EventID: team.EventID, UserID: userID, Role: role}
	require.NoError(t, db.Create(m).Error)
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
