package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	registrationModel "github.com/festy23/eventhub/internal/registration/model"
	"github.com/festy23/eventhub/internal/statistics/model"
	"github.com/festy23/eventhub/internal/statistics/repository"
	"github.com/festy23/eventhub/internal/testutil"
)

// mockRepository is a mock implementation of repository.Repository for unit tests.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CountProfiles(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) CountEvents(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) RegistrationsByStatus(
	ctx context.Context,
	eventID *uuid.UUID,
) ([]registrationModel.StatusCount, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registrationModel.StatusCount), args.Error(1)
}

func (m *mockRepository) RegistrationsBySource(ctx context.Context, eventID uuid.UUID) ([]model.SourceCount, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SourceCount), args.Error(1)
}

func (m *mockRepository) TeamTotals(ctx context.Context, eventID *uuid.UUID) (*model.TeamTotals, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamTotals), args.Error(1)
}

func (m *mockRepository) CountProjects(ctx context.Context, eventID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repository.Repository = (*mockRepository)(nil)

func TestService_Platform(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	events := eventRepository.New(db, zap.NewNop().Sugar())
	noEvent := (*uuid.UUID)(nil)

	t.Run("success", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, events, zap.NewNop().Sugar())

		mockRepo.On("CountProfiles", ctx).Return(int64(12), nil)
		mockRepo.On("CountEvents", ctx).Return(int64(3), int64(2), nil)
		mockRepo.On("RegistrationsByStatus", ctx, noEvent).Return([]registrationModel.StatusCount{
			{Status: registrationModel.StatusApproved, Count: 7},
			{Status: registrationModel.StatusPending, Count: 2},
		}, nil)
		mockRepo.On("TeamTotals", ctx, noEvent).Return(&model.TeamTotals{Teams: 4, AverageTeamSize: 2.5}, nil)
		mockRepo.On("CountProjects", ctx, noEvent).Return(int64(5), nil)

		stats, err := svc.Platform(ctx)
		require.NoError(t, err)

		assert.Equal(t, int64(12), stats.Users)
		assert.Equal(t, int64(3), stats.Events)
		assert.Equal(t, int64(2), stats.PublishedEvents)
		assert.Equal(t, int64(9), stats.TotalRegistrations)
		assert.Equal(t, []registrationModel.StatusCount{
			{Status: registrationModel.StatusPending, Count: 2},
			{Status: registrationModel.StatusApproved, Count: 7},
			{Status: registrationModel.StatusRejected, Count: 0},
		}, stats.Registrations)
		assert.Equal(t, int64(4), stats.Teams)
		assert.Equal(t, int64(5), stats.Projects)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, events, zap.NewNop().Sugar())

		dbErr := errors.New("database error")
		mockRepo.On("CountProfiles", ctx).Return(int64(0), dbErr)

		stats, err := svc.Platform(ctx)
		require.ErrorIs(t, err, dbErr)
		assert.Nil(t, stats)
		mockRepo.AssertNotCalled(t, "CountEvents", mock.Anything)
	})
}

func TestService_ForEvent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	events := eventRepository.New(db, zap.NewNop().Sugar())

	org := testutil.CreateProfile(t, db, "org@example.com", profileModel.RoleOrganizer)
	outsider := testutil.CreateProfile(t, db, "out@example.com", profileModel.RoleUser)
	published := testutil.CreateEvent(t, db, org.ID)
	draft := testutil.CreateEvent(t, db, org.ID, testutil.Unpublished())

	organizer := &auth.Principal{ID: org.ID, Email: org.Email, Role: profileModel.RoleOrganizer}
	stranger := &auth.Principal{ID: outsider.ID, Email: outsider.Email, Role: profileModel.RoleUser}
	admin := &auth.Principal{ID: uuid.New(), Email: "admin@example.com", Role: profileModel.RoleAdmin}

	expectBreakdown := func(m *mockRepository, eventID uuid.UUID) {
		id := eventID
		m.On("RegistrationsByStatus", ctx, &id).Return([]registrationModel.StatusCount{
			{Status: registrationModel.StatusApproved, Count: 3},
			{Status: registrationModel.StatusRejected, Count: 1},
		}, nil)
		m.On("RegistrationsBySource", ctx, eventID).Return([]model.SourceCount{
			{Source: "newsletter", Count: 3},
			{Source: model.DirectSource, Count: 1},
		}, nil)
		m.On("TeamTotals", ctx, &id).Return(&model.TeamTotals{Teams: 2, AverageTeamSize: 1.5}, nil)
		m.On("CountProjects", ctx, &id).Return(int64(1), nil)
	}

	t.Run("organizer", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, events, zap.NewNop().Sugar())
		expectBreakdown(mockRepo, published.ID)

		stats, err := svc.ForEvent(ctx, organizer, published.ID)
		require.NoError(t, err)

		assert.Equal(t, published.ID, stats.EventID)
		assert.Equal(t, int64(4), stats.TotalRegistrations)
		require.Len(t, stats.Registrations, 3)
		assert.Equal(t, int64(0), stats.Registrations[0].Count)
		assert.Equal(t, int64(3), stats.Registrations[1].Count)
		require.Len(t, stats.UTMSources, 2)
		assert.Equal(t, "newsletter", stats.UTMSources[0].Source)
		assert.Equal(t, int64(2), stats.Teams)
		assert.InDelta(t, 1.5, stats.AverageTeamSize, 0.001)
		assert.Equal(t, int64(1), stats.Projects)
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin reads a draft", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, events, zap.NewNop().Sugar())
		expectBreakdown(mockRepo, draft.ID)

		_, err := svc.ForEvent(ctx, admin, draft.ID)
		require.NoError(t, err)
	})

	t.Run("non-manager", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, events, zap.NewNop().Sugar())

		_, err := svc.ForEvent(ctx, stranger, published.ID)
		require.ErrorIs(t, err, eventModel.ErrForbidden)

		_, err = svc.ForEvent(ctx, stranger, draft.ID)
		require.ErrorIs(t, err, eventModel.ErrEventNotFound)
		mockRepo.AssertNotCalled(t, "RegistrationsByStatus", mock.Anything, mock.Anything)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := New(new(mockRepository), events, zap.NewNop().Sugar())

		_, err := svc.ForEvent(ctx, organizer, uuid.New())
		require.ErrorIs(t, err, eventModel.ErrEventNotFound)
	})
}
