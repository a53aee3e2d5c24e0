package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/pagination"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	"github.com/festy23/eventhub/internal/testutil"
)

func TestRepository_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := New(db, zap.NewNop().Sugar())
	ctx := context.Background()
	org := testutil.CreateProfile(t, db, "org@example.com", profileModel.RoleOrganizer)

	start := time.Now().UTC().Add(time.Hour)
	event := &model.Event{
		Title:       "Go Meetup",
		EventType:   model.TypeMeetup,
		Mode:        model.ModeOffline,
		StartDate:   start,
		EndDate:     start.Add(2 * time.Hour),
		TeamSize:    1,
		OrganizerID: org.ID,
	}
	require.NoError(t, repo.Create(ctx, event))
	assert.NotEqual(t, uuid.Nil, event.ID)

	got, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", got.Title)

	got.Title = "Go Meetup #2"
	require.NoError(t, repo.Update(ctx, got))

	locked, err := repo.GetByIDForUpdate(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup #2", locked.Title)

	require.NoError(t, repo.SetBanner(ctx, event.ID, "https://cdn.example.com/b.png"))
	got, err = repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/b.png", got.BannerURL)

	require.NoError(t, repo.Delete(ctx, event.ID))
	_, err = repo.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, model.ErrEventNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, event.ID), model.ErrEventNotFound)
	assert.ErrorIs(t, repo.SetBanner(ctx, event.ID, "x"), model.ErrEventNotFound)
}

func TestRepository_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := New(db, zap.NewNop().Sugar())
	ctx := context.Background()
	org := testutil.CreateProfile(t, db, "org@example.com", profileModel.RoleOrganizer)

	testutil.CreateEvent(t, db, org.ID)
	testutil.CreateEvent(t, db, org.ID, testutil.Unpublished())
	past := testutil.CreateEvent(t, db, org.ID)
	past.StartDate = time.Now().UTC().Add(-72 * time.Hour)
	past.EndDate = time.Now().UTC().Add(-48 * time.Hour)
	past.Title = "Old Webinar"
	past.EventType = model.TypeWebinar
	require.NoError(t, db.Save(past).Error)

	page := pagination.New(1, 10)

	tests := []struct {
		name   string
		filter model.ListFilter
		want   int64
	}{
		{"published", model.ListFilter{Page: page}, 2},
		{"include hidden", model.ListFilter{IncludeHidden: true, Page: page}, 3},
		{"by type", model.ListFilter{EventType: model.TypeWebinar, Page: page}, 1},
		{"upcoming", model.ListFilter{UpcomingOnly: true, Now: time.Now().UTC(), Page: page}, 1},
		{"query", model.ListFilter{Query: "old", Page: page}, 1},
		{"organizer", model.ListFilter{OrganizerID: uuid.NewString(), Page: page}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, events, int(tt.want))
		})
	}

	t.Run("ordered by start date", func(t *testing.T) {
		events, _, err := repo.List(ctx, model.ListFilter{Page: page})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "Old Webinar", events[0].Title)
	})

	t.Run("paged", func(t *testing.T) {
		events, total, err := repo.List(ctx, model.ListFilter{IncludeHidden: true, Page: pagination.New(2, 2)})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, events, 1)
	})

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
