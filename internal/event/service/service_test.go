package service

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/event/repository"
	"github.com/festy23/eventhub/internal/pagination"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	"github.com/festy23/eventhub/internal/storage"
	"github.com/festy23/eventhub/internal/testutil"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) UploadImage(ctx context.Context, prefix string, fh *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, prefix, fh)
	return args.String(0), args.Error(1)
}

type fixture struct {
	db        *gorm.DB
	svc       Service
	uploader  *mockUploader
	organizer *auth.Principal
	other     *auth.Principal
	admin     *auth.Principal
	user      *auth.Principal
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewTestDB(t)
	logger := zap.NewNop().Sugar()
	uploader := new(mockUploader)

	principal := func(email, role string) *auth.Principal {
		p := testutil.CreateProfile(t, db, email, role)
		return &auth.Principal{ID: p.ID, Email: p.Email, Role: p.Role}
	}

	return &fixture{
		db:        db,
		svc:       New(repository.New(db, logger), uploader, logger),
		uploader:  uploader,
		organizer: principal("org@example.com", profileModel.RoleOrganizer),
		other:     principal("org2@example.com", profileModel.RoleOrganizer),
		admin:     principal("admin@example.com", profileModel.RoleAdmin),
		user:      principal("user@example.com", profileModel.RoleUser),
	}
}

func validRequest() *model.EventRequest {
	start := time.Now().UTC().Add(24 * time.Hour)
	return &model.EventRequest{
		Title:       "Gophercon Hack",
		EventType:   model.TypeHackathon,
		StartDate:   start,
		EndDate:     start.Add(24 * time.Hour),
		IsPublished: true,
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("organizer", func(t *testing.T) {
		event, err := f.svc.Create(ctx, f.organizer, validRequest())
		require.NoError(t, err)
		assert.Equal(t, f.organizer.ID, event.OrganizerID)
		assert.Equal(t, model.DefaultTeamSize, event.TeamSize)
		assert.Equal(t, model.ModeOnline, event.Mode)
	})

	t.Run("plain user", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.user, validRequest())
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("end before start", func(t *testing.T) {
		req := validRequest()
		req.EndDate = req.StartDate.Add(-time.Hour)
		_, err := f.svc.Create(ctx, f.organizer, req)
		assert.ErrorIs(t, err, model.ErrInvalidDates)
	})
}

func TestService_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := testutil.CreateEvent(t, f.db, f.organizer.ID, testutil.Unpublished())
	testutil.CreateEvent(t, f.db, f.other.ID)

	t.Run("draft hidden from others", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.user, draft.ID)
		assert.ErrorIs(t, err, model.ErrEventNotFound)

		_, err = f.svc.Get(ctx, nil, draft.ID)
		assert.ErrorIs(t, err, model.ErrEventNotFound)
	})

	t.Run("draft visible to managers", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.organizer, draft.ID)
		require.NoError(t, err)
		_, err = f.svc.Get(ctx, f.admin, draft.ID)
		require.NoError(t, err)
	})

	t.Run("anonymous list", func(t *testing.T) {
		resp, err := f.svc.List(ctx, nil, model.ListFilter{IncludeHidden: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, pagination.DefaultPageSize, resp.PageSize)
	})

	t.Run("admin all", func(t *testing.T) {
		resp, err := f.svc.List(ctx, f.admin, model.ListFilter{IncludeHidden: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("organizer all is scoped to own events", func(t *testing.T) {
		resp, err := f.svc.List(ctx, f.organizer, model.ListFilter{IncludeHidden: true})
		require.NoError(t, err)
		require.Equal(t, int64(1), resp.Total)
		assert.Equal(t, draft.ID, resp.Events[0].ID)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := testutil.CreateEvent(t, f.db, f.organizer.ID)

	t.Run("other organizer forbidden", func(t *testing.T) {
		_, err := f.svc.Update(ctx, f.other, event.ID, validRequest())
		assert.ErrorIs(t, err, model.ErrForbidden)
		assert.ErrorIs(t, f.svc.Delete(ctx, f.user, event.ID), model.ErrForbidden)
	})

	t.Run("owner updates", func(t *testing.T) {
		req := validRequest()
		req.Title = "Renamed"
		size := 3
		req.TeamSize = &size

		updated, err := f.svc.Update(ctx, f.organizer, event.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, 3, updated.TeamSize)
		assert.Equal(t, f.organizer.ID, updated.OrganizerID)
	})

	t.Run("invalid window", func(t *testing.T) {
		req := validRequest()
		req.SubmissionStart = testutil.TimePtr(time.Now())
		req.SubmissionEnd = testutil.TimePtr(time.Now().Add(-time.Hour))
		_, err := f.svc.Update(ctx, f.organizer, event.ID, req)
		assert.ErrorIs(t, err, model.ErrInvalidSubmissionWindow)
	})

	t.Run("admin deletes", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, f.admin, event.ID))
		_, err := f.svc.Get(ctx, f.admin, event.ID)
		assert.ErrorIs(t, err, model.ErrEventNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Delete(ctx, f.admin, uuid.New()), model.ErrEventNotFound)
	})
}

func TestService_UploadBanner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event := testutil.CreateEvent(t, f.db, f.organizer.ID)
	fh := &multipart.FileHeader{Filename: "banner.png"}

	t.Run("stored", func(t *testing.T) {
		f.uploader.On("UploadImage", mock.Anything, "banners/"+event.ID.String(), fh).
			Return("https://cdn.example.com/banners/x.png", nil).Once()

		got, err := f.svc.UploadBanner(ctx, f.organizer, event.ID, fh)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/banners/x.png", got.BannerURL)
	})

	t.Run("upload error", func(t *testing.T) {
		f.uploader.On("UploadImage", mock.Anything, mock.Anything, fh).
			Return("", storage.ErrUnsupportedType).Once()

		_, err := f.svc.UploadBanner(ctx, f.organizer, event.ID, fh)
		assert.ErrorIs(t, err, storage.ErrUnsupportedType)
	})

	t.Run("forbidden", func(t *testing.T) {
		_, err := f.svc.UploadBanner(ctx, f.user, event.ID, fh)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	f.uploader.AssertExpectations(t)
}

func TestService_SubmissionWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	open := testutil.CreateEvent(t, f.db, f.organizer.ID,
		testutil.WithSubmissionWindow(testutil.TimePtr(now.Add(-time.Hour)), testutil.TimePtr(now.Add(time.Hour))))
	closed := testutil.CreateEvent(t, f.db, f.organizer.ID,
		testutil.WithSubmissionWindow(nil, testutil.TimePtr(now.Add(-time.Hour))))
	unbounded := testutil.CreateEvent(t, f.db, f.organizer.ID)

	tests := []struct {
		name string
		id   uuid.UUID
		want bool
	}{
		{"inside", open.ID, true},
		{"after end", closed.ID, false},
		{"no bounds", unbounded.ID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.SubmissionWindow(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Open)
		})
	}

	_, err := f.svc.SubmissionWindow(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrEventNotFound)
}
