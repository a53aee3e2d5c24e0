package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/export"
	formModel "github.com/festy23/eventhub/internal/form/model"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	"github.com/festy23/eventhub/internal/registration/model"
	"github.com/festy23/eventhub/internal/registration/service"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) registration(args mock.Arguments) (*model.Registration, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockService) Register(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	req *model.RegisterRequest,
) (*model.Registration, error) {
	return m.registration(m.Called(ctx, actor, eventID, req))
}

func (m *mockService) GetMine(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*model.Registration, error) {
	return m.registration(m.Called(ctx, actor, eventID))
}

func (m *mockService) Cancel(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) error {
	return m.Called(ctx, actor, eventID).Error(0)
}

func (m *mockService) MyRegistrations(ctx context.Context, actor *auth.Principal) ([]model.MyRegistration, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MyRegistration), args.Error(1)
}

func (m *mockService) ListByEvent(
	ctx context.Context,
	actor *auth.Principal,
	eventID uuid.UUID,
	status string,
) ([]model.RegistrationView, error) {
	args := m.Called(ctx, actor, eventID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RegistrationView), args.Error(1)
}

func (m *mockService) Approve(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Registration, error) {
	return m.registration(m.Called(ctx, actor, id))
}

func (m *mockService) Reject(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Registration, error) {
	return m.registration(m.Called(ctx, actor, id))
}

func (m *mockService) Export(ctx context.Context, actor *auth.Principal, eventID uuid.UUID) (*export.Table, error) {
	args := m.Called(ctx, actor, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Table), args.Error(1)
}

var _ service.Service = (*mockService)(nil)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

var (
	user = &auth.Principal{ID: uuid.New(), Email: "user@example.com", Role: profileModel.RoleUser}
	org  = &auth.Principal{ID: uuid.New(), Email: "org@example.com", Role: profileModel.RoleOrganizer}
)

func setupRouter(principal *auth.Principal) *gin.Engine {
	r := gin.New()
	if principal != nil {
		r.Use(func(c *gin.Context) {
			auth.SetPrincipal(c, principal)
			c.Next()
		})
	}
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apierror.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHandler_Register(t *testing.T) {
	eventID := uuid.New()
	path := "/events/" + eventID.String() + "/register"

	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "registered", body: map[string]string{"utm_source": "x"}, wantStatus: http.StatusCreated},
		{name: "empty body", wantStatus: http.StatusCreated},
		{
			name:       "duplicate",
			body:       map[string]string{},
			err:        model.ErrAlreadyRegistered,
			wantStatus: http.StatusConflict,
			wantCode:   apierror.CodeAlreadyRegistered,
		},
		{
			name:       "full",
			body:       map[string]string{},
			err:        model.ErrEventFull,
			wantStatus: http.StatusConflict,
			wantCode:   apierror.CodeEventFull,
		},
		{
			name:       "closed",
			body:       map[string]string{},
			err:        model.ErrRegistrationClosed,
			wantStatus: http.StatusForbidden,
			wantCode:   apierror.CodeRegistrationClosed,
		},
		{
			name:       "invalid responses",
			body:       map[string]string{},
			err:        &formModel.ResponseError{Fields: map[string]string{"GitHub": "is required"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierror.CodeInvalidRequest,
		},
		{
			name:       "unknown event",
			body:       map[string]string{},
			err:        eventModel.ErrEventNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   apierror.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mockService)
			call := mockSvc.On("Register", mock.Anything, user, eventID, mock.Anything)
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(&model.Registration{EventID: eventID, Status: model.StatusApproved}, nil)
			}
			h := New(mockSvc, zap.NewNop().Sugar())
			r := setupRouter(user)
			r.POST("/events/:id/register", h.Register)

			w := doJSON(r, http.MethodPost, path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHandler_RegisterUnauthenticated(t *testing.T) {
	mockSvc := new(mockService)
	h := New(mockSvc, zap.NewNop().Sugar())
	r := setupRouter(nil)
	r.POST("/events/:id/register", h.Register)

	w := doJSON(r, http.MethodPost, "/events/"+uuid.NewString()+"/register", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_GetMineAndCancel(t *testing.T) {
	eventID := uuid.New()
	path := "/events/" + eventID.String() + "/registration"

	mockSvc := new(mockService)
	h := New(mockSvc, zap.NewNop().Sugar())
	r := setupRouter(user)
	r.GET("/events/:id/registration", h.GetMine)
	r.DELETE("/events/:id/registration", h.Cancel)

	mockSvc.On("GetMine", mock.Anything, user, eventID).Return(&model.Registration{Status: model.StatusPending}, nil).Once()
	w := doJSON(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	mockSvc.On("Cancel", mock.Anything, user, eventID).Return(nil).Once()
	w = doJSON(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	mockSvc.On("GetMine", mock.Anything, user, eventID).Return(nil, model.ErrRegistrationNotFound).Once()
	w = doJSON(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_MyRegistrations(t *testing.T) {
	mockSvc := new(mockService)
	h := New(mockSvc, zap.NewNop().Sugar())
	r := setupRouter(user)
	r.GET("/profiles/me/registrations", h.MyRegistrations)

	mockSvc.On("MyRegistrations", mock.Anything, user).
		Return([]model.MyRegistration{{EventTitle: "Hack Night"}}, nil)

	w := doJSON(r, http.MethodGet, "/profiles/me/registrations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"event_title":"Hack Night"`)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestHandler_ListByEvent(t *testing.T) {
	eventID := uuid.New()
	path := "/events/" + eventID.String() + "/registrations"

	mockSvc := new(mockService)
	h := New(mockSvc, zap.NewNop().Sugar())
	r := setupRouter(org)
	r.GET("/events/:id/registrations", h.ListByEvent)

	mockSvc.On("ListByEvent", mock.Anything, org, eventID, model.StatusPending).
		Return([]model.RegistrationView{{Email: "a@example.com"}}, nil)
	mockSvc.On("ListByEvent", mock.Anything, org, eventID, "bogus").Return(nil, model.ErrInvalidStatus)

	w := doJSON(r, http.MethodGet, path+"?status=pending", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")

	w = doJSON(r, http.MethodGet, path+"?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Review(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		action     string
		err        error
		wantStatus int
	}{
		{name: "approve", action: "approve", wantStatus: http.StatusOK},
		{name: "reject", action: "reject", wantStatus: http.StatusOK},
		{name: "not manager", action: "approve", err: eventModel.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "missing", action: "reject", err: model.ErrRegistrationNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mockService)
			method := "Approve"
			if tt.action == "reject" {
				method = "Reject"
			}
			call := mockSvc.On(method, mock.Anything, org, id)
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(&model.Registration{Status: tt.action + "d"}, nil)
			}
			h := New(mockSvc, zap.NewNop().Sugar())
			r := setupRouter(org)
			r.PATCH("/registrations/:id/approve", h.Approve)
			r.PATCH("/registrations/:id/reject", h.Reject)

			w := doJSON(r, http.MethodPatch, "/registrations/"+id.String()+"/"+tt.action, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHandler_Export(t *testing.T) {
	eventID := uuid.New()
	path := "/events/" + eventID.String() + "/registrations/export"

	table := &export.Table{Headers: []string{"Full Name", "Email"}}
	table.AddRow("Ada", "ada@example.com")

	mockSvc := new(mockService)
	h := New(mockSvc, zap.NewNop().Sugar())
	r := setupRouter(org)
	r.GET("/events/:id/registrations/export", h.Export)

	mockSvc.On("Export", mock.Anything, org, eventID).Return(table, nil).Once()
	w := doJSON(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "registrations")
	assert.Contains(t, w.Body.String(), "ada@example.com")

	w = doJSON(r, http.MethodGet, path+"?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
