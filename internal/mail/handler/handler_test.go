package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appConfig "github.com/festy23/eventhub/internal/config"
	"github.com/festy23/eventhub/internal/mail"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendSingle(ctx context.Context, req *mail.SendRequest) (*mail.SendResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mail.SendResponse), args.Error(1)
}

func (m *mockSender) SendBulk(ctx context.Context, req *mail.SendRequest) (*mail.BulkResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mail.BulkResponse), args.Error(1)
}

var _ Sender = (*mail.Service)(nil)

func post(h *Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/functions/send-email", h.SendEmail)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/functions/send-email", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_SendEmail(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		sender := new(mockSender)
		sender.On("SendSingle", mock.Anything, mock.MatchedBy(func(r *mail.SendRequest) bool {
			return r.To == "a@example.com"
		})).Return(&mail.SendResponse{ID: "re_1"}, nil)

		w := post(New(sender, zap.NewNop().Sugar()), `{"to":"a@example.com","subject":"s","html":"<p>h</p>"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"re_1"}`, w.Body.String())
		sender.AssertNotCalled(t, "SendBulk", mock.Anything, mock.Anything)
	})

	t.Run("bulk", func(t *testing.T) {
		sender := new(mockSender)
		sender.On("SendBulk", mock.Anything, mock.MatchedBy(func(r *mail.SendRequest) bool {
			return len(r.Recipients) == 1 && r.HTMLTemplate == "<p>{{name}}</p>"
		})).Return(&mail.BulkResponse{Results: []mail.BulkResult{
			{Email: "a@example.com", Status: mail.StatusFailed, Error: "boom"},
		}}, nil)

		w := post(New(sender, zap.NewNop().Sugar()),
			`{"recipients":[{"email":"a@example.com","name":"A"}],"subject":"s","htmlTemplate":"<p>{{name}}</p>"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp mail.BulkResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "boom", resp.Results[0].Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := mail.NewService(mail.NewLogProvider(zap.NewNop().Sugar()), configForTest(), nil, zap.NewNop().Sugar())
		w := post(New(svc, zap.NewNop().Sugar()), `{"subject":"s"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("provider down", func(t *testing.T) {
		sender := new(mockSender)
		sender.On("SendSingle", mock.Anything, mock.Anything).Return(nil, mail.ErrProviderUnavailable)

		w := post(New(sender, zap.NewNop().Sugar()), `{"to":"a@example.com","subject":"s","html":"h"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := post(New(new(mockSender), zap.NewNop().Sugar()), `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func configForTest() appConfig.MailConfig {
	return appConfig.MailConfig{From: "noreply@example.com"}
}
