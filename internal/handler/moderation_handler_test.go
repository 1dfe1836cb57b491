package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockModerationService struct {
	mock.Mock
}

func (m *mockModerationService) Queue(ctx context.Context) (*service.ModerationQueue, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ModerationQueue), args.Error(1)
}

func (m *mockModerationService) Groups(ctx context.Context) ([]domain.Group, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *mockModerationService) Approve(ctx context.Context, postID string, groupID int64) error {
	args := m.Called(postID, groupID)
	return args.Error(0)
}

func (m *mockModerationService) Decline(ctx context.Context, postID, reason string) error {
	args := m.Called(postID, reason)
	return args.Error(0)
}

func moderationRouter(svc service.ModerationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewModerationHandler(svc)
	r := gin.New()
	r.GET("/moderation/requests", h.Queue)
	r.POST("/moderation/requests/:post_id/approve", h.Approve)
	r.POST("/moderation/requests/:post_id/decline", h.Decline)
	return r
}

func TestModerationHandler_Queue(t *testing.T) {
	svc := new(mockModerationService)
	svc.On("Queue").Return(&service.ModerationQueue{
		Pending:  []service.ModerationRequest{{RequestResponse: &domain.RequestResponse{ID: 1}}},
		Archived: []service.ModerationRequest{},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/moderation/requests", nil)
	moderationRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pending"`)
}

func TestModerationHandler_Approve(t *testing.T) {
	svc := new(mockModerationService)
	svc.On("Approve", "fb_1", int64(44)).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/moderation/requests/fb_1/approve", bytes.NewBufferString(`{"group_id":44}`))
	req.Header.Set("Content-Type", "application/json")
	moderationRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestModerationHandler_Approve_InProgressConflict(t *testing.T) {
	svc := new(mockModerationService)
	svc.On("Approve", "fb_1", int64(44)).Return(common.ErrRequestInProgress)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/moderation/requests/fb_1/approve", bytes.NewBufferString(`{"group_id":44}`))
	req.Header.Set("Content-Type", "application/json")
	moderationRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestModerationHandler_Decline(t *testing.T) {
	svc := new(mockModerationService)
	svc.On("Decline", "fb_1", "blurry photos").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/moderation/requests/fb_1/decline", bytes.NewBufferString(`{"reason":"blurry photos"}`))
	req.Header.Set("Content-Type", "application/json")
	moderationRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestModerationHandler_Decline_NotFound(t *testing.T) {
	svc := new(mockModerationService)
	svc.On("Decline", "ghost", "").Return(common.ErrRequestNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/moderation/requests/ghost/decline", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	moderationRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
