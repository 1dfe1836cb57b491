package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/internal/middleware"
	"github.com/quokka-community/migration-backend/internal/service"
)

// FeedHandler drives the migrate view: fetching pages of the user's
// external feed, filtering and selecting posts, and submitting the
// selection as migration requests.
type FeedHandler struct {
	feed    service.FeedService
	submit  service.SubmitService
	userSvc service.AuthService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed service.FeedService, submit service.SubmitService, userSvc service.AuthService) *FeedHandler {
	return &FeedHandler{feed: feed, submit: submit, userSvc: userSvc}
}

// FetchRequest carries the feed credentials for a page fetch
type FetchRequest struct {
	FeedUserID  string `json:"feed_user_id" binding:"required"`
	AccessToken string `json:"access_token" binding:"required"`
}

// FetchNext handles POST /api/v1/feed/next
func (h *FeedHandler) FetchNext(c *gin.Context) {
	var req FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserID(c)
	session, err := h.feed.FetchNextPage(c.Request.Context(), userID, req.FeedUserID, req.AccessToken)
	if errors.Is(err, common.ErrFetchInFlight) {
		common.ErrorResponse(c, 409, "A fetch is already running", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 502, "Feed fetch failed", err)
		return
	}

	common.SuccessResponse(c, session, &common.Meta{Total: int64(len(session.Posts))})
}

// Session handles GET /api/v1/feed
func (h *FeedHandler) Session(c *gin.Context) {
	userID := middleware.GetUserID(c)
	session, err := h.feed.Session(c.Request.Context(), userID)
	if errors.Is(err, common.ErrNoSession) {
		common.ErrorResponse(c, 404, "No feed session", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Session load failed", err)
		return
	}
	common.SuccessResponse(c, session, &common.Meta{Total: int64(len(session.Posts))})
}

// View handles GET /api/v1/feed/view
func (h *FeedHandler) View(c *gin.Context) {
	userID := middleware.GetUserID(c)
	query := c.Query("q")
	hideRequested := c.Query("hide_requested") == "true"
	sortOrder := c.DefaultQuery("sort", service.SortMostRecent)

	view, err := h.feed.View(c.Request.Context(), userID, query, hideRequested, sortOrder)
	if errors.Is(err, common.ErrNoSession) {
		common.ErrorResponse(c, 404, "No feed session", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "View failed", err)
		return
	}

	common.SuccessResponse(c, view, nil)
}

// Selection actions
const (
	selectionToggle    = "toggle"
	selectionSelectAll = "select_all"
	selectionClear     = "clear"
)

// SelectionRequest is one selection mutation: toggle needs a post id,
// select_all and clear apply to every selectable post.
type SelectionRequest struct {
	Action string `json:"action" binding:"required"`
	PostID string `json:"post_id"`
}

// Selection handles POST /api/v1/feed/selection
func (h *FeedHandler) Selection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	var (
		session *domain.FeedSession
		err     error
	)
	switch req.Action {
	case selectionToggle:
		if req.PostID == "" {
			common.ErrorResponse(c, 400, "post_id required for toggle", nil)
			return
		}
		session, err = h.feed.ToggleSelection(ctx, userID, req.PostID)
	case selectionSelectAll:
		session, err = h.feed.SetAllSelection(ctx, userID, true)
	case selectionClear:
		session, err = h.feed.SetAllSelection(ctx, userID, false)
	default:
		common.ErrorResponse(c, 400, "Unknown selection action", nil)
		return
	}

	if errors.Is(err, common.ErrNoSession) {
		common.ErrorResponse(c, 404, "No feed session", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Selection failed", err)
		return
	}
	common.SuccessResponse(c, gin.H{"selected_count": session.SelectedCount()}, nil)
}

// Reset handles DELETE /api/v1/feed
func (h *FeedHandler) Reset(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.feed.Reset(c.Request.Context(), userID); err != nil {
		common.ErrorResponse(c, 500, "Reset failed", err)
		return
	}
	common.SuccessResponse(c, gin.H{"reset": true}, nil)
}

// Submit handles POST /api/v1/feed/submit
func (h *FeedHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.userSvc.GetUser(userID)
	if err != nil {
		common.ErrorResponse(c, 401, "Unknown user", err)
		return
	}

	result, err := h.submit.SubmitSelected(c.Request.Context(), userID, user.CommunityID)
	if errors.Is(err, common.ErrNoSession) {
		common.ErrorResponse(c, 404, "No feed session", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Submission failed", err)
		return
	}

	middleware.CountMigrationDecision("submitted")
	common.SuccessResponse(c, result, nil)
}
