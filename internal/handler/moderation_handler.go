package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/middleware"
	"github.com/quokka-community/migration-backend/internal/service"
)

// ModerationHandler exposes the moderation queue to admins
type ModerationHandler struct {
	service service.ModerationService
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(service service.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// Queue handles GET /api/v1/moderation/requests
func (h *ModerationHandler) Queue(c *gin.Context) {
	queue, err := h.service.Queue(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 500, "Queue listing failed", err)
		return
	}
	common.SuccessResponse(c, queue, &common.Meta{
		Total:   int64(len(queue.Pending) + len(queue.Archived)),
		Pending: int64(len(queue.Pending)),
	})
}

// Groups handles GET /api/v1/moderation/groups
func (h *ModerationHandler) Groups(c *gin.Context) {
	groups, err := h.service.Groups(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 502, "Group listing failed", err)
		return
	}
	common.SuccessResponse(c, groups, nil)
}

// ApproveRequest names the target community group
type ApproveRequest struct {
	GroupID int64 `json:"group_id" binding:"required"`
}

// Approve handles POST /api/v1/moderation/requests/:post_id/approve
func (h *ModerationHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	err := h.service.Approve(c.Request.Context(), c.Param("post_id"), req.GroupID)
	switch {
	case errors.Is(err, common.ErrRequestNotFound):
		common.ErrorResponse(c, 404, "Request not found", err)
		return
	case errors.Is(err, common.ErrRequestInProgress):
		common.ErrorResponse(c, 409, "Approval already running", err)
		return
	case errors.Is(err, common.ErrInvalidTransition):
		common.ErrorResponse(c, 409, "Request is not pending review", err)
		return
	case err != nil:
		common.ErrorResponse(c, 502, "Approval failed", err)
		return
	}

	middleware.CountMigrationDecision("approved")
	common.SuccessResponse(c, gin.H{"approved": true}, nil)
}

// DeclineRequest carries the optional rejection reason
type DeclineRequest struct {
	Reason string `json:"reason"`
}

// Decline handles POST /api/v1/moderation/requests/:post_id/decline
func (h *ModerationHandler) Decline(c *gin.Context) {
	var req DeclineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	err := h.service.Decline(c.Request.Context(), c.Param("post_id"), req.Reason)
	switch {
	case errors.Is(err, common.ErrRequestNotFound):
		common.ErrorResponse(c, 404, "Request not found", err)
		return
	case errors.Is(err, common.ErrInvalidTransition):
		common.ErrorResponse(c, 409, "Request cannot be declined", err)
		return
	case err != nil:
		common.ErrorResponse(c, 500, "Decline failed", err)
		return
	}

	middleware.CountMigrationDecision("declined")
	common.SuccessResponse(c, gin.H{"declined": true}, nil)
}
