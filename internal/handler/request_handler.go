package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/middleware"
	"github.com/quokka-community/migration-backend/internal/service"
)

// RequestHandler exposes the migration request content store
type RequestHandler struct {
	service service.RequestService
	userSvc service.AuthService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(service service.RequestService, userSvc service.AuthService) *RequestHandler {
	return &RequestHandler{service: service, userSvc: userSvc}
}

// Get handles GET /api/v1/fbposts/:post_id
func (h *RequestHandler) Get(c *gin.Context) {
	response, err := h.service.Get(c.Param("post_id"))
	if errors.Is(err, common.ErrRequestNotFound) {
		common.ErrorResponse(c, 404, "Request not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Lookup failed", err)
		return
	}
	common.SuccessResponse(c, response, nil)
}

// Create handles POST /api/v1/fbposts
func (h *RequestHandler) Create(c *gin.Context) {
	var input service.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	user, err := h.userSvc.GetUser(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, 401, "Unknown user", err)
		return
	}
	input.RequesterID = user.CommunityID

	response, err := h.service.Create(&input)
	if errors.Is(err, common.ErrMalformedRecord) {
		common.ErrorResponse(c, 400, "Malformed record", err)
		return
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		common.ErrorResponse(c, 409, "Post already migrated", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Create failed", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: response})
}

// Update handles POST /api/v1/fbposts/:post_id
func (h *RequestHandler) Update(c *gin.Context) {
	var input service.UpdateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	err := h.service.Update(c.Param("post_id"), &input)
	if errors.Is(err, common.ErrRequestNotFound) {
		common.ErrorResponse(c, 404, "Request not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		common.ErrorResponse(c, 409, "Invalid status transition", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Update failed", err)
		return
	}
	common.SuccessResponse(c, gin.H{"updated": true}, nil)
}

// Delete handles DELETE /api/v1/fbposts/:post_id
func (h *RequestHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Param("post_id"))
	if errors.Is(err, common.ErrRequestNotFound) {
		common.ErrorResponse(c, 404, "Request not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Delete failed", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// ListPending handles GET /api/v1/fbposts-pending
func (h *RequestHandler) ListPending(c *gin.Context) {
	responses, err := h.service.ListPending()
	if err != nil {
		common.ErrorResponse(c, 500, "Listing failed", err)
		return
	}
	common.SuccessResponse(c, responses, &common.Meta{Total: int64(len(responses))})
}

// ListAny handles GET /api/v1/fbposts-any-status
func (h *RequestHandler) ListAny(c *gin.Context) {
	responses, err := h.service.ListAny()
	if err != nil {
		common.ErrorResponse(c, 500, "Listing failed", err)
		return
	}
	common.SuccessResponse(c, responses, &common.Meta{Total: int64(len(responses))})
}
