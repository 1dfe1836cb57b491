package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/middleware"
	"github.com/quokka-community/migration-backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// TokenRequest token request. The password field carries the stored
// hash the embedding page injects into the widget.
type TokenRequest struct {
	UserID   string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token handles POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	response, err := h.service.Login(req.UserID, req.Password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid credentials", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"token":         response.Token,
			"refresh_token": response.RefreshToken,
			"user":          response.User,
		},
	})
}

// RefreshRequest refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	response, err := h.service.Refresh(req.RefreshToken)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid refresh token", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Refresh failed", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"token":         response.Token,
			"refresh_token": response.RefreshToken,
			"user":          response.User,
		},
	})
}

// Me handles GET /api/v1/auth/me (requires JWT)
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.service.GetUser(userID)
	if err != nil {
		common.ErrorResponse(c, 404, "User not found", err)
		return
	}

	common.SuccessResponse(c, user.ToResponse(), nil)
}
