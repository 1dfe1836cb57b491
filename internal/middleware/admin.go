package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
)

// RequireAdmin checks that the authenticated user can moderate
// migration requests (level >= 10)
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		level := GetUserLevel(c)
		if level < domain.AdminLevel {
			common.ErrorResponse(c, http.StatusForbidden, "Moderator privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
