package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/quokka-community/migration-backend/internal/handler"
	"github.com/quokka-community/migration-backend/internal/middleware"
	"github.com/quokka-community/migration-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	requestHandler *handler.RequestHandler,
	feedHandler *handler.FeedHandler,
	moderationHandler *handler.ModerationHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/token", authHandler.Token)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Content store: migration request records keyed by external post id
	requests := api.Group("/fbposts", middleware.JWTAuth(jwtManager))
	{
		requests.POST("", requestHandler.Create)
		requests.GET("/:post_id", requestHandler.Get)
		requests.POST("/:post_id", requestHandler.Update)
		requests.DELETE("/:post_id", requestHandler.Delete)
	}
	api.GET("/fbposts-pending", middleware.JWTAuth(jwtManager), requestHandler.ListPending)
	api.GET("/fbposts-any-status", middleware.JWTAuth(jwtManager), requestHandler.ListAny)

	// Migrate view: feed session, selection and batch submission
	feed := api.Group("/feed", middleware.JWTAuth(jwtManager))
	{
		feed.GET("", feedHandler.Session)
		feed.GET("/view", feedHandler.View)
		feed.DELETE("", feedHandler.Reset)
		feed.POST("/next", feedHandler.FetchNext)
		feed.POST("/selection", feedHandler.Selection)
		feed.POST("/submit", feedHandler.Submit)
	}

	// Moderation queue (admins only)
	moderation := api.Group("/moderation", middleware.JWTAuth(jwtManager), middleware.RequireAdmin())
	{
		moderation.GET("/requests", moderationHandler.Queue)
		moderation.GET("/groups", moderationHandler.Groups)
		moderation.POST("/requests/:post_id/approve", moderationHandler.Approve)
		moderation.POST("/requests/:post_id/decline", moderationHandler.Decline)
	}
}
