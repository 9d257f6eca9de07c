package routes

import (
	"github.com/gin-gonic/gin"

	"campusdesk/internal/interfaces/http/handlers/issue"
	"campusdesk/internal/interfaces/http/middleware"
)

type IssueRouteConfig struct {
	IssueHandler   *issue.IssueHandler
	AuthMiddleware *middleware.AuthMiddleware
	// RequireManager gates admin-only endpoints. Status, assignment and deletion
	// check the capability inside their use cases.
	RequireManager gin.HandlerFunc
	// WriteLimit throttles issue and comment creation. Nil disables it.
	WriteLimit gin.HandlerFunc
}

func SetupIssueRoutes(engine *gin.Engine, config *IssueRouteConfig) {
	h := config.IssueHandler
	writeLimit := config.WriteLimit
	if writeLimit == nil {
		writeLimit = func(c *gin.Context) { c.Next() }
	}

	issues := engine.Group("/issues")
	issues.Use(config.AuthMiddleware.RequireAuth())
	{
		issues.POST("", writeLimit, h.CreateIssue)
		issues.GET("", h.ListIssues)

		issues.PATCH("/:id/status", h.TransitionStatus)
		issues.GET("/:id/history", h.ListStatusHistory)
		issues.POST("/:id/assign", h.AssignIssue)
		issues.POST("/:id/upvote", h.ToggleUpvote)
		issues.GET("/:id/comments", h.ListComments)
		issues.POST("/:id/comments", writeLimit, h.PostComment)

		issues.GET("/:id", h.GetIssue)
		issues.DELETE("/:id", h.DeleteIssue)
	}

	comments := engine.Group("/comments")
	comments.Use(config.AuthMiddleware.RequireAuth())
	{
		comments.PATCH("/:id", h.EditComment)
		comments.DELETE("/:id", h.DeleteComment)
	}

	admin := engine.Group("/admin")
	admin.Use(config.AuthMiddleware.RequireAuth(), config.RequireManager)
	{
		admin.POST("/issues/reconcile", h.ReconcileCounters)
	}
}
