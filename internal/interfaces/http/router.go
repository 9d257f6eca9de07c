package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusdesk/internal/interfaces/http/handlers/issue"
	"campusdesk/internal/interfaces/http/handlers/notification"
	"campusdesk/internal/interfaces/http/middleware"
	"campusdesk/internal/interfaces/http/routes"
)

// Router registers middleware and routes on the container's engine.
type Router struct {
	container           *Container
	issueHandler        *issue.IssueHandler
	notificationHandler *notification.NotificationHandler
}

func NewRouter(c *Container) *Router {
	ucs := c.ucs
	return &Router{
		container: c,
		issueHandler: issue.NewIssueHandler(issue.Executors{
			CreateIssue:   ucs.createIssue,
			GetIssue:      ucs.getIssue,
			ListIssues:    ucs.listIssues,
			Transition:    ucs.transition,
			History:       ucs.history,
			AssignIssue:   ucs.assignIssue,
			DeleteIssue:   ucs.deleteIssue,
			ToggleUpvote:  ucs.toggleUpvote,
			PostComment:   ucs.postComment,
			ListComments:  ucs.listComments,
			EditComment:   ucs.editComment,
			DeleteComment: ucs.deleteComment,
			Reconcile:     ucs.reconcile,
		}, c.log.Named("issue_handler")),
		notificationHandler: notification.NewNotificationHandler(
			ucs.listNotifications,
			ucs.markNotification,
			c.log.Named("notification_handler"),
		),
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	c := r.container
	engine := c.engine

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(c.log.Named("http")))
	engine.Use(middleware.Recovery(c.log.Named("http")))
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	engine.Use(c.httpMetrics.Handler())

	engine.GET("/health", r.health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})))

	routes.SetupIssueRoutes(engine, &routes.IssueRouteConfig{
		IssueHandler:   r.issueHandler,
		AuthMiddleware: c.authMiddleware,
		RequireManager: middleware.RequireIssueManager(c.checker, c.log.Named("capability")),
		WriteLimit:     c.writeLimit,
	})
	routes.SetupNotificationRoutes(engine, &routes.NotificationRouteConfig{
		NotificationHandler: r.notificationHandler,
		AuthMiddleware:      c.authMiddleware,
	})
}

func (r *Router) health(ctx *gin.Context) {
	sqlDB, err := r.container.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		r.container.log.Warnw("health check failed", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.container.engine
}
