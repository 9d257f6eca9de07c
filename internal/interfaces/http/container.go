package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"campusdesk/internal/application/notification"
	"campusdesk/internal/infrastructure/auth"
	"campusdesk/internal/infrastructure/config"
	"campusdesk/internal/infrastructure/metrics"
	"campusdesk/internal/infrastructure/scheduler"
	"campusdesk/internal/interfaces/http/middleware"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/goroutine"
	"campusdesk/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases and
// background services, wires them together and tears them down in Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases

	// Auth and access control
	jwtSvc         *auth.JWTService
	authMiddleware *middleware.AuthMiddleware
	checker        authorization.CapabilityChecker
	writeLimit     gin.HandlerFunc

	// Metrics
	registry    *prometheus.Registry
	recorder    *metrics.PrometheusRecorder
	httpMetrics *middleware.HTTPMetrics

	// Outbox
	relay    *notification.Relay
	notifier *notification.Notifier

	// Background services
	schedulerManager *scheduler.SchedulerManager
	relayCancel      context.CancelFunc
	relayDone        chan struct{}
	startOnce        sync.Once
	shutdownOnce     sync.Once
}

// NewContainer wires every component. Background work does not begin until Start.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Repositories, Auth, Metrics, Redis
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Notifications - Sinks, Relay, Outbox Writer
	c.initNotifications()

	// Section 3: Use cases
	if err := c.initUseCases(); err != nil {
		c.closeRedis()
		return nil, err
	}

	// Section 4: Scheduler - Outbox Sweep, Counter Reconciliation
	if err := c.initScheduler(); err != nil {
		c.closeRedis()
		return nil, err
	}

	return c, nil
}

// Start launches the relay loop and the scheduler.
func (c *Container) Start() {
	c.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		c.relayCancel = cancel
		c.relayDone = make(chan struct{})
		goroutine.SafeGo(c.log, "outbox-relay", func() {
			defer close(c.relayDone)
			c.relay.Run(ctx)
		})
		// Pick up rows left by a previous process.
		c.relay.Nudge()

		c.schedulerManager.Start()
	})
}

// Shutdown stops background work and closes external clients.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(func() {
		if c.schedulerManager != nil {
			if err := c.schedulerManager.Stop(); err != nil {
				c.log.Errorw("failed to stop scheduler", "error", err)
			}
		}

		if c.relayCancel != nil {
			c.relayCancel()
			<-c.relayDone
		}

		c.closeRedis()
	})
}

func (c *Container) closeRedis() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		c.log.Errorw("failed to close Redis client", "error", err)
	}
	c.redis = nil
}

// Engine returns the gin engine. Routes are registered by Router.SetupRoutes.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Relay exposes the outbox relay for one-off drains from the CLI.
func (c *Container) Relay() *notification.Relay {
	return c.relay
}
