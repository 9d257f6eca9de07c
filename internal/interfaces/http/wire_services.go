package http

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	issueUsecases "campusdesk/internal/application/issue/usecases"
	"campusdesk/internal/application/notification"
	"campusdesk/internal/infrastructure/auth"
	"campusdesk/internal/infrastructure/config"
	"campusdesk/internal/infrastructure/email"
	"campusdesk/internal/infrastructure/metrics"
	"campusdesk/internal/infrastructure/permission"
	"campusdesk/internal/infrastructure/pubsub"
	"campusdesk/internal/infrastructure/ratelimit"
	"campusdesk/internal/infrastructure/scheduler"
	"campusdesk/internal/interfaces/http/middleware"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/logger"
)

// ============================================================
// Section 1: Infrastructure - Repositories, Auth, Metrics, Redis
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log.Named("auth"))

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.recorder = metrics.NewPrometheusRecorder(c.registry)
	c.httpMetrics = middleware.NewHTTPMetrics(c.registry)

	checker, err := newCapabilityChecker(c)
	if err != nil {
		return err
	}
	c.checker = checker

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		c.writeLimit = middleware.RateLimitWrites(
			ratelimit.NewRedisRateLimiter(client),
			ratelimit.Limits{PerMinute: cfg.Server.WritesPerMinute, PerHour: cfg.Server.WritesPerHour},
			log.Named("ratelimit"),
		)
	}
	return nil
}

// newCapabilityChecker picks the static role set or the casbin policy table.
func newCapabilityChecker(c *Container) (authorization.CapabilityChecker, error) {
	switch c.cfg.Issue.Authorizer {
	case "casbin":
		enforcer, err := permission.NewEnforcer(c.db, c.log.Named("permission"))
		if err != nil {
			return nil, fmt.Errorf("failed to create permission enforcer: %w", err)
		}
		if err := enforcer.SeedManagerRoles(); err != nil {
			return nil, fmt.Errorf("failed to seed manager roles: %w", err)
		}
		return enforcer, nil
	default:
		return authorization.NewRoleCapabilities(), nil
	}
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// ============================================================
// Section 2: Notifications - Sinks, Relay, Outbox Writer
// ============================================================

func (c *Container) initNotifications() {
	cfg := c.cfg
	log := c.log

	sinks := []notification.Sink{notification.NewLogSink(log.Named("notification_log"))}
	if c.redis != nil {
		sinks = append(sinks, pubsub.NewRedisNotificationSink(c.redis, cfg.Redis.Channel, log.Named("notification_redis")))
	}
	if cfg.Email.Enabled {
		mailer := email.NewNotificationMailer(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		}, email.DomainDirectory{Domain: cfg.Email.RecipientDomain}, log.Named("notification_email"))
		sinks = append(sinks, mailer)
	}

	c.relay = notification.NewRelay(c.repos.notificationRepo, sinks, notification.RelayConfig{
		BatchSize:   cfg.Notification.BatchSize,
		MaxAttempts: cfg.Notification.MaxAttempts,
	}, log.Named("notification_relay"))
	c.relay.SetMetrics(c.recorder)

	c.notifier = notification.NewNotifier(c.repos.notificationRepo, c.relay, log.Named("notifier"))
}

// ============================================================
// Section 3: Scheduler - Outbox Sweep, Counter Reconciliation
// ============================================================

func (c *Container) initScheduler() error {
	sm, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := sm.RegisterOutboxRelay(scheduler.BatchJobFunc(c.relay.Drain), c.cfg.Notification.RelayInterval()); err != nil {
		return fmt.Errorf("failed to register outbox relay job: %w", err)
	}

	if c.cfg.Maintenance.ReconcileEnabled {
		reconcile := c.ucs.reconcile
		job := scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			result, err := reconcile.Execute(ctx, issueUsecases.ReconcileCountersCommand{OnlyDrifted: true})
			if result == nil {
				return 0, err
			}
			return result.Drifted, err
		})
		if err := sm.RegisterCounterReconcile(job, c.cfg.Maintenance.ReconcileCron); err != nil {
			return fmt.Errorf("failed to register counter reconcile job: %w", err)
		}
	}

	c.schedulerManager = sm
	return nil
}
