package notification

import (
	"context"
	"sync"

	domain "campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/biztime"
	"campusdesk/internal/shared/logger"
)

const (
	defaultBatchSize   = 100
	defaultMaxAttempts = 5
)

// DeliveryMetrics observes per-sink delivery outcomes.
type DeliveryMetrics interface {
	RecordDelivery(sink string, err error)
}

type nopDeliveryMetrics struct{}

func (nopDeliveryMetrics) RecordDelivery(string, error) {}

type RelayConfig struct {
	BatchSize   int
	MaxAttempts int
}

// Relay moves committed outbox rows to sinks. A row is marked delivered only when
// every sink accepted it; otherwise its attempt counter is bumped and it is retried
// on the next pass until MaxAttempts is reached. Delivery is at-least-once per sink.
type Relay struct {
	repo        domain.NotificationRepository
	sinks       []Sink
	batchSize   int
	maxAttempts int
	metrics     DeliveryMetrics
	logger      logger.Interface

	wake chan struct{}
	mu   sync.Mutex
}

func NewRelay(repo domain.NotificationRepository, sinks []Sink, cfg RelayConfig, logger logger.Interface) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &Relay{
		repo:        repo,
		sinks:       sinks,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		metrics:     nopDeliveryMetrics{},
		logger:      logger,
		wake:        make(chan struct{}, 1),
	}
}

// SetMetrics replaces the delivery observer.
func (r *Relay) SetMetrics(m DeliveryMetrics) {
	if m != nil {
		r.metrics = m
	}
}

// Nudge wakes Run without blocking. Nudges arriving while a wake is pending collapse into one.
func (r *Relay) Nudge() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run drains the outbox every time it is nudged, until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	r.logger.Infow("notification relay started", "sinks", len(r.sinks))
	for {
		select {
		case <-ctx.Done():
			r.logger.Infow("notification relay stopped")
			return
		case <-r.wake:
			if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
				r.logger.Errorw("notification relay pass failed", "error", err)
			}
		}
	}
}

// Drain runs passes until a pass delivers a short batch.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		processed, delivered, err := r.pass(ctx)
		total += delivered
		if err != nil {
			return total, err
		}
		if processed < r.batchSize || delivered == 0 {
			return total, nil
		}
	}
}

// RunOnce performs a single pass and returns the number of rows delivered.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	_, delivered, err := r.pass(ctx)
	return delivered, err
}

func (r *Relay) pass(ctx context.Context) (processed int, delivered int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, err := r.repo.ListUndelivered(ctx, r.maxAttempts, r.batchSize)
	if err != nil {
		return 0, 0, err
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	var deliveredIDs, failedIDs []uint
	for _, n := range pending {
		if r.deliver(ctx, n) {
			deliveredIDs = append(deliveredIDs, n.ID())
		} else {
			failedIDs = append(failedIDs, n.ID())
		}
	}

	if err := r.repo.MarkDelivered(ctx, deliveredIDs, biztime.NowUTC()); err != nil {
		return len(pending), 0, err
	}
	if err := r.repo.IncrementAttempts(ctx, failedIDs); err != nil {
		return len(pending), len(deliveredIDs), err
	}

	if len(failedIDs) > 0 {
		r.logger.Warnw("some notifications were not delivered", "delivered", len(deliveredIDs), "failed", len(failedIDs))
	}
	return len(pending), len(deliveredIDs), nil
}

func (r *Relay) deliver(ctx context.Context, n *domain.Notification) bool {
	ok := true
	for _, sink := range r.sinks {
		err := sink.Deliver(ctx, n)
		r.metrics.RecordDelivery(sink.Name(), err)
		if err != nil {
			ok = false
			r.logger.Warnw("notification sink failed",
				"sink", sink.Name(),
				"notification_id", n.ID(),
				"attempt", n.Attempts()+1,
				"error", err,
			)
		}
	}
	if !ok && n.Attempts()+1 >= r.maxAttempts {
		r.logger.Errorw("giving up on notification", "notification_id", n.ID(), "attempts", n.Attempts()+1)
	}
	return ok
}
