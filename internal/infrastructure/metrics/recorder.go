// Package metrics exports issue and notification activity to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campusdesk"

// PrometheusRecorder implements the issue use-case and relay metric ports.
type PrometheusRecorder struct {
	issuesCreated     *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	upvoteToggles     *prometheus.CounterVec
	commentsPosted    *prometheus.CounterVec
	commentsDeleted   prometheus.Counter
	counterDrift      *prometheus.CounterVec
	deliveries        *prometheus.CounterVec
}

// NewPrometheusRecorder registers its collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		issuesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issues_created_total",
				Help:      "Issues reported, by priority",
			},
			[]string{"priority"},
		),
		statusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issue_status_transitions_total",
				Help:      "Applied status transitions",
			},
			[]string{"from", "to"},
		),
		upvoteToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issue_upvote_toggles_total",
				Help:      "Upvote toggles, by resulting state",
			},
			[]string{"state"},
		),
		commentsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issue_comments_posted_total",
				Help:      "Comments posted",
			},
			[]string{"reply"},
		),
		commentsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issue_comments_deleted_total",
				Help:      "Comments removed, including cascaded replies",
			},
		),
		counterDrift: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issue_counter_drift_total",
				Help:      "Denormalized counters corrected by reconciliation",
			},
			[]string{"counter"},
		),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_deliveries_total",
				Help:      "Notification delivery attempts per sink",
			},
			[]string{"sink", "result"},
		),
	}
}

func (r *PrometheusRecorder) RecordIssueCreated(priority string) {
	r.issuesCreated.WithLabelValues(priority).Inc()
}

func (r *PrometheusRecorder) RecordStatusTransition(from, to string) {
	r.statusTransitions.WithLabelValues(from, to).Inc()
}

func (r *PrometheusRecorder) RecordUpvoteToggle(state string) {
	r.upvoteToggles.WithLabelValues(state).Inc()
}

func (r *PrometheusRecorder) RecordCommentPosted(isReply bool) {
	r.commentsPosted.WithLabelValues(strconv.FormatBool(isReply)).Inc()
}

func (r *PrometheusRecorder) RecordCommentsDeleted(count int) {
	if count > 0 {
		r.commentsDeleted.Add(float64(count))
	}
}

func (r *PrometheusRecorder) RecordCounterDrift(counter string) {
	r.counterDrift.WithLabelValues(counter).Inc()
}

func (r *PrometheusRecorder) RecordDelivery(sink string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.deliveries.WithLabelValues(sink, result).Inc()
}
