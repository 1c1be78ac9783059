package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	ItemsPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsPurchased,
			Help: HelpTextItemsPurchased,
		},
		[]string{LabelItem},
	)

	ItemsUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsUsed,
			Help: HelpTextItemsUsed,
		},
		[]string{LabelItem},
	)

	AttacksResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAttacksResolved,
			Help: HelpTextAttacksResolved,
		},
		[]string{LabelOutcome},
	)

	QuestsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameQuestsCompleted,
			Help: HelpTextQuestsCompleted,
		},
		[]string{LabelQuest},
	)

	PointsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsSpent,
			Help: HelpTextPointsSpent,
		},
	)

	PointsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsAwarded,
			Help: HelpTextPointsAwarded,
		},
	)

	StreakCompletions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStreakCompletions,
			Help: HelpTextStreakCompletions,
		},
	)

	StreakMilestones = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStreakMilestones,
			Help: HelpTextStreakMilestones,
		},
	)
)
