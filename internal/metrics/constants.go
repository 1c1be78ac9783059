package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameItemsPurchased    = "items_purchased_total"
	MetricNameItemsUsed         = "items_used_total"
	MetricNameAttacksResolved   = "attacks_resolved_total"
	MetricNameQuestsCompleted   = "quests_completed_total"
	MetricNamePointsSpent       = "points_spent_total"
	MetricNamePointsAwarded     = "points_awarded_total"
	MetricNameStreakCompletions = "streak_completions_total"
	MetricNameStreakMilestones  = "streak_milestones_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextItemsPurchased    = "Total number of shop purchases"
	HelpTextItemsUsed         = "Total number of items used"
	HelpTextAttacksResolved   = "Total number of streak attacks resolved"
	HelpTextQuestsCompleted   = "Total number of quests completed"
	HelpTextPointsSpent       = "Total points spent in the shop"
	HelpTextPointsAwarded     = "Total points awarded from quests"
	HelpTextStreakCompletions = "Total number of streak completions recorded"
	HelpTextStreakMilestones  = "Total number of streak milestones crossed"
)

// ============================================================================
// Metric Labels
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelItem    = "item"
	LabelOutcome = "outcome"
	LabelQuest   = "quest"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Log messages
const (
	LogMsgEventPayloadDecode = "Failed to decode event payload for metrics"
)
