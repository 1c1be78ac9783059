package event

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Dead letter file configuration
const (
	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0644
)

// Log message constants
const (
	LogMsgEventPublishFailed  = "Event publish failed, initiating async retry"
	LogMsgEventRetrySucceeded = "Event retry succeeded"
	LogMsgEventRetryFailed    = "Event retry failed"
	LogMsgEventRetryExhausted = "Event retry exhausted, writing to dead-letter"

	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)
