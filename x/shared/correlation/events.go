package correlation

// Event types emitted by correlation engines.
const (
	EventTypeIssued            = "correlation_issued"
	EventTypeRekeyed           = "correlation_rekeyed"
	EventTypeReplyFailed       = "correlation_reply_failed"
	EventTypeResult            = "correlation_result"
	EventTypeRecoverableError  = "correlation_recoverable_error"
	EventTypeErrorQueueCleared = "correlation_error_queue_cleared"
)

// Event attribute keys.
const (
	AttributeKeyModule        = "module"
	AttributeKeyCorrelationID = "correlation_id"
	AttributeKeyTypeURL       = "type_url"
	AttributeKeySource        = "source"
	AttributeKeySequence      = "sequence"
	AttributeKeyKind          = "kind"
	AttributeKeyOperation     = "operation"
	AttributeKeySeverity      = "severity"
	AttributeKeyError         = "error"
	AttributeKeyIndex         = "index"
	AttributeKeyHeight        = "height"
	AttributeKeyCount         = "count"
)
