package correlation

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Severity classifies a recoverable error. None of them fail the transaction.
type Severity int

const (
	// SeverityLow covers conditions that are expected from time to time,
	// such as a callback for a request another module issued.
	SeverityLow Severity = iota

	// SeverityMedium covers data the module does not understand but can skip,
	// such as an unknown message type inside an acknowledgement batch.
	SeverityMedium

	// SeverityHigh covers local bookkeeping gaps, such as a missing payload
	// for a request this module did issue.
	SeverityHigh
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// RecoverableErrorHandler records problems that must never abort a host
// callback. It logs with severity, emits a monitoring event, appends to the
// ErrorQueue and returns; callers continue normally.
type RecoverableErrorHandler struct {
	moduleName string
	queue      *ErrorQueue
	metrics    *Metrics
}

// NewRecoverableErrorHandler creates a handler writing to queue.
func NewRecoverableErrorHandler(moduleName string, queue *ErrorQueue, metrics *Metrics) *RecoverableErrorHandler {
	return &RecoverableErrorHandler{
		moduleName: moduleName,
		queue:      queue,
		metrics:    metrics,
	}
}

// HandleError logs err and appends it to the error queue. A failure to write
// the queue is only logged.
func (h *RecoverableErrorHandler) HandleError(ctx sdk.Context, operation string, severity Severity, err error) {
	if err == nil {
		return
	}

	logger := ctx.Logger().With("module", fmt.Sprintf("x/%s", h.moduleName))
	switch severity {
	case SeverityHigh:
		logger.Error("recoverable callback error",
			"operation", operation,
			"severity", severity.String(),
			"error", err.Error(),
		)
	case SeverityMedium:
		logger.Warn("recoverable callback warning",
			"operation", operation,
			"severity", severity.String(),
			"error", err.Error(),
		)
	default:
		logger.Debug("recoverable callback issue",
			"operation", operation,
			"severity", severity.String(),
			"error", err.Error(),
		)
	}

	message := fmt.Sprintf("%s: %s", operation, err.Error())
	index, qerr := h.queue.Append(ctx, message, ctx.BlockHeight())
	if qerr != nil {
		logger.Error("failed to append to error queue", "operation", operation, "error", qerr)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeRecoverableError,
			sdk.NewAttribute(AttributeKeyModule, h.moduleName),
			sdk.NewAttribute(AttributeKeyOperation, operation),
			sdk.NewAttribute(AttributeKeySeverity, severity.String()),
			sdk.NewAttribute(AttributeKeyError, err.Error()),
			sdk.NewAttribute(AttributeKeyIndex, fmt.Sprintf("%d", index)),
			sdk.NewAttribute(AttributeKeyHeight, fmt.Sprintf("%d", ctx.BlockHeight())),
		),
	)

	if h.metrics != nil {
		h.metrics.RecoverableErrors.WithLabelValues(h.moduleName, operation).Inc()
	}
}
