package correlation

import (
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Config configures one engine.
type Config struct {
	// ModuleName labels logs, events and metrics.
	ModuleName string
	// Namespace is the first byte of every store key the engine owns.
	Namespace byte
	// Range is the block of reply ids reserved for this engine.
	Range Range
	// Strategy selects the correlation id allocator.
	Strategy Strategy
	// ErrorQueueCapacity bounds the error queue; nil or zero keeps every entry.
	ErrorQueueCapacity CapacityFunc
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ModuleName == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	if err := c.Range.Validate(); err != nil {
		return err
	}
	return c.Strategy.Validate()
}

// KeyDecoder extracts the TransportKey from a successful reply. payload is the
// pending payload the request was issued with.
type KeyDecoder[P any] func(ctx sdk.Context, payload P, data []byte) (TransportKey, error)

// Engine correlates asynchronous requests with their host callbacks.
type Engine[P any] struct {
	moduleName  string
	rng         Range
	allocator   Allocator
	counter     *CounterAllocator
	pending     *PendingStore[P]
	results     *ResultLedger[P]
	errors      *ErrorQueue
	recoverable *RecoverableErrorHandler
	metrics     *Metrics
}

// NewEngine registers the engine state on sb. The caller builds the schema.
func NewEngine[P any](sb *collections.SchemaBuilder, cfg Config) (*Engine[P], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prefixes := NewPrefixes(cfg.Namespace)
	pending := NewPendingStore[P](sb, prefixes)
	queue := NewErrorQueue(sb, prefixes, cfg.ErrorQueueCapacity)
	m := NewMetrics()

	var (
		allocator Allocator
		counter   *CounterAllocator
	)
	switch cfg.Strategy {
	case StrategyScan:
		allocator = NewScanAllocator(cfg.Range, pending.byCorrelationID)
	default:
		item := collections.NewItem(sb, prefixes.LastCorrelationID, "last_correlation_id", collections.Uint64Value)
		counter = NewCounterAllocator(cfg.Range, item)
		allocator = counter
	}

	return &Engine[P]{
		moduleName:  cfg.ModuleName,
		rng:         cfg.Range,
		allocator:   allocator,
		counter:     counter,
		pending:     pending,
		results:     NewResultLedger[P](sb, prefixes),
		errors:      queue,
		recoverable: NewRecoverableErrorHandler(cfg.ModuleName, queue, m),
		metrics:     m,
	}, nil
}

// Range returns the reply id range served by the engine.
func (e *Engine[P]) Range() Range { return e.rng }

// Pending returns the pending-request store.
func (e *Engine[P]) Pending() *PendingStore[P] { return e.pending }

// Results returns the result ledger.
func (e *Engine[P]) Results() *ResultLedger[P] { return e.results }

// Errors returns the error queue.
func (e *Engine[P]) Errors() *ErrorQueue { return e.errors }

// Issue allocates a correlation id, stores payload under it and wraps msg in a
// submessage whose reply the host will route back with that id.
func (e *Engine[P]) Issue(ctx sdk.Context, msg *codectypes.Any, payload P) (SubMsg, error) {
	if msg == nil {
		return SubMsg{}, fmt.Errorf("outgoing message cannot be nil")
	}
	id, err := e.track(ctx, msg.TypeUrl, payload)
	if err != nil {
		return SubMsg{}, err
	}
	return SubMsg{ID: id, Msg: msg, ReplyOn: ReplyOnSuccess}, nil
}

// Track allocates a correlation id and stores payload under it without
// building a submessage. Callers that send synchronously follow up with Rekey.
func (e *Engine[P]) Track(ctx sdk.Context, kind string, payload P) (uint64, error) {
	return e.track(ctx, kind, payload)
}

func (e *Engine[P]) track(ctx sdk.Context, kind string, payload P) (uint64, error) {
	id, err := e.allocator.Next(ctx)
	if err != nil {
		return 0, errorsmod.Wrap(err, "failed to allocate correlation id")
	}
	if err := e.pending.PutByCorrelationID(ctx, id, payload); err != nil {
		return 0, errorsmod.Wrapf(err, "failed to store payload for correlation id %d", id)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeIssued,
			sdk.NewAttribute(AttributeKeyModule, e.moduleName),
			sdk.NewAttribute(AttributeKeyCorrelationID, fmt.Sprintf("%d", id)),
			sdk.NewAttribute(AttributeKeyTypeURL, kind),
		),
	)
	e.metrics.RequestsIssued.WithLabelValues(e.moduleName).Inc()
	e.metrics.PendingRequests.WithLabelValues(e.moduleName).Inc()
	return id, nil
}

// HandleReply moves the payload of reply.ID under the TransportKey decoded from
// the reply data. ok is false when the host reports that the submessage failed;
// the payload is then dropped and the failure logged, since nothing was sent.
func (e *Engine[P]) HandleReply(ctx sdk.Context, reply Reply, decode KeyDecoder[P]) (key TransportKey, ok bool, err error) {
	if !e.rng.Contains(reply.ID) {
		return TransportKey{}, false, errorsmod.Wrapf(ErrUnsupportedReplyID, "reply id %d outside [%d, %d]", reply.ID, e.rng.Start, e.rng.End)
	}

	payload, err := e.pending.TakeByCorrelationID(ctx, reply.ID)
	if err != nil {
		return TransportKey{}, false, err
	}

	if reply.Error != "" {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				EventTypeReplyFailed,
				sdk.NewAttribute(AttributeKeyModule, e.moduleName),
				sdk.NewAttribute(AttributeKeyCorrelationID, fmt.Sprintf("%d", reply.ID)),
				sdk.NewAttribute(AttributeKeyError, reply.Error),
			),
		)
		e.recoverable.HandleError(ctx, "reply", SeverityMedium,
			fmt.Errorf("submessage with correlation id %d failed: %s", reply.ID, reply.Error))
		e.metrics.RepliesFailed.WithLabelValues(e.moduleName).Inc()
		e.metrics.PendingRequests.WithLabelValues(e.moduleName).Dec()
		return TransportKey{}, false, nil
	}

	key, err = decode(ctx, payload, reply.Data)
	if err != nil {
		return TransportKey{}, false, errorsmod.Wrapf(ErrInvalidReplyData, "correlation id %d: %s", reply.ID, err)
	}
	if err := e.rekey(ctx, reply.ID, key, payload); err != nil {
		return TransportKey{}, false, err
	}
	return key, true, nil
}

// Rekey moves the payload of id under key directly. It serves transports where
// the host returns the key synchronously, such as raw IBC packet sends.
func (e *Engine[P]) Rekey(ctx sdk.Context, id uint64, key TransportKey) error {
	payload, err := e.pending.TakeByCorrelationID(ctx, id)
	if err != nil {
		return err
	}
	return e.rekey(ctx, id, key, payload)
}

func (e *Engine[P]) rekey(ctx sdk.Context, id uint64, key TransportKey, payload P) error {
	if err := key.Validate(); err != nil {
		return errorsmod.Wrapf(ErrInvalidReplyData, "correlation id %d: %s", id, err)
	}
	if err := e.pending.PutByTransportKey(ctx, key, payload); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeRekeyed,
			sdk.NewAttribute(AttributeKeyModule, e.moduleName),
			sdk.NewAttribute(AttributeKeyCorrelationID, fmt.Sprintf("%d", id)),
			sdk.NewAttribute(AttributeKeySource, key.Source),
			sdk.NewAttribute(AttributeKeySequence, fmt.Sprintf("%d", key.Sequence)),
		),
	)
	e.metrics.RepliesReconciled.WithLabelValues(e.moduleName).Inc()
	return nil
}

// HandleResponse records a successful outcome for key. A nil result with a nil
// error means no payload was pending under key and the miss was logged.
func (e *Engine[P]) HandleResponse(ctx sdk.Context, key TransportKey, items []string) (*AcknowledgementResult[P], error) {
	return e.resolve(ctx, key, "response", func(payload P) AcknowledgementResult[P] {
		return AcknowledgementResult[P]{Kind: ResultSuccess, Items: items, Payload: payload}
	})
}

// HandleError records an error outcome for key.
func (e *Engine[P]) HandleError(ctx sdk.Context, key TransportKey, details string) (*AcknowledgementResult[P], error) {
	return e.resolve(ctx, key, "error", func(payload P) AcknowledgementResult[P] {
		return AcknowledgementResult[P]{Kind: ResultError, Payload: payload, Details: details}
	})
}

// HandleTimeout records a timeout outcome for key.
func (e *Engine[P]) HandleTimeout(ctx sdk.Context, key TransportKey) (*AcknowledgementResult[P], error) {
	return e.resolve(ctx, key, "timeout", func(payload P) AcknowledgementResult[P] {
		return AcknowledgementResult[P]{Kind: ResultTimeout, Payload: payload}
	})
}

func (e *Engine[P]) resolve(
	ctx sdk.Context,
	key TransportKey,
	operation string,
	build func(P) AcknowledgementResult[P],
) (*AcknowledgementResult[P], error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	// The pending entry is removed once a result exists, so the ledger is what
	// rejects a second delivery.
	recorded, err := e.results.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if recorded {
		return nil, errorsmod.Wrapf(ErrResultRecorded, "transport key %s", key)
	}

	payload, found, err := e.pending.GetByTransportKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		e.recoverable.HandleError(ctx, operation, SeverityHigh,
			errorsmod.Wrapf(ErrPayloadNotFound, "transport key %s", key))
		return nil, nil
	}

	result := build(payload)
	result.Height = ctx.BlockHeight()
	if err := e.results.Record(ctx, key, result); err != nil {
		return nil, err
	}
	if err := e.pending.RemoveByTransportKey(ctx, key); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeResult,
			sdk.NewAttribute(AttributeKeyModule, e.moduleName),
			sdk.NewAttribute(AttributeKeySource, key.Source),
			sdk.NewAttribute(AttributeKeySequence, fmt.Sprintf("%d", key.Sequence)),
			sdk.NewAttribute(AttributeKeyKind, string(result.Kind)),
		),
	)
	e.metrics.TerminalOutcomes.WithLabelValues(e.moduleName, string(result.Kind)).Inc()
	e.metrics.PendingRequests.WithLabelValues(e.moduleName).Dec()

	return &result, nil
}

// LogRecoverable records a problem that must not fail the current callback.
func (e *Engine[P]) LogRecoverable(ctx sdk.Context, operation string, severity Severity, err error) {
	e.recoverable.HandleError(ctx, operation, severity, err)
}

// ClearErrors empties the error queue and returns how many entries were removed.
func (e *Engine[P]) ClearErrors(ctx sdk.Context) (int, error) {
	cleared, err := e.errors.Clear(ctx)
	if err != nil {
		return 0, err
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeErrorQueueCleared,
			sdk.NewAttribute(AttributeKeyModule, e.moduleName),
			sdk.NewAttribute(AttributeKeyCount, fmt.Sprintf("%d", cleared)),
		),
	)
	return cleared, nil
}
