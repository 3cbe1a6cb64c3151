package correlation

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
)

// ResultKind is the terminal outcome of a request.
type ResultKind string

const (
	ResultSuccess ResultKind = "success"
	ResultError   ResultKind = "error"
	ResultTimeout ResultKind = "timeout"
)

// AcknowledgementResult is the immutable terminal record of one request.
// Items is set for successes, Details for errors; Payload is the pending payload
// the request was issued with.
type AcknowledgementResult[P any] struct {
	Kind    ResultKind `json:"kind"`
	Items   []string   `json:"items,omitempty"`
	Payload P          `json:"payload"`
	Details string     `json:"details,omitempty"`
	Height  int64      `json:"height"`
}

// ResultLedger records at most one AcknowledgementResult per TransportKey.
type ResultLedger[P any] struct {
	results collections.Map[TransportKey, AcknowledgementResult[P]]
}

// NewResultLedger registers the result map on the schema builder.
func NewResultLedger[P any](sb *collections.SchemaBuilder, prefixes Prefixes) *ResultLedger[P] {
	return &ResultLedger[P]{
		results: collections.NewMap(sb, prefixes.Results, "results", TransportKeyCodec, JSONValue[AcknowledgementResult[P]]()),
	}
}

// Record writes result under key and fails if a result already exists.
func (l *ResultLedger[P]) Record(ctx context.Context, key TransportKey, result AcknowledgementResult[P]) error {
	has, err := l.results.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return errorsmod.Wrapf(ErrResultRecorded, "transport key %s", key)
	}
	return l.results.Set(ctx, key, result)
}

// Has reports whether a terminal result exists for key.
func (l *ResultLedger[P]) Has(ctx context.Context, key TransportKey) (bool, error) {
	return l.results.Has(ctx, key)
}

// Get returns the result for key, or nil when none has been recorded.
func (l *ResultLedger[P]) Get(ctx context.Context, key TransportKey) (*AcknowledgementResult[P], error) {
	result, err := l.results.Get(ctx, key)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &result, nil
}

// Walk visits recorded results in key order until cb returns true.
func (l *ResultLedger[P]) Walk(ctx context.Context, cb func(TransportKey, AcknowledgementResult[P]) bool) error {
	return l.results.Walk(ctx, nil, func(key TransportKey, result AcknowledgementResult[P]) (bool, error) {
		return cb(key, result), nil
	})
}

// ErrorEntry is one diagnostic recorded in the ErrorQueue.
type ErrorEntry struct {
	Index   uint64 `json:"index"`
	Message string `json:"message"`
	Height  int64  `json:"height"`
}

// CapacityFunc returns the maximum number of retained entries; zero keeps all.
type CapacityFunc func(ctx context.Context) uint64

// ErrorQueue is an append-only log of recoverable problems. Indices are
// contiguous: entries live in [head, next). When a capacity is configured the
// oldest entries are dropped.
type ErrorQueue struct {
	sequence collections.Sequence
	head     collections.Item[uint64]
	entries  collections.Map[uint64, ErrorEntry]
	capacity CapacityFunc
}

// NewErrorQueue registers the queue on the schema builder.
func NewErrorQueue(sb *collections.SchemaBuilder, prefixes Prefixes, capacity CapacityFunc) *ErrorQueue {
	if capacity == nil {
		capacity = func(context.Context) uint64 { return 0 }
	}
	return &ErrorQueue{
		sequence: collections.NewSequence(sb, prefixes.ErrorSequence, "error_sequence"),
		head:     collections.NewItem(sb, prefixes.ErrorHead, "error_head", collections.Uint64Value),
		entries:  collections.NewMap(sb, prefixes.Errors, "errors", collections.Uint64Key, JSONValue[ErrorEntry]()),
		capacity: capacity,
	}
}

// Append stores message under the next index and trims the queue to capacity.
func (q *ErrorQueue) Append(ctx context.Context, message string, height int64) (uint64, error) {
	index, err := q.sequence.Next(ctx)
	if err != nil {
		return 0, err
	}
	if err := q.entries.Set(ctx, index, ErrorEntry{Index: index, Message: message, Height: height}); err != nil {
		return 0, err
	}
	return index, q.trim(ctx, index+1)
}

func (q *ErrorQueue) trim(ctx context.Context, next uint64) error {
	capacity := q.capacity(ctx)
	if capacity == 0 {
		return nil
	}
	head, err := q.head.Get(ctx)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	if next-head <= capacity {
		return nil
	}
	newHead := next - capacity
	for i := head; i < newHead; i++ {
		if err := q.entries.Remove(ctx, i); err != nil {
			return err
		}
	}
	return q.head.Set(ctx, newHead)
}

// List returns the retained entries in index order.
func (q *ErrorQueue) List(ctx context.Context) ([]ErrorEntry, error) {
	var entries []ErrorEntry
	err := q.entries.Walk(ctx, nil, func(_ uint64, entry ErrorEntry) (bool, error) {
		entries = append(entries, entry)
		return false, nil
	})
	return entries, err
}

// Clear removes every retained entry. Indices keep increasing afterwards.
func (q *ErrorQueue) Clear(ctx context.Context) (int, error) {
	next, err := q.sequence.Peek(ctx)
	if err != nil {
		return 0, err
	}
	if err := q.entries.Clear(ctx, nil); err != nil {
		return 0, err
	}
	head, err := q.head.Get(ctx)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return 0, err
	}
	cleared := int(next - head)
	return cleared, q.head.Set(ctx, next)
}

// NextIndex returns the index the next appended entry will receive.
func (q *ErrorQueue) NextIndex(ctx context.Context) (uint64, error) {
	return q.sequence.Peek(ctx)
}

// Restore replaces the queue contents. next must be above every entry index.
func (q *ErrorQueue) Restore(ctx context.Context, entries []ErrorEntry, next uint64) error {
	if err := q.entries.Clear(ctx, nil); err != nil {
		return err
	}
	head := next
	for _, entry := range entries {
		if entry.Index >= next {
			return fmt.Errorf("error entry index %d not below next index %d", entry.Index, next)
		}
		if entry.Index < head {
			head = entry.Index
		}
		if err := q.entries.Set(ctx, entry.Index, entry); err != nil {
			return err
		}
	}
	if err := q.sequence.Set(ctx, next); err != nil {
		return err
	}
	return q.head.Set(ctx, head)
}
