package correlation

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PendingRequest is a payload still waiting for its reply.
type PendingRequest[P any] struct {
	CorrelationID uint64 `json:"correlation_id"`
	Payload       P      `json:"payload"`
}

// InFlightRequest is a payload re-keyed under its transport key.
type InFlightRequest[P any] struct {
	Key     TransportKey `json:"key"`
	Payload P            `json:"payload"`
}

// RecordedResult is a terminal result together with its key.
type RecordedResult[P any] struct {
	Key    TransportKey             `json:"key"`
	Result AcknowledgementResult[P] `json:"result"`
}

// State is the exported state of one engine.
type State[P any] struct {
	NextCorrelationID uint64               `json:"next_correlation_id,omitempty"`
	Pending           []PendingRequest[P]  `json:"pending,omitempty"`
	InFlight          []InFlightRequest[P] `json:"in_flight,omitempty"`
	Results           []RecordedResult[P]  `json:"results,omitempty"`
	Errors            []ErrorEntry         `json:"errors,omitempty"`
	NextErrorIndex    uint64               `json:"next_error_index,omitempty"`
}

// Validate checks the state against the engine range.
func (s State[P]) Validate(rng Range) error {
	seen := make(map[uint64]struct{}, len(s.Pending))
	for _, p := range s.Pending {
		if !rng.Contains(p.CorrelationID) {
			return fmt.Errorf("pending correlation id %d outside [%d, %d]", p.CorrelationID, rng.Start, rng.End)
		}
		if _, dup := seen[p.CorrelationID]; dup {
			return fmt.Errorf("duplicate pending correlation id %d", p.CorrelationID)
		}
		seen[p.CorrelationID] = struct{}{}
	}

	keys := make(map[TransportKey]struct{}, len(s.InFlight))
	for _, f := range s.InFlight {
		if err := f.Key.Validate(); err != nil {
			return err
		}
		if _, dup := keys[f.Key]; dup {
			return fmt.Errorf("duplicate in-flight key %s", f.Key)
		}
		keys[f.Key] = struct{}{}
	}

	results := make(map[TransportKey]struct{}, len(s.Results))
	for _, r := range s.Results {
		if err := r.Key.Validate(); err != nil {
			return err
		}
		if _, dup := results[r.Key]; dup {
			return fmt.Errorf("duplicate result for key %s", r.Key)
		}
		results[r.Key] = struct{}{}
	}

	for _, e := range s.Errors {
		if e.Index >= s.NextErrorIndex {
			return fmt.Errorf("error index %d not below next error index %d", e.Index, s.NextErrorIndex)
		}
	}
	return nil
}

// Export returns the engine state.
func (e *Engine[P]) Export(ctx sdk.Context) (State[P], error) {
	var state State[P]

	if e.counter != nil {
		next, ok, err := e.counter.Peek(ctx)
		if err != nil {
			return state, err
		}
		if ok {
			state.NextCorrelationID = next
		}
	}

	err := e.pending.WalkByCorrelationID(ctx, func(id uint64, payload P) bool {
		state.Pending = append(state.Pending, PendingRequest[P]{CorrelationID: id, Payload: payload})
		return false
	})
	if err != nil {
		return state, err
	}

	err = e.pending.WalkByTransportKey(ctx, func(key TransportKey, payload P) bool {
		state.InFlight = append(state.InFlight, InFlightRequest[P]{Key: key, Payload: payload})
		return false
	})
	if err != nil {
		return state, err
	}

	err = e.results.Walk(ctx, func(key TransportKey, result AcknowledgementResult[P]) bool {
		state.Results = append(state.Results, RecordedResult[P]{Key: key, Result: result})
		return false
	})
	if err != nil {
		return state, err
	}

	if state.Errors, err = e.errors.List(ctx); err != nil {
		return state, err
	}
	if state.NextErrorIndex, err = e.errors.NextIndex(ctx); err != nil {
		return state, err
	}
	return state, nil
}

// Import writes state into an empty engine.
func (e *Engine[P]) Import(ctx sdk.Context, state State[P]) error {
	if err := state.Validate(e.rng); err != nil {
		return err
	}

	if e.counter != nil && state.NextCorrelationID != 0 {
		if err := e.counter.Reset(ctx, state.NextCorrelationID); err != nil {
			return err
		}
	}
	for _, p := range state.Pending {
		if err := e.pending.PutByCorrelationID(ctx, p.CorrelationID, p.Payload); err != nil {
			return err
		}
	}
	for _, f := range state.InFlight {
		if err := e.pending.PutByTransportKey(ctx, f.Key, f.Payload); err != nil {
			return err
		}
	}
	for _, r := range state.Results {
		if err := e.results.Record(ctx, r.Key, r.Result); err != nil {
			return err
		}
	}
	return e.errors.Restore(ctx, state.Errors, state.NextErrorIndex)
}
