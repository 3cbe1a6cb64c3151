package correlation

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
)

// PendingStore holds application payloads for requests that have not reached a
// terminal state, first under their correlation id and then under the
// TransportKey the host assigned.
type PendingStore[P any] struct {
	byCorrelationID collections.Map[uint64, P]
	byTransportKey  collections.Map[TransportKey, P]
}

// NewPendingStore registers the pending maps on the schema builder.
func NewPendingStore[P any](sb *collections.SchemaBuilder, prefixes Prefixes) *PendingStore[P] {
	return &PendingStore[P]{
		byCorrelationID: collections.NewMap(sb, prefixes.ByCorrelationID, "pending_by_correlation_id", collections.Uint64Key, JSONValue[P]()),
		byTransportKey:  collections.NewMap(sb, prefixes.ByTransportKey, "pending_by_transport_key", TransportKeyCodec, JSONValue[P]()),
	}
}

// PutByCorrelationID stores payload under id, overwriting any previous entry.
func (s *PendingStore[P]) PutByCorrelationID(ctx context.Context, id uint64, payload P) error {
	return s.byCorrelationID.Set(ctx, id, payload)
}

// TakeByCorrelationID removes and returns the payload stored under id.
func (s *PendingStore[P]) TakeByCorrelationID(ctx context.Context, id uint64) (P, error) {
	payload, err := s.byCorrelationID.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return payload, errorsmod.Wrapf(ErrPayloadNotFound, "correlation id %d", id)
		}
		return payload, err
	}
	if err := s.byCorrelationID.Remove(ctx, id); err != nil {
		return payload, err
	}
	return payload, nil
}

// HasCorrelationID reports whether a payload is waiting for the reply to id.
func (s *PendingStore[P]) HasCorrelationID(ctx context.Context, id uint64) (bool, error) {
	return s.byCorrelationID.Has(ctx, id)
}

// PutByTransportKey stores payload under key and fails if key is already taken.
func (s *PendingStore[P]) PutByTransportKey(ctx context.Context, key TransportKey, payload P) error {
	has, err := s.byTransportKey.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return errorsmod.Wrapf(ErrTransportKeyExists, "transport key %s", key)
	}
	return s.byTransportKey.Set(ctx, key, payload)
}

// GetByTransportKey returns the payload stored under key. found is false when
// there is none; callers treat that as a callback that is not theirs.
func (s *PendingStore[P]) GetByTransportKey(ctx context.Context, key TransportKey) (payload P, found bool, err error) {
	payload, err = s.byTransportKey.Get(ctx, key)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		return payload, false, nil
	case err != nil:
		return payload, false, err
	}
	return payload, true, nil
}

// RemoveByTransportKey drops the payload stored under key, if any.
func (s *PendingStore[P]) RemoveByTransportKey(ctx context.Context, key TransportKey) error {
	return s.byTransportKey.Remove(ctx, key)
}

// WalkByTransportKey visits re-keyed payloads in key order until cb returns true.
func (s *PendingStore[P]) WalkByTransportKey(ctx context.Context, cb func(TransportKey, P) bool) error {
	return s.byTransportKey.Walk(ctx, nil, func(key TransportKey, payload P) (bool, error) {
		return cb(key, payload), nil
	})
}

// WalkByCorrelationID visits payloads still waiting for their reply.
func (s *PendingStore[P]) WalkByCorrelationID(ctx context.Context, cb func(uint64, P) bool) error {
	return s.byCorrelationID.Walk(ctx, nil, func(id uint64, payload P) (bool, error) {
		return cb(id, payload), nil
	})
}
