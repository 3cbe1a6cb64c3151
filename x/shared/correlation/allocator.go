package correlation

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
)

// Range is the block of correlation ids reserved for one engine. Allocated ids
// lie in [Start, End]: the counter hands out End before wrapping back to Start.
type Range struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// Validate checks the range bounds.
func (r Range) Validate() error {
	if r.Start == 0 {
		return errorsmod.Wrap(ErrInvalidRange, "range start must be greater than zero")
	}
	if r.Start >= r.End {
		return errorsmod.Wrapf(ErrInvalidRange, "range start %d must be below end %d", r.Start, r.End)
	}
	return nil
}

// Contains reports whether id is a reply id this engine may have issued.
func (r Range) Contains(id uint64) bool {
	return id >= r.Start && id <= r.End
}

// Size is the number of distinct ids in the range.
func (r Range) Size() uint64 {
	return r.End - r.Start + 1
}

// Strategy selects how correlation ids are allocated.
type Strategy string

const (
	// StrategyCounter keeps a persisted counter that wraps inside the range.
	StrategyCounter Strategy = "counter"
	// StrategyScan derives the next id from the pending entries themselves.
	StrategyScan Strategy = "scan"
)

// Validate checks the strategy name.
func (s Strategy) Validate() error {
	switch s {
	case StrategyCounter, StrategyScan:
		return nil
	default:
		return fmt.Errorf("unknown allocation strategy %q", s)
	}
}

// Allocator hands out correlation ids for outgoing requests.
type Allocator interface {
	Next(ctx context.Context) (uint64, error)
}

// CounterAllocator stores the next id to hand out. It does not check the id
// against pending entries: the range must be far wider than the number of
// requests that can be in flight at once.
type CounterAllocator struct {
	rng  Range
	next collections.Item[uint64]
}

// NewCounterAllocator creates a counter allocator backed by item.
func NewCounterAllocator(rng Range, item collections.Item[uint64]) *CounterAllocator {
	return &CounterAllocator{rng: rng, next: item}
}

// Next returns the stored id (Start when unset), wrapping to Start once the
// counter has moved past End, and persists the following id.
func (a *CounterAllocator) Next(ctx context.Context) (uint64, error) {
	id, err := a.next.Get(ctx)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		id = a.rng.Start
	case err != nil:
		return 0, err
	}
	if id > a.rng.End || id < a.rng.Start {
		id = a.rng.Start
	}
	if err := a.next.Set(ctx, id+1); err != nil {
		return 0, err
	}
	return id, nil
}

// Peek returns the id the next call to Next will start from; ok is false
// before the first allocation.
func (a *CounterAllocator) Peek(ctx context.Context) (next uint64, ok bool, err error) {
	next, err = a.next.Get(ctx)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	return next, true, nil
}

// Reset stores next as the id the next allocation starts from.
func (a *CounterAllocator) Reset(ctx context.Context, next uint64) error {
	return a.next.Set(ctx, next)
}

// ScanAllocator derives the next id from the highest pending correlation id,
// so no counter is persisted. It refuses to hand out an id that is still
// pending, which the counter strategy cannot guarantee.
type ScanAllocator[P any] struct {
	rng     Range
	pending collections.Map[uint64, P]
}

// NewScanAllocator creates a scan allocator over the by-correlation-id map.
func NewScanAllocator[P any](rng Range, pending collections.Map[uint64, P]) *ScanAllocator[P] {
	return &ScanAllocator[P]{rng: rng, pending: pending}
}

// Next returns the highest pending id plus one, or the lowest free id when the
// top of the range is taken.
func (a *ScanAllocator[P]) Next(ctx context.Context) (uint64, error) {
	ranger := new(collections.Range[uint64]).
		StartInclusive(a.rng.Start).
		EndInclusive(a.rng.End).
		Descending()
	it, err := a.pending.Iterate(ctx, ranger)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	if !it.Valid() {
		return a.rng.Start, nil
	}
	highest, err := it.Key()
	if err != nil {
		return 0, err
	}
	if highest < a.rng.End {
		return highest + 1, nil
	}
	return a.lowestFree(ctx)
}

func (a *ScanAllocator[P]) lowestFree(ctx context.Context) (uint64, error) {
	ranger := new(collections.Range[uint64]).
		StartInclusive(a.rng.Start).
		EndInclusive(a.rng.End)
	it, err := a.pending.Iterate(ctx, ranger)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	candidate := a.rng.Start
	for ; it.Valid(); it.Next() {
		id, err := it.Key()
		if err != nil {
			return 0, err
		}
		if id != candidate {
			return candidate, nil
		}
		candidate++
	}
	return 0, errorsmod.Wrapf(ErrRangeExhausted, "all %d ids in [%d, %d] are pending", a.rng.Size(), a.rng.Start, a.rng.End)
}
