package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FilterOp compares a transaction event attribute with a value.
type FilterOp string

const (
	FilterEq  FilterOp = "eq"
	FilterGt  FilterOp = "gt"
	FilterGte FilterOp = "gte"
	FilterLt  FilterOp = "lt"
	FilterLte FilterOp = "lte"
)

// ParseFilterOp accepts an operator in any letter case.
func ParseFilterOp(s string) (FilterOp, error) {
	op := FilterOp(strings.ToLower(s))
	switch op {
	case FilterEq, FilterGt, FilterGte, FilterLt, FilterLte:
		return op, nil
	default:
		return "", fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, s)
	}
}

// TransactionFilterItem is one condition of a TX query.
type TransactionFilterItem struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value any      `json:"value"`
}

// TransactionFilter is the conjunction of its items.
type TransactionFilter []TransactionFilterItem

// Validate checks every item. Values are strings or numbers.
func (f TransactionFilter) Validate() error {
	if len(f) == 0 {
		return fmt.Errorf("%w: empty filter", ErrInvalidFilter)
	}
	for i, item := range f {
		if item.Field == "" {
			return fmt.Errorf("%w: item %d has no field", ErrInvalidFilter, i)
		}
		if _, err := ParseFilterOp(string(item.Op)); err != nil {
			return err
		}
		switch item.Value.(type) {
		case string, float64, int, int64, uint64, json.Number:
		default:
			return fmt.Errorf("%w: item %d has unsupported value %T", ErrInvalidFilter, i, item.Value)
		}
	}
	return nil
}

// Marshal returns the JSON form the host expects.
func (f TransactionFilter) Marshal() (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	bz, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(bz), nil
}

// NewTransfersFilter matches transfers to recipient, optionally from minHeight on.
func NewTransfersFilter(recipient string, minHeight uint64) TransactionFilter {
	filter := TransactionFilter{
		{Field: "transfer.recipient", Op: FilterEq, Value: recipient},
	}
	if minHeight > 0 {
		filter = append(filter, TransactionFilterItem{Field: "tx.height", Op: FilterGte, Value: minHeight})
	}
	return filter
}
