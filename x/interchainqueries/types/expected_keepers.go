package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// StorageValue is one proven KV pair of a query result.
type StorageValue struct {
	StoragePrefix string `json:"storage_prefix"`
	Key           []byte `json:"key"`
	Value         []byte `json:"value"`
}

// QueryResult is the latest result the host stored for a KV query.
type QueryResult struct {
	KvResults []StorageValue `json:"kv_results"`
	Height    uint64         `json:"height"`
	Revision  uint64         `json:"revision"`
}

// InterchainQueriesKeeper is the host module holding registered query results.
type InterchainQueriesKeeper interface {
	GetQueryResult(ctx sdk.Context, queryID uint64) (*QueryResult, error)
}
