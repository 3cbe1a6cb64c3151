package types

import (
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryKind tells how the results of a query are decoded.
type QueryKind string

const (
	KindBalance     QueryKind = "balance"
	KindDelegations QueryKind = "delegations"
	KindTransfers   QueryKind = "transfers"
)

// QueryIdentity describes a registered query. It is the pending payload of
// the registration and stays pending for as long as the query exists.
type QueryIdentity struct {
	ZoneID     string    `json:"zone_id"`
	QueryType  QueryType `json:"query_type"`
	QueryData  string    `json:"query_data"`
	Kind       QueryKind `json:"kind"`
	Owner      string    `json:"owner"`
	Denom      string    `json:"denom,omitempty"`
	Validators []string  `json:"validators,omitempty"`
	MinHeight  uint64    `json:"min_height,omitempty"`
}

// Key returns zone/type/data, unique per registered query.
func (q QueryIdentity) Key() string {
	return IdentityKey(q.ZoneID, q.QueryType, q.QueryData)
}

// IdentityKey joins the parts of a query identity.
func IdentityKey(zoneID string, queryType QueryType, queryData string) string {
	return strings.Join([]string{zoneID, string(queryType), queryData}, "/")
}

// KVQueryData joins the keys of a KV query.
func KVQueryData(keys []KVKey) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = key.String()
	}
	return strings.Join(parts, ",")
}

// Balances is the last balance reported by a balance query.
type Balances struct {
	Height uint64    `json:"height"`
	Coins  sdk.Coins `json:"coins"`
}

// Delegation is one delegation reported by a delegations query.
type Delegation struct {
	Delegator string      `json:"delegator"`
	Validator string      `json:"validator"`
	Amount    sdkmath.Int `json:"amount"`
}

// Delegations is the last set of delegations reported by a delegations query.
type Delegations struct {
	Height      uint64       `json:"height"`
	Delegations []Delegation `json:"delegations"`
}

// Transfer is a bank send to a watched recipient found by a transfers query.
type Transfer struct {
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Denom     string      `json:"denom"`
	Amount    sdkmath.Int `json:"amount"`
	Height    uint64      `json:"height"`
	TxHash    string      `json:"tx_hash"`
}
