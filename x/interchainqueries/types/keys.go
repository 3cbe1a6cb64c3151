package types

import (
	"cosmossdk.io/collections"

	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

const (
	// ModuleName defines the module name
	ModuleName = "interchainqueries"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

var (
	// EngineNamespace is the namespace byte for the correlation engine state
	EngineNamespace = byte(0x31)

	ParamsKey            = collections.NewPrefix([]byte{0x30, 0x01})
	QueryIDByIdentityKey = collections.NewPrefix([]byte{0x30, 0x02})
	BalancesKey          = collections.NewPrefix([]byte{0x30, 0x03})
	DelegationsKey       = collections.NewPrefix([]byte{0x30, 0x04})
	TransfersKey         = collections.NewPrefix([]byte{0x30, 0x05})
	ProcessedTxsKey      = collections.NewPrefix([]byte{0x30, 0x06})

	// ReplyRange is the block of reply ids served by this module
	ReplyRange = correlation.Range{Start: 3_000_000_000, End: 3_999_999_999}
)
