package types

import (
	"cosmossdk.io/collections"

	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

const (
	// ModuleName defines the module name
	ModuleName = "interchaintxs"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

var (
	// ModuleNamespace is the namespace byte for module state
	ModuleNamespace = byte(0x10)

	// EngineNamespace is the namespace byte for the correlation engine state
	EngineNamespace = byte(0x11)

	// ParamsKey is the key for module parameters
	ParamsKey = collections.NewPrefix([]byte{0x10, 0x01})

	// InterchainAccountKeyPrefix is the prefix for registered interchain accounts by port id
	InterchainAccountKeyPrefix = collections.NewPrefix([]byte{0x10, 0x02})

	// ReplyRange is the block of reply ids served by this module
	ReplyRange = correlation.Range{Start: 1_000_000_000, End: 1_999_999_999}
)
