package types

import (
	"cosmossdk.io/collections"

	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

const (
	// ModuleName defines the module name
	ModuleName = "ibctransfer"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// TransferPort is the ICS-20 port transfers are sent from
	TransferPort = "transfer"
)

var (
	// EngineNamespace is the namespace byte for the correlation engine state
	EngineNamespace = byte(0x21)

	// ParamsKey is the key for module parameters
	ParamsKey = collections.NewPrefix([]byte{0x20, 0x01})

	// ReplyRange is the block of reply ids served by this module
	ReplyRange = correlation.Range{Start: 2_000_000_000, End: 2_999_999_999}
)
