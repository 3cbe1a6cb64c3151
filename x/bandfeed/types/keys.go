package types

import (
	"cosmossdk.io/collections"

	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

const (
	// ModuleName defines the module name
	ModuleName = "bandfeed"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// PortID is the port the module binds
	PortID = "bandfeed"

	// Version is the application version of oracle channels
	Version = "bandchain-1"
)

var (
	// EngineNamespace is the namespace byte for the correlation engine state
	EngineNamespace = byte(0x41)

	ParamsKey     = collections.NewPrefix([]byte{0x40, 0x01})
	ChannelKey    = collections.NewPrefix([]byte{0x40, 0x02})
	RequestIDsKey = collections.NewPrefix([]byte{0x40, 0x03})
	RatesKey      = collections.NewPrefix([]byte{0x40, 0x04})

	// ReplyRange is the block of correlation ids served by this module. The
	// ids travel to the oracle chain as client ids.
	ReplyRange = correlation.Range{Start: 4_000_000_000, End: 4_999_999_999}
)
