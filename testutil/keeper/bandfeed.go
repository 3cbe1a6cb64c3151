package keeper

import (
	"errors"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitykeeper "github.com/cosmos/ibc-go/modules/capability/keeper"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// SentPacket is a packet handed to MockChannelKeeper.
type SentPacket struct {
	Channel          string
	Sequence         uint64
	TimeoutHeight    clienttypes.Height
	TimeoutTimestamp uint64
	Data             []byte
}

// MockChannelKeeper implements only SendPacket for unit tests. Sequences
// start at 1; a non-nil Err fails every send.
type MockChannelKeeper struct {
	NextSeq uint64
	Sent    []SentPacket
	Err     error
}

func (m *MockChannelKeeper) SendPacket(
	_ sdk.Context,
	chanCap *capabilitytypes.Capability,
	_ string,
	sourceChannel string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if chanCap == nil {
		return 0, errors.New("nil channel capability")
	}
	m.NextSeq++
	m.Sent = append(m.Sent, SentPacket{
		Channel:          sourceChannel,
		Sequence:         m.NextSeq,
		TimeoutHeight:    timeoutHeight,
		TimeoutTimestamp: timeoutTimestamp,
		Data:             data,
	})
	return m.NextSeq, nil
}

// BandfeedFixture bundles a bandfeed keeper with the IBC side of its tests.
type BandfeedFixture struct {
	Keeper   *keeper.Keeper
	Channels *MockChannelKeeper
	// IBCScope plays core IBC, which creates channel capabilities.
	IBCScope capabilitykeeper.ScopedKeeper
	Ctx      sdk.Context
}

// BandfeedKeeper returns a bandfeed keeper with default params, a real
// capability keeper and no open channel.
func BandfeedKeeper(t require.TestingT) *BandfeedFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	capStoreKey := storetypes.NewKVStoreKey(capabilitytypes.StoreKey)
	capMemStoreKey := storetypes.NewMemoryStoreKey(capabilitytypes.MemStoreKey)
	ctx := NewTestContext(t, storeKey, capStoreKey, capMemStoreKey)

	capKeeper := capabilitykeeper.NewKeeper(ProtoCodec(), capStoreKey, capMemStoreKey)
	scopedBandfeed := capKeeper.ScopeToModule(types.ModuleName)
	scopedIBC := capKeeper.ScopeToModule(ibcexported.ModuleName)
	capKeeper.Seal()

	channels := &MockChannelKeeper{}
	k := keeper.NewKeeper(
		runtime.NewKVStoreService(storeKey),
		channels,
		scopedBandfeed,
		sharedkeeper.DefaultAuthority(),
	)
	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))

	return &BandfeedFixture{Keeper: k, Channels: channels, IBCScope: scopedIBC, Ctx: ctx}
}

// NewChannelCapability creates the capability core IBC would hand to the
// module during a handshake.
func (f *BandfeedFixture) NewChannelCapability(t require.TestingT, channelID string) *capabilitytypes.Capability {
	chanCap, err := f.IBCScope.NewCapability(f.Ctx, host.ChannelCapabilityPath(types.PortID, channelID))
	require.NoError(t, err)
	return chanCap
}

// OpenChannel runs the module's side of a completed handshake on channelID.
func (f *BandfeedFixture) OpenChannel(t require.TestingT, channelID string) {
	chanCap := f.NewChannelCapability(t, channelID)
	require.NoError(t, f.Keeper.ClaimCapability(f.Ctx, chanCap, host.ChannelCapabilityPath(types.PortID, channelID)))
	require.NoError(t, f.Keeper.Connect(f.Ctx, channelID))
}
