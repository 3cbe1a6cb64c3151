package keeper

import (
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// ContractOwner is the owner address every test keeper acts for.
const ContractOwner = "neutron14hj2tavq8fpesdwxxcu44rty3hh90vhujrvcmstl4zr3txmfvw9s5c2epq"

// ProtoCodec returns a codec that knows the staking and bank messages the
// modules send through interchain accounts.
func ProtoCodec() codec.Codec {
	registry := codectypes.NewInterfaceRegistry()
	stakingtypes.RegisterInterfaces(registry)
	return codec.NewProtoCodec(registry)
}

// InterchainTxsKeeper returns an interchaintxs keeper with default params on a
// fresh in-memory store.
func InterchainTxsKeeper(t require.TestingT) (*keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := NewTestContext(t, storeKey)

	k := keeper.NewKeeper(
		ProtoCodec(),
		runtime.NewKVStoreService(storeKey),
		ContractOwner,
		sharedkeeper.DefaultAuthority(),
	)
	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))
	return k, ctx
}
