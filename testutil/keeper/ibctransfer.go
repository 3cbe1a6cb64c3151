package keeper

import (
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-sdk-sub001/x/ibctransfer/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/ibctransfer/types"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// IBCTransferKeeper returns an ibctransfer keeper with default params.
func IBCTransferKeeper(t require.TestingT) (*keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := NewTestContext(t, storeKey)

	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), ContractOwner, sharedkeeper.DefaultAuthority())
	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))
	return k, ctx
}
