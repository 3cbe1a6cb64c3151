package keeper

import (
	"fmt"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// MockInterchainQueriesKeeper serves query results set by the test.
type MockInterchainQueriesKeeper struct {
	Results map[uint64]*types.QueryResult
}

// NewMockInterchainQueriesKeeper returns an empty mock.
func NewMockInterchainQueriesKeeper() *MockInterchainQueriesKeeper {
	return &MockInterchainQueriesKeeper{Results: make(map[uint64]*types.QueryResult)}
}

func (m *MockInterchainQueriesKeeper) GetQueryResult(_ sdk.Context, queryID uint64) (*types.QueryResult, error) {
	result, ok := m.Results[queryID]
	if !ok {
		return nil, fmt.Errorf("no result for query %d", queryID)
	}
	return result, nil
}

// InterchainQueriesKeeper returns an interchainqueries keeper backed by a mock
// host keeper.
func InterchainQueriesKeeper(t require.TestingT) (*keeper.Keeper, *MockInterchainQueriesKeeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := NewTestContext(t, storeKey)

	host := NewMockInterchainQueriesKeeper()
	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), host, ContractOwner, sharedkeeper.DefaultAuthority())
	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))
	return k, host, ctx
}
