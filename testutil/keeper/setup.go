package keeper

import (
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

// TestChainID is the chain id of every test context.
const TestChainID = "neutron-test-1"

// NewTestContext mounts keys on an in-memory multistore and returns a context
// at height 1 with a fresh event manager. It accepts rapid.T as well as
// *testing.T.
func NewTestContext(t require.TestingT, keys ...storetypes.StoreKey) sdk.Context {
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, key := range keys {
		switch key.(type) {
		case *storetypes.MemoryStoreKey:
			stateStore.MountStoreWithDB(key, storetypes.StoreTypeMemory, nil)
		default:
			stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
		}
	}
	require.NoError(t, stateStore.LoadLatestVersion())

	header := cmtproto.Header{
		ChainID: TestChainID,
		Height:  1,
		Time:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())
	return ctx.WithEventManager(sdk.NewEventManager())
}

// HasEvent reports whether ctx emitted an event of the given type.
func HasEvent(ctx sdk.Context, eventType string) bool {
	for _, evt := range ctx.EventManager().Events() {
		if evt.Type == eventType {
			return true
		}
	}
	return false
}

// CountEvents returns how many events of the given type ctx emitted.
func CountEvents(ctx sdk.Context, eventType string) int {
	n := 0
	for _, evt := range ctx.EventManager().Events() {
		if evt.Type == eventType {
			n++
		}
	}
	return n
}
