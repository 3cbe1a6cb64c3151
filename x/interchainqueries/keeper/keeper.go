package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// Keeper registers interchain queries on the host and caches their results.
type Keeper struct {
	storeService store.KVStoreService
	icqKeeper    types.InterchainQueriesKeeper
	owner        string
	authority    string

	Schema       collections.Schema
	Params       collections.Item[types.Params]
	QueryIDs     collections.Map[string, uint64]
	Balances     collections.Map[uint64, types.Balances]
	Delegations  collections.Map[uint64, types.Delegations]
	Transfers    collections.Map[collections.Pair[string, string], []types.Transfer]
	ProcessedTxs collections.KeySet[collections.Pair[string, string]]

	engine *correlation.Engine[types.QueryIdentity]
}

// NewKeeper creates a new interchainqueries Keeper instance
func NewKeeper(
	storeService store.KVStoreService,
	icqKeeper types.InterchainQueriesKeeper,
	owner string,
	authority string,
) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService: storeService,
		icqKeeper:    icqKeeper,
		owner:        owner,
		authority:    authority,
		Params:       collections.NewItem(sb, types.ParamsKey, "params", correlation.JSONValue[types.Params]()),
		QueryIDs:     collections.NewMap(sb, types.QueryIDByIdentityKey, "query_ids", collections.StringKey, collections.Uint64Value),
		Balances:     collections.NewMap(sb, types.BalancesKey, "balances", collections.Uint64Key, correlation.JSONValue[types.Balances]()),
		Delegations:  collections.NewMap(sb, types.DelegationsKey, "delegations", collections.Uint64Key, correlation.JSONValue[types.Delegations]()),
		Transfers: collections.NewMap(sb, types.TransfersKey, "transfers",
			collections.PairKeyCodec(collections.StringKey, collections.StringKey),
			correlation.JSONValue[[]types.Transfer]()),
		ProcessedTxs: collections.NewKeySet(sb, types.ProcessedTxsKey, "processed_txs",
			collections.PairKeyCodec(collections.StringKey, collections.StringKey)),
	}

	// Registrations are few and a query keeps no correlation id once its
	// reply arrives, so the allocator can derive the next id from the store.
	engine, err := correlation.NewEngine[types.QueryIdentity](sb, correlation.Config{
		ModuleName: types.ModuleName,
		Namespace:  types.EngineNamespace,
		Range:      types.ReplyRange,
		Strategy:   correlation.StrategyScan,
		ErrorQueueCapacity: func(ctx context.Context) uint64 {
			return k.GetParams(ctx).ErrorQueueCapacity
		},
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create correlation engine: %s", err))
	}
	k.engine = engine

	schema, err := sb.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build schema: %s", err))
	}
	k.Schema = schema
	return k
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetAuthority returns the module's authority
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Engine exposes the correlation engine.
func (k Keeper) Engine() *correlation.Engine[types.QueryIdentity] {
	return k.engine
}

// GetParams returns the module parameters, falling back to the defaults.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	params, err := k.Params.Get(ctx)
	if err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams validates and stores the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return k.Params.Set(ctx, params)
}

// UpdateParams replaces the parameters on behalf of the authority.
func (k Keeper) UpdateParams(ctx sdk.Context, authority string, params types.Params) error {
	if err := sharedkeeper.ValidateAuthority(k.authority, authority); err != nil {
		return err
	}
	return k.SetParams(ctx, params)
}
