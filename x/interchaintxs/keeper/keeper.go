package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// Keeper maintains the state of the interchaintxs module
type Keeper struct {
	cdc          codec.Codec
	storeService store.KVStoreService
	owner        string // address that owns the interchain accounts
	authority    string // module authority (usually governance module account)

	Schema   collections.Schema
	Params   collections.Item[types.Params]
	Accounts collections.Map[string, types.InterchainAccount]

	engine *correlation.Engine[types.SudoPayload]
}

// NewKeeper creates a new interchaintxs Keeper instance
func NewKeeper(
	cdc codec.Codec,
	storeService store.KVStoreService,
	owner string,
	authority string,
) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		cdc:          cdc,
		storeService: storeService,
		owner:        owner,
		authority:    authority,
		Params:       collections.NewItem(sb, types.ParamsKey, "params", correlation.JSONValue[types.Params]()),
		Accounts:     collections.NewMap(sb, types.InterchainAccountKeyPrefix, "interchain_accounts", collections.StringKey, correlation.JSONValue[types.InterchainAccount]()),
	}

	engine, err := correlation.NewEngine[types.SudoPayload](sb, correlation.Config{
		ModuleName:         types.ModuleName,
		Namespace:          types.EngineNamespace,
		Range:              types.ReplyRange,
		Strategy:           correlation.StrategyCounter,
		ErrorQueueCapacity: k.errorQueueCapacity,
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

// GetAuthority returns the module's authority (governance account)
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Owner returns the address that owns the module's interchain accounts.
func (k Keeper) Owner() string {
	return k.owner
}

// Engine exposes the correlation engine for queries and tests.
func (k Keeper) Engine() *correlation.Engine[types.SudoPayload] {
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
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	k.Logger(ctx).Info("params updated", "error_queue_capacity", params.ErrorQueueCapacity, "default_timeout", params.DefaultTimeoutSeconds)
	return nil
}

func (k *Keeper) errorQueueCapacity(ctx context.Context) uint64 {
	return k.GetParams(ctx).ErrorQueueCapacity
}
