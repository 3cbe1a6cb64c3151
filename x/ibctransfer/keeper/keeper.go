package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/ibctransfer/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedibc "github.com/neutron-org/neutron-sdk-sub001/x/shared/ibc"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// Keeper sends ICS-20 transfers and reconciles their acknowledgements.
type Keeper struct {
	storeService store.KVStoreService
	owner        string
	authority    string

	Schema collections.Schema
	Params collections.Item[types.Params]

	engine  *correlation.Engine[types.TransferPayload]
	acks    *sharedibc.AcknowledgementHelper
	emitter *sharedibc.EventEmitter
}

// NewKeeper creates a new ibctransfer Keeper instance
func NewKeeper(storeService store.KVStoreService, owner, authority string) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService: storeService,
		owner:        owner,
		authority:    authority,
		Params:       collections.NewItem(sb, types.ParamsKey, "params", correlation.JSONValue[types.Params]()),
		acks:         sharedibc.NewAcknowledgementHelper(),
		emitter:      sharedibc.NewEventEmitter(types.ModuleName),
	}

	engine, err := correlation.NewEngine[types.TransferPayload](sb, correlation.Config{
		ModuleName: types.ModuleName,
		Namespace:  types.EngineNamespace,
		Range:      types.ReplyRange,
		Strategy:   correlation.StrategyCounter,
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
func (k Keeper) Engine() *correlation.Engine[types.TransferPayload] {
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
