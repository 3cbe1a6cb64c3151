package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedibc "github.com/neutron-org/neutron-sdk-sub001/x/shared/ibc"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// Keeper requests prices from an oracle chain over its own IBC channel.
type Keeper struct {
	storeService  store.KVStoreService
	channelKeeper types.ChannelKeeper
	scopedKeeper  types.ScopedKeeper
	authority     string

	Schema   collections.Schema
	Params   collections.Item[types.Params]
	Channel  collections.Item[string]
	Accepted collections.Map[uint64, types.AcceptedRequest]
	Rates    collections.Map[string, types.Rate]

	engine  *correlation.Engine[types.RequestPayload]
	acks    *sharedibc.AcknowledgementHelper
	emitter *sharedibc.EventEmitter
}

// NewKeeper creates a new bandfeed Keeper instance
func NewKeeper(
	storeService store.KVStoreService,
	channelKeeper types.ChannelKeeper,
	scopedKeeper types.ScopedKeeper,
	authority string,
) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService:  storeService,
		channelKeeper: channelKeeper,
		scopedKeeper:  scopedKeeper,
		authority:     authority,
		Params:        collections.NewItem(sb, types.ParamsKey, "params", correlation.JSONValue[types.Params]()),
		Channel:       collections.NewItem(sb, types.ChannelKey, "channel", collections.StringValue),
		Accepted:      collections.NewMap(sb, types.RequestIDsKey, "accepted", collections.Uint64Key, correlation.JSONValue[types.AcceptedRequest]()),
		Rates:         collections.NewMap(sb, types.RatesKey, "rates", collections.StringKey, correlation.JSONValue[types.Rate]()),
		acks:          sharedibc.NewAcknowledgementHelper(),
		emitter:       sharedibc.NewEventEmitter(types.ModuleName),
	}

	engine, err := correlation.NewEngine[types.RequestPayload](sb, correlation.Config{
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
func (k Keeper) Engine() *correlation.Engine[types.RequestPayload] {
	return k.engine
}

// AckHelper returns the acknowledgement decoder shared with the IBC module.
func (k Keeper) AckHelper() *sharedibc.AcknowledgementHelper {
	return k.acks
}

// Emitter returns the channel and packet event emitter.
func (k Keeper) Emitter() *sharedibc.EventEmitter {
	return k.emitter
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

// ClaimCapability claims a channel capability for the module.
func (k Keeper) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	return k.scopedKeeper.ClaimCapability(ctx, cap, name)
}

// GetChannelCapability retrieves a previously claimed channel capability.
func (k Keeper) GetChannelCapability(ctx sdk.Context, portID, channelID string) (*capabilitytypes.Capability, bool) {
	return k.scopedKeeper.GetCapability(ctx, host.ChannelCapabilityPath(portID, channelID))
}

// OpenChannel returns the connected oracle channel.
func (k Keeper) OpenChannel(ctx context.Context) (string, error) {
	channelID, err := k.Channel.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return "", types.ErrChannelNotOpen
	}
	return channelID, err
}

// IsAuthorizedChannel accepts packets only on the connected channel.
func (k Keeper) IsAuthorizedChannel(ctx sdk.Context, portID, channelID string) error {
	if portID != types.PortID {
		return errorsmod.Wrapf(types.ErrInvalidPacket, "unexpected port %s", portID)
	}
	open, err := k.OpenChannel(ctx)
	if err != nil {
		return err
	}
	if open != channelID {
		return errorsmod.Wrapf(types.ErrChannelNotOpen, "channel %s is not the oracle channel %s", channelID, open)
	}
	return nil
}

// Connect records channelID as the oracle channel once the handshake completes.
func (k Keeper) Connect(ctx sdk.Context, channelID string) error {
	if err := k.Channel.Set(ctx, channelID); err != nil {
		return err
	}
	k.emitter.EmitChannelConnected(ctx, types.PortID, channelID)
	k.Logger(ctx).Info("oracle channel connected", "channel", channelID)
	return nil
}

// Close forgets the oracle channel. Requests still in flight on it are left
// to their timeout callbacks.
func (k Keeper) Close(ctx sdk.Context, channelID string) error {
	if err := k.Channel.Remove(ctx); err != nil {
		return err
	}
	k.emitter.EmitChannelClosed(ctx, types.PortID, channelID)
	k.Logger(ctx).Info("oracle channel closed", "channel", channelID)
	return nil
}
