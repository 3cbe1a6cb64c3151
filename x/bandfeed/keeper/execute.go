package keeper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// Execute handles a validated execute message sent by sender.
func (k Keeper) Execute(ctx sdk.Context, sender string, _ sdk.Coins, msg types.ExecuteMsg) (*correlation.Response, error) {
	if msg == nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty execute message")
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case types.MsgRequest:
		return k.Request(ctx, m)
	case types.MsgCleanErrors:
		return k.CleanErrors(ctx, sender)
	default:
		return nil, errorsmod.Wrapf(types.ErrInvalidExecuteMsg, "unknown execute message %T", msg)
	}
}

func orDefault(v, def uint64) uint64 {
	if v == 0 {
		return def
	}
	return v
}

// Request sends an oracle request packet on the open channel. The packet is
// sent synchronously, so the request is re-keyed to (channel, sequence)
// before returning. The correlation id travels as the client id.
func (k Keeper) Request(ctx sdk.Context, msg types.MsgRequest) (*correlation.Response, error) {
	channelID, err := k.OpenChannel(ctx)
	if err != nil {
		return nil, err
	}
	chanCap, ok := k.GetChannelCapability(ctx, types.PortID, channelID)
	if !ok {
		return nil, errorsmod.Wrapf(channeltypes.ErrChannelCapabilityNotFound, "port %s channel %s", types.PortID, channelID)
	}

	calldata, err := types.Calldata{Symbols: msg.Symbols, Multiplier: msg.Multiplier}.EncodeOBI()
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}

	params := k.GetParams(ctx)
	feeLimit := msg.FeeLimit
	if feeLimit.Empty() {
		feeLimit = params.FeeLimit
	}
	packet := types.OracleRequestPacketData{
		OracleScriptID: params.OracleScriptID,
		Calldata:       calldata,
		AskCount:       orDefault(msg.AskCount, params.AskCount),
		MinCount:       orDefault(msg.MinCount, params.MinCount),
		FeeLimit:       feeLimit,
		PrepareGas:     orDefault(msg.PrepareGas, params.PrepareGas),
		ExecuteGas:     orDefault(msg.ExecuteGas, params.ExecuteGas),
	}

	id, err := k.engine.Track(ctx, "oracle_request", types.RequestPayload{Symbols: msg.Symbols, Multiplier: msg.Multiplier})
	if err != nil {
		return nil, err
	}
	packet.ClientID = strconv.FormatUint(id, 10)
	if err := packet.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	data, err := packet.GetBytes()
	if err != nil {
		return nil, err
	}

	timeout := uint64(ctx.BlockTime().Add(time.Duration(params.TimeoutSeconds) * time.Second).UnixNano())
	sequence, err := k.channelKeeper.SendPacket(ctx, chanCap, types.PortID, channelID, clienttypes.ZeroHeight(), timeout, data)
	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to send oracle request packet")
	}
	if err := k.engine.Rekey(ctx, id, correlation.NewTransportKey(channelID, sequence)); err != nil {
		return nil, err
	}

	k.emitter.EmitPacketSent(ctx, channelID, sequence)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRequestSent,
			sdk.NewAttribute(types.AttributeKeyClientID, packet.ClientID),
			sdk.NewAttribute(types.AttributeKeyChannel, channelID),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", sequence)),
			sdk.NewAttribute(types.AttributeKeySymbols, strings.Join(msg.Symbols, ",")),
		),
	)

	return correlation.NewResponse().
		AddAttribute("action", "request").
		AddAttribute(correlation.AttributeKeyCorrelationID, packet.ClientID).
		AddAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", sequence)), nil
}

// CleanErrors empties the error queue. Only the authority may call it.
func (k Keeper) CleanErrors(ctx sdk.Context, sender string) (*correlation.Response, error) {
	if err := sharedkeeper.ValidateAuthority(k.authority, sender); err != nil {
		return nil, err
	}
	cleared, err := k.engine.ClearErrors(ctx)
	if err != nil {
		return nil, err
	}
	return correlation.NewResponse().
		AddAttribute("action", "clean_errors").
		AddAttribute(correlation.AttributeKeyCount, fmt.Sprintf("%d", cleared)), nil
}
