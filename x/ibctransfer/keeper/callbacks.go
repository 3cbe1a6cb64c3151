package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/gogoproto/proto"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/ibctransfer/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// Reply reconciles the local execution of a MsgTransfer.
func (k Keeper) Reply(ctx sdk.Context, reply correlation.Reply) (*correlation.Response, error) {
	key, ok, err := k.engine.HandleReply(ctx, reply, decodeTransferReply)
	if err != nil {
		return nil, err
	}
	if !ok {
		return correlation.NewResponse().AddAttribute("action", "reply_failed"), nil
	}
	k.emitter.EmitPacketSent(ctx, key.Source, key.Sequence)
	return correlation.NewResponse().
		AddAttribute(types.AttributeKeyChannel, key.Source).
		AddAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", key.Sequence)), nil
}

func decodeTransferReply(_ sdk.Context, payload types.TransferPayload, data []byte) (correlation.TransportKey, error) {
	var msgData sdk.TxMsgData
	if err := proto.Unmarshal(data, &msgData); err != nil {
		return correlation.TransportKey{}, fmt.Errorf("cannot decode tx msg data: %w", err)
	}
	if len(msgData.MsgResponses) == 0 {
		return correlation.TransportKey{}, fmt.Errorf("reply carries no message responses")
	}
	msgResp := msgData.MsgResponses[0]
	if want := sdk.MsgTypeURL(&transfertypes.MsgTransferResponse{}); msgResp.TypeUrl != want {
		return correlation.TransportKey{}, fmt.Errorf("expected %s, got %s", want, msgResp.TypeUrl)
	}
	var resp transfertypes.MsgTransferResponse
	if err := proto.Unmarshal(msgResp.Value, &resp); err != nil {
		return correlation.TransportKey{}, fmt.Errorf("cannot decode transfer response: %w", err)
	}
	return correlation.NewTransportKey(payload.Channel, resp.Sequence), nil
}

// Sudo dispatches a host callback.
func (k Keeper) Sudo(ctx sdk.Context, msg correlation.SudoMsg) (*correlation.Response, error) {
	var (
		key    correlation.TransportKey
		result *correlation.AcknowledgementResult[types.TransferPayload]
		err    error
	)

	switch m := msg.(type) {
	case correlation.SudoResponse:
		if key, err = m.Request.ChannelKey(); err != nil {
			return nil, err
		}
		ack, ackErr := k.acks.ValidateAndUnmarshalAck(m.Data)
		if ackErr != nil {
			return nil, errorsmod.Wrapf(correlation.ErrInvalidAck, "channel %s sequence %d: %s", key.Source, key.Sequence, ackErr)
		}
		if ack.Success() {
			result, err = k.engine.HandleResponse(ctx, key, nil)
		} else {
			// an ICS-20 error ack means the funds were refunded
			result, err = k.engine.HandleError(ctx, key, ack.GetError())
		}
	case correlation.SudoError:
		if key, err = m.Request.ChannelKey(); err != nil {
			return nil, err
		}
		result, err = k.engine.HandleError(ctx, key, m.Details)
	case correlation.SudoTimeout:
		if key, err = m.Request.ChannelKey(); err != nil {
			return nil, err
		}
		result, err = k.engine.HandleTimeout(ctx, key)
		if err == nil && result != nil {
			k.emitter.EmitPacketTimeout(ctx, key.Source, key.Sequence)
		}
	case nil:
		return nil, errorsmod.Wrap(correlation.ErrInvalidSudoMsg, "empty sudo message")
	default:
		return nil, errorsmod.Wrapf(correlation.ErrInvalidSudoMsg, "%s is not handled by %s", correlation.SudoKind(msg), types.ModuleName)
	}
	if err != nil {
		return nil, err
	}

	if result != nil {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeTransferAcked,
				sdk.NewAttribute(types.AttributeKeyChannel, key.Source),
				sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", key.Sequence)),
				sdk.NewAttribute(types.AttributeKeyKind, string(result.Kind)),
				sdk.NewAttribute(types.AttributeKeyAmount, result.Payload.Amount.String()),
			),
		)
		k.Logger(ctx).Info("transfer resolved",
			"channel", key.Source,
			"sequence", key.Sequence,
			"kind", result.Kind,
		)
	}
	return correlation.NewResponse(), nil
}
