package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/gogoproto/proto"
	icacontrollertypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/controller/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// Reply reconciles the local execution of a MsgSendTx. The ICA sequence in
// the reply becomes the transport key under the account's channel.
func (k Keeper) Reply(ctx sdk.Context, reply correlation.Reply) (*correlation.Response, error) {
	key, ok, err := k.engine.HandleReply(ctx, reply, decodeSendTxReply)
	if err != nil {
		return nil, err
	}

	resp := correlation.NewResponse()
	if !ok {
		return resp.AddAttribute("action", "reply_failed"), nil
	}

	k.Logger(ctx).Debug("interchain tx sent",
		"correlation_id", reply.ID,
		"channel_id", key.Source,
		"sequence", key.Sequence,
	)
	return resp.
		AddAttribute(types.AttributeKeyChannelID, key.Source).
		AddAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", key.Sequence)), nil
}

func decodeSendTxReply(_ sdk.Context, payload types.SudoPayload, data []byte) (correlation.TransportKey, error) {
	if payload.ChannelID == "" {
		return correlation.TransportKey{}, fmt.Errorf("payload of %s has no channel", payload.PortID)
	}
	var msgData sdk.TxMsgData
	if err := proto.Unmarshal(data, &msgData); err != nil {
		return correlation.TransportKey{}, fmt.Errorf("cannot decode tx msg data: %w", err)
	}
	if len(msgData.MsgResponses) == 0 {
		return correlation.TransportKey{}, fmt.Errorf("reply carries no message responses")
	}

	msgResp := msgData.MsgResponses[0]
	if want := sdk.MsgTypeURL(&icacontrollertypes.MsgSendTxResponse{}); msgResp.TypeUrl != want {
		return correlation.TransportKey{}, fmt.Errorf("expected %s, got %s", want, msgResp.TypeUrl)
	}
	var sendTxResp icacontrollertypes.MsgSendTxResponse
	if err := proto.Unmarshal(msgResp.Value, &sendTxResp); err != nil {
		return correlation.TransportKey{}, fmt.Errorf("cannot decode send tx response: %w", err)
	}
	return correlation.NewTransportKey(payload.ChannelID, sendTxResp.Sequence), nil
}
