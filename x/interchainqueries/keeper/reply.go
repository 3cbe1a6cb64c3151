package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/gogoproto/proto"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// Reply reconciles a registration with the query id assigned by the host.
func (k Keeper) Reply(ctx sdk.Context, reply correlation.Reply) (*correlation.Response, error) {
	key, ok, err := k.engine.HandleReply(ctx, reply, decodeRegisterReply)
	if err != nil {
		return nil, err
	}

	resp := correlation.NewResponse()
	if !ok {
		return resp.AddAttribute("action", "reply_failed"), nil
	}

	identity, err := k.GetQuery(ctx, key.Sequence)
	if err != nil {
		return nil, err
	}
	// Two registrations of the same identity can be in flight at once; only
	// the first one to be confirmed may own it.
	registered, err := k.QueryIDs.Has(ctx, identity.Key())
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, errorsmod.Wrapf(types.ErrQueryAlreadyRegistered, "%s", identity.Key())
	}
	if err := k.QueryIDs.Set(ctx, identity.Key(), key.Sequence); err != nil {
		return nil, err
	}

	k.Logger(ctx).Info("interchain query registered",
		"correlation_id", reply.ID,
		"query_id", key.Sequence,
		"kind", identity.Kind,
	)
	return resp.
		AddAttribute(types.AttributeKeyQueryID, fmt.Sprintf("%d", key.Sequence)).
		AddAttribute(types.AttributeKeyKind, string(identity.Kind)), nil
}

func decodeRegisterReply(_ sdk.Context, _ types.QueryIdentity, data []byte) (correlation.TransportKey, error) {
	var msgData sdk.TxMsgData
	if err := proto.Unmarshal(data, &msgData); err != nil {
		return correlation.TransportKey{}, fmt.Errorf("cannot decode tx msg data: %w", err)
	}
	if len(msgData.MsgResponses) == 0 {
		return correlation.TransportKey{}, fmt.Errorf("reply carries no message responses")
	}

	msgResp := msgData.MsgResponses[0]
	if msgResp.TypeUrl != types.RegisterQueryResponseTypeURL {
		return correlation.TransportKey{}, fmt.Errorf("expected %s, got %s", types.RegisterQueryResponseTypeURL, msgResp.TypeUrl)
	}
	id, err := types.UnmarshalRegisterQueryResponse(msgResp.Value)
	if err != nil {
		return correlation.TransportKey{}, err
	}
	return queryKey(id), nil
}
