package keeper

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// InterchainAccountAddress returns the remote address of an opened account.
func (k Keeper) InterchainAccountAddress(ctx sdk.Context, req types.QueryInterchainAccountAddress) (*types.InterchainAccountAddressResponse, error) {
	if req.InterchainAccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "interchain account id cannot be empty")
	}

	account, err := k.GetAccount(ctx, req.InterchainAccountID)
	if err != nil {
		return nil, err
	}
	if req.ConnectionID != "" && req.ConnectionID != account.ConnectionID {
		return nil, status.Errorf(codes.NotFound, "account %s is not on connection %s", req.InterchainAccountID, req.ConnectionID)
	}
	return &types.InterchainAccountAddressResponse{InterchainAccountAddress: account.Address}, nil
}

// AcknowledgementResult returns the recorded outcome of one submitted tx, or
// nil while it is still in flight.
func (k Keeper) AcknowledgementResult(ctx sdk.Context, req types.QueryAcknowledgementResult) (*correlation.AcknowledgementResult[types.SudoPayload], error) {
	if req.SequenceID == 0 {
		return nil, status.Error(codes.InvalidArgument, "sequence id must be positive")
	}
	portID, err := types.PortIDFor(k.owner, req.InterchainAccountID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	channelID := req.ChannelID
	if channelID == "" {
		account, err := k.GetAccount(ctx, req.InterchainAccountID)
		if err != nil {
			return nil, err
		}
		channelID = account.ChannelID
	}

	result, err := k.engine.Results().Get(ctx, correlation.NewTransportKey(channelID, req.SequenceID))
	if err != nil || result == nil {
		return nil, err
	}
	if result.Payload.PortID != portID {
		return nil, status.Errorf(codes.NotFound, "channel %s sequence %d belongs to another account", channelID, req.SequenceID)
	}
	return result, nil
}

// ErrorsQueue returns the retained recoverable errors.
func (k Keeper) ErrorsQueue(ctx sdk.Context) ([]correlation.ErrorEntry, error) {
	return k.engine.Errors().List(ctx)
}

// Query answers a decoded query message.
func (k Keeper) Query(ctx sdk.Context, msg types.QueryMsg) (any, error) {
	switch m := msg.(type) {
	case types.QueryInterchainAccountAddress:
		return k.InterchainAccountAddress(ctx, m)
	case types.QueryAcknowledgementResult:
		return k.AcknowledgementResult(ctx, m)
	case types.QueryErrorsQueue:
		return k.ErrorsQueue(ctx)
	case types.QueryParams:
		return k.GetParams(ctx), nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown query %T", msg)
	}
}

// QueryJSON decodes a JSON query and returns the JSON encoded answer.
func (k Keeper) QueryJSON(ctx sdk.Context, raw []byte) ([]byte, error) {
	msg, err := types.ParseQueryMsg(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := k.Query(ctx, msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}
