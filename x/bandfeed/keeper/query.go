package keeper

import (
	"encoding/json"
	"errors"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// ChannelStatus reports the oracle channel.
func (k Keeper) ChannelStatus(ctx sdk.Context) (types.ChannelResponse, error) {
	channelID, err := k.OpenChannel(ctx)
	if errors.Is(err, types.ErrChannelNotOpen) {
		return types.ChannelResponse{}, nil
	}
	if err != nil {
		return types.ChannelResponse{}, err
	}
	return types.ChannelResponse{ChannelID: channelID, Open: true}, nil
}

// Rate returns the last rate stored for a symbol.
func (k Keeper) Rate(ctx sdk.Context, req types.QueryRate) (*types.Rate, error) {
	if req.Symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol cannot be empty")
	}
	rate, err := k.Rates.Get(ctx, req.Symbol)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "no rate for %s", req.Symbol)
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// Result returns the outcome of the request packet, or nil while it is in flight.
func (k Keeper) Result(ctx sdk.Context, req types.QueryResult) (*correlation.AcknowledgementResult[types.RequestPayload], error) {
	if req.Channel == "" {
		return nil, status.Error(codes.InvalidArgument, "channel cannot be empty")
	}
	if req.Sequence == 0 {
		return nil, status.Error(codes.InvalidArgument, "sequence must be positive")
	}
	return k.engine.Results().Get(ctx, correlation.NewTransportKey(req.Channel, req.Sequence))
}

// Query answers a decoded query message.
func (k Keeper) Query(ctx sdk.Context, msg types.QueryMsg) (any, error) {
	switch m := msg.(type) {
	case types.QueryChannel:
		return k.ChannelStatus(ctx)
	case types.QueryRate:
		return k.Rate(ctx, m)
	case types.QueryResult:
		return k.Result(ctx, m)
	case types.QueryErrorsQueue:
		return k.engine.Errors().List(ctx)
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
