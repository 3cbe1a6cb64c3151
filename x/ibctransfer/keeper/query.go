package keeper

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/neutron-org/neutron-sdk-sub001/x/ibctransfer/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// Result returns the outcome of a transfer, or nil while it is in flight.
func (k Keeper) Result(ctx sdk.Context, req types.QueryResult) (*correlation.AcknowledgementResult[types.TransferPayload], error) {
	if req.Channel == "" {
		return nil, status.Error(codes.InvalidArgument, "channel cannot be empty")
	}
	if req.Sequence == 0 {
		return nil, status.Error(codes.InvalidArgument, "sequence must be positive")
	}
	return k.engine.Results().Get(ctx, correlation.NewTransportKey(req.Channel, req.Sequence))
}

// PendingTransfers lists transfers awaiting the local reply followed by those
// awaiting their acknowledgement.
func (k Keeper) PendingTransfers(ctx sdk.Context) ([]types.PendingTransfer, error) {
	var pending []types.PendingTransfer
	err := k.engine.Pending().WalkByCorrelationID(ctx, func(id uint64, payload types.TransferPayload) bool {
		pending = append(pending, types.PendingTransfer{CorrelationID: id, Payload: payload})
		return false
	})
	if err != nil {
		return nil, err
	}
	err = k.engine.Pending().WalkByTransportKey(ctx, func(key correlation.TransportKey, payload types.TransferPayload) bool {
		pending = append(pending, types.PendingTransfer{Sequence: key.Sequence, Payload: payload})
		return false
	})
	return pending, err
}

// Query answers a decoded query message.
func (k Keeper) Query(ctx sdk.Context, msg types.QueryMsg) (any, error) {
	switch m := msg.(type) {
	case types.QueryResult:
		return k.Result(ctx, m)
	case types.QueryErrorsQueue:
		return k.engine.Errors().List(ctx)
	case types.QueryPending:
		return k.PendingTransfers(ctx)
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
