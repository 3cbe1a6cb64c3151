package keeper

import (
	"encoding/json"
	"errors"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// Balance returns the last balance reported by a balance query.
func (k Keeper) Balance(ctx sdk.Context, req types.QueryBalance) (*types.Balances, error) {
	balances, err := k.Balances.Get(ctx, req.QueryID)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "no balance result for query %d", req.QueryID)
	}
	if err != nil {
		return nil, err
	}
	return &balances, nil
}

// DelegationsResult returns the last delegations reported by a delegations query.
func (k Keeper) DelegationsResult(ctx sdk.Context, req types.QueryDelegations) (*types.Delegations, error) {
	delegations, err := k.Delegations.Get(ctx, req.QueryID)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "no delegations result for query %d", req.QueryID)
	}
	if err != nil {
		return nil, err
	}
	return &delegations, nil
}

// RecipientTransfers returns every transfer recorded for a recipient.
func (k Keeper) RecipientTransfers(ctx sdk.Context, req types.QueryRecipientTransfers) ([]types.Transfer, error) {
	if req.Recipient == "" {
		return nil, status.Error(codes.InvalidArgument, "recipient cannot be empty")
	}

	transfers := []types.Transfer{}
	rng := collections.NewPrefixedPairRange[string, string](req.Recipient)
	err := k.Transfers.Walk(ctx, rng, func(_ collections.Pair[string, string], batch []types.Transfer) (bool, error) {
		transfers = append(transfers, batch...)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// RegisteredQueryID resolves a query identity to the id the host assigned.
func (k Keeper) RegisteredQueryID(ctx sdk.Context, req types.QueryRegisteredQueryID) (*types.RegisteredQueryIDResponse, error) {
	if err := req.QueryType.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	id, err := k.QueryIDs.Get(ctx, types.IdentityKey(req.ZoneID, req.QueryType, req.QueryData))
	if errors.Is(err, collections.ErrNotFound) {
		return nil, status.Error(codes.NotFound, "query is not registered")
	}
	if err != nil {
		return nil, err
	}
	return &types.RegisteredQueryIDResponse{QueryID: id}, nil
}

// ErrorsQueue returns the retained recoverable errors.
func (k Keeper) ErrorsQueue(ctx sdk.Context) ([]correlation.ErrorEntry, error) {
	return k.engine.Errors().List(ctx)
}

// Query answers a decoded query message.
func (k Keeper) Query(ctx sdk.Context, msg types.QueryMsg) (any, error) {
	switch m := msg.(type) {
	case types.QueryBalance:
		return k.Balance(ctx, m)
	case types.QueryDelegations:
		return k.DelegationsResult(ctx, m)
	case types.QueryRecipientTransfers:
		return k.RecipientTransfers(ctx, m)
	case types.QueryRegisteredQueryID:
		return k.RegisteredQueryID(ctx, m)
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
