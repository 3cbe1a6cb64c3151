package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
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
	case types.MsgRegisterBalanceQuery:
		return k.RegisterBalanceQuery(ctx, m)
	case types.MsgRegisterDelegatorDelegationsQuery:
		return k.RegisterDelegatorDelegationsQuery(ctx, m)
	case types.MsgRegisterTransfersQuery:
		return k.RegisterTransfersQuery(ctx, m)
	case types.MsgRemoveQuery:
		return k.RemoveQuery(ctx, m)
	case types.MsgCleanErrors:
		return k.CleanErrors(ctx, sender)
	default:
		return nil, errorsmod.Wrapf(types.ErrInvalidExecuteMsg, "unknown execute message %T", msg)
	}
}

// RegisterBalanceQuery registers a KV query over the bank balance of an address.
func (k Keeper) RegisterBalanceQuery(ctx sdk.Context, msg types.MsgRegisterBalanceQuery) (*correlation.Response, error) {
	keys, err := types.BalanceKVKeys(msg.Addr, msg.Denom)
	if err != nil {
		return nil, err
	}
	identity := types.QueryIdentity{
		ZoneID:    msg.ConnectionID,
		QueryType: types.QueryTypeKV,
		QueryData: types.KVQueryData(keys),
		Kind:      types.KindBalance,
		Owner:     msg.Addr,
		Denom:     msg.Denom,
	}
	return k.register(ctx, identity, types.RegisterQuery{
		QueryType:    types.QueryTypeKV,
		Keys:         keys,
		ConnectionID: msg.ConnectionID,
		UpdatePeriod: msg.UpdatePeriod,
	})
}

// RegisterDelegatorDelegationsQuery registers a KV query over the delegations
// of a delegator to a fixed set of validators.
func (k Keeper) RegisterDelegatorDelegationsQuery(ctx sdk.Context, msg types.MsgRegisterDelegatorDelegationsQuery) (*correlation.Response, error) {
	keys, err := types.DelegationsKVKeys(msg.Delegator, msg.Validators)
	if err != nil {
		return nil, err
	}
	identity := types.QueryIdentity{
		ZoneID:     msg.ConnectionID,
		QueryType:  types.QueryTypeKV,
		QueryData:  types.KVQueryData(keys),
		Kind:       types.KindDelegations,
		Owner:      msg.Delegator,
		Validators: msg.Validators,
	}
	return k.register(ctx, identity, types.RegisterQuery{
		QueryType:    types.QueryTypeKV,
		Keys:         keys,
		ConnectionID: msg.ConnectionID,
		UpdatePeriod: msg.UpdatePeriod,
	})
}

// RegisterTransfersQuery registers a TX query for bank sends to a recipient.
func (k Keeper) RegisterTransfersQuery(ctx sdk.Context, msg types.MsgRegisterTransfersQuery) (*correlation.Response, error) {
	filter := types.NewTransfersFilter(msg.Recipient, msg.MinHeight)
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	data, err := filter.Marshal()
	if err != nil {
		return nil, err
	}
	identity := types.QueryIdentity{
		ZoneID:    msg.ConnectionID,
		QueryType: types.QueryTypeTX,
		QueryData: data,
		Kind:      types.KindTransfers,
		Owner:     msg.Recipient,
		MinHeight: msg.MinHeight,
	}
	return k.register(ctx, identity, types.RegisterQuery{
		QueryType:          types.QueryTypeTX,
		TransactionsFilter: data,
		ConnectionID:       msg.ConnectionID,
		UpdatePeriod:       msg.UpdatePeriod,
	})
}

func (k Keeper) register(ctx sdk.Context, identity types.QueryIdentity, msg types.RegisterQuery) (*correlation.Response, error) {
	registered, err := k.QueryIDs.Has(ctx, identity.Key())
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, errorsmod.Wrapf(types.ErrQueryAlreadyRegistered, "%s", identity.Key())
	}

	if msg.UpdatePeriod == 0 {
		msg.UpdatePeriod = k.GetParams(ctx).DefaultUpdatePeriod
	}
	msg.Sender = k.owner
	subMsg, err := k.engine.Issue(ctx, msg.Any(), identity)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRegisterQuery,
			sdk.NewAttribute(types.AttributeKeyQueryType, string(identity.QueryType)),
			sdk.NewAttribute(types.AttributeKeyKind, string(identity.Kind)),
			sdk.NewAttribute(types.AttributeKeyConnectionID, identity.ZoneID),
			sdk.NewAttribute(correlation.AttributeKeyCorrelationID, fmt.Sprintf("%d", subMsg.ID)),
		),
	)

	return correlation.NewResponse().
		AddMessage(subMsg).
		AddAttribute("action", "register_"+string(identity.Kind)+"_query").
		AddAttribute(correlation.AttributeKeyCorrelationID, fmt.Sprintf("%d", subMsg.ID)), nil
}

// RemoveQuery removes a registered query from the host and drops everything
// cached for it. Removal is recorded as the query's terminal result.
func (k Keeper) RemoveQuery(ctx sdk.Context, msg types.MsgRemoveQuery) (*correlation.Response, error) {
	identity, err := k.GetQuery(ctx, msg.QueryID)
	if err != nil {
		return nil, err
	}

	if _, err := k.engine.HandleResponse(ctx, queryKey(msg.QueryID), []string{"removed"}); err != nil {
		return nil, err
	}
	if err := k.QueryIDs.Remove(ctx, identity.Key()); err != nil {
		return nil, err
	}
	if err := k.Balances.Remove(ctx, msg.QueryID); err != nil {
		return nil, err
	}
	if err := k.Delegations.Remove(ctx, msg.QueryID); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeQueryRemoved,
			sdk.NewAttribute(types.AttributeKeyQueryID, fmt.Sprintf("%d", msg.QueryID)),
			sdk.NewAttribute(types.AttributeKeyKind, string(identity.Kind)),
		),
	)
	k.Logger(ctx).Info("interchain query removed", "query_id", msg.QueryID, "kind", identity.Kind)

	remove := correlation.SubMsg{
		Msg:     types.RemoveQuery{QueryID: msg.QueryID, Sender: k.owner}.Any(),
		ReplyOn: correlation.ReplyNever,
	}
	return correlation.NewResponse().
		AddMessage(remove).
		AddAttribute("action", "remove_query").
		AddAttribute(types.AttributeKeyQueryID, fmt.Sprintf("%d", msg.QueryID)), nil
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

// GetQuery returns the identity of a registered query.
func (k Keeper) GetQuery(ctx sdk.Context, queryID uint64) (types.QueryIdentity, error) {
	identity, found, err := k.engine.Pending().GetByTransportKey(ctx, queryKey(queryID))
	if err != nil {
		return types.QueryIdentity{}, err
	}
	if !found {
		return types.QueryIdentity{}, errorsmod.Wrapf(types.ErrQueryNotFound, "query %d", queryID)
	}
	return identity, nil
}

// queryKey is the transport key of a registered query. The host numbers
// queries itself, so the key has no source.
func queryKey(queryID uint64) correlation.TransportKey {
	return correlation.NewTransportKey("", queryID)
}
