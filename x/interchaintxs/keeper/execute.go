package keeper

import (
	"errors"
	"fmt"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
	icacontrollertypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/controller/types"
	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
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
	case types.MsgRegister:
		return k.Register(ctx, m)
	case types.MsgDelegate:
		return k.Delegate(ctx, m)
	case types.MsgUndelegate:
		return k.Undelegate(ctx, m)
	case types.MsgCleanErrors:
		return k.CleanErrors(ctx, sender)
	default:
		return nil, errorsmod.Wrapf(types.ErrInvalidExecuteMsg, "unknown execute message %T", msg)
	}
}

// Register asks the host to open an interchain account. The host reports the
// result through an OpenAck callback, so no reply is requested.
func (k Keeper) Register(ctx sdk.Context, msg types.MsgRegister) (*correlation.Response, error) {
	portID, err := types.PortIDFor(k.owner, msg.InterchainAccountID)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidPortID, err.Error())
	}

	register := &icacontrollertypes.MsgRegisterInterchainAccount{
		Owner:        types.AccountOwner(k.owner, msg.InterchainAccountID),
		ConnectionId: msg.ConnectionID,
	}
	subMsg, err := correlation.NewSubMsg(register)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRegisterAccount,
			sdk.NewAttribute(types.AttributeKeyInterchainAccountID, msg.InterchainAccountID),
			sdk.NewAttribute(types.AttributeKeyConnectionID, msg.ConnectionID),
			sdk.NewAttribute(types.AttributeKeyPortID, portID),
		),
	)
	k.Logger(ctx).Info("interchain account registration requested",
		"interchain_account_id", msg.InterchainAccountID,
		"connection_id", msg.ConnectionID,
		"port_id", portID,
	)

	return correlation.NewResponse().
		AddMessage(subMsg).
		AddAttribute("action", "register").
		AddAttribute(types.AttributeKeyPortID, portID), nil
}

// Delegate submits a MsgDelegate through the interchain account.
func (k Keeper) Delegate(ctx sdk.Context, msg types.MsgDelegate) (*correlation.Response, error) {
	return k.submitStakingTx(ctx, "delegate", msg.InterchainAccountID, msg.TimeoutSeconds, func(delegator string) proto.Message {
		return &stakingtypes.MsgDelegate{
			DelegatorAddress: delegator,
			ValidatorAddress: msg.Validator,
			Amount:           sdk.NewCoin(msg.Denom, msg.Amount),
		}
	})
}

// Undelegate submits a MsgUndelegate through the interchain account.
func (k Keeper) Undelegate(ctx sdk.Context, msg types.MsgUndelegate) (*correlation.Response, error) {
	return k.submitStakingTx(ctx, "undelegate", msg.InterchainAccountID, msg.TimeoutSeconds, func(delegator string) proto.Message {
		return &stakingtypes.MsgUndelegate{
			DelegatorAddress: delegator,
			ValidatorAddress: msg.Validator,
			Amount:           sdk.NewCoin(msg.Denom, msg.Amount),
		}
	})
}

func (k Keeper) submitStakingTx(
	ctx sdk.Context,
	action string,
	interchainAccountID string,
	timeoutSeconds uint64,
	build func(delegator string) proto.Message,
) (*correlation.Response, error) {
	account, err := k.GetAccount(ctx, interchainAccountID)
	if err != nil {
		return nil, err
	}

	data, err := icatypes.SerializeCosmosTx(k.cdc, []proto.Message{build(account.Address)}, icatypes.EncodingProtobuf)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "cannot serialize %s tx: %s", action, err)
	}

	if timeoutSeconds == 0 {
		timeoutSeconds = k.GetParams(ctx).DefaultTimeoutSeconds
	}
	sendTx := icacontrollertypes.NewMsgSendTx(
		types.AccountOwner(k.owner, interchainAccountID),
		account.ConnectionID,
		uint64(time.Duration(timeoutSeconds)*time.Second),
		icatypes.InterchainAccountPacketData{
			Type: icatypes.EXECUTE_TX,
			Data: data,
		},
	)

	anyMsg, err := correlation.PackMsg(sendTx)
	if err != nil {
		return nil, err
	}
	subMsg, err := k.engine.Issue(ctx, anyMsg, types.SudoPayload{
		PortID:    account.PortID,
		ChannelID: account.ChannelID,
		Message:   action,
	})
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSubmitTx,
			sdk.NewAttribute(types.AttributeKeyInterchainAccountID, interchainAccountID),
			sdk.NewAttribute(types.AttributeKeyPortID, account.PortID),
			sdk.NewAttribute(types.AttributeKeyMsgType, action),
		),
	)

	return correlation.NewResponse().
		AddMessage(subMsg).
		AddAttribute("action", action).
		AddAttribute(correlation.AttributeKeyCorrelationID, fmt.Sprintf("%d", subMsg.ID)), nil
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

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeErrorQueueCleared,
			sdk.NewAttribute(correlation.AttributeKeyCount, fmt.Sprintf("%d", cleared)),
		),
	)
	return correlation.NewResponse().AddAttribute("action", "clean_errors"), nil
}

// GetAccount returns the opened interchain account with the given id.
func (k Keeper) GetAccount(ctx sdk.Context, interchainAccountID string) (types.InterchainAccount, error) {
	portID, err := types.PortIDFor(k.owner, interchainAccountID)
	if err != nil {
		return types.InterchainAccount{}, errorsmod.Wrap(types.ErrInvalidPortID, err.Error())
	}
	account, err := k.Accounts.Get(ctx, portID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.InterchainAccount{}, errorsmod.Wrapf(types.ErrInterchainAccountNotFound, "port %s", portID)
	}
	return account, err
}
