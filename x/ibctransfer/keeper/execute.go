package keeper

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/ibctransfer/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

// Execute handles an execute message sent by sender with funds attached.
func (k Keeper) Execute(ctx sdk.Context, sender string, funds sdk.Coins, msg types.ExecuteMsg) (*correlation.Response, error) {
	if msg == nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty execute message")
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case types.MsgSend:
		return k.Send(ctx, funds, m)
	case types.MsgCleanErrors:
		if err := sharedkeeper.ValidateAuthority(k.authority, sender); err != nil {
			return nil, err
		}
		if _, err := k.engine.ClearErrors(ctx); err != nil {
			return nil, err
		}
		return correlation.NewResponse().AddAttribute("action", "clean_errors"), nil
	default:
		return nil, errorsmod.Wrapf(types.ErrInvalidExecuteMsg, "unknown execute message %T", msg)
	}
}

// Send issues an ICS-20 MsgTransfer. The attached funds must cover the amount.
func (k Keeper) Send(ctx sdk.Context, funds sdk.Coins, msg types.MsgSend) (*correlation.Response, error) {
	coin := msg.Coin()
	if have := funds.AmountOf(coin.Denom); have.LT(coin.Amount) {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "sent %s%s, transfer needs %s", have, coin.Denom, coin)
	}

	transfer := &transfertypes.MsgTransfer{
		SourcePort:    types.TransferPort,
		SourceChannel: msg.Channel,
		Token:         coin,
		Sender:        k.owner,
		Receiver:      msg.To,
		Memo:          msg.Memo,
	}
	if msg.TimeoutHeight != nil && !msg.TimeoutHeight.IsZero() {
		transfer.TimeoutHeight = *msg.TimeoutHeight
	} else {
		timeout := time.Duration(k.GetParams(ctx).DefaultTimeoutSeconds) * time.Second
		transfer.TimeoutHeight = clienttypes.ZeroHeight()
		transfer.TimeoutTimestamp = uint64(ctx.BlockTime().Add(timeout).UnixNano())
	}

	anyMsg, err := correlation.PackMsg(transfer)
	if err != nil {
		return nil, err
	}
	payload := types.TransferPayload{
		Channel:   msg.Channel,
		Recipient: msg.To,
		Amount:    coin,
		Message:   msg.Memo,
	}
	subMsg, err := k.engine.Issue(ctx, anyMsg, payload)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransferSent,
			sdk.NewAttribute(types.AttributeKeyChannel, msg.Channel),
			sdk.NewAttribute(types.AttributeKeyRecipient, msg.To),
			sdk.NewAttribute(types.AttributeKeyAmount, coin.String()),
		),
	)

	return correlation.NewResponse().
		AddMessage(subMsg).
		AddAttribute("action", "send").
		AddAttribute(correlation.AttributeKeyCorrelationID, fmt.Sprintf("%d", subMsg.ID)), nil
}
