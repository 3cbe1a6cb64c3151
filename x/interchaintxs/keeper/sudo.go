package keeper

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// Sudo dispatches a host callback.
func (k Keeper) Sudo(ctx sdk.Context, msg correlation.SudoMsg) (*correlation.Response, error) {
	switch m := msg.(type) {
	case correlation.SudoOpenAck:
		return k.SudoOpenAck(ctx, m)
	case correlation.SudoResponse:
		return k.SudoResponse(ctx, m)
	case correlation.SudoError:
		return k.SudoError(ctx, m)
	case correlation.SudoTimeout:
		return k.SudoTimeout(ctx, m)
	case nil:
		return nil, errorsmod.Wrap(correlation.ErrInvalidSudoMsg, "empty sudo message")
	default:
		return nil, errorsmod.Wrapf(correlation.ErrInvalidSudoMsg, "%s is not handled by %s", correlation.SudoKind(msg), types.ModuleName)
	}
}

// SudoOpenAck stores the interchain account the host just opened.
func (k Keeper) SudoOpenAck(ctx sdk.Context, msg correlation.SudoOpenAck) (*correlation.Response, error) {
	icaID, err := types.ParsePortID(k.owner, msg.PortID)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidPortID, err.Error())
	}

	var metadata icatypes.Metadata
	if err := icatypes.ModuleCdc.UnmarshalJSON([]byte(msg.CounterpartyVersion), &metadata); err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAccountMetadata, "cannot decode counterparty version: %s", err)
	}
	if metadata.Address == "" {
		return nil, errorsmod.Wrap(types.ErrInvalidAccountMetadata, "counterparty version has no address")
	}

	account := types.InterchainAccount{
		InterchainAccountID:   icaID,
		PortID:                msg.PortID,
		ConnectionID:          metadata.ControllerConnectionId,
		ChannelID:             msg.ChannelID,
		CounterpartyChannelID: msg.CounterpartyChannelID,
		Address:               metadata.Address,
	}
	if err := k.Accounts.Set(ctx, msg.PortID, account); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAccountOpened,
			sdk.NewAttribute(types.AttributeKeyInterchainAccountID, icaID),
			sdk.NewAttribute(types.AttributeKeyPortID, msg.PortID),
			sdk.NewAttribute(types.AttributeKeyChannelID, msg.ChannelID),
			sdk.NewAttribute(types.AttributeKeyAddress, metadata.Address),
		),
	)
	k.Logger(ctx).Info("interchain account opened",
		"interchain_account_id", icaID,
		"port_id", msg.PortID,
		"address", metadata.Address,
	)
	return correlation.NewResponse(), nil
}

// SudoResponse records a successful acknowledgement. Each message response is
// summarized as one item; responses of unknown type are logged and skipped.
func (k Keeper) SudoResponse(ctx sdk.Context, msg correlation.SudoResponse) (*correlation.Response, error) {
	key, err := msg.Request.ChannelKey()
	if err != nil {
		return nil, err
	}

	var msgData sdk.TxMsgData
	if err := proto.Unmarshal(msg.Data, &msgData); err != nil {
		return nil, errorsmod.Wrapf(correlation.ErrInvalidAck, "cannot decode tx msg data: %s", err)
	}

	var items []string
	for _, msgResp := range msgData.MsgResponses {
		item, err := parseMsgResponse(msgResp.TypeUrl, msgResp.Value)
		if err != nil {
			k.engine.LogRecoverable(ctx, "sudo_response", correlation.SeverityMedium,
				fmt.Errorf("channel %s sequence %d: %w", key.Source, key.Sequence, err))
			continue
		}
		items = append(items, item)
	}
	//nolint:staticcheck // hosts running older SDKs still fill Data
	for _, legacy := range msgData.Data {
		item, err := parseLegacyMsgData(legacy.MsgType, legacy.Data)
		if err != nil {
			k.engine.LogRecoverable(ctx, "sudo_response", correlation.SeverityMedium,
				fmt.Errorf("channel %s sequence %d: %w", key.Source, key.Sequence, err))
			continue
		}
		items = append(items, item)
	}

	result, err := k.engine.HandleResponse(ctx, key, items)
	if err != nil {
		return nil, err
	}
	k.emitAcknowledged(ctx, key, result)
	return correlation.NewResponse(), nil
}

// SudoError records an error acknowledgement.
func (k Keeper) SudoError(ctx sdk.Context, msg correlation.SudoError) (*correlation.Response, error) {
	key, err := msg.Request.ChannelKey()
	if err != nil {
		return nil, err
	}
	result, err := k.engine.HandleError(ctx, key, msg.Details)
	if err != nil {
		return nil, err
	}
	k.emitAcknowledged(ctx, key, result)
	return correlation.NewResponse(), nil
}

// SudoTimeout records a timed out packet. The host closes the ordered ICA
// channel on timeout; the account has to be registered again afterwards.
func (k Keeper) SudoTimeout(ctx sdk.Context, msg correlation.SudoTimeout) (*correlation.Response, error) {
	key, err := msg.Request.ChannelKey()
	if err != nil {
		return nil, err
	}
	result, err := k.engine.HandleTimeout(ctx, key)
	if err != nil {
		return nil, err
	}
	k.emitAcknowledged(ctx, key, result)
	return correlation.NewResponse(), nil
}

func (k Keeper) emitAcknowledged(ctx sdk.Context, key correlation.TransportKey, result *correlation.AcknowledgementResult[types.SudoPayload]) {
	if result == nil {
		return
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTxAcknowledged,
			sdk.NewAttribute(types.AttributeKeyPortID, result.Payload.PortID),
			sdk.NewAttribute(types.AttributeKeyChannelID, key.Source),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", key.Sequence)),
			sdk.NewAttribute(types.AttributeKeyKind, string(result.Kind)),
			sdk.NewAttribute(types.AttributeKeyMsgType, result.Payload.Message),
		),
	)
}

var (
	delegateResponseURL   = sdk.MsgTypeURL(&stakingtypes.MsgDelegateResponse{})
	undelegateResponseURL = sdk.MsgTypeURL(&stakingtypes.MsgUndelegateResponse{})
	delegateMsgURL        = sdk.MsgTypeURL(&stakingtypes.MsgDelegate{})
	undelegateMsgURL      = sdk.MsgTypeURL(&stakingtypes.MsgUndelegate{})
)

func parseMsgResponse(typeURL string, value []byte) (string, error) {
	switch typeURL {
	case delegateResponseURL:
		return "delegate", nil
	case undelegateResponseURL:
		return decodeUndelegateResponse(value)
	default:
		return "", fmt.Errorf("unexpected message response type %s", typeURL)
	}
}

func parseLegacyMsgData(msgType string, value []byte) (string, error) {
	switch msgType {
	case delegateMsgURL:
		return "delegate", nil
	case undelegateMsgURL:
		return decodeUndelegateResponse(value)
	default:
		return "", fmt.Errorf("unexpected message type %s", msgType)
	}
}

func decodeUndelegateResponse(value []byte) (string, error) {
	var resp stakingtypes.MsgUndelegateResponse
	if err := proto.Unmarshal(value, &resp); err != nil {
		return "", fmt.Errorf("cannot decode undelegate response: %w", err)
	}
	return "undelegate:" + resp.CompletionTime.UTC().Format(time.RFC3339), nil
}
