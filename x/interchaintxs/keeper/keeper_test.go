package keeper_test

import (
	"encoding/json"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
	icacontrollertypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/controller/types"
	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/neutron-org/neutron-sdk-sub001/testutil/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

const (
	testAccountID  = "staking"
	testConnection = "connection-0"
	testICAAddress = "cosmos1icahostaddress"
	testValidator  = "cosmosvaloper1validator"
	testChannel    = "channel-3"
)

func counterpartyVersion(t *testing.T, address string) string {
	md := icatypes.Metadata{
		Version:                icatypes.Version,
		ControllerConnectionId: testConnection,
		HostConnectionId:       "connection-1",
		Address:                address,
		Encoding:               icatypes.EncodingProtobuf,
		TxType:                 icatypes.TxTypeSDKMultiMsg,
	}
	bz, err := icatypes.ModuleCdc.MarshalJSON(&md)
	require.NoError(t, err)
	return string(bz)
}

func openAccount(t *testing.T, k *keeper.Keeper, ctx sdk.Context) string {
	return openAccountOn(t, k, ctx, testChannel)
}

func openAccountOn(t *testing.T, k *keeper.Keeper, ctx sdk.Context, channelID string) string {
	portID, err := types.PortIDFor(k.Owner(), testAccountID)
	require.NoError(t, err)

	_, err = k.Sudo(ctx, correlation.SudoOpenAck{
		PortID:                portID,
		ChannelID:             channelID,
		CounterpartyChannelID: "channel-9",
		CounterpartyVersion:   counterpartyVersion(t, testICAAddress),
	})
	require.NoError(t, err)
	return portID
}

func icaPacket(portID, channelID string, sequence uint64) correlation.RequestPacket {
	return correlation.RequestPacket{SourcePort: portID, SourceChannel: channelID, Sequence: sequence}
}

func txMsgData(t *testing.T, msgs ...proto.Message) []byte {
	data := sdk.TxMsgData{}
	for _, msg := range msgs {
		anyMsg, err := codectypes.NewAnyWithValue(msg)
		require.NoError(t, err)
		data.MsgResponses = append(data.MsgResponses, anyMsg)
	}
	bz, err := proto.Marshal(&data)
	require.NoError(t, err)
	return bz
}

func sendTxReply(t *testing.T, id, sequence uint64) correlation.Reply {
	return correlation.Reply{ID: id, Data: txMsgData(t, &icacontrollertypes.MsgSendTxResponse{Sequence: sequence})}
}

func delegate(t *testing.T, k *keeper.Keeper, ctx sdk.Context, amount int64) correlation.SubMsg {
	resp, err := k.Execute(ctx, "sender", nil, types.MsgDelegate{
		InterchainAccountID: testAccountID,
		Validator:           testValidator,
		Amount:              sdkmath.NewInt(amount),
		Denom:               "uatom",
	})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	return resp.Messages[0]
}

func TestRegister(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)

	resp, err := k.Execute(ctx, "sender", nil, types.MsgRegister{
		ConnectionID:        testConnection,
		InterchainAccountID: testAccountID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)

	subMsg := resp.Messages[0]
	require.Equal(t, correlation.ReplyNever, subMsg.ReplyOn)
	require.Equal(t, sdk.MsgTypeURL(&icacontrollertypes.MsgRegisterInterchainAccount{}), subMsg.Msg.TypeUrl)

	var register icacontrollertypes.MsgRegisterInterchainAccount
	require.NoError(t, proto.Unmarshal(subMsg.Msg.Value, &register))
	require.Equal(t, types.AccountOwner(k.Owner(), testAccountID), register.Owner)
	require.Equal(t, testConnection, register.ConnectionId)
	require.True(t, keepertest.HasEvent(ctx, types.EventTypeRegisterAccount))
}

func TestOpenAck(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	account, err := k.GetAccount(ctx, testAccountID)
	require.NoError(t, err)
	require.Equal(t, portID, account.PortID)
	require.Equal(t, testConnection, account.ConnectionID)
	require.Equal(t, testChannel, account.ChannelID)
	require.Equal(t, "channel-9", account.CounterpartyChannelID)
	require.Equal(t, testICAAddress, account.Address)

	addr, err := k.InterchainAccountAddress(ctx, types.QueryInterchainAccountAddress{
		InterchainAccountID: testAccountID,
		ConnectionID:        testConnection,
	})
	require.NoError(t, err)
	require.Equal(t, testICAAddress, addr.InterchainAccountAddress)

	_, err = k.Sudo(ctx, correlation.SudoOpenAck{PortID: "icacontroller-someone-else.x", CounterpartyVersion: counterpartyVersion(t, "addr")})
	require.ErrorIs(t, err, types.ErrInvalidPortID)

	_, err = k.Sudo(ctx, correlation.SudoOpenAck{PortID: portID, CounterpartyVersion: "not json"})
	require.ErrorIs(t, err, types.ErrInvalidAccountMetadata)

	_, err = k.Sudo(ctx, correlation.SudoOpenAck{PortID: portID, CounterpartyVersion: counterpartyVersion(t, "")})
	require.ErrorIs(t, err, types.ErrInvalidAccountMetadata)
}

func TestDelegate_FullCycle(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	subMsg := delegate(t, k, ctx, 1000)
	require.Equal(t, types.ReplyRange.Start, subMsg.ID)
	require.Equal(t, correlation.ReplyOnSuccess, subMsg.ReplyOn)
	require.Equal(t, sdk.MsgTypeURL(&icacontrollertypes.MsgSendTx{}), subMsg.Msg.TypeUrl)

	var sendTx icacontrollertypes.MsgSendTx
	require.NoError(t, proto.Unmarshal(subMsg.Msg.Value, &sendTx))
	require.Equal(t, types.AccountOwner(k.Owner(), testAccountID), sendTx.Owner)
	require.Equal(t, testConnection, sendTx.ConnectionId)
	require.Equal(t, uint64(types.DefaultTimeoutSeconds)*uint64(time.Second), sendTx.RelativeTimeout)

	msgs, err := icatypes.DeserializeCosmosTx(keepertest.ProtoCodec(), sendTx.PacketData.Data, icatypes.EncodingProtobuf)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	delegation, ok := msgs[0].(*stakingtypes.MsgDelegate)
	require.True(t, ok)
	require.Equal(t, testICAAddress, delegation.DelegatorAddress)
	require.Equal(t, testValidator, delegation.ValidatorAddress)
	require.Equal(t, "1000uatom", delegation.Amount.String())

	_, err = k.Reply(ctx, sendTxReply(t, subMsg.ID, 7))
	require.NoError(t, err)

	payload, found, err := k.Engine().Pending().GetByTransportKey(ctx, correlation.NewTransportKey(testChannel, 7))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, types.SudoPayload{PortID: portID, ChannelID: testChannel, Message: "delegate"}, payload)

	_, err = k.Sudo(ctx, correlation.SudoResponse{
		Request: icaPacket(portID, testChannel, 7),
		Data:    txMsgData(t, &stakingtypes.MsgDelegateResponse{}),
	})
	require.NoError(t, err)
	require.True(t, keepertest.HasEvent(ctx, types.EventTypeTxAcknowledged))

	result, err := k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{InterchainAccountID: testAccountID, SequenceID: 7})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, correlation.ResultSuccess, result.Kind)
	require.Equal(t, []string{"delegate"}, result.Items)
	require.Equal(t, "delegate", result.Payload.Message)

	_, found, err = k.Engine().Pending().GetByTransportKey(ctx, correlation.NewTransportKey(testChannel, 7))
	require.NoError(t, err)
	require.False(t, found)

	_, err = k.Sudo(ctx, correlation.SudoTimeout{Request: icaPacket(portID, testChannel, 7)})
	require.ErrorIs(t, err, correlation.ErrResultRecorded)
}

func TestUndelegate_ResponseItems(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	resp, err := k.Execute(ctx, "sender", nil, types.MsgUndelegate{
		InterchainAccountID: testAccountID,
		Validator:           testValidator,
		Amount:              sdkmath.NewInt(50),
		Denom:               "uatom",
		TimeoutSeconds:      60,
	})
	require.NoError(t, err)

	var sendTx icacontrollertypes.MsgSendTx
	require.NoError(t, proto.Unmarshal(resp.Messages[0].Msg.Value, &sendTx))
	require.Equal(t, uint64(60*time.Second), sendTx.RelativeTimeout)

	_, err = k.Reply(ctx, sendTxReply(t, resp.Messages[0].ID, 1))
	require.NoError(t, err)

	completion := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
	_, err = k.Sudo(ctx, correlation.SudoResponse{
		Request: icaPacket(portID, testChannel, 1),
		Data: txMsgData(t,
			&stakingtypes.MsgUndelegateResponse{CompletionTime: completion},
			&stakingtypes.MsgBeginRedelegateResponse{},
		),
	})
	require.NoError(t, err)

	result, err := k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{InterchainAccountID: testAccountID, SequenceID: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"undelegate:2024-01-22T00:00:00Z"}, result.Items)

	errs, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Message, "MsgBeginRedelegateResponse")
}

func TestSudo_ErrorAndTimeout(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	first := delegate(t, k, ctx, 1)
	second := delegate(t, k, ctx, 2)
	require.Equal(t, first.ID+1, second.ID)

	_, err := k.Reply(ctx, sendTxReply(t, first.ID, 1))
	require.NoError(t, err)
	_, err = k.Reply(ctx, sendTxReply(t, second.ID, 2))
	require.NoError(t, err)

	_, err = k.Sudo(ctx, correlation.SudoError{
		Request: icaPacket(portID, testChannel, 1),
		Details: "out of gas",
	})
	require.NoError(t, err)
	_, err = k.Sudo(ctx, correlation.SudoTimeout{Request: icaPacket(portID, testChannel, 2)})
	require.NoError(t, err)

	errResult, err := k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{InterchainAccountID: testAccountID, SequenceID: 1})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultError, errResult.Kind)
	require.Equal(t, "out of gas", errResult.Details)

	timeoutResult, err := k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{InterchainAccountID: testAccountID, SequenceID: 2})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultTimeout, timeoutResult.Kind)
}

func TestSudo_ReopenedChannelRestartsSequences(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	first := delegate(t, k, ctx, 1)
	_, err := k.Reply(ctx, sendTxReply(t, first.ID, 1))
	require.NoError(t, err)
	_, err = k.Sudo(ctx, correlation.SudoTimeout{Request: icaPacket(portID, testChannel, 1)})
	require.NoError(t, err)

	// the timeout closed the ordered channel; the account comes back on a new one
	openAccountOn(t, k, ctx, "channel-4")
	second := delegate(t, k, ctx, 2)
	_, err = k.Reply(ctx, sendTxReply(t, second.ID, 1))
	require.NoError(t, err)
	_, err = k.Sudo(ctx, correlation.SudoResponse{
		Request: icaPacket(portID, "channel-4", 1),
		Data:    txMsgData(t, &stakingtypes.MsgDelegateResponse{}),
	})
	require.NoError(t, err)

	current, err := k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{InterchainAccountID: testAccountID, SequenceID: 1})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultSuccess, current.Kind)
	require.Equal(t, "channel-4", current.Payload.ChannelID)

	previous, err := k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{
		InterchainAccountID: testAccountID,
		ChannelID:           testChannel,
		SequenceID:          1,
	})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultTimeout, previous.Kind)
	require.Equal(t, testChannel, previous.Payload.ChannelID)

	_, err = k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{
		InterchainAccountID: "other",
		ChannelID:           "channel-4",
		SequenceID:          1,
	})
	require.Error(t, err)

	errs, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Empty(t, errs)
}

func TestSudo_UnknownPacketIsRecoverable(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	_, err := k.Sudo(ctx, correlation.SudoTimeout{Request: icaPacket(portID, testChannel, 42)})
	require.NoError(t, err)

	errs, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, errs, 1)

	result, err := k.AcknowledgementResult(ctx, types.QueryAcknowledgementResult{InterchainAccountID: testAccountID, SequenceID: 42})
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestSudo_FatalErrors(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	_, err := k.Sudo(ctx, correlation.SudoResponse{Request: correlation.RequestPacket{SourcePort: portID}})
	require.ErrorIs(t, err, correlation.ErrMissingPacketField)

	_, err = k.Sudo(ctx, correlation.SudoTimeout{Request: correlation.RequestPacket{SourcePort: portID, Sequence: 1}})
	require.ErrorIs(t, err, correlation.ErrMissingPacketField)

	_, err = k.Sudo(ctx, correlation.SudoError{Request: correlation.RequestPacket{Sequence: 1}})
	require.ErrorIs(t, err, correlation.ErrMissingPacketField)

	_, err = k.Sudo(ctx, correlation.SudoResponse{
		Request: icaPacket(portID, testChannel, 1),
		Data:    []byte{0xff, 0xff},
	})
	require.ErrorIs(t, err, correlation.ErrInvalidAck)

	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 1})
	require.ErrorIs(t, err, correlation.ErrInvalidSudoMsg)
}

func TestReply_Errors(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	openAccount(t, k, ctx)

	_, err := k.Reply(ctx, sendTxReply(t, types.ReplyRange.End+1, 1))
	require.ErrorIs(t, err, correlation.ErrUnsupportedReplyID)

	_, err = k.Reply(ctx, sendTxReply(t, types.ReplyRange.Start, 1))
	require.ErrorIs(t, err, correlation.ErrPayloadNotFound)

	subMsg := delegate(t, k, ctx, 1)
	_, err = k.Reply(ctx, correlation.Reply{ID: subMsg.ID, Data: txMsgData(t, &stakingtypes.MsgDelegateResponse{})})
	require.ErrorIs(t, err, correlation.ErrInvalidReplyData)

	failed := delegate(t, k, ctx, 2)
	resp, err := k.Reply(ctx, correlation.Reply{ID: failed.ID, Error: "channel closed"})
	require.NoError(t, err)
	require.Empty(t, resp.Messages)

	errs, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Message, "channel closed")
}

func TestDelegate_AccountNotFound(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)

	_, err := k.Execute(ctx, "sender", nil, types.MsgDelegate{
		InterchainAccountID: testAccountID,
		Validator:           testValidator,
		Amount:              sdkmath.NewInt(1),
		Denom:               "uatom",
	})
	require.ErrorIs(t, err, types.ErrInterchainAccountNotFound)

	_, err = k.Execute(ctx, "sender", nil, types.MsgDelegate{InterchainAccountID: testAccountID})
	require.ErrorIs(t, err, types.ErrInvalidDelegation)
}

func TestCleanErrors(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	k.Engine().LogRecoverable(ctx, "test", correlation.SeverityLow, types.ErrInvalidParams)

	_, err := k.Execute(ctx, "sender", nil, types.MsgCleanErrors{})
	require.ErrorIs(t, err, govtypes.ErrInvalidSigner)

	_, err = k.Execute(ctx, k.GetAuthority(), nil, types.MsgCleanErrors{})
	require.NoError(t, err)
	require.True(t, keepertest.HasEvent(ctx, types.EventTypeErrorQueueCleared))

	errs, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Empty(t, errs)
}

func TestUpdateParams(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	params := types.Params{ErrorQueueCapacity: 2, DefaultTimeoutSeconds: 120}

	require.ErrorIs(t, k.UpdateParams(ctx, "sender", params), govtypes.ErrInvalidSigner)
	require.ErrorIs(t, k.UpdateParams(ctx, sharedkeeper.DefaultAuthority(), types.Params{}), types.ErrInvalidParams)
	require.NoError(t, k.UpdateParams(ctx, sharedkeeper.DefaultAuthority(), params))
	require.Equal(t, params, k.GetParams(ctx))

	for i := 0; i < 3; i++ {
		k.Engine().LogRecoverable(ctx, "test", correlation.SeverityLow, types.ErrInvalidParams)
	}
	errs, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, errs, 2)
}

func TestQueryJSON(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	openAccount(t, k, ctx)

	bz, err := k.QueryJSON(ctx, []byte(`{"interchain_account_address":{"interchain_account_id":"staking","connection_id":"connection-0"}}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"interchain_account_address":"cosmos1icahostaddress"}`, string(bz))

	bz, err = k.QueryJSON(ctx, []byte(`{"params":{}}`))
	require.NoError(t, err)
	var params types.Params
	require.NoError(t, json.Unmarshal(bz, &params))
	require.Equal(t, types.DefaultParams(), params)

	bz, err = k.QueryJSON(ctx, []byte(`{"acknowledgement_result":{"interchain_account_id":"staking","sequence_id":3}}`))
	require.NoError(t, err)
	require.Equal(t, "null", string(bz))

	_, err = k.QueryJSON(ctx, []byte(`{"acknowledgement_result":{"interchain_account_id":"staking"}}`))
	require.Error(t, err)

	_, err = k.QueryJSON(ctx, []byte(`{}`))
	require.Error(t, err)

	_, err = k.QueryJSON(ctx, []byte(`{"interchain_account_address":{"interchain_account_id":"missing"}}`))
	require.ErrorIs(t, err, types.ErrInterchainAccountNotFound)
}

func TestGenesis_RoundTrip(t *testing.T) {
	k, ctx := keepertest.InterchainTxsKeeper(t)
	portID := openAccount(t, k, ctx)

	sent := delegate(t, k, ctx, 10)
	delegate(t, k, ctx, 20)
	_, err := k.Reply(ctx, sendTxReply(t, sent.ID, 1))
	require.NoError(t, err)

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Len(t, exported.Accounts, 1)
	require.Len(t, exported.Engine.Pending, 1)
	require.Len(t, exported.Engine.InFlight, 1)
	require.NoError(t, exported.Validate())

	restored, restoredCtx := keepertest.InterchainTxsKeeper(t)
	require.NoError(t, restored.InitGenesis(restoredCtx, *exported))

	again, err := restored.ExportGenesis(restoredCtx)
	require.NoError(t, err)
	require.Equal(t, exported, again)

	_, err = restored.Sudo(restoredCtx, correlation.SudoResponse{
		Request: icaPacket(portID, testChannel, 1),
		Data:    txMsgData(t, &stakingtypes.MsgDelegateResponse{}),
	})
	require.NoError(t, err)

	next := delegate(t, restored, restoredCtx, 30)
	require.Equal(t, sent.ID+2, next.ID)
}
