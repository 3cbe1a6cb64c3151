package keeper_test

import (
	"bytes"
	"testing"

	sdkmath "cosmossdk.io/math"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/neutron-org/neutron-sdk-sub001/testutil/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

const testConnection = "connection-0"

func bech32Addr(t *testing.T, prefix string, fill byte) string {
	addr, err := bech32.ConvertAndEncode(prefix, bytes.Repeat([]byte{fill}, 20))
	require.NoError(t, err)
	return addr
}

func registerReply(t *testing.T, id, queryID uint64) correlation.Reply {
	bz, err := proto.Marshal(&sdk.TxMsgData{MsgResponses: []*codectypes.Any{{
		TypeUrl: types.RegisterQueryResponseTypeURL,
		Value:   types.MarshalRegisterQueryResponse(queryID),
	}}})
	require.NoError(t, err)
	return correlation.Reply{ID: id, Data: bz}
}

func execute(t *testing.T, k *keeper.Keeper, ctx sdk.Context, msg types.ExecuteMsg) correlation.SubMsg {
	resp, err := k.Execute(ctx, "sender", nil, msg)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	return resp.Messages[0]
}

// registerBalance registers and confirms a balance query under queryID.
func registerBalance(t *testing.T, k *keeper.Keeper, ctx sdk.Context, addr string, queryID uint64) {
	subMsg := execute(t, k, ctx, types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "uatom"})
	_, err := k.Reply(ctx, registerReply(t, subMsg.ID, queryID))
	require.NoError(t, err)
}

func balanceResult(t *testing.T, addr string, value []byte) *types.QueryResult {
	key, err := types.BalanceKey(addr, "uatom")
	require.NoError(t, err)
	return &types.QueryResult{
		KvResults: []types.StorageValue{{StoragePrefix: types.BankStoreKey, Key: key, Value: value}},
		Height:    55,
	}
}

func requireCode(t *testing.T, err error, code codes.Code) {
	require.Error(t, err)
	require.Equal(t, code, status.Code(err))
}

func TestRegisterBalanceQuery(t *testing.T) {
	k, host, ctx := keepertest.InterchainQueriesKeeper(t)
	addr := bech32Addr(t, "cosmos", 1)

	subMsg := execute(t, k, ctx, types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "uatom"})
	require.Equal(t, types.ReplyRange.Start, subMsg.ID)
	require.Equal(t, correlation.ReplyOnSuccess, subMsg.ReplyOn)
	require.Equal(t, types.RegisterQueryTypeURL, subMsg.Msg.TypeUrl)

	registered, err := types.UnmarshalRegisterQuery(subMsg.Msg.Value)
	require.NoError(t, err)
	require.Equal(t, types.QueryTypeKV, registered.QueryType)
	require.Equal(t, keepertest.ContractOwner, registered.Sender)
	require.Equal(t, types.DefaultUpdatePeriod, registered.UpdatePeriod)
	require.Equal(t, testConnection, registered.ConnectionID)
	require.Len(t, registered.Keys, 1)
	require.Equal(t, types.BankStoreKey, registered.Keys[0].Path)
	require.True(t, keepertest.HasEvent(ctx, types.EventTypeRegisterQuery))

	_, err = k.Reply(ctx, registerReply(t, subMsg.ID, 7))
	require.NoError(t, err)

	idResp, err := k.RegisteredQueryID(ctx, types.QueryRegisteredQueryID{
		ZoneID:    testConnection,
		QueryType: types.QueryTypeKV,
		QueryData: types.KVQueryData(registered.Keys),
	})
	require.NoError(t, err)
	require.Equal(t, uint64(7), idResp.QueryID)

	host.Results[7] = balanceResult(t, addr, []byte("1500"))
	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)
	require.True(t, keepertest.HasEvent(ctx, types.EventTypeKVResult))

	balances, err := k.Balance(ctx, types.QueryBalance{QueryID: 7})
	require.NoError(t, err)
	require.Equal(t, uint64(55), balances.Height)
	require.Equal(t, "1500uatom", balances.Coins.String())

	// a zero balance is stored as an absent value
	host.Results[7] = balanceResult(t, addr, nil)
	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)
	balances, err = k.Balance(ctx, types.QueryBalance{QueryID: 7})
	require.NoError(t, err)
	require.True(t, balances.Coins.IsZero())
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	k, _, ctx := keepertest.InterchainQueriesKeeper(t)
	addr := bech32Addr(t, "cosmos", 1)
	msg := types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "uatom"}

	first := execute(t, k, ctx, msg)
	second := execute(t, k, ctx, msg)
	require.Equal(t, first.ID+1, second.ID)

	_, err := k.Reply(ctx, registerReply(t, first.ID, 1))
	require.NoError(t, err)
	_, err = k.Reply(ctx, registerReply(t, second.ID, 2))
	require.ErrorIs(t, err, types.ErrQueryAlreadyRegistered)

	_, err = k.Execute(ctx, "sender", nil, msg)
	require.ErrorIs(t, err, types.ErrQueryAlreadyRegistered)

	// another denom is another identity
	execute(t, k, ctx, types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "untrn"})
}

func TestReply_Errors(t *testing.T) {
	k, _, ctx := keepertest.InterchainQueriesKeeper(t)
	addr := bech32Addr(t, "cosmos", 1)

	subMsg := execute(t, k, ctx, types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "uatom"})
	_, err := k.Reply(ctx, correlation.Reply{ID: subMsg.ID, Data: []byte{0xff}})
	require.ErrorIs(t, err, correlation.ErrInvalidReplyData)

	subMsg = execute(t, k, ctx, types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "uosmo"})
	resp, err := k.Reply(ctx, correlation.Reply{ID: subMsg.ID, Error: "out of gas"})
	require.NoError(t, err)
	require.Empty(t, resp.Messages)

	entries, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = k.Reply(ctx, registerReply(t, 1, 1))
	require.ErrorIs(t, err, correlation.ErrUnsupportedReplyID)
}

func TestDelegationsQuery(t *testing.T) {
	k, host, ctx := keepertest.InterchainQueriesKeeper(t)
	delegator := bech32Addr(t, "cosmos", 1)
	validators := []string{bech32Addr(t, "cosmosvaloper", 2), bech32Addr(t, "cosmosvaloper", 3)}

	subMsg := execute(t, k, ctx, types.MsgRegisterDelegatorDelegationsQuery{
		ConnectionID: testConnection,
		Delegator:    delegator,
		Validators:   validators,
		UpdatePeriod: 5,
	})
	registered, err := types.UnmarshalRegisterQuery(subMsg.Msg.Value)
	require.NoError(t, err)
	require.Equal(t, uint64(5), registered.UpdatePeriod)
	require.Len(t, registered.Keys, 4)
	_, err = k.Reply(ctx, registerReply(t, subMsg.ID, 4))
	require.NoError(t, err)

	delegation, err := proto.Marshal(&stakingtypes.Delegation{
		DelegatorAddress: delegator,
		ValidatorAddress: validators[0],
		Shares:           sdkmath.LegacyNewDec(100),
	})
	require.NoError(t, err)
	validator, err := proto.Marshal(&stakingtypes.Validator{
		OperatorAddress:   validators[0],
		Tokens:            sdkmath.NewInt(200),
		DelegatorShares:   sdkmath.LegacyNewDec(100),
		MinSelfDelegation: sdkmath.OneInt(),
		Commission:        stakingtypes.NewCommission(sdkmath.LegacyZeroDec(), sdkmath.LegacyZeroDec(), sdkmath.LegacyZeroDec()),
	})
	require.NoError(t, err)

	kv := make([]types.StorageValue, len(registered.Keys))
	for i, key := range registered.Keys {
		kv[i] = types.StorageValue{StoragePrefix: key.Path, Key: key.Key}
	}
	kv[0].Value = delegation
	kv[1].Value = validator
	host.Results[4] = &types.QueryResult{KvResults: kv, Height: 80}

	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 4})
	require.NoError(t, err)

	result, err := k.DelegationsResult(ctx, types.QueryDelegations{QueryID: 4})
	require.NoError(t, err)
	require.Equal(t, uint64(80), result.Height)
	require.Len(t, result.Delegations, 1)
	require.Equal(t, validators[0], result.Delegations[0].Validator)
	require.Equal(t, sdkmath.NewInt(200), result.Delegations[0].Amount)
}

func TestKVQueryResult_Recoverable(t *testing.T) {
	k, host, ctx := keepertest.InterchainQueriesKeeper(t)
	addr := bech32Addr(t, "cosmos", 1)
	registerBalance(t, k, ctx, addr, 7)

	// unknown query
	_, err := k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 99})
	require.NoError(t, err)

	// no result on the host
	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)

	// result for other keys
	host.Results[7] = balanceResult(t, bech32Addr(t, "cosmos", 2), []byte("1"))
	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)

	// undecodable value
	host.Results[7] = balanceResult(t, addr, []byte("not a number"))
	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)

	entries, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	_, err = k.Balance(ctx, types.QueryBalance{QueryID: 7})
	requireCode(t, err, codes.NotFound)
}

func TestKVQueryResult_LegacyCoinValue(t *testing.T) {
	k, host, ctx := keepertest.InterchainQueriesKeeper(t)
	addr := bech32Addr(t, "cosmos", 1)
	registerBalance(t, k, ctx, addr, 7)

	coin := sdk.NewInt64Coin("uatom", 42)
	value, err := proto.Marshal(&coin)
	require.NoError(t, err)
	host.Results[7] = balanceResult(t, addr, value)

	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)
	balances, err := k.Balance(ctx, types.QueryBalance{QueryID: 7})
	require.NoError(t, err)
	require.Equal(t, "42uatom", balances.Coins.String())
}

func sendTx(t *testing.T, sends ...*banktypes.MsgSend) []byte {
	body := &txtypes.TxBody{Memo: "test"}
	for _, send := range sends {
		anyMsg, err := codectypes.NewAnyWithValue(send)
		require.NoError(t, err)
		body.Messages = append(body.Messages, anyMsg)
	}
	bz, err := proto.Marshal(&txtypes.Tx{Body: body})
	require.NoError(t, err)
	return bz
}

func TestTransfersQuery(t *testing.T) {
	k, _, ctx := keepertest.InterchainQueriesKeeper(t)
	recipient := bech32Addr(t, "cosmos", 1)
	sender := bech32Addr(t, "cosmos", 2)

	subMsg := execute(t, k, ctx, types.MsgRegisterTransfersQuery{ConnectionID: testConnection, Recipient: recipient, MinHeight: 10})
	registered, err := types.UnmarshalRegisterQuery(subMsg.Msg.Value)
	require.NoError(t, err)
	require.Equal(t, types.QueryTypeTX, registered.QueryType)
	require.Contains(t, registered.TransactionsFilter, recipient)
	_, err = k.Reply(ctx, registerReply(t, subMsg.ID, 3))
	require.NoError(t, err)

	matching := sendTx(t,
		&banktypes.MsgSend{FromAddress: sender, ToAddress: recipient, Amount: sdk.NewCoins(sdk.NewInt64Coin("uatom", 5), sdk.NewInt64Coin("uosmo", 6))},
		&banktypes.MsgSend{FromAddress: sender, ToAddress: sender, Amount: sdk.NewCoins(sdk.NewInt64Coin("uatom", 9))},
	)

	// below the minimum height
	_, err = k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: 3, Height: correlation.RequestPacketHeight{RevisionHeight: 5}, Data: matching})
	require.NoError(t, err)
	entries, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: 3, Height: correlation.RequestPacketHeight{RevisionHeight: 12}, Data: matching})
	require.NoError(t, err)
	require.True(t, keepertest.HasEvent(ctx, types.EventTypeTxResult))

	transfers, err := k.RecipientTransfers(ctx, types.QueryRecipientTransfers{Recipient: recipient})
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	require.Equal(t, sender, transfers[0].Sender)
	require.Equal(t, uint64(12), transfers[0].Height)
	require.NotEmpty(t, transfers[0].TxHash)

	// the same tx again is ignored
	_, err = k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: 3, Height: correlation.RequestPacketHeight{RevisionHeight: 12}, Data: matching})
	require.NoError(t, err)
	transfers, err = k.RecipientTransfers(ctx, types.QueryRecipientTransfers{Recipient: recipient})
	require.NoError(t, err)
	require.Len(t, transfers, 2)

	unrelated := sendTx(t, &banktypes.MsgSend{FromAddress: sender, ToAddress: sender, Amount: sdk.NewCoins(sdk.NewInt64Coin("uatom", 1))})
	_, err = k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: 3, Height: correlation.RequestPacketHeight{RevisionHeight: 13}, Data: unrelated})
	require.ErrorIs(t, err, types.ErrInvalidQueryResult)

	_, err = k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: 3, Height: correlation.RequestPacketHeight{RevisionHeight: 13}, Data: []byte{0xff, 0x01}})
	require.ErrorIs(t, err, types.ErrInvalidQueryResult)

	// a KV result for a TX query is skipped
	_, err = k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 3})
	require.NoError(t, err)
	entries, err = k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	none, err := k.RecipientTransfers(ctx, types.QueryRecipientTransfers{Recipient: sender})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTransfersQuery_OneTxManyRecipients(t *testing.T) {
	k, _, ctx := keepertest.InterchainQueriesKeeper(t)
	first := bech32Addr(t, "cosmos", 1)
	second := bech32Addr(t, "cosmos", 2)
	sender := bech32Addr(t, "cosmos", 3)

	for queryID, recipient := range map[uint64]string{3: first, 4: second} {
		subMsg := execute(t, k, ctx, types.MsgRegisterTransfersQuery{ConnectionID: testConnection, Recipient: recipient})
		_, err := k.Reply(ctx, registerReply(t, subMsg.ID, queryID))
		require.NoError(t, err)
	}

	data := sendTx(t,
		&banktypes.MsgSend{FromAddress: sender, ToAddress: first, Amount: sdk.NewCoins(sdk.NewInt64Coin("uatom", 1))},
		&banktypes.MsgSend{FromAddress: sender, ToAddress: second, Amount: sdk.NewCoins(sdk.NewInt64Coin("uatom", 2))},
	)
	for _, queryID := range []uint64{3, 4} {
		_, err := k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: queryID, Height: correlation.RequestPacketHeight{RevisionHeight: 1}, Data: data})
		require.NoError(t, err)
	}

	transfers, err := k.RecipientTransfers(ctx, types.QueryRecipientTransfers{Recipient: first})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, "1", transfers[0].Amount.String())

	transfers, err = k.RecipientTransfers(ctx, types.QueryRecipientTransfers{Recipient: second})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, "2", transfers[0].Amount.String())

	// redelivery to either query is still deduplicated
	_, err = k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: 4, Height: correlation.RequestPacketHeight{RevisionHeight: 1}, Data: data})
	require.NoError(t, err)
	transfers, err = k.RecipientTransfers(ctx, types.QueryRecipientTransfers{Recipient: second})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
}

func TestRemoveQuery(t *testing.T) {
	k, host, ctx := keepertest.InterchainQueriesKeeper(t)
	addr := bech32Addr(t, "cosmos", 1)
	registerBalance(t, k, ctx, addr, 7)
	host.Results[7] = balanceResult(t, addr, []byte("10"))
	_, err := k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)

	subMsg := execute(t, k, ctx, types.MsgRemoveQuery{QueryID: 7})
	require.Equal(t, types.RemoveQueryTypeURL, subMsg.Msg.TypeUrl)
	require.Equal(t, correlation.ReplyNever, subMsg.ReplyOn)
	require.True(t, keepertest.HasEvent(ctx, types.EventTypeQueryRemoved))

	_, err = k.Balance(ctx, types.QueryBalance{QueryID: 7})
	requireCode(t, err, codes.NotFound)

	result, err := k.Engine().Results().Get(ctx, correlation.NewTransportKey("", 7))
	require.NoError(t, err)
	require.Equal(t, correlation.ResultSuccess, result.Kind)
	require.Equal(t, []string{"removed"}, result.Items)

	_, err = k.Execute(ctx, "sender", nil, types.MsgRemoveQuery{QueryID: 7})
	require.ErrorIs(t, err, types.ErrQueryNotFound)

	// the identity can be registered again
	execute(t, k, ctx, types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "uatom"})
}

func TestCleanErrors(t *testing.T) {
	k, _, ctx := keepertest.InterchainQueriesKeeper(t)
	_, err := k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 1})
	require.NoError(t, err)

	_, err = k.Execute(ctx, "sender", nil, types.MsgCleanErrors{})
	require.ErrorIs(t, err, govtypes.ErrInvalidSigner)

	resp, err := k.Execute(ctx, sharedkeeper.DefaultAuthority(), nil, types.MsgCleanErrors{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Attributes)

	entries, err := k.ErrorsQueue(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = k.Sudo(ctx, correlation.SudoTimeout{})
	require.ErrorIs(t, err, correlation.ErrInvalidSudoMsg)
}

func TestQueryJSON(t *testing.T) {
	k, _, ctx := keepertest.InterchainQueriesKeeper(t)

	bz, err := k.QueryJSON(ctx, []byte(`{"params":{}}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"error_queue_capacity":1000,"default_update_period":10}`, string(bz))

	_, err = k.QueryJSON(ctx, []byte(`{"registered_query_id":{"zone_id":"connection-0","query_type":"kv","query_data":"x"}}`))
	requireCode(t, err, codes.NotFound)

	_, err = k.QueryJSON(ctx, []byte(`{"registered_query_id":{"zone_id":"connection-0","query_type":"bogus"}}`))
	requireCode(t, err, codes.InvalidArgument)

	_, err = k.QueryJSON(ctx, []byte(`{}`))
	requireCode(t, err, codes.InvalidArgument)
}

func TestGenesis_RoundTrip(t *testing.T) {
	k, host, ctx := keepertest.InterchainQueriesKeeper(t)
	addr := bech32Addr(t, "cosmos", 1)
	registerBalance(t, k, ctx, addr, 7)
	host.Results[7] = balanceResult(t, addr, []byte("10"))
	_, err := k.Sudo(ctx, correlation.SudoKVQueryResult{QueryID: 7})
	require.NoError(t, err)

	subMsg := execute(t, k, ctx, types.MsgRegisterTransfersQuery{ConnectionID: testConnection, Recipient: addr})
	_, err = k.Reply(ctx, registerReply(t, subMsg.ID, 8))
	require.NoError(t, err)
	data := sendTx(t, &banktypes.MsgSend{FromAddress: bech32Addr(t, "cosmos", 2), ToAddress: addr, Amount: sdk.NewCoins(sdk.NewInt64Coin("uatom", 3))})
	_, err = k.Sudo(ctx, correlation.SudoTxQueryResult{QueryID: 8, Height: correlation.RequestPacketHeight{RevisionHeight: 1}, Data: data})
	require.NoError(t, err)

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Len(t, exported.Engine.InFlight, 2)
	require.Len(t, exported.Balances, 1)
	require.Len(t, exported.Transfers, 1)
	require.Len(t, exported.ProcessedTxs, 1)
	require.Equal(t, addr, exported.ProcessedTxs[0].Recipient)

	restored, _, restoredCtx := keepertest.InterchainQueriesKeeper(t)
	require.NoError(t, restored.InitGenesis(restoredCtx, *exported))

	_, err = restored.Execute(restoredCtx, "sender", nil, types.MsgRegisterBalanceQuery{ConnectionID: testConnection, Addr: addr, Denom: "uatom"})
	require.ErrorIs(t, err, types.ErrQueryAlreadyRegistered)

	balances, err := restored.Balance(restoredCtx, types.QueryBalance{QueryID: 7})
	require.NoError(t, err)
	require.Equal(t, "10uatom", balances.Coins.String())

	// the processed tx is still deduplicated
	_, err = restored.Sudo(restoredCtx, correlation.SudoTxQueryResult{QueryID: 8, Height: correlation.RequestPacketHeight{RevisionHeight: 1}, Data: data})
	require.NoError(t, err)
	transfers, err := restored.RecipientTransfers(restoredCtx, types.QueryRecipientTransfers{Recipient: addr})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
}
