package keeper_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/neutron-org/neutron-sdk-sub001/testutil/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
	sharedibc "github.com/neutron-org/neutron-sdk-sub001/x/shared/ibc"
	sharedkeeper "github.com/neutron-org/neutron-sdk-sub001/x/shared/keeper"
)

const testChannel = "channel-0"

func openFixture(t *testing.T) *keepertest.BandfeedFixture {
	f := keepertest.BandfeedKeeper(t)
	f.OpenChannel(t, testChannel)
	return f
}

func request(t *testing.T, f *keepertest.BandfeedFixture, symbols ...string) uint64 {
	_, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{Symbols: symbols, Multiplier: 100})
	require.NoError(t, err)
	return f.Channels.NextSeq
}

func sentPacket(sequence uint64) channeltypes.Packet {
	return channeltypes.Packet{SourcePort: types.PortID, SourceChannel: testChannel, Sequence: sequence}
}

func acceptedAck(t *testing.T, requestID uint64) channeltypes.Acknowledgement {
	bz, err := json.Marshal(types.OracleRequestPacketAcknowledgement{RequestID: requestID})
	require.NoError(t, err)
	return channeltypes.NewResultAcknowledgement(bz)
}

func response(requestID uint64, rates ...uint64) types.OracleResponsePacketData {
	return types.OracleResponsePacketData{
		ClientID:      "4000000000",
		RequestID:     requestID,
		AnsCount:      16,
		RequestTime:   1_700_000_000,
		ResolveTime:   1_700_000_010,
		ResolveStatus: types.ResolveStatusSuccess,
		Result:        types.OracleResult{Rates: rates}.EncodeOBI(),
	}
}

func errorCount(t *testing.T, f *keepertest.BandfeedFixture) int {
	entries, err := f.Keeper.Engine().Errors().List(f.Ctx)
	require.NoError(t, err)
	return len(entries)
}

func TestRequest_ChannelNotOpen(t *testing.T) {
	f := keepertest.BandfeedKeeper(t)

	_, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{Symbols: []string{"BTC"}, Multiplier: 100})
	require.ErrorIs(t, err, types.ErrChannelNotOpen)
	require.Empty(t, f.Channels.Sent)
}

func TestRequest_SendsPacket(t *testing.T) {
	f := openFixture(t)

	resp, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{Symbols: []string{"BTC", "ETH"}, Multiplier: 1_000_000})
	require.NoError(t, err)
	require.Empty(t, resp.Messages)
	require.Len(t, f.Channels.Sent, 1)

	sent := f.Channels.Sent[0]
	require.Equal(t, testChannel, sent.Channel)
	require.True(t, sent.TimeoutHeight.IsZero())
	want := f.Ctx.BlockTime().Add(time.Duration(types.DefaultTimeoutSeconds) * time.Second)
	require.Equal(t, uint64(want.UnixNano()), sent.TimeoutTimestamp)

	var packet types.OracleRequestPacketData
	require.NoError(t, json.Unmarshal(sent.Data, &packet))
	require.Equal(t, "4000000000", packet.ClientID)
	require.Equal(t, types.DefaultOracleScriptID, packet.OracleScriptID)
	require.Equal(t, types.DefaultAskCount, packet.AskCount)
	require.Equal(t, types.DefaultMinCount, packet.MinCount)
	require.Equal(t, types.DefaultParams().FeeLimit.String(), packet.FeeLimit.String())

	calldata, err := types.DecodeCalldata(packet.Calldata)
	require.NoError(t, err)
	require.Equal(t, types.Calldata{Symbols: []string{"BTC", "ETH"}, Multiplier: 1_000_000}, calldata)

	payload, found, err := f.Keeper.Engine().Pending().GetByTransportKey(f.Ctx, correlation.NewTransportKey(testChannel, sent.Sequence))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"BTC", "ETH"}, payload.Symbols)

	require.True(t, keepertest.HasEvent(f.Ctx, types.EventTypeRequestSent))
	require.True(t, keepertest.HasEvent(f.Ctx, sharedibc.EventTypePacketSent))
}

func TestRequest_Overrides(t *testing.T) {
	f := openFixture(t)

	_, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{
		Symbols:    []string{"ATOM"},
		Multiplier: 10,
		AskCount:   4,
		MinCount:   3,
		FeeLimit:   sdk.NewCoins(sdk.NewInt64Coin("uband", 5)),
		ExecuteGas: 1,
	})
	require.NoError(t, err)

	var packet types.OracleRequestPacketData
	require.NoError(t, json.Unmarshal(f.Channels.Sent[0].Data, &packet))
	require.Equal(t, uint64(4), packet.AskCount)
	require.Equal(t, uint64(3), packet.MinCount)
	require.Equal(t, "5uband", packet.FeeLimit.String())
	require.Equal(t, uint64(1), packet.ExecuteGas)
	require.Equal(t, types.DefaultPrepareGas, packet.PrepareGas)
}

func TestRequest_SendFails(t *testing.T) {
	f := openFixture(t)
	f.Channels.Err = errors.New("channel closed")

	_, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{Symbols: []string{"BTC"}, Multiplier: 1})
	require.ErrorContains(t, err, "channel closed")
}

func TestRequest_Lifecycle(t *testing.T) {
	f := openFixture(t)
	seq := request(t, f, "BTC", "ETH")

	require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(seq), acceptedAck(t, 77)))
	require.True(t, keepertest.HasEvent(f.Ctx, types.EventTypeRequestAccepted))

	result, err := f.Keeper.Result(f.Ctx, types.QueryResult{Channel: testChannel, Sequence: seq})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultSuccess, result.Kind)
	require.Equal(t, []string{"77"}, result.Items)

	accepted, err := f.Keeper.Accepted.Get(f.Ctx, 77)
	require.NoError(t, err)
	require.Equal(t, correlation.NewTransportKey(testChannel, seq), accepted.Key)

	require.NoError(t, f.Keeper.OnRecvPacket(f.Ctx, response(77, 43_000_000_000, 2_300_000_000)))
	require.True(t, keepertest.HasEvent(f.Ctx, types.EventTypeRatesUpdated))

	btc, err := f.Keeper.Rate(f.Ctx, types.QueryRate{Symbol: "BTC"})
	require.NoError(t, err)
	require.Equal(t, uint64(43_000_000_000), btc.Rate)
	require.Equal(t, uint64(100), btc.Multiplier)
	require.Equal(t, uint64(77), btc.RequestID)
	require.Equal(t, int64(1_700_000_010), btc.ResolveTime)

	has, err := f.Keeper.Accepted.Has(f.Ctx, 77)
	require.NoError(t, err)
	require.False(t, has)

	// a replayed response no longer matches anything
	require.NoError(t, f.Keeper.OnRecvPacket(f.Ctx, response(77, 1, 1)))
	require.Equal(t, 1, errorCount(t, f))
	eth, err := f.Keeper.Rate(f.Ctx, types.QueryRate{Symbol: "ETH"})
	require.NoError(t, err)
	require.Equal(t, uint64(2_300_000_000), eth.Rate)
}

func TestAck_ErrorAndTimeout(t *testing.T) {
	f := openFixture(t)
	failed := request(t, f, "BTC")
	timedOut := request(t, f, "ETH")

	require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(failed),
		channeltypes.NewErrorAcknowledgement(errors.New("not enough fee"))))
	require.NoError(t, f.Keeper.OnTimeoutPacket(f.Ctx, sentPacket(timedOut)))

	result, err := f.Keeper.Result(f.Ctx, types.QueryResult{Channel: testChannel, Sequence: failed})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultError, result.Kind)
	require.NotEmpty(t, result.Details)

	result, err = f.Keeper.Result(f.Ctx, types.QueryResult{Channel: testChannel, Sequence: timedOut})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultTimeout, result.Kind)
	require.Equal(t, []string{"ETH"}, result.Payload.Symbols)

	err = f.Keeper.OnTimeoutPacket(f.Ctx, sentPacket(timedOut))
	require.ErrorIs(t, err, correlation.ErrResultRecorded)
}

func TestAck_Invalid(t *testing.T) {
	f := openFixture(t)
	seq := request(t, f, "BTC")

	err := f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(seq), channeltypes.NewResultAcknowledgement([]byte("nope")))
	require.ErrorIs(t, err, correlation.ErrInvalidAck)

	err = f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(seq), channeltypes.NewResultAcknowledgement([]byte(`{}`)))
	require.ErrorIs(t, err, correlation.ErrInvalidAck)

	// an ack for a packet nobody sent is logged, not failed
	require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(seq+10), acceptedAck(t, 5)))
	require.Equal(t, 1, errorCount(t, f))
	has, err := f.Keeper.Accepted.Has(f.Ctx, 5)
	require.NoError(t, err)
	require.False(t, has)
}

func TestAck_DuplicateRequestID(t *testing.T) {
	f := openFixture(t)
	first := request(t, f, "BTC")
	second := request(t, f, "ETH")

	require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(first), acceptedAck(t, 5)))
	require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(second), acceptedAck(t, 5)))
	require.Equal(t, 1, errorCount(t, f))

	held, err := f.Keeper.Accepted.Get(f.Ctx, 5)
	require.NoError(t, err)
	require.Equal(t, correlation.NewTransportKey(testChannel, first), held.Key)
	require.Equal(t, []string{"BTC"}, held.Payload.Symbols)

	result, err := f.Keeper.Result(f.Ctx, types.QueryResult{Channel: testChannel, Sequence: second})
	require.NoError(t, err)
	require.Equal(t, correlation.ResultSuccess, result.Kind)
}

func TestRecvPacket_Recoverable(t *testing.T) {
	f := openFixture(t)
	for i, id := range []uint64{1, 2, 3} {
		seq := request(t, f, "BTC", "ETH")
		require.Equal(t, uint64(i+1), seq)
		require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(seq), acceptedAck(t, id)))
	}

	failed := response(1, 1, 2)
	failed.ResolveStatus = "RESOLVE_STATUS_FAILURE"
	garbled := response(2)
	garbled.Result = []byte{0, 0, 0, 9}
	short := response(3, 1)

	for _, data := range []types.OracleResponsePacketData{response(99, 1, 2), failed, garbled, short} {
		require.NoError(t, f.Keeper.OnRecvPacket(f.Ctx, data))
	}
	require.Equal(t, 4, errorCount(t, f))

	_, err := f.Keeper.Rate(f.Ctx, types.QueryRate{Symbol: "BTC"})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestChannel_Close(t *testing.T) {
	f := openFixture(t)

	require.NoError(t, f.Keeper.IsAuthorizedChannel(f.Ctx, types.PortID, testChannel))
	require.ErrorIs(t, f.Keeper.IsAuthorizedChannel(f.Ctx, types.PortID, "channel-9"), types.ErrChannelNotOpen)
	require.ErrorIs(t, f.Keeper.IsAuthorizedChannel(f.Ctx, "transfer", testChannel), types.ErrInvalidPacket)

	require.NoError(t, f.Keeper.Close(f.Ctx, testChannel))
	channel, err := f.Keeper.ChannelStatus(f.Ctx)
	require.NoError(t, err)
	require.False(t, channel.Open)

	_, err = f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{Symbols: []string{"BTC"}, Multiplier: 1})
	require.ErrorIs(t, err, types.ErrChannelNotOpen)
	require.ErrorIs(t, f.Keeper.IsAuthorizedChannel(f.Ctx, types.PortID, testChannel), types.ErrChannelNotOpen)
}

func TestCleanErrors(t *testing.T) {
	f := openFixture(t)
	require.NoError(t, f.Keeper.OnRecvPacket(f.Ctx, response(9, 1)))

	_, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgCleanErrors{})
	require.ErrorIs(t, err, govtypes.ErrInvalidSigner)

	_, err = f.Keeper.Execute(f.Ctx, sharedkeeper.DefaultAuthority(), nil, types.MsgCleanErrors{})
	require.NoError(t, err)
	require.Zero(t, errorCount(t, f))
}

func TestQueryJSON(t *testing.T) {
	f := openFixture(t)

	bz, err := f.Keeper.QueryJSON(f.Ctx, []byte(`{"channel":{}}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"channel_id":"channel-0","open":true}`, string(bz))

	_, err = f.Keeper.QueryJSON(f.Ctx, []byte(`{"rate":{"symbol":""}}`))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	bz, err = f.Keeper.QueryJSON(f.Ctx, []byte(`{"result":{"channel":"channel-0","sequence":1}}`))
	require.NoError(t, err)
	require.Equal(t, "null", string(bz))

	_, err = f.Keeper.QueryJSON(f.Ctx, []byte(`{"rates":{}}`))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUpdateParams(t *testing.T) {
	f := keepertest.BandfeedKeeper(t)
	params := types.DefaultParams()
	params.OracleScriptID = 400

	require.ErrorIs(t, f.Keeper.UpdateParams(f.Ctx, "sender", params), govtypes.ErrInvalidSigner)
	require.NoError(t, f.Keeper.UpdateParams(f.Ctx, sharedkeeper.DefaultAuthority(), params))
	require.Equal(t, uint64(400), f.Keeper.GetParams(f.Ctx).OracleScriptID)

	params.MinCount = params.AskCount + 1
	require.ErrorIs(t, f.Keeper.UpdateParams(f.Ctx, sharedkeeper.DefaultAuthority(), params), types.ErrInvalidParams)
}

func TestGenesis_RoundTrip(t *testing.T) {
	f := openFixture(t)
	accepted := request(t, f, "BTC")
	inFlight := request(t, f, "ETH")
	answered := request(t, f, "ATOM")
	require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(accepted), acceptedAck(t, 1)))
	require.NoError(t, f.Keeper.OnAcknowledgementPacket(f.Ctx, sentPacket(answered), acceptedAck(t, 2)))
	require.NoError(t, f.Keeper.OnRecvPacket(f.Ctx, response(2, 1_234)))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, testChannel, exported.ChannelID)
	require.Len(t, exported.Accepted, 1)
	require.Len(t, exported.Rates, 1)
	require.Len(t, exported.Engine.InFlight, 1)
	require.Len(t, exported.Engine.Results, 2)

	restored := keepertest.BandfeedKeeper(t)
	require.NoError(t, restored.Keeper.InitGenesis(restored.Ctx, *exported))

	reexported, err := restored.Keeper.ExportGenesis(restored.Ctx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	require.NoError(t, restored.Keeper.OnTimeoutPacket(restored.Ctx, sentPacket(inFlight)))
	require.NoError(t, restored.Keeper.OnRecvPacket(restored.Ctx, response(1, 99)))
	rate, err := restored.Keeper.Rate(restored.Ctx, types.QueryRate{Symbol: "BTC"})
	require.NoError(t, err)
	require.Equal(t, uint64(99), rate.Rate)
}
