package bandfeed_test

import (
	"encoding/json"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/neutron-org/neutron-sdk-sub001/testutil/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed"
	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	sharedibc "github.com/neutron-org/neutron-sdk-sub001/x/shared/ibc"
)

const testChannel = "channel-0"

var counterparty = channeltypes.NewCounterparty("oracle", "channel-7")

func handshake(t *testing.T, f *keepertest.BandfeedFixture, im bandfeed.IBCModule) {
	chanCap := f.NewChannelCapability(t, testChannel)
	version, err := im.OnChanOpenInit(f.Ctx, channeltypes.UNORDERED, []string{"connection-0"},
		types.PortID, testChannel, chanCap, counterparty, "")
	require.NoError(t, err)
	require.Equal(t, types.Version, version)
	require.NoError(t, im.OnChanOpenAck(f.Ctx, types.PortID, testChannel, "channel-7", types.Version))
}

func requireChannelUntouched(t *testing.T, f *keepertest.BandfeedFixture) {
	t.Helper()
	_, claimed := f.Keeper.GetChannelCapability(f.Ctx, types.PortID, testChannel)
	require.False(t, claimed)
	channel, err := f.Keeper.ChannelStatus(f.Ctx)
	require.NoError(t, err)
	require.False(t, channel.Open)
}

func TestOnChanOpenInit_Validation(t *testing.T) {
	f := keepertest.BandfeedKeeper(t)
	im := bandfeed.NewIBCModule(f.Keeper)
	chanCap := f.NewChannelCapability(t, testChannel)

	_, err := im.OnChanOpenInit(f.Ctx, channeltypes.ORDERED, nil, types.PortID, testChannel, chanCap, counterparty, types.Version)
	require.ErrorIs(t, err, channeltypes.ErrInvalidChannelOrdering)
	requireChannelUntouched(t, f)

	_, err = im.OnChanOpenInit(f.Ctx, channeltypes.UNORDERED, nil, types.PortID, testChannel, chanCap, counterparty, "ics20-1")
	require.ErrorIs(t, err, sharedibc.ErrInvalidVersion)
	requireChannelUntouched(t, f)

	_, err = im.OnChanOpenInit(f.Ctx, channeltypes.UNORDERED, nil, "transfer", testChannel, chanCap, counterparty, types.Version)
	require.ErrorIs(t, err, porttypes.ErrInvalidPort)
	requireChannelUntouched(t, f)

	_, err = im.OnChanOpenInit(f.Ctx, channeltypes.UNORDERED, nil, types.PortID, testChannel, nil, counterparty, types.Version)
	require.ErrorIs(t, err, sharedibc.ErrNoCapability)
	require.True(t, keepertest.HasEvent(f.Ctx, sharedibc.EventTypeChannelValidationFailed))
	requireChannelUntouched(t, f)

	// the same capability is still claimable once the open is valid
	_, err = im.OnChanOpenInit(f.Ctx, channeltypes.UNORDERED, nil, types.PortID, testChannel, chanCap, counterparty, types.Version)
	require.NoError(t, err)
	_, claimed := f.Keeper.GetChannelCapability(f.Ctx, types.PortID, testChannel)
	require.True(t, claimed)
}

func TestHandshake_ConnectsChannel(t *testing.T) {
	f := keepertest.BandfeedKeeper(t)
	im := bandfeed.NewIBCModule(f.Keeper)
	chanCap := f.NewChannelCapability(t, testChannel)

	_, err := im.OnChanOpenInit(f.Ctx, channeltypes.UNORDERED, nil, types.PortID, testChannel, chanCap, counterparty, "")
	require.NoError(t, err)
	_, ok := f.Keeper.GetChannelCapability(f.Ctx, types.PortID, testChannel)
	require.True(t, ok)

	err = im.OnChanOpenAck(f.Ctx, types.PortID, testChannel, "channel-7", "bandchain-2")
	require.ErrorIs(t, err, sharedibc.ErrInvalidVersion)
	channel, err := f.Keeper.ChannelStatus(f.Ctx)
	require.NoError(t, err)
	require.False(t, channel.Open)

	require.NoError(t, im.OnChanOpenAck(f.Ctx, types.PortID, testChannel, "channel-7", types.Version))
	channel, err = f.Keeper.ChannelStatus(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, testChannel, channel.ChannelID)
	require.True(t, keepertest.HasEvent(f.Ctx, sharedibc.EventTypeChannelConnected))
}

func TestOnChanOpenTry(t *testing.T) {
	f := keepertest.BandfeedKeeper(t)
	im := bandfeed.NewIBCModule(f.Keeper)
	chanCap := f.NewChannelCapability(t, testChannel)

	version, err := im.OnChanOpenTry(f.Ctx, channeltypes.UNORDERED, nil, types.PortID, testChannel, chanCap, counterparty, types.Version)
	require.NoError(t, err)
	require.Equal(t, types.Version, version)
	require.NoError(t, im.OnChanOpenConfirm(f.Ctx, types.PortID, testChannel))

	require.NoError(t, im.OnChanCloseInit(f.Ctx, types.PortID, testChannel))
	channel, err := f.Keeper.ChannelStatus(f.Ctx)
	require.NoError(t, err)
	require.False(t, channel.Open)
}

func TestPacketFlow(t *testing.T) {
	f := keepertest.BandfeedKeeper(t)
	im := bandfeed.NewIBCModule(f.Keeper)
	handshake(t, f, im)

	_, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{Symbols: []string{"BTC"}, Multiplier: 100})
	require.NoError(t, err)
	sent := f.Channels.Sent[0]
	packet := channeltypes.NewPacket(sent.Data, sent.Sequence, types.PortID, testChannel, "oracle", "channel-7", sent.TimeoutHeight, sent.TimeoutTimestamp)

	ackData, err := json.Marshal(types.OracleRequestPacketAcknowledgement{RequestID: 11})
	require.NoError(t, err)
	ack := channeltypes.NewResultAcknowledgement(ackData)
	require.NoError(t, im.OnAcknowledgementPacket(f.Ctx, packet, ack.Acknowledgement(), sdk.AccAddress{}))
	require.True(t, keepertest.HasEvent(f.Ctx, sharedibc.EventTypePacketAck))

	require.Error(t, im.OnAcknowledgementPacket(f.Ctx, packet, []byte("garbage"), sdk.AccAddress{}))

	resp := types.OracleResponsePacketData{
		ClientID:      "4000000000",
		RequestID:     11,
		ResolveTime:   1_700_000_000,
		ResolveStatus: types.ResolveStatusSuccess,
		Result:        types.OracleResult{Rates: []uint64{42}}.EncodeOBI(),
	}
	bz, err := resp.GetBytes()
	require.NoError(t, err)

	incoming := channeltypes.NewPacket(bz, 1, "oracle", "channel-7", types.PortID, testChannel, sent.TimeoutHeight, sent.TimeoutTimestamp)
	require.True(t, im.OnRecvPacket(f.Ctx, incoming, sdk.AccAddress{}).Success())
	require.True(t, keepertest.HasEvent(f.Ctx, sharedibc.EventTypePacketReceived))

	rate, err := f.Keeper.Rate(f.Ctx, types.QueryRate{Symbol: "BTC"})
	require.NoError(t, err)
	require.Equal(t, uint64(42), rate.Rate)

	foreign := channeltypes.NewPacket(bz, 2, "oracle", "channel-8", types.PortID, "channel-3", sent.TimeoutHeight, sent.TimeoutTimestamp)
	require.False(t, im.OnRecvPacket(f.Ctx, foreign, sdk.AccAddress{}).Success())

	malformed := channeltypes.NewPacket([]byte("{"), 3, "oracle", "channel-7", types.PortID, testChannel, sent.TimeoutHeight, sent.TimeoutTimestamp)
	require.False(t, im.OnRecvPacket(f.Ctx, malformed, sdk.AccAddress{}).Success())
}

func TestOnTimeoutPacket(t *testing.T) {
	f := keepertest.BandfeedKeeper(t)
	im := bandfeed.NewIBCModule(f.Keeper)
	handshake(t, f, im)

	_, err := f.Keeper.Execute(f.Ctx, "sender", nil, types.MsgRequest{Symbols: []string{"BTC"}, Multiplier: 100})
	require.NoError(t, err)
	sent := f.Channels.Sent[0]
	packet := channeltypes.NewPacket(sent.Data, sent.Sequence, types.PortID, testChannel, "oracle", "channel-7", sent.TimeoutHeight, sent.TimeoutTimestamp)

	require.NoError(t, im.OnTimeoutPacket(f.Ctx, packet, sdk.AccAddress{}))
	require.True(t, keepertest.HasEvent(f.Ctx, sharedibc.EventTypePacketTimeout))
	require.Error(t, im.OnTimeoutPacket(f.Ctx, packet, sdk.AccAddress{}))
}
