package bandfeed

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"

	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/keeper"
	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	sharedibc "github.com/neutron-org/neutron-sdk-sub001/x/shared/ibc"
)

var _ porttypes.IBCModule = (*IBCModule)(nil)

// IBCModule implements the ICS26 interface for the bandfeed module.
type IBCModule struct {
	keeper           *keeper.Keeper
	channelValidator *sharedibc.ChannelOpenValidator
	packetValidator  *sharedibc.PacketValidator
}

// NewIBCModule creates a new IBCModule given the keeper
func NewIBCModule(k *keeper.Keeper) IBCModule {
	return IBCModule{
		keeper:           k,
		channelValidator: sharedibc.NewChannelOpenValidator(types.Version, types.PortID, channeltypes.UNORDERED, k),
		packetValidator:  sharedibc.NewPacketValidator(k),
	}
}

// OnChanOpenInit implements the IBCModule interface
func (im IBCModule) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	version, err := im.channelValidator.ValidateChannelOpenInit(ctx, order, portID, channelID, chanCap, version)
	if err != nil {
		return "", err
	}
	im.keeper.Emitter().EmitChannelOpen(ctx, portID, channelID, counterparty.PortId, counterparty.ChannelId)
	return version, nil
}

// OnChanOpenTry implements the IBCModule interface
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	version, err := im.channelValidator.ValidateChannelOpenTry(ctx, order, portID, channelID, chanCap, counterpartyVersion)
	if err != nil {
		return "", err
	}
	im.keeper.Emitter().EmitChannelOpen(ctx, portID, channelID, counterparty.PortId, counterparty.ChannelId)
	return version, nil
}

// OnChanOpenAck implements the IBCModule interface
func (im IBCModule) OnChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	counterpartyChannelID string,
	counterpartyVersion string,
) error {
	if err := im.channelValidator.ValidateChannelOpenAck(ctx, portID, channelID, counterpartyVersion); err != nil {
		return err
	}
	return im.keeper.Connect(ctx, channelID)
}

// OnChanOpenConfirm implements the IBCModule interface
func (im IBCModule) OnChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	return im.keeper.Connect(ctx, channelID)
}

// OnChanCloseInit implements the IBCModule interface
func (im IBCModule) OnChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	return im.keeper.Close(ctx, channelID)
}

// OnChanCloseConfirm implements the IBCModule interface
func (im IBCModule) OnChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	return im.keeper.Close(ctx, channelID)
}

// OnRecvPacket implements the IBCModule interface
// Handles oracle responses carrying the resolved rates
func (im IBCModule) OnRecvPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	data, err := types.ParseOracleResponse(packet.Data)
	if err != nil {
		return sharedibc.CreateErrorAck(err)
	}
	if err := im.packetValidator.ValidateIncomingPacket(ctx, packet, data); err != nil {
		return sharedibc.CreateErrorAck(err)
	}
	if err := im.keeper.OnRecvPacket(ctx, data); err != nil {
		return sharedibc.CreateErrorAck(err)
	}

	im.keeper.Emitter().EmitPacketReceived(ctx, packet.DestinationChannel, packet.Sequence)
	return sharedibc.CreateSuccessAck([]byte{1})
}

// OnAcknowledgementPacket implements the IBCModule interface
func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	ack, err := im.keeper.AckHelper().ValidateAndUnmarshalAck(acknowledgement)
	if err != nil {
		return err
	}
	if err := im.keeper.OnAcknowledgementPacket(ctx, packet, ack); err != nil {
		return err
	}

	im.keeper.Emitter().EmitPacketAck(ctx, packet.SourceChannel, packet.Sequence, ack.Success())
	return nil
}

// OnTimeoutPacket implements the IBCModule interface
func (im IBCModule) OnTimeoutPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	if err := im.keeper.OnTimeoutPacket(ctx, packet); err != nil {
		return err
	}

	im.keeper.Emitter().EmitPacketTimeout(ctx, packet.SourceChannel, packet.Sequence)
	return nil
}
