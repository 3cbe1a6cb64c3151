package ibc

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
)

// MaxAcknowledgementSize bounds the acknowledgements a module will decode.
const MaxAcknowledgementSize = 1024 * 1024

// PacketData is implemented by every packet payload a module accepts.
type PacketData interface {
	ValidateBasic() error
}

// ChannelAuthorizer decides whether packets from a port/channel are accepted.
type ChannelAuthorizer interface {
	IsAuthorizedChannel(ctx sdk.Context, sourcePort, sourceChannel string) error
}

// PacketValidator performs the checks shared by every OnRecvPacket.
type PacketValidator struct {
	authorizer ChannelAuthorizer
}

// NewPacketValidator creates a new packet validator.
func NewPacketValidator(authorizer ChannelAuthorizer) *PacketValidator {
	return &PacketValidator{authorizer: authorizer}
}

// ValidateIncomingPacket rejects packets from unknown channels and packets whose
// data fails basic validation.
func (pv *PacketValidator) ValidateIncomingPacket(ctx sdk.Context, packet channeltypes.Packet, packetData PacketData) error {
	if err := pv.authorizer.IsAuthorizedChannel(ctx, packet.DestinationPort, packet.DestinationChannel); err != nil {
		ctx.Logger().Error("unauthorized packet source",
			"port", packet.DestinationPort,
			"channel", packet.DestinationChannel,
			"error", err)
		emitValidationFailure(ctx, packet.DestinationPort, packet.DestinationChannel, "unauthorized")
		return errorsmod.Wrapf(err, "port %s channel %s not authorized", packet.DestinationPort, packet.DestinationChannel)
	}

	if err := packetData.ValidateBasic(); err != nil {
		emitValidationFailure(ctx, packet.DestinationPort, packet.DestinationChannel, "packet_data")
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
	}
	return nil
}

// AcknowledgementHelper decodes channel acknowledgements.
type AcknowledgementHelper struct{}

// NewAcknowledgementHelper creates a new acknowledgement helper.
func NewAcknowledgementHelper() *AcknowledgementHelper {
	return &AcknowledgementHelper{}
}

// ValidateAndUnmarshalAck decodes a JSON channel acknowledgement, refusing
// anything over MaxAcknowledgementSize.
func (ah *AcknowledgementHelper) ValidateAndUnmarshalAck(acknowledgement []byte) (channeltypes.Acknowledgement, error) {
	if len(acknowledgement) > MaxAcknowledgementSize {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrInvalidRequest,
			"ack too large: %d > %d bytes", len(acknowledgement), MaxAcknowledgementSize)
	}

	var ack channeltypes.Acknowledgement
	if err := channeltypes.SubModuleCdc.UnmarshalJSON(acknowledgement, &ack); err != nil {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrUnknownRequest,
			"cannot unmarshal packet acknowledgement: %v", err)
	}
	if ack.Response == nil {
		return channeltypes.Acknowledgement{}, errorsmod.Wrap(
			sdkerrors.ErrUnknownRequest, "acknowledgement has neither result nor error")
	}

	return ack, nil
}

// CreateSuccessAck creates a successful acknowledgement with the given data.
func CreateSuccessAck(data []byte) channeltypes.Acknowledgement {
	return channeltypes.NewResultAcknowledgement(data)
}

// CreateErrorAck creates an error acknowledgement with the given error.
func CreateErrorAck(err error) channeltypes.Acknowledgement {
	return channeltypes.NewErrorAcknowledgement(err)
}
