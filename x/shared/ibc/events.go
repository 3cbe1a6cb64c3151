package ibc

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	EventTypeChannelOpen             = "channel_open"
	EventTypeChannelConnected        = "channel_connected"
	EventTypeChannelClosed           = "channel_closed"
	EventTypeChannelValidationFailed = "channel_validation_failed"
	EventTypePacketSent              = "packet_sent"
	EventTypePacketAck               = "packet_acknowledged"
	EventTypePacketTimeout           = "packet_timeout"
	EventTypePacketReceived          = "packet_received"

	AttributeKeyModule                = "module"
	AttributeKeyPortID                = "port_id"
	AttributeKeyChannelID             = "channel_id"
	AttributeKeyCounterpartyPortID    = "counterparty_port_id"
	AttributeKeyCounterpartyChannelID = "counterparty_channel_id"
	AttributeKeySequence              = "sequence"
	AttributeKeyAckSuccess            = "ack_success"
	AttributeKeyReason                = "reason"
)

// EventEmitter emits the channel and packet events of one IBC module.
type EventEmitter struct {
	moduleName string
}

// NewEventEmitter creates an emitter that tags every event with moduleName.
func NewEventEmitter(moduleName string) *EventEmitter {
	return &EventEmitter{moduleName: moduleName}
}

// EmitChannelOpen emits an event for the INIT or TRY handshake step.
func (ee *EventEmitter) EmitChannelOpen(ctx sdk.Context, portID, channelID, counterpartyPortID, counterpartyChannelID string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeChannelOpen,
			sdk.NewAttribute(AttributeKeyModule, ee.moduleName),
			sdk.NewAttribute(AttributeKeyPortID, portID),
			sdk.NewAttribute(AttributeKeyChannelID, channelID),
			sdk.NewAttribute(AttributeKeyCounterpartyPortID, counterpartyPortID),
			sdk.NewAttribute(AttributeKeyCounterpartyChannelID, counterpartyChannelID),
		),
	)
}

// EmitChannelConnected emits an event once the channel id has been persisted.
func (ee *EventEmitter) EmitChannelConnected(ctx sdk.Context, portID, channelID string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeChannelConnected,
			sdk.NewAttribute(AttributeKeyModule, ee.moduleName),
			sdk.NewAttribute(AttributeKeyPortID, portID),
			sdk.NewAttribute(AttributeKeyChannelID, channelID),
		),
	)
}

// EmitChannelClosed emits an event once the channel id has been cleared.
func (ee *EventEmitter) EmitChannelClosed(ctx sdk.Context, portID, channelID string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeChannelClosed,
			sdk.NewAttribute(AttributeKeyModule, ee.moduleName),
			sdk.NewAttribute(AttributeKeyPortID, portID),
			sdk.NewAttribute(AttributeKeyChannelID, channelID),
		),
	)
}

// EmitPacketSent emits a packet send event.
func (ee *EventEmitter) EmitPacketSent(ctx sdk.Context, channelID string, sequence uint64) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypePacketSent,
			sdk.NewAttribute(AttributeKeyModule, ee.moduleName),
			sdk.NewAttribute(AttributeKeyChannelID, channelID),
			sdk.NewAttribute(AttributeKeySequence, fmt.Sprintf("%d", sequence)),
		),
	)
}

// EmitPacketAck emits a packet acknowledgement event.
func (ee *EventEmitter) EmitPacketAck(ctx sdk.Context, channelID string, sequence uint64, success bool) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypePacketAck,
			sdk.NewAttribute(AttributeKeyModule, ee.moduleName),
			sdk.NewAttribute(AttributeKeyChannelID, channelID),
			sdk.NewAttribute(AttributeKeySequence, fmt.Sprintf("%d", sequence)),
			sdk.NewAttribute(AttributeKeyAckSuccess, fmt.Sprintf("%t", success)),
		),
	)
}

// EmitPacketTimeout emits a packet timeout event.
func (ee *EventEmitter) EmitPacketTimeout(ctx sdk.Context, channelID string, sequence uint64) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypePacketTimeout,
			sdk.NewAttribute(AttributeKeyModule, ee.moduleName),
			sdk.NewAttribute(AttributeKeyChannelID, channelID),
			sdk.NewAttribute(AttributeKeySequence, fmt.Sprintf("%d", sequence)),
		),
	)
}

// EmitPacketReceived emits an event for an incoming packet.
func (ee *EventEmitter) EmitPacketReceived(ctx sdk.Context, channelID string, sequence uint64) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypePacketReceived,
			sdk.NewAttribute(AttributeKeyModule, ee.moduleName),
			sdk.NewAttribute(AttributeKeyChannelID, channelID),
			sdk.NewAttribute(AttributeKeySequence, fmt.Sprintf("%d", sequence)),
		),
	)
}
