package ibc

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	"github.com/hashicorp/go-metrics"
)

var (
	ErrInvalidVersion = errorsmod.Register("ibcshared", 2, "invalid channel version")
	ErrNoCapability   = errorsmod.Register("ibcshared", 3, "channel capability missing")
)

// CapabilityClaimer defines the interface for claiming channel capabilities.
type CapabilityClaimer interface {
	// ClaimCapability claims a channel capability
	ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error
}

// ChannelOpenValidator checks the ordering, version and port of a channel
// handshake before any state is written, then claims the channel capability.
type ChannelOpenValidator struct {
	expectedVersion  string
	expectedPort     string
	expectedOrdering channeltypes.Order
	claimer          CapabilityClaimer
}

// NewChannelOpenValidator creates a new channel open validator.
func NewChannelOpenValidator(
	version string,
	port string,
	ordering channeltypes.Order,
	claimer CapabilityClaimer,
) *ChannelOpenValidator {
	return &ChannelOpenValidator{
		expectedVersion:  version,
		expectedPort:     port,
		expectedOrdering: ordering,
		claimer:          claimer,
	}
}

// Version returns the application version this validator accepts.
func (cov *ChannelOpenValidator) Version() string {
	return cov.expectedVersion
}

// ValidateChannelOpenInit validates the INIT step and returns the negotiated
// version. An empty proposed version selects the expected one.
func (cov *ChannelOpenValidator) ValidateChannelOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	version string,
) (string, error) {
	if version == "" {
		version = cov.expectedVersion
	}
	if err := cov.validate(ctx, order, portID, channelID, version); err != nil {
		return "", err
	}
	if err := cov.claim(ctx, portID, channelID, chanCap); err != nil {
		return "", err
	}
	return version, nil
}

// ValidateChannelOpenTry validates the TRY step against the counterparty's
// version and returns the version to answer with.
func (cov *ChannelOpenValidator) ValidateChannelOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterpartyVersion string,
) (string, error) {
	if err := cov.validate(ctx, order, portID, channelID, counterpartyVersion); err != nil {
		return "", err
	}
	if err := cov.claim(ctx, portID, channelID, chanCap); err != nil {
		return "", err
	}
	return cov.expectedVersion, nil
}

// ValidateChannelOpenAck validates channel opening acknowledgement.
func (cov *ChannelOpenValidator) ValidateChannelOpenAck(ctx sdk.Context, portID, channelID, counterpartyVersion string) error {
	if counterpartyVersion != cov.expectedVersion {
		emitValidationFailure(ctx, portID, channelID, "version")
		return errorsmod.Wrapf(ErrInvalidVersion,
			"invalid counterparty version: expected %s, got %s", cov.expectedVersion, counterpartyVersion)
	}
	return nil
}

func (cov *ChannelOpenValidator) validate(ctx sdk.Context, order channeltypes.Order, portID, channelID, version string) error {
	if order != cov.expectedOrdering {
		emitValidationFailure(ctx, portID, channelID, "ordering")
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering,
			"expected %s channel, got %s", cov.expectedOrdering, order)
	}
	if version != cov.expectedVersion {
		emitValidationFailure(ctx, portID, channelID, "version")
		return errorsmod.Wrapf(ErrInvalidVersion,
			"expected version %s, got %s", cov.expectedVersion, version)
	}
	if portID != cov.expectedPort {
		emitValidationFailure(ctx, portID, channelID, "port")
		return errorsmod.Wrapf(porttypes.ErrInvalidPort,
			"expected port %s, got %s", cov.expectedPort, portID)
	}
	return nil
}

func (cov *ChannelOpenValidator) claim(ctx sdk.Context, portID, channelID string, chanCap *capabilitytypes.Capability) error {
	if chanCap == nil {
		return errorsmod.Wrapf(ErrNoCapability, "port %s channel %s", portID, channelID)
	}
	if err := cov.claimer.ClaimCapability(ctx, chanCap, host.ChannelCapabilityPath(portID, channelID)); err != nil {
		return errorsmod.Wrap(err, "failed to claim channel capability")
	}
	return nil
}

func emitValidationFailure(ctx sdk.Context, port, channel, reason string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypeChannelValidationFailed,
			sdk.NewAttribute(AttributeKeyPortID, port),
			sdk.NewAttribute(AttributeKeyChannelID, channel),
			sdk.NewAttribute(AttributeKeyReason, reason),
		),
	)
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", "channel_validation_failed"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("port", port),
			telemetry.NewLabel("reason", reason),
		},
	)
}
