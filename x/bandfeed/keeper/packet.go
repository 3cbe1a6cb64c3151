package keeper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// OnAcknowledgementPacket resolves the request sent as packet. A success ack
// carries the oracle request id, which is kept until the oracle answers.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, ack channeltypes.Acknowledgement) error {
	key := correlation.NewTransportKey(packet.SourceChannel, packet.Sequence)

	if !ack.Success() {
		_, err := k.engine.HandleError(ctx, key, ack.GetError())
		return err
	}

	var accepted types.OracleRequestPacketAcknowledgement
	if err := json.Unmarshal(ack.GetResult(), &accepted); err != nil {
		return errorsmod.Wrapf(correlation.ErrInvalidAck, "cannot decode oracle request ack: %s", err)
	}
	if accepted.RequestID == 0 {
		return errorsmod.Wrap(correlation.ErrInvalidAck, "oracle request ack carries no request id")
	}

	result, err := k.engine.HandleResponse(ctx, key, []string{strconv.FormatUint(accepted.RequestID, 10)})
	if err != nil || result == nil {
		return err
	}
	// the first packet accepted under a request id keeps it
	taken, err := k.Accepted.Get(ctx, accepted.RequestID)
	switch {
	case err == nil:
		k.engine.LogRecoverable(ctx, "acknowledgement", correlation.SeverityMedium,
			errorsmod.Wrapf(types.ErrDuplicateRequest, "request %d of %s is already held by %s",
				accepted.RequestID, key, taken.Key))
		return nil
	case !errors.Is(err, collections.ErrNotFound):
		return err
	}
	if err := k.Accepted.Set(ctx, accepted.RequestID, types.AcceptedRequest{
		RequestID: accepted.RequestID,
		Key:       key,
		Payload:   result.Payload,
	}); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRequestAccepted,
			sdk.NewAttribute(types.AttributeKeyRequestID, fmt.Sprintf("%d", accepted.RequestID)),
			sdk.NewAttribute(types.AttributeKeyChannel, packet.SourceChannel),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		),
	)
	return nil
}

// OnTimeoutPacket records a timeout for the request sent as packet.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet) error {
	_, err := k.engine.HandleTimeout(ctx, correlation.NewTransportKey(packet.SourceChannel, packet.Sequence))
	return err
}

// OnRecvPacket stores the rates of an oracle response. Responses that cannot
// be matched or decoded are logged and dropped; the oracle chain still gets a
// success ack.
func (k Keeper) OnRecvPacket(ctx sdk.Context, data types.OracleResponsePacketData) error {
	req, err := k.Accepted.Get(ctx, data.RequestID)
	if errors.Is(err, collections.ErrNotFound) {
		k.engine.LogRecoverable(ctx, "recv_packet", correlation.SeverityMedium,
			errorsmod.Wrapf(types.ErrUnknownRequestID, "request %d", data.RequestID))
		return nil
	}
	if err != nil {
		return err
	}
	if err := k.Accepted.Remove(ctx, data.RequestID); err != nil {
		return err
	}

	if data.ResolveStatus != types.ResolveStatusSuccess {
		k.engine.LogRecoverable(ctx, "recv_packet", correlation.SeverityLow,
			fmt.Errorf("oracle request %d resolved with %s", data.RequestID, data.ResolveStatus))
		return nil
	}

	result, err := types.DecodeOracleResult(data.Result)
	if err != nil {
		k.engine.LogRecoverable(ctx, "recv_packet", correlation.SeverityMedium,
			errorsmod.Wrapf(err, "oracle request %d", data.RequestID))
		return nil
	}
	symbols := req.Payload.Symbols
	if len(result.Rates) != len(symbols) {
		k.engine.LogRecoverable(ctx, "recv_packet", correlation.SeverityMedium,
			errorsmod.Wrapf(types.ErrInvalidOBI, "oracle request %d returned %d rates for %d symbols",
				data.RequestID, len(result.Rates), len(symbols)))
		return nil
	}

	for i, symbol := range symbols {
		if err := k.Rates.Set(ctx, symbol, types.Rate{
			Symbol:      symbol,
			Rate:        result.Rates[i],
			Multiplier:  req.Payload.Multiplier,
			ResolveTime: data.ResolveTime,
			RequestID:   data.RequestID,
		}); err != nil {
			return err
		}
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRatesUpdated,
			sdk.NewAttribute(types.AttributeKeyRequestID, fmt.Sprintf("%d", data.RequestID)),
			sdk.NewAttribute(types.AttributeKeySymbols, strings.Join(symbols, ",")),
		),
	)
	k.Logger(ctx).Debug("oracle rates updated", "request_id", data.RequestID, "symbols", len(symbols))
	return nil
}
