package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// ExecuteMsg is a request handled by Keeper.Execute.
type ExecuteMsg interface {
	ValidateBasic() error
	executeMsg()
}

// MsgSend transfers Amount of Denom over Channel to To. Without a timeout
// height the default relative timeout of the module params applies.
type MsgSend struct {
	Channel       string              `json:"channel"`
	To            string              `json:"to"`
	Denom         string              `json:"denom"`
	Amount        sdkmath.Int         `json:"amount"`
	TimeoutHeight *clienttypes.Height `json:"timeout_height,omitempty"`
	Memo          string              `json:"memo,omitempty"`
}

// MsgCleanErrors empties the error queue. Only the authority may send it.
type MsgCleanErrors struct{}

func (MsgSend) executeMsg()        {}
func (MsgCleanErrors) executeMsg() {}

func (m MsgSend) ValidateBasic() error {
	if err := host.ChannelIdentifierValidator(m.Channel); err != nil {
		return errorsmod.Wrapf(ErrInvalidTransfer, "invalid channel: %s", err)
	}
	if m.To == "" {
		return errorsmod.Wrap(ErrInvalidTransfer, "recipient cannot be empty")
	}
	if err := sdk.ValidateDenom(m.Denom); err != nil {
		return errorsmod.Wrap(ErrInvalidTransfer, err.Error())
	}
	if m.Amount.IsNil() || !m.Amount.IsPositive() {
		return errorsmod.Wrap(ErrInvalidTransfer, "amount must be positive")
	}
	return nil
}

func (MsgCleanErrors) ValidateBasic() error { return nil }

// Coin returns the transferred coin.
func (m MsgSend) Coin() sdk.Coin {
	return sdk.NewCoin(m.Denom, m.Amount)
}

type executeEnvelope struct {
	Send        *MsgSend        `json:"send,omitempty"`
	CleanErrors *MsgCleanErrors `json:"clean_errors,omitempty"`
}

// ParseExecuteMsg decodes {"<variant>":{...}} and validates the result.
func ParseExecuteMsg(bz []byte) (ExecuteMsg, error) {
	var env executeEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidExecuteMsg, "cannot decode: %s", err)
	}

	var msg ExecuteMsg
	switch {
	case env.Send != nil && env.CleanErrors == nil:
		msg = *env.Send
	case env.CleanErrors != nil && env.Send == nil:
		msg = *env.CleanErrors
	default:
		return nil, errorsmod.Wrap(ErrInvalidExecuteMsg, "expected exactly one variant")
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	return msg, nil
}

// QueryMsg is a request handled by Keeper.Query.
type QueryMsg interface {
	queryMsg()
}

// QueryResult returns the recorded outcome of the transfer sent as Sequence on Channel.
type QueryResult struct {
	Channel  string `json:"channel"`
	Sequence uint64 `json:"sequence"`
}

// QueryErrorsQueue returns the recorded recoverable errors.
type QueryErrorsQueue struct{}

// QueryPending lists transfers without a terminal result.
type QueryPending struct{}

// QueryParams returns the module parameters.
type QueryParams struct{}

func (QueryResult) queryMsg()      {}
func (QueryErrorsQueue) queryMsg() {}
func (QueryPending) queryMsg()     {}
func (QueryParams) queryMsg()      {}

type queryEnvelope struct {
	Result      *QueryResult      `json:"result,omitempty"`
	ErrorsQueue *QueryErrorsQueue `json:"errors_queue,omitempty"`
	Pending     *QueryPending     `json:"pending,omitempty"`
	Params      *QueryParams      `json:"params,omitempty"`
}

// ParseQueryMsg decodes {"<variant>":{...}}.
func ParseQueryMsg(bz []byte) (QueryMsg, error) {
	var env queryEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidQueryMsg, "cannot decode: %s", err)
	}

	var msgs []QueryMsg
	if env.Result != nil {
		msgs = append(msgs, *env.Result)
	}
	if env.ErrorsQueue != nil {
		msgs = append(msgs, *env.ErrorsQueue)
	}
	if env.Pending != nil {
		msgs = append(msgs, *env.Pending)
	}
	if env.Params != nil {
		msgs = append(msgs, *env.Params)
	}
	if len(msgs) != 1 {
		return nil, errorsmod.Wrapf(ErrInvalidQueryMsg, "expected exactly one variant, got %d", len(msgs))
	}
	return msgs[0], nil
}

// PendingTransfer is one transfer still waiting for its outcome. Sequence is
// zero while the host has not yet confirmed the send.
type PendingTransfer struct {
	CorrelationID uint64          `json:"correlation_id,omitempty"`
	Sequence      uint64          `json:"sequence,omitempty"`
	Payload       TransferPayload `json:"payload"`
}
