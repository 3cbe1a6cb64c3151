package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// ExecuteMsg is a request handled by Keeper.Execute.
type ExecuteMsg interface {
	ValidateBasic() error
	executeMsg()
}

// MsgRequest asks the oracle chain for the prices of Symbols. Zero fields
// fall back to the module parameters.
type MsgRequest struct {
	Symbols    []string  `json:"symbols"`
	Multiplier uint64    `json:"multiplier"`
	AskCount   uint64    `json:"ask_count,omitempty"`
	MinCount   uint64    `json:"min_count,omitempty"`
	FeeLimit   sdk.Coins `json:"fee_limit,omitempty"`
	PrepareGas uint64    `json:"prepare_gas,omitempty"`
	ExecuteGas uint64    `json:"execute_gas,omitempty"`
}

// MsgCleanErrors empties the error queue. Only the authority may send it.
type MsgCleanErrors struct{}

func (MsgRequest) executeMsg()     {}
func (MsgCleanErrors) executeMsg() {}

func (m MsgRequest) ValidateBasic() error {
	if len(m.Symbols) == 0 {
		return errorsmod.Wrap(ErrInvalidRequest, "symbols cannot be empty")
	}
	seen := make(map[string]struct{}, len(m.Symbols))
	for _, symbol := range m.Symbols {
		if symbol == "" {
			return errorsmod.Wrap(ErrInvalidRequest, "empty symbol")
		}
		if _, dup := seen[symbol]; dup {
			return errorsmod.Wrapf(ErrInvalidRequest, "duplicate symbol %s", symbol)
		}
		seen[symbol] = struct{}{}
	}
	if m.Multiplier == 0 {
		return errorsmod.Wrap(ErrInvalidRequest, "multiplier must be positive")
	}
	if m.MinCount > 0 && m.AskCount > 0 && m.MinCount > m.AskCount {
		return errorsmod.Wrapf(ErrInvalidRequest, "min count %d exceeds ask count %d", m.MinCount, m.AskCount)
	}
	if !m.FeeLimit.IsValid() {
		return errorsmod.Wrapf(ErrInvalidRequest, "invalid fee limit %s", m.FeeLimit)
	}
	return nil
}

func (MsgCleanErrors) ValidateBasic() error { return nil }

type executeEnvelope struct {
	Request     *MsgRequest     `json:"request,omitempty"`
	CleanErrors *MsgCleanErrors `json:"clean_errors,omitempty"`
}

// ParseExecuteMsg decodes {"<variant>":{...}} and validates the result.
func ParseExecuteMsg(bz []byte) (ExecuteMsg, error) {
	var env executeEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidExecuteMsg, "cannot decode: %s", err)
	}

	var msgs []ExecuteMsg
	if env.Request != nil {
		msgs = append(msgs, *env.Request)
	}
	if env.CleanErrors != nil {
		msgs = append(msgs, *env.CleanErrors)
	}
	if len(msgs) != 1 {
		return nil, errorsmod.Wrapf(ErrInvalidExecuteMsg, "expected exactly one variant, got %d", len(msgs))
	}
	if err := msgs[0].ValidateBasic(); err != nil {
		return nil, err
	}
	return msgs[0], nil
}

// QueryMsg is a request handled by Keeper.Query.
type QueryMsg interface {
	queryMsg()
}

// QueryChannel returns the open oracle channel, if any.
type QueryChannel struct{}

// QueryRate returns the last rate of Symbol.
type QueryRate struct {
	Symbol string `json:"symbol"`
}

// QueryResult returns the recorded outcome of the request sent as Sequence.
type QueryResult struct {
	Channel  string `json:"channel"`
	Sequence uint64 `json:"sequence"`
}

// QueryErrorsQueue returns the recorded recoverable errors.
type QueryErrorsQueue struct{}

// QueryParams returns the module parameters.
type QueryParams struct{}

func (QueryChannel) queryMsg()     {}
func (QueryRate) queryMsg()        {}
func (QueryResult) queryMsg()      {}
func (QueryErrorsQueue) queryMsg() {}
func (QueryParams) queryMsg()      {}

type queryEnvelope struct {
	Channel     *QueryChannel     `json:"channel,omitempty"`
	Rate        *QueryRate        `json:"rate,omitempty"`
	Result      *QueryResult      `json:"result,omitempty"`
	ErrorsQueue *QueryErrorsQueue `json:"errors_queue,omitempty"`
	Params      *QueryParams      `json:"params,omitempty"`
}

// ParseQueryMsg decodes {"<variant>":{...}}.
func ParseQueryMsg(bz []byte) (QueryMsg, error) {
	var env queryEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidQueryMsg, "cannot decode: %s", err)
	}

	var msgs []QueryMsg
	if env.Channel != nil {
		msgs = append(msgs, *env.Channel)
	}
	if env.Rate != nil {
		msgs = append(msgs, *env.Rate)
	}
	if env.Result != nil {
		msgs = append(msgs, *env.Result)
	}
	if env.ErrorsQueue != nil {
		msgs = append(msgs, *env.ErrorsQueue)
	}
	if env.Params != nil {
		msgs = append(msgs, *env.Params)
	}
	if len(msgs) != 1 {
		return nil, errorsmod.Wrapf(ErrInvalidQueryMsg, "expected exactly one variant, got %d", len(msgs))
	}
	return msgs[0], nil
}

// ChannelResponse answers QueryChannel.
type ChannelResponse struct {
	ChannelID string `json:"channel_id,omitempty"`
	Open      bool   `json:"open"`
}

// ValidateChannelID checks an IBC channel identifier.
func ValidateChannelID(id string) error {
	if err := host.ChannelIdentifierValidator(id); err != nil {
		return errorsmod.Wrapf(ErrInvalidPacket, "invalid channel id: %s", err)
	}
	return nil
}
