package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// ExecuteMsg is a request handled by Keeper.Execute.
type ExecuteMsg interface {
	ValidateBasic() error
	executeMsg()
}

// MsgRegister opens a new interchain account over ConnectionID.
type MsgRegister struct {
	ConnectionID        string `json:"connection_id"`
	InterchainAccountID string `json:"interchain_account_id"`
}

// MsgDelegate delegates Amount of Denom from the interchain account to Validator.
type MsgDelegate struct {
	InterchainAccountID string      `json:"interchain_account_id"`
	Validator           string      `json:"validator"`
	Amount              sdkmath.Int `json:"amount"`
	Denom               string      `json:"denom"`
	TimeoutSeconds      uint64      `json:"timeout,omitempty"`
}

// MsgUndelegate undelegates Amount of Denom from Validator.
type MsgUndelegate struct {
	InterchainAccountID string      `json:"interchain_account_id"`
	Validator           string      `json:"validator"`
	Amount              sdkmath.Int `json:"amount"`
	Denom               string      `json:"denom"`
	TimeoutSeconds      uint64      `json:"timeout,omitempty"`
}

// MsgCleanErrors empties the error queue. Only the authority may send it.
type MsgCleanErrors struct{}

func (MsgRegister) executeMsg()    {}
func (MsgDelegate) executeMsg()    {}
func (MsgUndelegate) executeMsg()  {}
func (MsgCleanErrors) executeMsg() {}

func (m MsgRegister) ValidateBasic() error {
	if err := host.ConnectionIdentifierValidator(m.ConnectionID); err != nil {
		return errorsmod.Wrapf(ErrInvalidExecuteMsg, "invalid connection id: %s", err)
	}
	if err := ValidateInterchainAccountID(m.InterchainAccountID); err != nil {
		return errorsmod.Wrap(ErrInvalidInterchainAccountID, err.Error())
	}
	return nil
}

func (m MsgDelegate) ValidateBasic() error {
	return validateStakingMsg(m.InterchainAccountID, m.Validator, m.Amount, m.Denom, m.TimeoutSeconds)
}

func (m MsgUndelegate) ValidateBasic() error {
	return validateStakingMsg(m.InterchainAccountID, m.Validator, m.Amount, m.Denom, m.TimeoutSeconds)
}

func (MsgCleanErrors) ValidateBasic() error { return nil }

func validateStakingMsg(icaID, validator string, amount sdkmath.Int, denom string, timeout uint64) error {
	if err := ValidateInterchainAccountID(icaID); err != nil {
		return errorsmod.Wrap(ErrInvalidInterchainAccountID, err.Error())
	}
	if validator == "" {
		return errorsmod.Wrap(ErrInvalidDelegation, "validator cannot be empty")
	}
	if amount.IsNil() || !amount.IsPositive() {
		return errorsmod.Wrap(ErrInvalidDelegation, "amount must be positive")
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return errorsmod.Wrap(ErrInvalidDelegation, err.Error())
	}
	if timeout > MaxTimeoutSeconds {
		return errorsmod.Wrapf(ErrInvalidDelegation, "timeout %d exceeds %d seconds", timeout, MaxTimeoutSeconds)
	}
	return nil
}

type executeEnvelope struct {
	Register    *MsgRegister    `json:"register,omitempty"`
	Delegate    *MsgDelegate    `json:"delegate,omitempty"`
	Undelegate  *MsgUndelegate  `json:"undelegate,omitempty"`
	CleanErrors *MsgCleanErrors `json:"clean_errors,omitempty"`
}

// ParseExecuteMsg decodes {"<variant>":{...}} and validates the result.
func ParseExecuteMsg(bz []byte) (ExecuteMsg, error) {
	var env executeEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidExecuteMsg, "cannot decode: %s", err)
	}

	var msgs []ExecuteMsg
	if env.Register != nil {
		msgs = append(msgs, *env.Register)
	}
	if env.Delegate != nil {
		msgs = append(msgs, *env.Delegate)
	}
	if env.Undelegate != nil {
		msgs = append(msgs, *env.Undelegate)
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

// QueryInterchainAccountAddress returns the remote address of an interchain account.
type QueryInterchainAccountAddress struct {
	InterchainAccountID string `json:"interchain_account_id"`
	ConnectionID        string `json:"connection_id"`
}

// QueryAcknowledgementResult returns the terminal result of one submitted tx.
// An empty ChannelID means the account's current channel.
type QueryAcknowledgementResult struct {
	InterchainAccountID string `json:"interchain_account_id"`
	ChannelID           string `json:"channel_id,omitempty"`
	SequenceID          uint64 `json:"sequence_id"`
}

// QueryErrorsQueue returns the recorded recoverable errors.
type QueryErrorsQueue struct{}

// QueryParams returns the module parameters.
type QueryParams struct{}

func (QueryInterchainAccountAddress) queryMsg() {}
func (QueryAcknowledgementResult) queryMsg()    {}
func (QueryErrorsQueue) queryMsg()              {}
func (QueryParams) queryMsg()                   {}

type queryEnvelope struct {
	InterchainAccountAddress *QueryInterchainAccountAddress `json:"interchain_account_address,omitempty"`
	AcknowledgementResult    *QueryAcknowledgementResult    `json:"acknowledgement_result,omitempty"`
	ErrorsQueue              *QueryErrorsQueue              `json:"errors_queue,omitempty"`
	Params                   *QueryParams                   `json:"params,omitempty"`
}

// ParseQueryMsg decodes {"<variant>":{...}}.
func ParseQueryMsg(bz []byte) (QueryMsg, error) {
	var env queryEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidQueryMsg, "cannot decode: %s", err)
	}

	var msgs []QueryMsg
	if env.InterchainAccountAddress != nil {
		msgs = append(msgs, *env.InterchainAccountAddress)
	}
	if env.AcknowledgementResult != nil {
		msgs = append(msgs, *env.AcknowledgementResult)
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

// InterchainAccountAddressResponse answers QueryInterchainAccountAddress.
type InterchainAccountAddressResponse struct {
	InterchainAccountAddress string `json:"interchain_account_address"`
}
