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

// MsgRegisterBalanceQuery watches the balance of Addr in Denom.
type MsgRegisterBalanceQuery struct {
	ConnectionID string `json:"connection_id"`
	Addr         string `json:"addr"`
	Denom        string `json:"denom"`
	UpdatePeriod uint64 `json:"update_period,omitempty"`
}

// MsgRegisterDelegatorDelegationsQuery watches the delegations of Delegator to Validators.
type MsgRegisterDelegatorDelegationsQuery struct {
	ConnectionID string   `json:"connection_id"`
	Delegator    string   `json:"delegator"`
	Validators   []string `json:"validators"`
	UpdatePeriod uint64   `json:"update_period,omitempty"`
}

// MsgRegisterTransfersQuery watches bank sends to Recipient.
type MsgRegisterTransfersQuery struct {
	ConnectionID string `json:"connection_id"`
	Recipient    string `json:"recipient"`
	UpdatePeriod uint64 `json:"update_period,omitempty"`
	MinHeight    uint64 `json:"min_height,omitempty"`
}

// MsgRemoveQuery removes a registered query from the host.
type MsgRemoveQuery struct {
	QueryID uint64 `json:"query_id"`
}

// MsgCleanErrors empties the error queue. Only the authority may send it.
type MsgCleanErrors struct{}

func (MsgRegisterBalanceQuery) executeMsg()              {}
func (MsgRegisterDelegatorDelegationsQuery) executeMsg() {}
func (MsgRegisterTransfersQuery) executeMsg()            {}
func (MsgRemoveQuery) executeMsg()                       {}
func (MsgCleanErrors) executeMsg()                       {}

func validateConnection(id string) error {
	if err := host.ConnectionIdentifierValidator(id); err != nil {
		return errorsmod.Wrapf(ErrInvalidExecuteMsg, "invalid connection id: %s", err)
	}
	return nil
}

func (m MsgRegisterBalanceQuery) ValidateBasic() error {
	if err := validateConnection(m.ConnectionID); err != nil {
		return err
	}
	if _, _, err := DecodeBech32(m.Addr); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(m.Denom); err != nil {
		return errorsmod.Wrap(ErrInvalidExecuteMsg, err.Error())
	}
	return nil
}

func (m MsgRegisterDelegatorDelegationsQuery) ValidateBasic() error {
	if err := validateConnection(m.ConnectionID); err != nil {
		return err
	}
	if _, _, err := DecodeBech32(m.Delegator); err != nil {
		return err
	}
	if len(m.Validators) == 0 {
		return errorsmod.Wrap(ErrInvalidExecuteMsg, "validators cannot be empty")
	}
	seen := make(map[string]struct{}, len(m.Validators))
	for _, val := range m.Validators {
		if _, _, err := DecodeBech32(val); err != nil {
			return err
		}
		if _, dup := seen[val]; dup {
			return errorsmod.Wrapf(ErrInvalidExecuteMsg, "duplicate validator %s", val)
		}
		seen[val] = struct{}{}
	}
	return nil
}

func (m MsgRegisterTransfersQuery) ValidateBasic() error {
	if err := validateConnection(m.ConnectionID); err != nil {
		return err
	}
	_, _, err := DecodeBech32(m.Recipient)
	return err
}

func (m MsgRemoveQuery) ValidateBasic() error {
	if m.QueryID == 0 {
		return errorsmod.Wrap(ErrInvalidExecuteMsg, "query id must be positive")
	}
	return nil
}

func (MsgCleanErrors) ValidateBasic() error { return nil }

type executeEnvelope struct {
	RegisterBalanceQuery              *MsgRegisterBalanceQuery              `json:"register_balance_query,omitempty"`
	RegisterDelegatorDelegationsQuery *MsgRegisterDelegatorDelegationsQuery `json:"register_delegator_delegations_query,omitempty"`
	RegisterTransfersQuery            *MsgRegisterTransfersQuery            `json:"register_transfers_query,omitempty"`
	RemoveQuery                       *MsgRemoveQuery                       `json:"remove_query,omitempty"`
	CleanErrors                       *MsgCleanErrors                       `json:"clean_errors,omitempty"`
}

// ParseExecuteMsg decodes {"<variant>":{...}} and validates the result.
func ParseExecuteMsg(bz []byte) (ExecuteMsg, error) {
	var env executeEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidExecuteMsg, "cannot decode: %s", err)
	}

	var msgs []ExecuteMsg
	if env.RegisterBalanceQuery != nil {
		msgs = append(msgs, *env.RegisterBalanceQuery)
	}
	if env.RegisterDelegatorDelegationsQuery != nil {
		msgs = append(msgs, *env.RegisterDelegatorDelegationsQuery)
	}
	if env.RegisterTransfersQuery != nil {
		msgs = append(msgs, *env.RegisterTransfersQuery)
	}
	if env.RemoveQuery != nil {
		msgs = append(msgs, *env.RemoveQuery)
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

// QueryBalance returns the cached result of a balance query.
type QueryBalance struct {
	QueryID uint64 `json:"query_id"`
}

// QueryDelegations returns the cached result of a delegations query.
type QueryDelegations struct {
	QueryID uint64 `json:"query_id"`
}

// QueryRecipientTransfers returns the transfers recorded for Recipient.
type QueryRecipientTransfers struct {
	Recipient string `json:"recipient"`
}

// QueryRegisteredQueryID resolves a query identity to its host id.
type QueryRegisteredQueryID struct {
	ZoneID    string    `json:"zone_id"`
	QueryType QueryType `json:"query_type"`
	QueryData string    `json:"query_data"`
}

// QueryErrorsQueue returns the recorded recoverable errors.
type QueryErrorsQueue struct{}

// QueryParams returns the module parameters.
type QueryParams struct{}

func (QueryBalance) queryMsg()            {}
func (QueryDelegations) queryMsg()        {}
func (QueryRecipientTransfers) queryMsg() {}
func (QueryRegisteredQueryID) queryMsg()  {}
func (QueryErrorsQueue) queryMsg()        {}
func (QueryParams) queryMsg()             {}

type queryEnvelope struct {
	Balance            *QueryBalance            `json:"balance,omitempty"`
	Delegations        *QueryDelegations        `json:"delegations,omitempty"`
	RecipientTransfers *QueryRecipientTransfers `json:"recipient_transfers,omitempty"`
	RegisteredQueryID  *QueryRegisteredQueryID  `json:"registered_query_id,omitempty"`
	ErrorsQueue        *QueryErrorsQueue        `json:"errors_queue,omitempty"`
	Params             *QueryParams             `json:"params,omitempty"`
}

// ParseQueryMsg decodes {"<variant>":{...}}.
func ParseQueryMsg(bz []byte) (QueryMsg, error) {
	var env queryEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidQueryMsg, "cannot decode: %s", err)
	}

	var msgs []QueryMsg
	if env.Balance != nil {
		msgs = append(msgs, *env.Balance)
	}
	if env.Delegations != nil {
		msgs = append(msgs, *env.Delegations)
	}
	if env.RecipientTransfers != nil {
		msgs = append(msgs, *env.RecipientTransfers)
	}
	if env.RegisteredQueryID != nil {
		msgs = append(msgs, *env.RegisteredQueryID)
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

// RegisteredQueryIDResponse answers QueryRegisteredQueryID.
type RegisteredQueryIDResponse struct {
	QueryID uint64 `json:"query_id"`
}
