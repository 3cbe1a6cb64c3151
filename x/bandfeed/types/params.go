package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	DefaultErrorQueueCapacity uint64 = 1000
	DefaultOracleScriptID     uint64 = 360
	DefaultAskCount           uint64 = 16
	DefaultMinCount           uint64 = 10
	DefaultPrepareGas         uint64 = 100_000
	DefaultExecuteGas         uint64 = 400_000
	DefaultTimeoutSeconds     uint64 = 600
)

// Params defines the parameters of the bandfeed module. Request fields a
// caller leaves unset are taken from here.
type Params struct {
	ErrorQueueCapacity uint64    `json:"error_queue_capacity"`
	OracleScriptID     uint64    `json:"oracle_script_id"`
	AskCount           uint64    `json:"ask_count"`
	MinCount           uint64    `json:"min_count"`
	PrepareGas         uint64    `json:"prepare_gas"`
	ExecuteGas         uint64    `json:"execute_gas"`
	FeeLimit           sdk.Coins `json:"fee_limit"`
	TimeoutSeconds     uint64    `json:"timeout_seconds"`
}

// DefaultParams returns default module parameters.
func DefaultParams() Params {
	return Params{
		ErrorQueueCapacity: DefaultErrorQueueCapacity,
		OracleScriptID:     DefaultOracleScriptID,
		AskCount:           DefaultAskCount,
		MinCount:           DefaultMinCount,
		PrepareGas:         DefaultPrepareGas,
		ExecuteGas:         DefaultExecuteGas,
		FeeLimit:           sdk.NewCoins(sdk.NewInt64Coin("uband", 30)),
		TimeoutSeconds:     DefaultTimeoutSeconds,
	}
}

// Validate performs basic validation of module parameters.
func (p Params) Validate() error {
	if p.OracleScriptID == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "oracle script id must be positive")
	}
	if p.MinCount == 0 || p.MinCount > p.AskCount {
		return errorsmod.Wrapf(ErrInvalidParams, "min count %d must be in [1, ask count %d]", p.MinCount, p.AskCount)
	}
	if p.PrepareGas == 0 || p.ExecuteGas == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "gas limits must be positive")
	}
	if !p.FeeLimit.IsValid() {
		return errorsmod.Wrapf(ErrInvalidParams, "invalid fee limit %s", p.FeeLimit)
	}
	if p.TimeoutSeconds == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "timeout must be positive")
	}
	return nil
}
