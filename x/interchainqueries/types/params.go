package types

import (
	errorsmod "cosmossdk.io/errors"
)

const (
	// DefaultErrorQueueCapacity keeps the newest entries once the queue grows past it
	DefaultErrorQueueCapacity uint64 = 1000

	// DefaultUpdatePeriod is used when a registration sets no update period
	DefaultUpdatePeriod uint64 = 10
)

// Params defines the parameters of the interchainqueries module.
type Params struct {
	ErrorQueueCapacity  uint64 `json:"error_queue_capacity"`
	DefaultUpdatePeriod uint64 `json:"default_update_period"`
}

// DefaultParams returns default module parameters.
func DefaultParams() Params {
	return Params{
		ErrorQueueCapacity:  DefaultErrorQueueCapacity,
		DefaultUpdatePeriod: DefaultUpdatePeriod,
	}
}

// Validate performs basic validation of module parameters.
func (p Params) Validate() error {
	if p.DefaultUpdatePeriod == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "default update period must be positive")
	}
	return nil
}
