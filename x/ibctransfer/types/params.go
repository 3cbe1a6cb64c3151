package types

import (
	errorsmod "cosmossdk.io/errors"
)

const (
	// DefaultErrorQueueCapacity keeps the newest entries once the queue grows past it
	DefaultErrorQueueCapacity uint64 = 1000

	// DefaultTimeoutSeconds applies when a transfer sets no timeout height
	DefaultTimeoutSeconds uint64 = 600
)

// Params defines the parameters of the ibctransfer module.
type Params struct {
	ErrorQueueCapacity    uint64 `json:"error_queue_capacity"`
	DefaultTimeoutSeconds uint64 `json:"default_timeout_seconds"`
}

// DefaultParams returns default module parameters.
func DefaultParams() Params {
	return Params{
		ErrorQueueCapacity:    DefaultErrorQueueCapacity,
		DefaultTimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// Validate performs basic validation of module parameters.
func (p Params) Validate() error {
	if p.DefaultTimeoutSeconds == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "default timeout must be positive")
	}
	return nil
}
