package types

import (
	errorsmod "cosmossdk.io/errors"
)

const (
	// DefaultErrorQueueCapacity keeps the newest entries once the queue grows past it
	DefaultErrorQueueCapacity uint64 = 1000

	// DefaultTimeoutSeconds is the relative ICA packet timeout when a message sets none
	DefaultTimeoutSeconds uint64 = 3600

	// MaxTimeoutSeconds caps the relative packet timeout
	MaxTimeoutSeconds uint64 = 7 * 24 * 3600
)

// Params defines the parameters of the interchaintxs module.
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
	if p.DefaultTimeoutSeconds > MaxTimeoutSeconds {
		return errorsmod.Wrapf(ErrInvalidParams, "default timeout %d exceeds %d seconds", p.DefaultTimeoutSeconds, MaxTimeoutSeconds)
	}
	return nil
}
