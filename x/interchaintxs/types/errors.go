package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrInvalidInterchainAccountID = errorsmod.Register(ModuleName, 2, "invalid interchain account id")
	ErrInterchainAccountNotFound  = errorsmod.Register(ModuleName, 3, "interchain account not found")
	ErrInvalidPortID              = errorsmod.Register(ModuleName, 4, "invalid interchain account port id")
	ErrInvalidAccountMetadata     = errorsmod.Register(ModuleName, 5, "invalid interchain account metadata")
	ErrInvalidDelegation          = errorsmod.Register(ModuleName, 6, "invalid delegation")
	ErrInvalidExecuteMsg          = errorsmod.Register(ModuleName, 7, "invalid execute message")
	ErrInvalidQueryMsg            = errorsmod.Register(ModuleName, 8, "invalid query message")
	ErrInvalidParams              = errorsmod.Register(ModuleName, 9, "invalid params")
)
