package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrQueryAlreadyRegistered = errorsmod.Register(ModuleName, 2, "interchain query already registered")
	ErrQueryNotFound          = errorsmod.Register(ModuleName, 3, "interchain query not found")
	ErrInvalidAddress         = errorsmod.Register(ModuleName, 4, "invalid address")
	ErrInvalidHostMessage     = errorsmod.Register(ModuleName, 5, "invalid host message")
	ErrInvalidQueryResult     = errorsmod.Register(ModuleName, 6, "invalid query result")
	ErrInvalidFilter          = errorsmod.Register(ModuleName, 7, "invalid transactions filter")
	ErrInvalidExecuteMsg      = errorsmod.Register(ModuleName, 8, "invalid execute message")
	ErrInvalidQueryMsg        = errorsmod.Register(ModuleName, 9, "invalid query message")
	ErrInvalidParams          = errorsmod.Register(ModuleName, 10, "invalid params")
)
