package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrInvalidTransfer   = errorsmod.Register(ModuleName, 2, "invalid transfer")
	ErrInvalidExecuteMsg = errorsmod.Register(ModuleName, 3, "invalid execute message")
	ErrInvalidQueryMsg   = errorsmod.Register(ModuleName, 4, "invalid query message")
	ErrInvalidParams     = errorsmod.Register(ModuleName, 5, "invalid params")
)
