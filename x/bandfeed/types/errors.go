package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrChannelNotOpen    = errorsmod.Register(ModuleName, 2, "oracle channel is not open")
	ErrInvalidRequest    = errorsmod.Register(ModuleName, 3, "invalid oracle request")
	ErrInvalidPacket     = errorsmod.Register(ModuleName, 4, "invalid oracle packet")
	ErrInvalidOBI        = errorsmod.Register(ModuleName, 5, "invalid obi encoding")
	ErrUnknownRequestID  = errorsmod.Register(ModuleName, 6, "unknown oracle request id")
	ErrInvalidExecuteMsg = errorsmod.Register(ModuleName, 7, "invalid execute message")
	ErrInvalidQueryMsg   = errorsmod.Register(ModuleName, 8, "invalid query message")
	ErrInvalidParams     = errorsmod.Register(ModuleName, 9, "invalid params")
	ErrDuplicateRequest  = errorsmod.Register(ModuleName, 10, "oracle request id already accepted")
)
