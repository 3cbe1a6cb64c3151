package correlation

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace shared by all correlation engines.
const Codespace = "correlation"

var (
	ErrPayloadNotFound     = errorsmod.Register(Codespace, 2, "pending payload not found")
	ErrTransportKeyExists  = errorsmod.Register(Codespace, 3, "transport key already holds a pending payload")
	ErrResultRecorded      = errorsmod.Register(Codespace, 4, "acknowledgement result already recorded")
	ErrUnsupportedReplyID  = errorsmod.Register(Codespace, 5, "unsupported reply id")
	ErrInvalidReplyData    = errorsmod.Register(Codespace, 6, "invalid reply data")
	ErrInvalidAck          = errorsmod.Register(Codespace, 7, "invalid acknowledgement")
	ErrMissingPacketField  = errorsmod.Register(Codespace, 8, "request packet is missing a required field")
	ErrInvalidSudoMsg      = errorsmod.Register(Codespace, 9, "invalid sudo message")
	ErrRangeExhausted      = errorsmod.Register(Codespace, 10, "correlation id range exhausted")
	ErrInvalidRange        = errorsmod.Register(Codespace, 11, "invalid correlation id range")
	ErrInvalidTransportKey = errorsmod.Register(Codespace, 12, "invalid transport key")
)
