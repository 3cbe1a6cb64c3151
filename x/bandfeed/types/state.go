package types

import (
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// RequestPayload is the pending payload of an oracle request.
type RequestPayload struct {
	Symbols    []string `json:"symbols"`
	Multiplier uint64   `json:"multiplier"`
}

// AcceptedRequest is a request the oracle chain acknowledged and still has
// to answer.
type AcceptedRequest struct {
	RequestID uint64                   `json:"request_id"`
	Key       correlation.TransportKey `json:"key"`
	Payload   RequestPayload           `json:"payload"`
}

// Rate is the last price reported for a symbol, scaled by Multiplier.
type Rate struct {
	Symbol      string `json:"symbol"`
	Rate        uint64 `json:"rate"`
	Multiplier  uint64 `json:"multiplier"`
	ResolveTime int64  `json:"resolve_time"`
	RequestID   uint64 `json:"request_id"`
}
