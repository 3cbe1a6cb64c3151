package types

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ResolveStatusSuccess is the resolve status of a fulfilled oracle request.
const ResolveStatusSuccess = "RESOLVE_STATUS_SUCCESS"

// OracleRequestPacketData asks the oracle chain to run an oracle script.
// Integers travel as strings.
type OracleRequestPacketData struct {
	ClientID       string    `json:"client_id"`
	OracleScriptID uint64    `json:"oracle_script_id,string"`
	Calldata       []byte    `json:"calldata"`
	AskCount       uint64    `json:"ask_count,string"`
	MinCount       uint64    `json:"min_count,string"`
	FeeLimit       sdk.Coins `json:"fee_limit"`
	PrepareGas     uint64    `json:"prepare_gas,string"`
	ExecuteGas     uint64    `json:"execute_gas,string"`
}

// ValidateBasic performs stateless checks.
func (p OracleRequestPacketData) ValidateBasic() error {
	if p.ClientID == "" {
		return fmt.Errorf("%w: client id cannot be empty", ErrInvalidPacket)
	}
	if p.OracleScriptID == 0 {
		return fmt.Errorf("%w: oracle script id must be positive", ErrInvalidPacket)
	}
	if p.MinCount == 0 || p.MinCount > p.AskCount {
		return fmt.Errorf("%w: min count %d must be in [1, %d]", ErrInvalidPacket, p.MinCount, p.AskCount)
	}
	if !p.FeeLimit.IsValid() {
		return fmt.Errorf("%w: invalid fee limit %s", ErrInvalidPacket, p.FeeLimit)
	}
	return nil
}

// GetBytes returns the sorted JSON encoding sent over the channel.
func (p OracleRequestPacketData) GetBytes() ([]byte, error) {
	bz, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return sdk.MustSortJSON(bz), nil
}

// OracleRequestPacketAcknowledgement is the result of an accepted request.
type OracleRequestPacketAcknowledgement struct {
	RequestID uint64 `json:"request_id,string"`
}

// OracleResponsePacketData delivers the outcome of a request.
type OracleResponsePacketData struct {
	ClientID      string `json:"client_id"`
	RequestID     uint64 `json:"request_id,string"`
	AnsCount      uint64 `json:"ans_count,string"`
	RequestTime   int64  `json:"request_time,string"`
	ResolveTime   int64  `json:"resolve_time,string"`
	ResolveStatus string `json:"resolve_status"`
	Result        []byte `json:"result"`
}

// ValidateBasic performs stateless checks.
func (p OracleResponsePacketData) ValidateBasic() error {
	if p.RequestID == 0 {
		return fmt.Errorf("%w: request id must be positive", ErrInvalidPacket)
	}
	if p.ResolveStatus == "" {
		return fmt.Errorf("%w: resolve status cannot be empty", ErrInvalidPacket)
	}
	return nil
}

// GetBytes returns the sorted JSON encoding.
func (p OracleResponsePacketData) GetBytes() ([]byte, error) {
	bz, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return sdk.MustSortJSON(bz), nil
}

// ParseOracleResponse decodes an incoming response packet.
func ParseOracleResponse(bz []byte) (OracleResponsePacketData, error) {
	var p OracleResponsePacketData
	if err := json.Unmarshal(bz, &p); err != nil {
		return OracleResponsePacketData{}, fmt.Errorf("%w: %s", ErrInvalidPacket, err)
	}
	return p, p.ValidateBasic()
}
