package correlation

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
)

// SudoMsg is a host callback delivering the outcome of an asynchronous request.
// The concrete variants are SudoResponse, SudoError, SudoTimeout, SudoOpenAck,
// SudoTxQueryResult and SudoKVQueryResult.
type SudoMsg interface {
	sudoKind() string
}

// RequestPacket is the outgoing packet the host delivers back with a terminal
// callback.
type RequestPacket struct {
	Sequence           uint64              `json:"sequence,omitempty"`
	SourcePort         string              `json:"source_port,omitempty"`
	SourceChannel      string              `json:"source_channel,omitempty"`
	DestinationPort    string              `json:"destination_port,omitempty"`
	DestinationChannel string              `json:"destination_channel,omitempty"`
	Data               []byte              `json:"data,omitempty"`
	TimeoutHeight      RequestPacketHeight `json:"timeout_height,omitempty"`
	TimeoutTimestamp   uint64              `json:"timeout_timestamp,omitempty"`
}

// RequestPacketHeight is the IBC timeout height of a request packet.
type RequestPacketHeight struct {
	RevisionNumber uint64 `json:"revision_number,omitempty"`
	RevisionHeight uint64 `json:"revision_height,omitempty"`
}

// ChannelKey returns the (source channel, sequence) key of the packet.
func (p RequestPacket) ChannelKey() (TransportKey, error) {
	if p.SourceChannel == "" {
		return TransportKey{}, errorsmod.Wrap(ErrMissingPacketField, "source channel")
	}
	return p.key(p.SourceChannel)
}

func (p RequestPacket) key(source string) (TransportKey, error) {
	if p.Sequence == 0 {
		return TransportKey{}, errorsmod.Wrap(ErrMissingPacketField, "sequence")
	}
	return NewTransportKey(source, p.Sequence), nil
}

// SudoResponse delivers a successful acknowledgement.
type SudoResponse struct {
	Request RequestPacket `json:"request"`
	Data    []byte        `json:"data"`
}

// SudoError delivers an error acknowledgement.
type SudoError struct {
	Request RequestPacket `json:"request"`
	Details string        `json:"details"`
}

// SudoTimeout reports that the packet timed out.
type SudoTimeout struct {
	Request RequestPacket `json:"request"`
}

// SudoOpenAck reports the opening of an interchain account channel.
type SudoOpenAck struct {
	PortID                string `json:"port_id"`
	ChannelID             string `json:"channel_id"`
	CounterpartyChannelID string `json:"counterparty_channel_id"`
	CounterpartyVersion   string `json:"counterparty_version"`
}

// SudoTxQueryResult delivers one transaction matched by a TX query.
type SudoTxQueryResult struct {
	QueryID uint64              `json:"query_id"`
	Height  RequestPacketHeight `json:"height"`
	Data    []byte              `json:"data"`
}

// SudoKVQueryResult reports that a KV query result was updated on the host.
type SudoKVQueryResult struct {
	QueryID uint64 `json:"query_id"`
}

func (SudoResponse) sudoKind() string      { return "response" }
func (SudoError) sudoKind() string         { return "error" }
func (SudoTimeout) sudoKind() string       { return "timeout" }
func (SudoOpenAck) sudoKind() string       { return "open_ack" }
func (SudoTxQueryResult) sudoKind() string { return "tx_query_result" }
func (SudoKVQueryResult) sudoKind() string { return "kv_query_result" }

// SudoKind returns the wire tag of msg.
func SudoKind(msg SudoMsg) string {
	return msg.sudoKind()
}

type sudoEnvelope struct {
	Response      *SudoResponse      `json:"response,omitempty"`
	Error         *SudoError         `json:"error,omitempty"`
	Timeout       *SudoTimeout       `json:"timeout,omitempty"`
	OpenAck       *SudoOpenAck       `json:"open_ack,omitempty"`
	TxQueryResult *SudoTxQueryResult `json:"tx_query_result,omitempty"`
	KVQueryResult *SudoKVQueryResult `json:"kv_query_result,omitempty"`
}

// ParseSudoMsg decodes the externally tagged JSON form, e.g.
// {"timeout":{"request":{...}}}. Exactly one variant must be present.
func ParseSudoMsg(bz []byte) (SudoMsg, error) {
	var env sudoEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidSudoMsg, "cannot decode: %s", err)
	}

	var msgs []SudoMsg
	if env.Response != nil {
		msgs = append(msgs, *env.Response)
	}
	if env.Error != nil {
		msgs = append(msgs, *env.Error)
	}
	if env.Timeout != nil {
		msgs = append(msgs, *env.Timeout)
	}
	if env.OpenAck != nil {
		msgs = append(msgs, *env.OpenAck)
	}
	if env.TxQueryResult != nil {
		msgs = append(msgs, *env.TxQueryResult)
	}
	if env.KVQueryResult != nil {
		msgs = append(msgs, *env.KVQueryResult)
	}

	if len(msgs) != 1 {
		return nil, errorsmod.Wrapf(ErrInvalidSudoMsg, "expected exactly one variant, got %d", len(msgs))
	}
	return msgs[0], nil
}

// MarshalSudoMsg encodes msg in its externally tagged JSON form.
func MarshalSudoMsg(msg SudoMsg) ([]byte, error) {
	var env sudoEnvelope
	switch m := msg.(type) {
	case SudoResponse:
		env.Response = &m
	case SudoError:
		env.Error = &m
	case SudoTimeout:
		env.Timeout = &m
	case SudoOpenAck:
		env.OpenAck = &m
	case SudoTxQueryResult:
		env.TxQueryResult = &m
	case SudoKVQueryResult:
		env.KVQueryResult = &m
	default:
		return nil, errorsmod.Wrapf(ErrInvalidSudoMsg, "unknown variant %T", msg)
	}
	return json.Marshal(env)
}
