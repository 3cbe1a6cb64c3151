package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"google.golang.org/protobuf/encoding/protowire"
)

// Type URLs of the host's interchain queries messages. The host module ships
// no Go types, so the messages are encoded field by field.
const (
	RegisterQueryTypeURL         = "/neutron.interchainqueries.MsgRegisterInterchainQuery"
	RegisterQueryResponseTypeURL = "/neutron.interchainqueries.MsgRegisterInterchainQueryResponse"
	RemoveQueryTypeURL           = "/neutron.interchainqueries.MsgRemoveInterchainQueryRequest"
)

// QueryType is the host's query kind.
type QueryType string

const (
	QueryTypeKV QueryType = "kv"
	QueryTypeTX QueryType = "tx"
)

// Validate checks that t is a known query type.
func (t QueryType) Validate() error {
	switch t {
	case QueryTypeKV, QueryTypeTX:
		return nil
	default:
		return fmt.Errorf("unknown query type %q", t)
	}
}

// KVKey addresses one value in a remote module store.
type KVKey struct {
	Path string `json:"path"`
	Key  []byte `json:"key"`
}

// String returns path/hex(key), the form used in query identities.
func (k KVKey) String() string {
	return fmt.Sprintf("%s/%x", k.Path, k.Key)
}

// RegisterQuery is the host's MsgRegisterInterchainQuery.
type RegisterQuery struct {
	QueryType          QueryType
	Keys               []KVKey
	TransactionsFilter string
	ConnectionID       string
	UpdatePeriod       uint64
	Sender             string
}

// Marshal encodes the message in protobuf wire format.
func (m RegisterQuery) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, string(m.QueryType))
	for _, key := range m.Keys {
		var kb []byte
		kb = appendString(kb, 1, key.Path)
		if len(key.Key) > 0 {
			kb = protowire.AppendTag(kb, 2, protowire.BytesType)
			kb = protowire.AppendBytes(kb, key.Key)
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, kb)
	}
	b = appendString(b, 3, m.TransactionsFilter)
	b = appendString(b, 4, m.ConnectionID)
	if m.UpdatePeriod != 0 {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, m.UpdatePeriod)
	}
	b = appendString(b, 6, m.Sender)
	return b
}

// Any packs the message for a submessage.
func (m RegisterQuery) Any() *codectypes.Any {
	return &codectypes.Any{TypeUrl: RegisterQueryTypeURL, Value: m.Marshal()}
}

// UnmarshalRegisterQuery decodes a MsgRegisterInterchainQuery.
func UnmarshalRegisterQuery(bz []byte) (RegisterQuery, error) {
	var m RegisterQuery
	err := walkFields(bz, func(num protowire.Number, typ protowire.Type, value []byte, varint uint64) error {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.QueryType = QueryType(value)
		case num == 2 && typ == protowire.BytesType:
			key, err := unmarshalKVKey(value)
			if err != nil {
				return err
			}
			m.Keys = append(m.Keys, key)
		case num == 3 && typ == protowire.BytesType:
			m.TransactionsFilter = string(value)
		case num == 4 && typ == protowire.BytesType:
			m.ConnectionID = string(value)
		case num == 5 && typ == protowire.VarintType:
			m.UpdatePeriod = varint
		case num == 6 && typ == protowire.BytesType:
			m.Sender = string(value)
		}
		return nil
	})
	return m, err
}

func unmarshalKVKey(bz []byte) (KVKey, error) {
	var key KVKey
	err := walkFields(bz, func(num protowire.Number, typ protowire.Type, value []byte, _ uint64) error {
		switch {
		case num == 1 && typ == protowire.BytesType:
			key.Path = string(value)
		case num == 2 && typ == protowire.BytesType:
			key.Key = append([]byte(nil), value...)
		}
		return nil
	})
	return key, err
}

// MarshalRegisterQueryResponse encodes MsgRegisterInterchainQueryResponse.
func MarshalRegisterQueryResponse(id uint64) []byte {
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	return protowire.AppendVarint(b, id)
}

// UnmarshalRegisterQueryResponse returns the id of MsgRegisterInterchainQueryResponse.
func UnmarshalRegisterQueryResponse(bz []byte) (uint64, error) {
	var id uint64
	err := walkFields(bz, func(num protowire.Number, typ protowire.Type, _ []byte, varint uint64) error {
		if num == 1 && typ == protowire.VarintType {
			id = varint
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errorsmod.Wrap(ErrInvalidHostMessage, "register query response carries no id")
	}
	return id, nil
}

// RemoveQuery is the host's MsgRemoveInterchainQueryRequest.
type RemoveQuery struct {
	QueryID uint64
	Sender  string
}

// Any packs the message for a submessage.
func (m RemoveQuery) Any() *codectypes.Any {
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.QueryID)
	b = appendString(b, 2, m.Sender)
	return &codectypes.Any{TypeUrl: RemoveQueryTypeURL, Value: b}
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// walkFields calls fn for every field of a protobuf message. Only varint and
// length-delimited values are passed on; other wire types are skipped.
func walkFields(bz []byte, fn func(num protowire.Number, typ protowire.Type, value []byte, varint uint64) error) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return errorsmod.Wrapf(ErrInvalidHostMessage, "bad tag: %s", protowire.ParseError(n))
		}
		bz = bz[n:]

		var (
			value  []byte
			varint uint64
		)
		switch typ {
		case protowire.VarintType:
			varint, n = protowire.ConsumeVarint(bz)
		case protowire.BytesType:
			value, n = protowire.ConsumeBytes(bz)
		default:
			n = protowire.ConsumeFieldValue(num, typ, bz)
		}
		if n < 0 {
			return errorsmod.Wrapf(ErrInvalidHostMessage, "bad field %d: %s", num, protowire.ParseError(n))
		}
		bz = bz[n:]

		if err := fn(num, typ, value, varint); err != nil {
			return err
		}
	}
	return nil
}
