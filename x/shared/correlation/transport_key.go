package correlation

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"
)

// TransportKey identifies one in-flight cross-chain request as assigned by the host.
// Source is the channel id or, for interchain accounts, the controller port id.
// Transports that only assign a number (registered interchain queries) leave
// Source empty.
type TransportKey struct {
	Source   string `json:"source,omitempty"`
	Sequence uint64 `json:"sequence"`
}

// NewTransportKey returns a key for the given source and sequence.
func NewTransportKey(source string, sequence uint64) TransportKey {
	return TransportKey{Source: source, Sequence: sequence}
}

// Validate checks that the host supplied a usable sequence.
func (k TransportKey) Validate() error {
	if k.Sequence == 0 {
		return errorsmod.Wrap(ErrInvalidTransportKey, "sequence must be greater than zero")
	}
	return nil
}

func (k TransportKey) String() string {
	if k.Source == "" {
		return fmt.Sprintf("%d", k.Sequence)
	}
	return fmt.Sprintf("%s/%d", k.Source, k.Sequence)
}

type transportKeyCodec struct{}

// TransportKeyCodec orders keys by source, then by sequence.
var TransportKeyCodec codec.KeyCodec[TransportKey] = transportKeyCodec{}

func (transportKeyCodec) Encode(buffer []byte, key TransportKey) (int, error) {
	n, err := collections.StringKey.EncodeNonTerminal(buffer, key.Source)
	if err != nil {
		return 0, err
	}
	m, err := collections.Uint64Key.Encode(buffer[n:], key.Sequence)
	if err != nil {
		return 0, err
	}
	return n + m, nil
}

func (transportKeyCodec) Decode(buffer []byte) (int, TransportKey, error) {
	n, source, err := collections.StringKey.DecodeNonTerminal(buffer)
	if err != nil {
		return 0, TransportKey{}, err
	}
	m, sequence, err := collections.Uint64Key.Decode(buffer[n:])
	if err != nil {
		return 0, TransportKey{}, err
	}
	return n + m, TransportKey{Source: source, Sequence: sequence}, nil
}

func (transportKeyCodec) Size(key TransportKey) int {
	return collections.StringKey.SizeNonTerminal(key.Source) + collections.Uint64Key.Size(key.Sequence)
}

func (c transportKeyCodec) EncodeNonTerminal(buffer []byte, key TransportKey) (int, error) {
	return c.Encode(buffer, key)
}

func (c transportKeyCodec) DecodeNonTerminal(buffer []byte) (int, TransportKey, error) {
	return c.Decode(buffer)
}

func (c transportKeyCodec) SizeNonTerminal(key TransportKey) int {
	return c.Size(key)
}

func (transportKeyCodec) EncodeJSON(key TransportKey) ([]byte, error) {
	return json.Marshal(key)
}

func (transportKeyCodec) DecodeJSON(b []byte) (TransportKey, error) {
	var key TransportKey
	err := json.Unmarshal(b, &key)
	return key, err
}

func (transportKeyCodec) Stringify(key TransportKey) string {
	return key.String()
}

func (transportKeyCodec) KeyType() string {
	return "correlation/TransportKey"
}
