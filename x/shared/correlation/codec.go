package correlation

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/collections/codec"
)

type jsonValue[T any] struct{}

// JSONValue stores values as JSON, the encoding the host uses for contract payloads.
func JSONValue[T any]() codec.ValueCodec[T] {
	return jsonValue[T]{}
}

func (jsonValue[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonValue[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, err
	}
	return value, nil
}

func (c jsonValue[T]) EncodeJSON(value T) ([]byte, error) {
	return c.Encode(value)
}

func (c jsonValue[T]) DecodeJSON(b []byte) (T, error) {
	return c.Decode(b)
}

func (c jsonValue[T]) Stringify(value T) string {
	bz, err := c.Encode(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(bz)
}

func (jsonValue[T]) ValueType() string {
	var zero T
	return fmt.Sprintf("json/%T", zero)
}
