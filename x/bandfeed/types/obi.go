package types

import (
	"encoding/binary"
	"fmt"
	"math"
)

// OBI is the oracle chain's binary encoding: big-endian integers, and
// strings and vectors prefixed with a u32 length.

// obiEncoder appends OBI values to a buffer.
type obiEncoder struct {
	buf []byte
}

func (e *obiEncoder) u32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

func (e *obiEncoder) u64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}

func (e *obiEncoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

// obiDecoder consumes OBI values from a buffer.
type obiDecoder struct {
	buf []byte
}

func (d *obiDecoder) u32() (uint32, error) {
	if len(d.buf) < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes, have %d", ErrInvalidOBI, len(d.buf))
	}
	v := binary.BigEndian.Uint32(d.buf)
	d.buf = d.buf[4:]
	return v, nil
}

func (d *obiDecoder) u64() (uint64, error) {
	if len(d.buf) < 8 {
		return 0, fmt.Errorf("%w: need 8 bytes, have %d", ErrInvalidOBI, len(d.buf))
	}
	v := binary.BigEndian.Uint64(d.buf)
	d.buf = d.buf[8:]
	return v, nil
}

func (d *obiDecoder) str() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if uint64(len(d.buf)) < uint64(n) {
		return "", fmt.Errorf("%w: string of %d bytes, have %d", ErrInvalidOBI, n, len(d.buf))
	}
	s := string(d.buf[:n])
	d.buf = d.buf[n:]
	return s, nil
}

// length reads a vector length and checks it against the remaining bytes.
func (d *obiDecoder) length(elemSize int) (int, error) {
	n, err := d.u32()
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(elemSize) > uint64(len(d.buf)) {
		return 0, fmt.Errorf("%w: vector of %d elements exceeds %d bytes", ErrInvalidOBI, n, len(d.buf))
	}
	return int(n), nil
}

func (d *obiDecoder) done() error {
	if len(d.buf) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidOBI, len(d.buf))
	}
	return nil
}

// Calldata is the input of the price oracle script.
type Calldata struct {
	Symbols    []string `json:"symbols"`
	Multiplier uint64   `json:"multiplier"`
}

// EncodeOBI encodes the calldata as {symbols: [string], multiplier: u64}.
func (c Calldata) EncodeOBI() ([]byte, error) {
	if uint64(len(c.Symbols)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: too many symbols", ErrInvalidOBI)
	}
	var e obiEncoder
	e.u32(uint32(len(c.Symbols)))
	for _, symbol := range c.Symbols {
		if uint64(len(symbol)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: symbol too long", ErrInvalidOBI)
		}
		e.str(symbol)
	}
	e.u64(c.Multiplier)
	return e.buf, nil
}

// DecodeCalldata is the inverse of Calldata.EncodeOBI.
func DecodeCalldata(bz []byte) (Calldata, error) {
	d := obiDecoder{buf: bz}
	n, err := d.length(4)
	if err != nil {
		return Calldata{}, err
	}
	c := Calldata{Symbols: make([]string, 0, n)}
	for i := 0; i < n; i++ {
		symbol, err := d.str()
		if err != nil {
			return Calldata{}, err
		}
		c.Symbols = append(c.Symbols, symbol)
	}
	if c.Multiplier, err = d.u64(); err != nil {
		return Calldata{}, err
	}
	return c, d.done()
}

// OracleResult is the output of the price oracle script.
type OracleResult struct {
	Rates []uint64 `json:"rates"`
}

// EncodeOBI encodes the result as {rates: [u64]}.
func (r OracleResult) EncodeOBI() []byte {
	var e obiEncoder
	e.u32(uint32(len(r.Rates)))
	for _, rate := range r.Rates {
		e.u64(rate)
	}
	return e.buf
}

// DecodeOracleResult is the inverse of OracleResult.EncodeOBI.
func DecodeOracleResult(bz []byte) (OracleResult, error) {
	d := obiDecoder{buf: bz}
	n, err := d.length(8)
	if err != nil {
		return OracleResult{}, err
	}
	r := OracleResult{Rates: make([]uint64, n)}
	for i := range r.Rates {
		if r.Rates[i], err = d.u64(); err != nil {
			return OracleResult{}, err
		}
	}
	return r, d.done()
}
