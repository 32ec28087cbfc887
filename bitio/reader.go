/*
Copyright 2024 The Boxon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bitio

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrBufferUnderflow is returned when a read would advance the cursor past
// the end of the buffer.
var ErrBufferUnderflow = errors.New("bitio: buffer underflow")

// Reader is a bit-granular cursor over an immutable byte slice. It is owned
// by a single call stack for the duration of one decode; it is not safe for
// concurrent use.
type Reader struct {
	buf    []byte
	bitPos uint64 // absolute bit offset from the start of buf
}

// NewReader wraps buf for bit-granular reading starting at bit 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// BitOffset returns the current absolute bit position.
func (r *Reader) BitOffset() uint64 {
	return r.bitPos
}

// RemainingBits returns the number of unread bits left in the buffer.
func (r *Reader) RemainingBits() uint64 {
	total := uint64(len(r.buf)) * 8
	if r.bitPos >= total {
		return 0
	}
	return total - r.bitPos
}

// ByteOffset returns the current position rounded down to a byte, for error
// reporting and for computing byte-aligned checksum ranges.
func (r *Reader) ByteOffset() int {
	return int(r.bitPos / 8)
}

func (r *Reader) bitAt(i uint64) int {
	byteIdx := i / 8
	bitIdx := i % 8
	return int((r.buf[byteIdx] >> (7 - bitIdx)) & 1)
}

// GetBits reads n bits (0 <= n <= 2^32-1, bounded in practice by the buffer
// length) and advances the cursor. Bit order: the lowest index is the first
// bit read.
func (r *Reader) GetBits(n uint32) (BitSet, error) {
	if uint64(n) > r.RemainingBits() {
		return BitSet{}, fmt.Errorf("%w: need %d bits, have %d", ErrBufferUnderflow, n, r.RemainingBits())
	}
	bs := BitSet{}
	for i := uint32(0); i < n; i++ {
		if r.bitAt(r.bitPos+uint64(i)) == 1 {
			bs.bits = append(bs.bits, i)
		}
	}
	r.bitPos += uint64(n)
	return bs, nil
}

// GetInteger reads n bits (1 <= n <= 128) and converts them to an integer in
// the given ByteOrder; when signed is true and bit n-1 of the *value* is
// set, the result is sign-extended (two's complement). Little-endian means
// byte-wise reversal for whole-byte widths and a bit reflection across the
// requested width for sub-byte widths.
func (r *Reader) GetInteger(n uint32, order ByteOrder, signed bool) (*big.Int, error) {
	if n < 1 || n > 128 {
		return nil, fmt.Errorf("bitio: integer width %d out of range [1,128]", n)
	}
	bs, err := r.GetBits(n)
	if err != nil {
		return nil, err
	}
	var v *big.Int
	switch {
	case order == LittleEndian && n%8 == 0:
		v = swapBytes(bs.ToInteger(int(n), BigEndian), int(n)/8)
	default:
		v = bs.ToInteger(int(n), order)
	}
	if signed && v.Bit(int(n)-1) == 1 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
		v.Sub(v, mod)
	}
	return v, nil
}

// SkipBits advances the cursor by n bits without returning a value.
func (r *Reader) SkipBits(n uint64) error {
	if n > r.RemainingBits() {
		return fmt.Errorf("%w: cannot skip %d bits, have %d", ErrBufferUnderflow, n, r.RemainingBits())
	}
	r.bitPos += n
	return nil
}

// AlignToByte advances the cursor to the next byte boundary, a no-op if
// already aligned.
func (r *Reader) AlignToByte() {
	if rem := r.bitPos % 8; rem != 0 {
		r.bitPos += 8 - rem
	}
}

// GetByte reads a single byte (must be byte-aligned... practically allowed
// at any bit position, reading across the boundary like any other integer).
func (r *Reader) GetByte() (byte, error) {
	v, err := r.GetInteger(8, BigEndian, false)
	if err != nil {
		return 0, err
	}
	return byte(v.Uint64()), nil
}

// GetBytes reads n bytes.
func (r *Reader) GetBytes(n int) ([]byte, error) {
	if uint64(n)*8 > r.RemainingBits() {
		return nil, fmt.Errorf("%w: need %d bytes", ErrBufferUnderflow, n)
	}
	out := make([]byte, n)
	for i := range out {
		b, err := r.GetByte()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// GetUint8/GetUint16/... and signed counterparts are convenience shorthands
// over GetInteger for the common fixed widths, in both byte orders.

func (r *Reader) GetUint8() (uint8, error) {
	v, err := r.GetInteger(8, BigEndian, false)
	return uint8(orZero(v)), err
}

func (r *Reader) GetUint16(order ByteOrder) (uint16, error) {
	v, err := r.GetInteger(16, order, false)
	return uint16(orZero(v)), err
}

func (r *Reader) GetUint32(order ByteOrder) (uint32, error) {
	v, err := r.GetInteger(32, order, false)
	return uint32(orZero(v)), err
}

func (r *Reader) GetUint64(order ByteOrder) (uint64, error) {
	v, err := r.GetInteger(64, order, false)
	return orZero(v), err
}

func (r *Reader) GetInt8() (int8, error) {
	v, err := r.GetInteger(8, BigEndian, true)
	return int8(orZeroS(v)), err
}

func (r *Reader) GetInt16(order ByteOrder) (int16, error) {
	v, err := r.GetInteger(16, order, true)
	return int16(orZeroS(v)), err
}

func (r *Reader) GetInt32(order ByteOrder) (int32, error) {
	v, err := r.GetInteger(32, order, true)
	return int32(orZeroS(v)), err
}

func (r *Reader) GetInt64(order ByteOrder) (int64, error) {
	v, err := r.GetInteger(64, order, true)
	return orZeroS(v), err
}

func (r *Reader) GetFloat32(order ByteOrder) (float32, error) {
	v, err := r.GetUint32(order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) GetFloat64(order ByteOrder) (float64, error) {
	v, err := r.GetUint64(order)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// GetText reads n bytes and decodes them in the given Charset.
func (r *Reader) GetText(n int, cs Charset) (string, error) {
	raw, err := r.GetBytes(n)
	if err != nil {
		return "", err
	}
	return cs.Decode(raw)
}

// GetTextUntil reads bytes until the terminator is encountered (exclusive of
// the text returned), optionally consuming the terminator byte itself.
func (r *Reader) GetTextUntil(terminator byte, cs Charset, consumeTerminator bool) (string, error) {
	var raw []byte
	for {
		if r.RemainingBits() < 8 {
			return "", fmt.Errorf("%w: terminator 0x%02x not found", ErrBufferUnderflow, terminator)
		}
		b, err := r.GetByte()
		if err != nil {
			return "", err
		}
		if b == terminator {
			if !consumeTerminator {
				r.bitPos -= 8
			}
			break
		}
		raw = append(raw, b)
	}
	return cs.Decode(raw)
}

func orZero(v *big.Int) uint64 {
	if v == nil {
		return 0
	}
	return v.Uint64()
}

func orZeroS(v *big.Int) int64 {
	if v == nil {
		return 0
	}
	return v.Int64()
}
