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

package codec

import (
	"fmt"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
)

// bitSetCodec reads/writes a raw bit-field; a little-endian ByteOrder
// reverses the bit order across SizeBits.
var bitSetCodec = Codec{
	Decode: func(r *bitio.Reader, d descriptor.Descriptor, _ expr.Context) (interface{}, error) {
		b, ok := d.(descriptor.BitSet)
		if !ok {
			return nil, fmt.Errorf("codec: bitset codec given %T", d)
		}
		bs, err := r.GetBits(uint32(b.SizeBits))
		if err != nil {
			return nil, err
		}
		if b.ByteOrder == bitio.LittleEndian {
			bs = bs.ReverseBits(b.SizeBits)
		}
		return bs, nil
	},
	Encode: func(w *bitio.Writer, d descriptor.Descriptor, _ expr.Context, value interface{}) error {
		b, ok := d.(descriptor.BitSet)
		if !ok {
			return fmt.Errorf("codec: bitset codec given %T", d)
		}
		bs, ok := value.(bitio.BitSet)
		if !ok {
			return fmt.Errorf("codec: bitset encode given %T, want bitio.BitSet", value)
		}
		if b.ByteOrder == bitio.LittleEndian {
			bs = bs.ReverseBits(b.SizeBits)
		}
		w.PutBits(bs, uint32(b.SizeBits))
		return nil
	},
}
