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

// skipBitsCodec advances the cursor without binding a value; encode writes
// the equivalent run of zero bits.
var skipBitsCodec = Codec{
	Decode: func(r *bitio.Reader, d descriptor.Descriptor, _ expr.Context) (interface{}, error) {
		s, ok := d.(descriptor.SkipBits)
		if !ok {
			return nil, fmt.Errorf("codec: skip_bits codec given %T", d)
		}
		if err := r.SkipBits(uint64(s.SizeBits)); err != nil {
			return nil, err
		}
		return nil, nil
	},
	Encode: func(w *bitio.Writer, d descriptor.Descriptor, _ expr.Context, _ interface{}) error {
		s, ok := d.(descriptor.SkipBits)
		if !ok {
			return fmt.Errorf("codec: skip_bits codec given %T", d)
		}
		w.SkipBits(uint64(s.SizeBits))
		return nil
	},
}

// skipUntilTerminatorCodec advances past bytes up to (optionally including)
// a terminator without binding a value.
var skipUntilTerminatorCodec = Codec{
	Decode: func(r *bitio.Reader, d descriptor.Descriptor, _ expr.Context) (interface{}, error) {
		s, ok := d.(descriptor.SkipUntilTerminator)
		if !ok {
			return nil, fmt.Errorf("codec: skip_until_terminator codec given %T", d)
		}
		_, err := r.GetTextUntil(s.Terminator, bitio.ASCII, s.ConsumeTerminator)
		return nil, err
	},
	Encode: func(w *bitio.Writer, d descriptor.Descriptor, _ expr.Context, _ interface{}) error {
		s, ok := d.(descriptor.SkipUntilTerminator)
		if !ok {
			return fmt.Errorf("codec: skip_until_terminator codec given %T", d)
		}
		if s.ConsumeTerminator {
			w.PutByte(s.Terminator)
		}
		return nil
	},
}
