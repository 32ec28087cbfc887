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

// checksumCodec reads/writes the stored checksum value itself; engine owns
// computing the expected value (via the checksum package) and comparing it
// against what this codec decoded, since only engine knows the byte range
// the algorithm runs over.
var checksumCodec = Codec{
	Decode: func(r *bitio.Reader, d descriptor.Descriptor, _ expr.Context) (interface{}, error) {
		c, ok := d.(descriptor.Checksum)
		if !ok {
			return nil, fmt.Errorf("codec: checksum codec given %T", d)
		}
		v, err := r.GetInteger(uint32(c.SizeBits), c.ByteOrder, false)
		if err != nil {
			return nil, err
		}
		return narrow(v, false), nil
	},
	Encode: func(w *bitio.Writer, d descriptor.Descriptor, _ expr.Context, value interface{}) error {
		c, ok := d.(descriptor.Checksum)
		if !ok {
			return fmt.Errorf("codec: checksum codec given %T", d)
		}
		v, err := widen(value)
		if err != nil {
			return err
		}
		return w.PutInteger(v, uint32(c.SizeBits), c.ByteOrder)
	},
}
