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
	"math/big"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
)

// integerCodec reads/writes a fixed-width binary integer. Values that fit
// in 64 bits are returned as int64/uint64 so the common case assigns
// directly to ordinary Go integer struct fields; values that don't fit
// are returned as *big.Int.
var integerCodec = Codec{
	Decode: func(r *bitio.Reader, d descriptor.Descriptor, _ expr.Context) (interface{}, error) {
		in, ok := d.(descriptor.Integer)
		if !ok {
			return nil, fmt.Errorf("codec: integer codec given %T", d)
		}
		v, err := r.GetInteger(uint32(in.SizeBits), in.ByteOrder, in.Signed)
		if err != nil {
			return nil, err
		}
		return narrow(v, in.Signed), nil
	},
	Encode: func(w *bitio.Writer, d descriptor.Descriptor, _ expr.Context, value interface{}) error {
		in, ok := d.(descriptor.Integer)
		if !ok {
			return fmt.Errorf("codec: integer codec given %T", d)
		}
		v, err := widen(value)
		if err != nil {
			return err
		}
		return w.PutInteger(v, uint32(in.SizeBits), in.ByteOrder)
	},
}

// narrow converts a big.Int that fits in 64 bits to the matching native Go
// integer type, leaving it as *big.Int otherwise.
func narrow(v *big.Int, signed bool) interface{} {
	if signed {
		if v.IsInt64() {
			return v.Int64()
		}
		return v
	}
	if v.IsUint64() {
		return v.Uint64()
	}
	return v
}

// widen converts any native Go integer kind (or *big.Int) to *big.Int for
// PutInteger.
func widen(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return big.NewInt(int64(v)), nil
	case uint16:
		return big.NewInt(int64(v)), nil
	case uint32:
		return big.NewInt(int64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("codec: cannot widen %T to an integer", value)
	}
}
