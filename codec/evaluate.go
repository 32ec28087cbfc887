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

// evaluateCodec never touches the wire: decode assigns the
// expression's value to the field; encode is a no-op, since the value was
// always derived, never stored.
var evaluateCodec = Codec{
	Decode: func(_ *bitio.Reader, d descriptor.Descriptor, ctx expr.Context) (interface{}, error) {
		e, ok := d.(descriptor.Evaluate)
		if !ok {
			return nil, fmt.Errorf("codec: evaluate codec given %T", d)
		}
		parsed, err := expr.Parse(e.Expression)
		if err != nil {
			return nil, err
		}
		v, err := expr.Evaluate(parsed, ctx)
		if err != nil {
			return nil, err
		}
		return nativeValue(v), nil
	},
	Encode: func(_ *bitio.Writer, _ descriptor.Descriptor, _ expr.Context, _ interface{}) error {
		return nil
	},
}

// nativeValue converts an expr.Value to the closest native Go type, for
// assignment into a record field via internal/slot.
func nativeValue(v expr.Value) interface{} {
	switch v.Kind {
	case expr.KindBool:
		return v.B
	case expr.KindInt:
		return narrow(v.I, true)
	case expr.KindFloat:
		return v.F
	case expr.KindString:
		return v.S
	default:
		return nil
	}
}
