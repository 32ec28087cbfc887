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

// contextParameterCodec never touches the wire: it computes a value from
// Expression for engine to seed into Context.Root when the field is reached
// in the field pass.
// It still targets a record field (so it's visible through the usual slot
// machinery like any other computed field), matching evaluateCodec's shape.
var contextParameterCodec = Codec{
	Decode: func(_ *bitio.Reader, d descriptor.Descriptor, ctx expr.Context) (interface{}, error) {
		cp, ok := d.(descriptor.ContextParameter)
		if !ok {
			return nil, fmt.Errorf("codec: context_parameter codec given %T", d)
		}
		parsed, err := expr.Parse(cp.Expression)
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
