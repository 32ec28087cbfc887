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

// postProcessCodec never touches the wire; engine runs it only for ops
// whose Condition holds, in the trailing post-process pass, so
// Decode and Encode here only need to pick which formula to evaluate.
var postProcessCodec = Codec{
	Decode: func(_ *bitio.Reader, d descriptor.Descriptor, ctx expr.Context) (interface{}, error) {
		p, ok := d.(descriptor.PostProcess)
		if !ok {
			return nil, fmt.Errorf("codec: post_process codec given %T", d)
		}
		parsed, err := expr.Parse(p.ValueDecode)
		if err != nil {
			return nil, err
		}
		v, err := expr.Evaluate(parsed, ctx)
		if err != nil {
			return nil, err
		}
		return nativeValue(v), nil
	},
	Encode: func(_ *bitio.Writer, d descriptor.Descriptor, _ expr.Context, _ interface{}) error {
		if _, ok := d.(descriptor.PostProcess); !ok {
			return fmt.Errorf("codec: post_process codec given %T", d)
		}
		// engine calls EvaluatePostProcessEncode directly for the value;
		// Codec.Encode has no return channel to hand it back through.
		return nil
	},
}

// EvaluatePostProcessEncode evaluates p.ValueEncode against ctx, for
// engine's pre-serialization post-process pass (Codec.Encode has no value
// return channel, so engine calls this directly rather than through the
// registry).
func EvaluatePostProcessEncode(p descriptor.PostProcess, ctx expr.Context) (interface{}, error) {
	parsed, err := expr.Parse(p.ValueEncode)
	if err != nil {
		return nil, err
	}
	v, err := expr.Evaluate(parsed, ctx)
	if err != nil {
		return nil, err
	}
	return nativeValue(v), nil
}
