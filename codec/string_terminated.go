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

// stringTerminatedCodec reads/writes text up to a terminator byte.
var stringTerminatedCodec = Codec{
	Decode: func(r *bitio.Reader, d descriptor.Descriptor, _ expr.Context) (interface{}, error) {
		s, ok := d.(descriptor.StringTerminated)
		if !ok {
			return nil, fmt.Errorf("codec: string_terminated codec given %T", d)
		}
		return r.GetTextUntil(s.Terminator, s.Charset, s.ConsumeTerminator)
	},
	Encode: func(w *bitio.Writer, d descriptor.Descriptor, _ expr.Context, value interface{}) error {
		s, ok := d.(descriptor.StringTerminated)
		if !ok {
			return fmt.Errorf("codec: string_terminated codec given %T", d)
		}
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("codec: string_terminated encode given %T, want string", value)
		}
		return w.PutTextTerminated(text, s.Terminator, s.Charset)
	},
}
