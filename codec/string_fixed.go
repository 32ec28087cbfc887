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
	"regexp"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
)

// stringFixedCodec reads/writes SizeBytes of text in Charset, optionally
// validating the decoded text against Match per MatchKind.
var stringFixedCodec = Codec{
	Decode: func(r *bitio.Reader, d descriptor.Descriptor, ctx expr.Context) (interface{}, error) {
		s, ok := d.(descriptor.StringFixed)
		if !ok {
			return nil, fmt.Errorf("codec: string_fixed codec given %T", d)
		}
		text, err := r.GetText(s.SizeBytes, s.Charset)
		if err != nil {
			return nil, err
		}
		if err := matchText(s, text, ctx); err != nil {
			return nil, err
		}
		return text, nil
	},
	Encode: func(w *bitio.Writer, d descriptor.Descriptor, ctx expr.Context, value interface{}) error {
		s, ok := d.(descriptor.StringFixed)
		if !ok {
			return fmt.Errorf("codec: string_fixed codec given %T", d)
		}
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("codec: string_fixed encode given %T, want string", value)
		}
		if err := matchText(s, text, ctx); err != nil {
			return err
		}
		return w.PutText(padOrTruncate(text, s.SizeBytes), s.Charset)
	},
}

func matchText(s descriptor.StringFixed, text string, ctx expr.Context) error {
	switch s.MatchKind {
	case descriptor.MatchNone:
		return nil
	case descriptor.MatchEqual:
		if text != s.Match {
			return fmt.Errorf("codec: string %q does not equal required value %q", text, s.Match)
		}
		return nil
	case descriptor.MatchRegex:
		re, err := regexp.Compile(s.Match)
		if err != nil {
			return fmt.Errorf("codec: invalid match regex %q: %w", s.Match, err)
		}
		if !re.MatchString(text) {
			return fmt.Errorf("codec: string %q does not match pattern %q", text, s.Match)
		}
		return nil
	case descriptor.MatchExpression:
		ok, err := expr.EvaluateBoolean(s.Match, ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("codec: string %q fails match expression %q", text, s.Match)
		}
		return nil
	default:
		return fmt.Errorf("codec: unknown match kind %d", s.MatchKind)
	}
}

// padOrTruncate fits s to exactly n bytes (padded with spaces, truncated on
// overflow) so fixed-width text fields always serialize to their declared
// size.
func padOrTruncate(s string, n int) string {
	b := []byte(s)
	if len(b) >= n {
		return string(b[:n])
	}
	padded := make([]byte, n)
	copy(padded, b)
	for i := len(b); i < n; i++ {
		padded[i] = ' '
	}
	return string(padded)
}
