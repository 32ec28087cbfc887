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
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Charset names a text encoding a StringFixed/StringTerminated descriptor
// may declare. Wire texts are frequently ASCII/ISO-8859-1 device
// protocols, so the charset is explicit per field rather than assumed
// UTF-8.
type Charset string

const (
	ASCII   Charset = "ASCII"
	UTF8    Charset = "UTF-8"
	ISO8859 Charset = "ISO-8859-1"
	UTF16LE Charset = "UTF-16LE"
	UTF16BE Charset = "UTF-16BE"
)

func (c Charset) encoding() (encoding.Encoding, error) {
	switch c {
	case "", ASCII, UTF8:
		return encoding.Nop, nil
	case ISO8859:
		return charmap.ISO8859_1, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	default:
		return nil, fmt.Errorf("bitio: unknown charset %q", c)
	}
}

// Decode converts wire bytes in the receiver's charset to a Go string.
func (c Charset) Decode(raw []byte) (string, error) {
	enc, err := c.encoding()
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("bitio: decode charset %q: %w", c, err)
	}
	return string(out), nil
}

// Encode converts a Go string to wire bytes in the receiver's charset.
func (c Charset) Encode(s string) ([]byte, error) {
	enc, err := c.encoding()
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("bitio: encode charset %q: %w", c, err)
	}
	return out, nil
}
