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
	"testing"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerCodecRoundTrip(t *testing.T) {
	d := descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian}
	w := bitio.NewWriter()
	require.NoError(t, integerCodec.Encode(w, d, expr.Context{}, uint16(0x1234)))
	r := bitio.NewReader(w.Flush())
	v, err := integerCodec.Decode(r, d, expr.Context{})
	require.NoError(t, err)
	assert.EqualValues(t, 0x1234, v)
}

func TestStringFixedCodecMatchEqual(t *testing.T) {
	d := descriptor.StringFixed{SizeBytes: 4, Charset: bitio.ASCII, Match: "ABCD", MatchKind: descriptor.MatchEqual}
	w := bitio.NewWriter()
	require.NoError(t, stringFixedCodec.Encode(w, d, expr.Context{}, "ABCD"))
	r := bitio.NewReader(w.Flush())
	v, err := stringFixedCodec.Decode(r, d, expr.Context{})
	require.NoError(t, err)
	assert.Equal(t, "ABCD", v)
}

func TestStringFixedCodecMatchEqualFails(t *testing.T) {
	d := descriptor.StringFixed{SizeBytes: 4, Charset: bitio.ASCII, Match: "ABCD", MatchKind: descriptor.MatchEqual}
	r := bitio.NewReader([]byte("WXYZ"))
	_, err := stringFixedCodec.Decode(r, d, expr.Context{})
	require.Error(t, err)
}

func TestEvaluateCodecNeverTouchesWire(t *testing.T) {
	d := descriptor.Evaluate{Expression: "1 + 2"}
	ctx := expr.Context{}
	v, err := evaluateCodec.Decode(nil, d, ctx)
	require.NoError(t, err)
	assert.EqualValues(t, int64(3), v)
	require.NoError(t, evaluateCodec.Encode(nil, d, ctx, nil))
}

func TestSkipBitsCodec(t *testing.T) {
	d := descriptor.SkipBits{SizeBits: 12}
	w := bitio.NewWriter()
	require.NoError(t, skipBitsCodec.Encode(w, d, expr.Context{}, nil))
	assert.Equal(t, uint64(12), w.BitLength())
}

func TestChecksumCodecRoundTrip(t *testing.T) {
	d := descriptor.Checksum{Algorithm: "CRC-16", SizeBits: 16, ByteOrder: bitio.BigEndian}
	w := bitio.NewWriter()
	require.NoError(t, checksumCodec.Encode(w, d, expr.Context{}, uint16(0xBEEF)))
	r := bitio.NewReader(w.Flush())
	v, err := checksumCodec.Decode(r, d, expr.Context{})
	require.NoError(t, err)
	assert.EqualValues(t, 0xBEEF, v)
}

func TestDefaultRegistryHasEveryLeafKind(t *testing.T) {
	reg := NewDefaultRegistry()
	kinds := []descriptor.Kind{
		descriptor.KindInteger, descriptor.KindBitSet, descriptor.KindStringFixed,
		descriptor.KindStringTerminated, descriptor.KindSkipBits,
		descriptor.KindSkipUntilTerminator, descriptor.KindChecksum,
		descriptor.KindEvaluate, descriptor.KindPostProcess,
		descriptor.KindContextParameter, descriptor.KindConfigurationField,
		descriptor.KindCompositeConfigurationField,
		descriptor.KindAlternativeConfigurationField, descriptor.KindConfigurationSkip,
	}
	for _, k := range kinds {
		_, err := reg.Lookup(k)
		assert.NoError(t, err, k)
	}
	_, err := reg.Lookup(descriptor.KindObject)
	assert.Error(t, err, "object is engine-orchestrated, not registered")
}
