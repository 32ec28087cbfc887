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

package engine

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/checksum"
	"github.com/mtrevisan/boxon/codec"
	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/registry"
)

func newDeps() Deps {
	return Deps{
		Codecs:    codec.NewDefaultRegistry(),
		Templates: registry.New(),
		Checksums: checksum.NewRegistry(),
	}
}

func big64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

type simpleRecord struct {
	Length uint16
	Value  uint16
	CRC    uint16
}

func simpleTemplate() descriptor.Template {
	return descriptor.Template{
		Name:   "simple",
		Header: descriptor.HeaderBinding{StartMarkers: [][]byte{{0xCA, 0xFE}}},
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Length", Descriptor: descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian}},
			{TargetField: "Value", Descriptor: descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian}},
			{TargetField: "CRC", Descriptor: descriptor.Checksum{
				Algorithm: "CRC-16", SizeBits: 16, ByteOrder: bitio.BigEndian, SkipStart: 0, SkipEnd: 0,
			}},
		},
	}
}

func TestDecodeEncodeRoundTripSimple(t *testing.T) {
	plan, err := compiler.Compile(reflect.TypeOf(simpleRecord{}), simpleTemplate())
	require.NoError(t, err)
	deps := newDeps()

	head := bitio.NewWriter()
	head.PutBytes([]byte{0xCA, 0xFE})
	require.NoError(t, head.PutInteger(big64(4), 16, bitio.BigEndian))
	require.NoError(t, head.PutInteger(big64(0x1234), 16, bitio.BigEndian))
	partial := head.Flush()
	crc := checksum.CRC16().Calculate(partial, 0, len(partial))
	require.NoError(t, head.PutInteger(big64(crc), 16, bitio.BigEndian))
	buf := head.Flush()

	rv, n, err := Decode(logr.Discard(), plan, deps, buf, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	rec := rv.(simpleRecord)
	assert.Equal(t, uint16(4), rec.Length)
	assert.Equal(t, uint16(0x1234), rec.Value)

	out, err := Encode(logr.Discard(), plan, deps, rec, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestDecodeRejectsChecksumMismatch(t *testing.T) {
	plan, err := compiler.Compile(reflect.TypeOf(simpleRecord{}), simpleTemplate())
	require.NoError(t, err)
	deps := newDeps()

	w := bitio.NewWriter()
	w.PutBytes([]byte{0xCA, 0xFE})
	require.NoError(t, w.PutInteger(big64(4), 16, bitio.BigEndian))
	require.NoError(t, w.PutInteger(big64(0x1234), 16, bitio.BigEndian))
	require.NoError(t, w.PutInteger(big64(0xFFFF), 16, bitio.BigEndian))
	buf := w.Flush()

	_, _, err = Decode(logr.Discard(), plan, deps, buf, map[string]interface{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

type arrayRecord struct {
	Count  uint8
	Values []uint16
}

func arrayTemplate() descriptor.Template {
	return descriptor.Template{
		Name:   "arr",
		Header: descriptor.HeaderBinding{StartMarkers: [][]byte{{0xAB}}},
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Count", Descriptor: descriptor.Integer{SizeBits: 8, ByteOrder: bitio.BigEndian}},
			{TargetField: "Values", Descriptor: descriptor.AsArray{
				Element:  descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian},
				SizeExpr: "Count",
			}},
		},
	}
}

func TestDecodeEncodeRoundTripArray(t *testing.T) {
	plan, err := compiler.Compile(reflect.TypeOf(arrayRecord{}), arrayTemplate())
	require.NoError(t, err)
	deps := newDeps()

	w := bitio.NewWriter()
	w.PutByte(0xAB)
	require.NoError(t, w.PutInteger(big64(3), 8, bitio.BigEndian))
	require.NoError(t, w.PutInteger(big64(1), 16, bitio.BigEndian))
	require.NoError(t, w.PutInteger(big64(2), 16, bitio.BigEndian))
	require.NoError(t, w.PutInteger(big64(3), 16, bitio.BigEndian))
	buf := w.Flush()

	rv, _, err := Decode(logr.Discard(), plan, deps, buf, map[string]interface{}{})
	require.NoError(t, err)
	rec := rv.(arrayRecord)
	assert.Equal(t, uint8(3), rec.Count)
	assert.Equal(t, []uint16{1, 2, 3}, rec.Values)

	out, err := Encode(logr.Discard(), plan, deps, rec, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestEncodeRejectsArrayLengthMismatch(t *testing.T) {
	plan, err := compiler.Compile(reflect.TypeOf(arrayRecord{}), arrayTemplate())
	require.NoError(t, err)
	deps := newDeps()

	rec := arrayRecord{Count: 3, Values: []uint16{1, 2}}
	_, err = Encode(logr.Discard(), plan, deps, rec, map[string]interface{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArrayLengthMismatch)
}

type objectA struct {
	X uint16
}

type objectB struct {
	Y uint8
}

type objectRecord struct {
	Payload interface{}
}

func objectTemplates() (descriptor.Template, descriptor.Template, descriptor.Template) {
	subA := descriptor.Template{
		Name: "subA",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "X", Descriptor: descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian}},
		},
	}
	subB := descriptor.Template{
		Name: "subB",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Y", Descriptor: descriptor.Integer{SizeBits: 8, ByteOrder: bitio.BigEndian}},
		},
	}
	outer := descriptor.Template{
		Name:   "outer",
		Header: descriptor.HeaderBinding{StartMarkers: [][]byte{{0xEE}}},
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Payload", Descriptor: descriptor.Object{
				PrefixSizeBits: 8,
				ByteOrder:      bitio.BigEndian,
				Choices: []descriptor.ObjectChoice{
					{Condition: "prefix == 1", Template: "subA", PrefixValue: 1},
					{Condition: "prefix == 2", Template: "subB", PrefixValue: 2},
				},
			}},
		},
	}
	return subA, subB, outer
}

func TestDecodeEncodeRoundTripObject(t *testing.T) {
	subA, subB, outer := objectTemplates()
	planA, err := compiler.Compile(reflect.TypeOf(objectA{}), subA)
	require.NoError(t, err)
	planB, err := compiler.Compile(reflect.TypeOf(objectB{}), subB)
	require.NoError(t, err)
	planOuter, err := compiler.Compile(reflect.TypeOf(objectRecord{}), outer)
	require.NoError(t, err)

	deps := newDeps()
	require.NoError(t, deps.Templates.RegisterEmbedded(planA))
	require.NoError(t, deps.Templates.RegisterEmbedded(planB))

	w := bitio.NewWriter()
	w.PutByte(0xEE)
	require.NoError(t, w.PutInteger(big64(1), 8, bitio.BigEndian))
	require.NoError(t, w.PutInteger(big64(0xBEEF), 16, bitio.BigEndian))
	buf := w.Flush()

	rv, _, err := Decode(logr.Discard(), planOuter, deps, buf, map[string]interface{}{})
	require.NoError(t, err)
	rec := rv.(objectRecord)
	inner, ok := rec.Payload.(objectA)
	require.True(t, ok)
	assert.Equal(t, uint16(0xBEEF), inner.X)

	out, err := Encode(logr.Discard(), planOuter, deps, rec, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}
