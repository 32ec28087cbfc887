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

package compiler

import (
	"reflect"
	"testing"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type simpleRecord struct {
	Length uint16
	Values []uint16
	CRC    uint16
}

func TestCompileSimpleTemplate(t *testing.T) {
	tpl := descriptor.Template{
		Name: "simple",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Length", Descriptor: descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian}},
			{
				TargetField: "Values",
				Descriptor: descriptor.AsArray{
					Element:  descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian},
					SizeExpr: "#self.Length",
				},
			},
			{
				TargetField: "CRC",
				Descriptor: descriptor.Checksum{
					Algorithm: "CRC-16", SizeBits: 16, ByteOrder: bitio.BigEndian,
				},
			},
		},
	}
	plan, err := Compile(reflect.TypeOf(simpleRecord{}), tpl)
	require.NoError(t, err)
	assert.Len(t, plan.Fields, 3)
	assert.True(t, plan.Fields[1].IsArray)
}

func TestCompileRejectsUnknownField(t *testing.T) {
	tpl := descriptor.Template{
		Name: "bad",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Nope", Descriptor: descriptor.Integer{SizeBits: 8}},
		},
	}
	_, err := Compile(reflect.TypeOf(simpleRecord{}), tpl)
	require.Error(t, err)
	var terr *TemplateError
	require.ErrorAs(t, err, &terr)
	assert.Len(t, terr.Violations, 1)
}

func TestCompileRejectsChecksumNotLast(t *testing.T) {
	tpl := descriptor.Template{
		Name: "badchecksum",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "CRC", Descriptor: descriptor.Checksum{Algorithm: "CRC-16", SizeBits: 16}},
			{TargetField: "Length", Descriptor: descriptor.Integer{SizeBits: 16}},
		},
	}
	_, err := Compile(reflect.TypeOf(simpleRecord{}), tpl)
	require.Error(t, err)
}

func TestCompileRejectsAsArrayOnNonSlice(t *testing.T) {
	tpl := descriptor.Template{
		Name: "badarray",
		Fields: []descriptor.FieldDescriptor{
			{
				TargetField: "Length",
				Descriptor: descriptor.AsArray{
					Element:  descriptor.Integer{SizeBits: 8},
					SizeExpr: "1",
				},
			},
		},
	}
	_, err := Compile(reflect.TypeOf(simpleRecord{}), tpl)
	require.Error(t, err)
}

func TestCompileSeparatesEvaluateAndPostProcessIntoTrailingList(t *testing.T) {
	type rec struct {
		Length uint16
		Flag   bool
	}
	tpl := descriptor.Template{
		Name: "trailing",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Length", Descriptor: descriptor.Integer{SizeBits: 16}},
			{TargetField: "Flag", Descriptor: descriptor.Evaluate{Expression: "Length > 0"}},
		},
	}
	plan, err := Compile(reflect.TypeOf(rec{}), tpl)
	require.NoError(t, err)
	assert.Len(t, plan.Fields, 1)
	require.Len(t, plan.PostProcess, 1)
	assert.Equal(t, "Flag", plan.PostProcess[0].Name)
}

func TestCompileRejectsMalformedCondition(t *testing.T) {
	tpl := descriptor.Template{
		Name: "badcond",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Length", Descriptor: descriptor.Integer{SizeBits: 16}, Condition: "1 +"},
		},
	}
	_, err := Compile(reflect.TypeOf(simpleRecord{}), tpl)
	require.Error(t, err)
}

func TestCompileRejectsConfigurationFieldWithTwoConstraints(t *testing.T) {
	type rec struct {
		Length uint16
	}
	tpl := descriptor.Template{
		Name: "badconfig",
		Fields: []descriptor.FieldDescriptor{
			{
				TargetField: "Length",
				Descriptor: descriptor.ConfigurationField{
					Pattern:  "^[0-9]+$",
					MinValue: "0",
					MaxValue: "10",
				},
			},
		},
	}
	_, err := Compile(reflect.TypeOf(rec{}), tpl)
	require.Error(t, err)
}
