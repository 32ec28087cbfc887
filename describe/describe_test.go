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

package describe

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/descriptor"
)

type sampleRecord struct {
	Length uint16
	Values []uint16
	CRC    uint16
}

func samplePlan(t *testing.T) *compiler.FieldPlan {
	tpl := descriptor.Template{
		Name: "sample",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "Length", Descriptor: descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian}},
			{
				TargetField: "Values",
				Descriptor: descriptor.AsArray{
					Element:  descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian},
					SizeExpr: "Length",
				},
			},
			{TargetField: "CRC", Descriptor: descriptor.Checksum{Algorithm: "CRC-16", SizeBits: 16, ByteOrder: bitio.BigEndian}},
		},
	}
	plan, err := compiler.Compile(reflect.TypeOf(sampleRecord{}), tpl)
	require.NoError(t, err)
	return plan
}

func TestDescribeOrdersFieldsByDeclaration(t *testing.T) {
	doc := Describe(samplePlan(t))
	require.Len(t, doc.Fields, 3)
	assert.Equal(t, "Length", doc.Fields[0].Name)
	assert.Equal(t, "Values", doc.Fields[1].Name)
	assert.True(t, doc.Fields[1].IsArray)
	assert.Equal(t, "CRC", doc.Fields[2].Name)
	assert.Equal(t, "CRC-16", doc.Fields[2].ChecksumAlgorithm)
}

func TestDescribeRenderersAreDeterministic(t *testing.T) {
	doc := Describe(samplePlan(t))

	j1, err := doc.JSON()
	require.NoError(t, err)
	j2, err := doc.JSON()
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
	assert.Contains(t, string(j1), "\"name\": \"sample\"")

	y, err := doc.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(y), "name: sample")

	x, err := doc.XML()
	require.NoError(t, err)
	assert.Contains(t, string(x), "<template")

	c, err := doc.CSV()
	require.NoError(t, err)
	assert.Contains(t, string(c), "name,kind,condition")
}
