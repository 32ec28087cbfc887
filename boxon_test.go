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

package boxon

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
)

type beacon struct {
	Length uint16
	Values []uint16
	CRC    uint16
}

func beaconTemplate() descriptor.Template {
	return descriptor.Template{
		Name:   "beacon",
		Header: descriptor.HeaderBinding{StartMarkers: [][]byte{{0xBE}}},
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
}

func TestBuilderBuildsAndRoundTrips(t *testing.T) {
	core, err := NewBuilder().
		WithTemplate(reflect.TypeOf(beacon{}), beaconTemplate()).
		Build()
	require.NoError(t, err)

	buf, err := core.Composer().Compose("beacon", beacon{Length: 2, Values: []uint16{1, 2}})
	require.NoError(t, err)

	decoded, n, err := core.Parser().ParseTemplate("beacon", buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	got := decoded.(beacon)
	assert.Equal(t, uint16(2), got.Length)
	assert.Equal(t, []uint16{1, 2}, got.Values)
}

func TestBuilderAggregatesTemplateErrors(t *testing.T) {
	bad := descriptor.Template{
		Name: "bad",
		Fields: []descriptor.FieldDescriptor{
			{TargetField: "DoesNotExist", Descriptor: descriptor.Integer{SizeBits: 8}},
		},
	}
	_, err := NewBuilder().
		WithTemplate(reflect.TypeOf(beacon{}), bad).
		Build()
	require.Error(t, err)
	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Len(t, buildErr.TemplateErrors, 1)
}

func TestDescriberAndConfiguratorResolveByName(t *testing.T) {
	core, err := NewBuilder().
		WithTemplate(reflect.TypeOf(beacon{}), beaconTemplate()).
		Build()
	require.NoError(t, err)

	doc, err := core.Describer("beacon")
	require.NoError(t, err)
	assert.Equal(t, "beacon", doc.Name)

	_, err = core.Configurator("beacon", "1.0.0")
	require.NoError(t, err)

	_, err = core.Configurator("missing", "1.0.0")
	require.Error(t, err)
}
