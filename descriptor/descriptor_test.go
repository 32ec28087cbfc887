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

package descriptor

import (
	"testing"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/stretchr/testify/assert"
)

func TestKindsAreDistinct(t *testing.T) {
	descriptors := []Descriptor{
		Integer{}, BitSet{}, StringFixed{}, StringTerminated{}, Object{},
		AsArray{}, SkipBits{}, SkipUntilTerminator{}, Checksum{}, Evaluate{},
		PostProcess{}, ContextParameter{}, ConfigurationField{},
		CompositeConfigurationField{}, AlternativeConfigurationField{},
		ConfigurationSkip{},
	}
	seen := map[Kind]bool{}
	for _, d := range descriptors {
		assert.False(t, seen[d.Kind()], "duplicate kind %s", d.Kind())
		seen[d.Kind()] = true
	}
	assert.Len(t, seen, len(descriptors))
}

func TestHeaderBindingEmbedded(t *testing.T) {
	assert.True(t, HeaderBinding{}.Embedded())
	assert.False(t, HeaderBinding{StartMarkers: [][]byte{{0xAA}}}.Embedded())
}

func TestAsArrayWrapsElement(t *testing.T) {
	arr := AsArray{
		Element:  Integer{SizeBits: 8, ByteOrder: bitio.BigEndian},
		SizeExpr: "#self.count",
	}
	assert.Equal(t, KindAsArray, arr.Kind())
	assert.Equal(t, KindInteger, arr.Element.Kind())
}
