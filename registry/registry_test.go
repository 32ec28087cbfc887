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

package registry

import (
	"testing"

	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWithMarker(name string, marker []byte) *compiler.FieldPlan {
	return &compiler.FieldPlan{
		Name:   name,
		Header: descriptor.HeaderBinding{StartMarkers: [][]byte{marker}},
	}
}

func TestRegisterAndMatchLongestPrefix(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(planWithMarker("short", []byte{0xAA})))
	require.NoError(t, r.Register(planWithMarker("long", []byte{0xBB, 0xCC})))

	got, err := r.Match([]byte{0xAA, 0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "short", got.Name)

	got, err = r.Match([]byte{0xBB, 0xCC, 0x01})
	require.NoError(t, err)
	assert.Equal(t, "long", got.Name)
}

func TestRegisterRejectsOverlappingHeaders(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(planWithMarker("a", []byte{0xAA, 0xBB})))
	err := r.Register(planWithMarker("b", []byte{0xAA}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOverlappingHeader)
}

func TestMatchReturnsErrNoMatchingTemplate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(planWithMarker("a", []byte{0xAA})))
	_, err := r.Match([]byte{0x01})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatchingTemplate)
}

func TestRegisterEmbeddedRejectsHeadered(t *testing.T) {
	r := New()
	err := r.RegisterEmbedded(planWithMarker("a", []byte{0xAA}))
	require.Error(t, err)
}

func TestLookupByName(t *testing.T) {
	r := New()
	embedded := &compiler.FieldPlan{Name: "inner"}
	require.NoError(t, r.RegisterEmbedded(embedded))
	got, err := r.Lookup("inner")
	require.NoError(t, err)
	assert.Same(t, embedded, got)
}
