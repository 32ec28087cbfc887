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

// Package codec maps each descriptor.Kind to the strategy that reads or
// writes it against a bitio.Reader/Writer. Object and AsArray are the two
// exceptions: both require recursing back into the engine that owns the
// codec registry (to resolve a sub-template or to loop a nested codec), so
// engine special-cases them instead of dispatching through Registry —
// Registry only ever holds leaf, non-recursive kinds.
package codec

import (
	"fmt"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
)

// Codec is the decode/encode strategy for one descriptor.Kind.
type Codec struct {
	Decode func(r *bitio.Reader, d descriptor.Descriptor, ctx expr.Context) (interface{}, error)
	Encode func(w *bitio.Writer, d descriptor.Descriptor, ctx expr.Context, value interface{}) error
}

// Registry maps a descriptor.Kind to its Codec. Instance-scoped (not a
// package global) so a Core can extend or override kinds without affecting
// any other Core in the process.
type Registry struct {
	codecs map[descriptor.Kind]Codec
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{codecs: map[descriptor.Kind]Codec{}}
}

// NewDefaultRegistry returns a Registry pre-populated with every leaf
// descriptor.Kind's default strategy.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(descriptor.KindInteger, integerCodec)
	r.Register(descriptor.KindBitSet, bitSetCodec)
	r.Register(descriptor.KindStringFixed, stringFixedCodec)
	r.Register(descriptor.KindStringTerminated, stringTerminatedCodec)
	r.Register(descriptor.KindSkipBits, skipBitsCodec)
	r.Register(descriptor.KindSkipUntilTerminator, skipUntilTerminatorCodec)
	r.Register(descriptor.KindChecksum, checksumCodec)
	r.Register(descriptor.KindEvaluate, evaluateCodec)
	r.Register(descriptor.KindPostProcess, postProcessCodec)
	r.Register(descriptor.KindContextParameter, contextParameterCodec)
	r.Register(descriptor.KindConfigurationField, configurationOnlyCodec)
	r.Register(descriptor.KindCompositeConfigurationField, configurationOnlyCodec)
	r.Register(descriptor.KindAlternativeConfigurationField, configurationOnlyCodec)
	r.Register(descriptor.KindConfigurationSkip, configurationOnlyCodec)
	return r
}

// Register installs or overrides the Codec for kind.
func (r *Registry) Register(kind descriptor.Kind, c Codec) {
	r.codecs[kind] = c
}

// Lookup returns the Codec registered for kind.
func (r *Registry) Lookup(kind descriptor.Kind) (Codec, error) {
	c, ok := r.codecs[kind]
	if !ok {
		return Codec{}, fmt.Errorf("codec: no codec registered for kind %q", kind)
	}
	return c, nil
}
