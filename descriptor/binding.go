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

import "github.com/mtrevisan/boxon/bitio"

// HeaderBinding describes how a template is recognized on the wire. A
// zero-value HeaderBinding (no StartMarkers) means "embedded" — a
// sub-template never matched directly from registry.Match, only reached
// through an Object descriptor.
type HeaderBinding struct {
	StartMarkers [][]byte
	EndMarker    []byte
	Charset      bitio.Charset
}

// Embedded reports whether this binding describes a sub-template with no
// registrable header of its own.
func (h HeaderBinding) Embedded() bool {
	return len(h.StartMarkers) == 0
}

// ConverterChoice maps one condition to the converter used when it holds;
// engine evaluates choices in order after decoding the field and falls back
// to the field's DefaultConverter.
type ConverterChoice struct {
	Condition string
	Converter string
}

// FieldDescriptor binds a Descriptor to a named target field ahead of
// compilation; compiler turns it into an executable FieldOp.
type FieldDescriptor struct {
	TargetField      string
	Descriptor       Descriptor
	Condition        string
	ConverterChoices []ConverterChoice
	DefaultConverter string
	Validator        string
}

// Template is the uncompiled, host-authored unit compiler.Compile consumes:
// a header binding, the ordered field descriptors, and the descriptors that
// run in the trailing post-process pass.
type Template struct {
	Name        string
	Header      HeaderBinding
	Fields      []FieldDescriptor
	PostProcess []FieldDescriptor
}
