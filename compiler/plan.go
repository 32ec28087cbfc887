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

// Package compiler turns a descriptor.Template authored against a Go record
// type into an immutable, executable FieldPlan. It is the only package
// that binds a field by name via reflect — every other package addresses
// fields exclusively through the slot.ID handles a FieldPlan hands out.
package compiler

import (
	"reflect"

	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/internal/slot"
)

// ConverterChoice is a compiled ConverterChoice: Condition has already been
// parsed once (by the expr package, cached) so repeated decode calls never
// re-parse it.
type ConverterChoice struct {
	Condition string
	Converter string
}

// FieldOp is the compiled, executable form of a descriptor.FieldDescriptor:
// a slot handle, the descriptor to decode/encode it with, its
// guarding condition, optional array sizing, and optional converter/
// validator bindings.
type FieldOp struct {
	Slot             slot.ID
	Name             string
	Descriptor       descriptor.Descriptor
	Condition        string
	IsArray          bool
	ElemType         reflect.Type
	SizeExpr         string
	ConverterChoices []ConverterChoice
	DefaultConverter string
	Validator        string
}

// FieldPlan is a compiled descriptor.Template: the executable form engine
// interprets. It is immutable once returned from Compile.
type FieldPlan struct {
	Name        string
	RecordType  slot.Table
	Header      descriptor.HeaderBinding
	Fields      []FieldOp
	PostProcess []FieldOp
}

// Slots returns the field-identity table backing this plan, for callers
// (configuration, describe) that need to resolve a FieldOp.Slot back to a
// live record value.
func (p *FieldPlan) Slots() *slot.Table {
	return &p.RecordType
}
