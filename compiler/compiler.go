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

	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
	"github.com/mtrevisan/boxon/internal/slot"
)

// Compile validates descriptors against recordType and emits an immutable
// FieldPlan, collecting every violation rather than failing on the first
// one.
func Compile(recordType reflect.Type, tpl descriptor.Template) (*FieldPlan, error) {
	for recordType.Kind() == reflect.Ptr {
		recordType = recordType.Elem()
	}
	table, err := slot.NewTable(recordType)
	if err != nil {
		return nil, &TemplateError{Template: tpl.Name, Violations: []Violation{{Field: "<record>", Reason: err.Error()}}}
	}

	terr := &TemplateError{Template: tpl.Name}
	plan := &FieldPlan{Name: tpl.Name, RecordType: *table, Header: tpl.Header}

	for _, fd := range tpl.Fields {
		op, ok := compileFieldOp(table, fd, terr)
		if !ok {
			continue
		}
		switch op.Descriptor.Kind() {
		case descriptor.KindEvaluate, descriptor.KindPostProcess:
			plan.PostProcess = append(plan.PostProcess, op)
		default:
			plan.Fields = append(plan.Fields, op)
		}
	}
	for _, fd := range tpl.PostProcess {
		op, ok := compileFieldOp(table, fd, terr)
		if !ok {
			continue
		}
		plan.PostProcess = append(plan.PostProcess, op)
	}

	validateChecksumIsLast(plan, terr)

	if err := terr.errOrNil(); err != nil {
		return nil, err
	}
	return plan, nil
}

func compileFieldOp(table *slot.Table, fd descriptor.FieldDescriptor, terr *TemplateError) (FieldOp, bool) {
	// Step 1: bind to a target field; reject nonexistent targets.
	id, err := table.Lookup(fd.TargetField)
	if err != nil {
		terr.add(fd.TargetField, "no such field on record: %v", err)
		return FieldOp{}, false
	}
	fieldType := table.FieldType(id)

	op := FieldOp{
		Slot:             id,
		Name:             fd.TargetField,
		Descriptor:       fd.Descriptor,
		Condition:        fd.Condition,
		DefaultConverter: fd.DefaultConverter,
		Validator:        fd.Validator,
	}
	for _, c := range fd.ConverterChoices {
		op.ConverterChoices = append(op.ConverterChoices, ConverterChoice{Condition: c.Condition, Converter: c.Converter})
	}

	if fd.Condition != "" {
		if _, err := expr.Parse(fd.Condition); err != nil {
			terr.add(fd.TargetField, "malformed condition %q: %v", fd.Condition, err)
		}
	}
	for _, c := range op.ConverterChoices {
		if _, err := expr.Parse(c.Condition); err != nil {
			terr.add(fd.TargetField, "malformed converter-choice condition %q: %v", c.Condition, err)
		}
	}

	d := fd.Descriptor
	if arr, isArray := d.(descriptor.AsArray); isArray {
		validateAsArray(fd.TargetField, arr, fieldType, terr)
		op.IsArray = true
		op.SizeExpr = arr.SizeExpr
		if fieldType.Kind() == reflect.Slice {
			op.ElemType = fieldType.Elem()
		}
		d = arr.Element
	}

	switch v := d.(type) {
	case descriptor.Object:
		validateObject(fd.TargetField, v, terr)
	case descriptor.Checksum:
		if v.SkipStart < 0 {
			terr.add(fd.TargetField, "checksum skip_start must be non-negative, got %d", v.SkipStart)
		}
		if v.SkipEnd < 0 {
			terr.add(fd.TargetField, "checksum skip_end must be non-negative, got %d", v.SkipEnd)
		}
		if v.Algorithm == "" {
			terr.add(fd.TargetField, "checksum requires a non-empty algorithm name")
		}
	case descriptor.ConfigurationField:
		validateConfigurationField(fd.TargetField, v, terr)
	}

	return op, true
}

// validateObject implements step 2: each choice's condition must parse,
// and when a discriminating prefix is in play, every choice condition may
// reference nothing but that prefix.
func validateObject(field string, o descriptor.Object, terr *TemplateError) {
	for _, choice := range o.Choices {
		if choice.Template == "" {
			terr.add(field, "object choice missing a sub-template reference")
		}
		if choice.Condition == "" {
			continue
		}
		e, err := expr.Parse(choice.Condition)
		if err != nil {
			terr.add(field, "malformed object choice condition %q: %v", choice.Condition, err)
			continue
		}
		if o.PrefixSizeBits > 0 {
			for _, ident := range expr.FreeIdentifiers(e) {
				if ident != "prefix" {
					terr.add(field, "object choice condition %q references %q, but choices with a prefix must be discriminated by the prefix alone", choice.Condition, ident)
				}
			}
		}
	}
}

// validateAsArray implements step 4: the target field must be a slice and
// the wrapped element may not itself be an AsArray. The slice's element
// type is not compared with the element descriptor.
func validateAsArray(field string, arr descriptor.AsArray, fieldType reflect.Type, terr *TemplateError) {
	if fieldType.Kind() != reflect.Slice {
		terr.add(field, "AsArray descriptor targets %s, which is not a slice", fieldType)
		return
	}
	if _, isNestedArray := arr.Element.(descriptor.AsArray); isNestedArray {
		terr.add(field, "AsArray element may not itself be an AsArray")
	}
}

// validateConfigurationField implements step 5: at most one of
// pattern/(min,max)/enumeration may be set. The pattern's syntax and the
// default value are not checked against the constraint here.
func validateConfigurationField(field string, c descriptor.ConfigurationField, terr *TemplateError) {
	constraints := 0
	if c.Pattern != "" {
		constraints++
	}
	if c.MinValue != "" || c.MaxValue != "" {
		constraints++
	}
	if len(c.Enumeration) > 0 {
		constraints++
	}
	if constraints > 1 {
		terr.add(field, "configuration field sets more than one of pattern/range/enumeration")
	}
}

// validateChecksumIsLast implements the second half of step 6: a Checksum
// descriptor must be the last on-wire field of its template.
func validateChecksumIsLast(plan *FieldPlan, terr *TemplateError) {
	for i, op := range plan.Fields {
		if op.Descriptor.Kind() == descriptor.KindChecksum && i != len(plan.Fields)-1 {
			terr.add(op.Name, "checksum field must be the last on-wire field of its template")
		}
	}
}
