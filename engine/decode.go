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

// Package engine interprets a compiled compiler.FieldPlan against a
// bitio.Reader/Writer: the condition check -> decode/validate/convert ->
// post-process state machine. It is the only package that
// dispatches descriptor.KindObject and descriptor.KindAsArray, since both
// require recursing back into the engine itself (a sub-template lookup, or
// a nested per-element codec dispatch) rather than a single leaf codec.
package engine

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/go-logr/logr"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/boxonmetrics"
	"github.com/mtrevisan/boxon/checksum"
	"github.com/mtrevisan/boxon/codec"
	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/convert"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
	"github.com/mtrevisan/boxon/registry"
)

// Deps bundles the registries every Decode/Encode call needs, so a Core
// only has to build this once and pass it through.
type Deps struct {
	Codecs     *codec.Registry
	Templates  *registry.Registry
	Checksums  *checksum.Registry
	Converters *convert.Registry
}

// applyConverter runs a FieldOp's converter/validator pipeline against a
// freshly decoded value: the first ConverterChoice whose Condition holds
// wins, falling back to DefaultConverter; Validator (if set) then runs
// against the converted result without altering it.
func applyConverter(deps Deps, ctx expr.Context, op compiler.FieldOp, value interface{}) (interface{}, error) {
	if deps.Converters == nil {
		return value, nil
	}
	name := op.DefaultConverter
	for _, choice := range op.ConverterChoices {
		ok, err := expr.EvaluateBoolean(choice.Condition, ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			name = choice.Converter
			break
		}
	}
	if name != "" {
		fn, err := deps.Converters.Converter(name)
		if err != nil {
			return nil, err
		}
		value, err = fn(value)
		if err != nil {
			return nil, err
		}
	}
	if op.Validator != "" {
		fn, err := deps.Converters.Validator(op.Validator)
		if err != nil {
			return nil, err
		}
		if err := fn(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Decode reads one record matching plan from buf, starting at bit 0, and
// returns the populated record (as plan.RecordType's Go type), the number
// of bytes consumed, and any Fault encountered.
func Decode(log logr.Logger, plan *compiler.FieldPlan, deps Deps, buf []byte, root map[string]interface{}) (interface{}, int, error) {
	start := time.Now()
	r := bitio.NewReader(buf)
	err := consumeHeader(plan, r, buf)
	var rv reflect.Value
	if err == nil {
		rv, err = decodeInto(log, plan, deps, r, buf, root)
	}
	boxonmetrics.DecodeDurationSeconds.WithLabelValues(plan.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		boxonmetrics.DecodeErrorsTotal.WithLabelValues(plan.Name).Inc()
		return nil, r.ByteOffset(), err
	}
	return rv.Interface(), r.ByteOffset(), nil
}

// consumeHeader advances the reader past whichever of the template's start
// markers prefixes buf. The trailing end marker, if declared, is never
// required on decode; it is written on encode only.
func consumeHeader(plan *compiler.FieldPlan, r *bitio.Reader, buf []byte) error {
	if plan.Header.Embedded() {
		return nil
	}
	for _, marker := range plan.Header.StartMarkers {
		if len(marker) <= len(buf) && bytes.Equal(marker, buf[:len(marker)]) {
			return r.SkipBits(uint64(len(marker)) * 8)
		}
	}
	return fault(plan.Name, "<header>", 0, fmt.Errorf("engine: buffer does not start with any start marker of template %q", plan.Name))
}

// decodeInto runs the field pass and then the post-process pass for
// one template, reading from r (which may already be partway through a
// larger buffer, when called recursively for an Object sub-template). buf
// is the whole message buffer, needed by checksum validation to compute
// over a byte range independent of the current cursor.
func decodeInto(log logr.Logger, plan *compiler.FieldPlan, deps Deps, r *bitio.Reader, buf []byte, root map[string]interface{}) (reflect.Value, error) {
	table := plan.Slots()
	record := table.New()
	ctx := expr.Context{Root: root, Self: recordSelf{table: table, record: record}}

	for _, op := range plan.Fields {
		ok, err := expr.EvaluateBoolean(op.Condition, ctx)
		if err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}
		if !ok {
			continue
		}
		log.V(1).Info("decoding field", "template", plan.Name, "field", op.Name, "bit_offset", r.BitOffset())

		beforeOffset := r.ByteOffset()

		var value interface{}
		switch {
		case op.IsArray:
			value, err = decodeArray(log, plan, deps, r, buf, ctx, op)
		default:
			value, err = decodeOne(log, plan, deps, r, buf, ctx, op.Descriptor)
		}
		if err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}
		if value, err = applyConverter(deps, ctx, op, value); err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}
		if err := table.Set(record, op.Slot, value); err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}

		if cp, isCP := op.Descriptor.(descriptor.ContextParameter); isCP {
			root[cp.Name] = value
		}
		if cs, isChecksum := op.Descriptor.(descriptor.Checksum); isChecksum {
			if err := validateChecksum(plan.Name, deps, buf, cs, beforeOffset, value); err != nil {
				return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
			}
		}
		boxonmetrics.FieldsDecoded.WithLabelValues(plan.Name).Inc()
	}

	for _, op := range plan.PostProcess {
		ok, err := expr.EvaluateBoolean(op.Condition, ctx)
		if err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}
		if !ok {
			continue
		}
		if p, isPostProcess := op.Descriptor.(descriptor.PostProcess); isPostProcess {
			ok, err = expr.EvaluateBoolean(p.Condition, ctx)
			if err != nil {
				return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
			}
			if !ok {
				continue
			}
		}
		c, err := deps.Codecs.Lookup(op.Descriptor.Kind())
		if err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}
		value, err := c.Decode(r, op.Descriptor, ctx)
		if err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}
		// A null result is assigned too: slot.Set clears the field to its
		// zero value, which is how ValueDecode expressions null a field out.
		if err := table.Set(record, op.Slot, value); err != nil {
			return record, fault(plan.Name, op.Name, r.ByteOffset(), err)
		}
	}

	return record, nil
}

// decodeOne dispatches a single non-array descriptor: Object recurses into
// the engine itself (via a sub-template lookup), everything else goes
// through the codec registry.
func decodeOne(log logr.Logger, plan *compiler.FieldPlan, deps Deps, r *bitio.Reader, buf []byte, ctx expr.Context, d descriptor.Descriptor) (interface{}, error) {
	if obj, ok := d.(descriptor.Object); ok {
		return decodeObject(log, plan, deps, r, buf, ctx, obj)
	}
	c, err := deps.Codecs.Lookup(d.Kind())
	if err != nil {
		return nil, err
	}
	return c.Decode(r, d, ctx)
}

// decodeArray evaluates SizeExpr and loops decodeOne that many times,
// assembling a slice of the matching Go element type (exactly SizeExpr
// elements, never partial).
func decodeArray(log logr.Logger, plan *compiler.FieldPlan, deps Deps, r *bitio.Reader, buf []byte, ctx expr.Context, op compiler.FieldOp) (interface{}, error) {
	arr, ok := op.Descriptor.(descriptor.AsArray)
	if !ok {
		return nil, fmt.Errorf("engine: field %q is marked IsArray but descriptor is %T", op.Name, op.Descriptor)
	}
	count, err := expr.EvaluateSize(op.SizeExpr, ctx)
	if err != nil {
		return nil, err
	}
	elemType := op.ElemType
	slice := reflect.MakeSlice(reflect.SliceOf(elemType), count, count)
	for i := 0; i < count; i++ {
		v, err := decodeOne(log, plan, deps, r, buf, ctx, arr.Element)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			rv = reflect.Zero(elemType)
		} else if rv.Type() != elemType && rv.Type().ConvertibleTo(elemType) {
			rv = rv.Convert(elemType)
		}
		slice.Index(i).Set(rv)
	}
	return slice.Interface(), nil
}

func decodeObject(log logr.Logger, plan *compiler.FieldPlan, deps Deps, r *bitio.Reader, buf []byte, ctx expr.Context, obj descriptor.Object) (interface{}, error) {
	localCtx := ctx
	if obj.PrefixSizeBits > 0 && !obj.PrefixConsumed {
		v, err := r.GetInteger(uint32(obj.PrefixSizeBits), obj.ByteOrder, false)
		if err != nil {
			return nil, err
		}
		if self, ok := ctx.Self.(recordSelf); ok {
			localCtx.Self = self.withPrefix(v.Int64())
		}
	}
	// When PrefixConsumed is set, the discriminator was already read by an
	// earlier sibling field; choices resolve "prefix" against that field's
	// already-bound slot value instead (recordSelf.Field falls through to
	// the slot table when no withPrefix override is active).

	chosen := obj.Default
	for _, choice := range obj.Choices {
		matched, err := expr.EvaluateBoolean(choice.Condition, localCtx)
		if err != nil {
			return nil, err
		}
		if matched {
			chosen = choice.Template
			break
		}
	}
	if chosen == "" {
		return nil, ErrChoiceUnmatched
	}
	sub, err := deps.Templates.Lookup(chosen)
	if err != nil {
		return nil, err
	}
	rv, err := decodeInto(log, sub, deps, r, buf, localCtx.Root)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

func validateChecksum(templateName string, deps Deps, buf []byte, cs descriptor.Checksum, messageEnd int, decodedValue interface{}) error {
	algo, ok := deps.Checksums.Lookup(cs.Algorithm)
	if !ok {
		return fmt.Errorf("engine: no checksum algorithm registered under %q", cs.Algorithm)
	}
	end := messageEnd - cs.SkipEnd
	expected := algo.Calculate(buf, cs.SkipStart, end)
	got := toUint64(decodedValue)
	if expected != got {
		boxonmetrics.ChecksumMismatches.WithLabelValues(templateName).Inc()
		return fmt.Errorf("%w: expected 0x%x, got 0x%x", ErrChecksumMismatch, expected, got)
	}
	return nil
}

func toUint64(v interface{}) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		return uint64(n)
	case interface{ Uint64() uint64 }:
		return n.Uint64()
	default:
		return 0
	}
}
