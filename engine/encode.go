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

package engine

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/go-logr/logr"

	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/boxonmetrics"
	"github.com/mtrevisan/boxon/codec"
	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
)

// Encode serializes value (which must be, or point to, plan.RecordType's Go
// type) against plan and returns the wire bytes.
func Encode(log logr.Logger, plan *compiler.FieldPlan, deps Deps, value interface{}, root map[string]interface{}) ([]byte, error) {
	start := time.Now()
	w := bitio.NewWriter()
	if !plan.Header.Embedded() {
		// The first declared start marker identifies the template on the
		// wire; alternatives beyond the first only ever matter on decode.
		w.PutBytes(plan.Header.StartMarkers[0])
	}
	err := encodeInto(log, plan, deps, w, value, root)
	boxonmetrics.EncodeDurationSeconds.WithLabelValues(plan.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		boxonmetrics.EncodeErrorsTotal.WithLabelValues(plan.Name).Inc()
		return nil, err
	}
	if len(plan.Header.EndMarker) > 0 {
		w.PutBytes(plan.Header.EndMarker)
	}
	return w.Flush(), nil
}

// encodeInto runs the post-process pass before the field pass (ValueEncode
// expressions see the record as the caller populated it, ahead of any
// field's own serialization), then writes every field in
// declaration order, computing and appending a trailing Checksum last.
func encodeInto(log logr.Logger, plan *compiler.FieldPlan, deps Deps, w *bitio.Writer, value interface{}, root map[string]interface{}) error {
	table := plan.Slots()
	record := toAddressableRecord(table, value)
	ctx := expr.Context{Root: root, Self: recordSelf{table: table, record: record}}

	for _, op := range plan.PostProcess {
		p, isPostProcess := op.Descriptor.(descriptor.PostProcess)
		if !isPostProcess {
			// Evaluate-kind fields are decode-only derivations; they
			// carry nothing to re-apply before encoding.
			continue
		}
		ok, err := expr.EvaluateBoolean(op.Condition, ctx)
		if err != nil {
			return fault(plan.Name, op.Name, 0, err)
		}
		if !ok {
			continue
		}
		ok, err = expr.EvaluateBoolean(p.Condition, ctx)
		if err != nil {
			return fault(plan.Name, op.Name, 0, err)
		}
		if !ok {
			continue
		}
		v, err := codec.EvaluatePostProcessEncode(p, ctx)
		if err != nil {
			return fault(plan.Name, op.Name, 0, err)
		}
		if err := table.Set(record, op.Slot, v); err != nil {
			return fault(plan.Name, op.Name, 0, err)
		}
	}

	checksumStart := -1
	var checksumOp *compiler.FieldOp

	for _, op := range plan.Fields {
		ok, err := expr.EvaluateBoolean(op.Condition, ctx)
		if err != nil {
			return fault(plan.Name, op.Name, int(w.BitLength()/8), err)
		}
		if !ok {
			continue
		}
		log.V(1).Info("encoding field", "template", plan.Name, "field", op.Name)

		if _, isChecksum := op.Descriptor.(descriptor.Checksum); isChecksum {
			checksumStart = int(w.BitLength() / 8)
			checksumField := op
			checksumOp = &checksumField
			continue
		}

		v := table.Get(record, op.Slot)

		switch {
		case op.IsArray:
			if err := encodeArray(log, plan, deps, w, ctx, op, v); err != nil {
				return fault(plan.Name, op.Name, int(w.BitLength()/8), err)
			}
		default:
			if err := encodeOne(log, plan, deps, w, ctx, op.Descriptor, v); err != nil {
				return fault(plan.Name, op.Name, int(w.BitLength()/8), err)
			}
		}

		if cp, isCP := op.Descriptor.(descriptor.ContextParameter); isCP {
			root[cp.Name] = v
		}
		boxonmetrics.FieldsEncoded.WithLabelValues(plan.Name).Inc()
	}

	if checksumOp != nil {
		cs := checksumOp.Descriptor.(descriptor.Checksum)
		end := checksumStart - cs.SkipEnd
		algo, ok := deps.Checksums.Lookup(cs.Algorithm)
		if !ok {
			return fault(plan.Name, checksumOp.Name, checksumStart, fmt.Errorf("engine: no checksum algorithm registered under %q", cs.Algorithm))
		}
		expected := algo.Calculate(w.Array(), cs.SkipStart, end)
		c, err := deps.Codecs.Lookup(descriptor.KindChecksum)
		if err != nil {
			return fault(plan.Name, checksumOp.Name, checksumStart, err)
		}
		if err := c.Encode(w, cs, ctx, expected); err != nil {
			return fault(plan.Name, checksumOp.Name, checksumStart, err)
		}
		boxonmetrics.FieldsEncoded.WithLabelValues(plan.Name).Inc()
	}

	return nil
}

// encodeOne dispatches a single non-array descriptor: Object picks the
// alternative whose compiled sub-template matches value's runtime type and
// writes its literal PrefixValue, everything else goes through the codec
// registry.
func encodeOne(log logr.Logger, plan *compiler.FieldPlan, deps Deps, w *bitio.Writer, ctx expr.Context, d descriptor.Descriptor, value interface{}) error {
	if obj, ok := d.(descriptor.Object); ok {
		return encodeObject(log, deps, w, ctx, obj, value)
	}
	c, err := deps.Codecs.Lookup(d.Kind())
	if err != nil {
		return err
	}
	return c.Encode(w, d, ctx, value)
}

// encodeArray checks the slice held in value against SizeExpr (the
// element count must equal SizeExpr exactly, on encode as much as decode)
// before writing it out.
func encodeArray(log logr.Logger, plan *compiler.FieldPlan, deps Deps, w *bitio.Writer, ctx expr.Context, op compiler.FieldOp, value interface{}) error {
	arr, ok := op.Descriptor.(descriptor.AsArray)
	if !ok {
		return fmt.Errorf("engine: field %q is marked IsArray but descriptor is %T", op.Name, op.Descriptor)
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		rv = reflect.Zero(reflect.SliceOf(op.ElemType))
	}
	count, err := expr.EvaluateSize(op.SizeExpr, ctx)
	if err != nil {
		return err
	}
	if rv.Len() != count {
		return fmt.Errorf("%w: field %q holds %d element(s), size expression %q evaluated to %d", ErrArrayLengthMismatch, op.Name, rv.Len(), op.SizeExpr, count)
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := encodeOne(log, plan, deps, w, ctx, arr.Element, elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// encodeObject resolves which ObjectChoice matches value's runtime type by
// comparing it against each choice's compiled sub-template record type,
// writes the optional discriminator prefix (the matched choice's literal
// PrefixValue), and recurses into that sub-template's own encodeInto.
func encodeObject(log logr.Logger, deps Deps, w *bitio.Writer, ctx expr.Context, obj descriptor.Object, value interface{}) error {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	for _, choice := range obj.Choices {
		sub, err := deps.Templates.Lookup(choice.Template)
		if err != nil {
			return err
		}
		if rv.IsValid() && rv.Type() != sub.Slots().Type() {
			continue
		}
		if obj.PrefixSizeBits > 0 && !obj.PrefixConsumed {
			if err := w.PutInteger(big.NewInt(choice.PrefixValue), uint32(obj.PrefixSizeBits), obj.ByteOrder); err != nil {
				return err
			}
		}
		return encodeInto(log, sub, deps, w, value, ctx.Root)
	}
	return ErrChoiceUnmatched
}

// toAddressableRecord copies value into a fresh addressable slot.Table
// record, so PostProcess's ValueEncode pass can assign computed fields back
// onto it without mutating the caller's original value.
func toAddressableRecord(table interface {
	New() reflect.Value
}, value interface{}) reflect.Value {
	record := table.New()
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.IsValid() && rv.Type() == record.Type() {
		record.Set(rv)
	}
	return record
}
