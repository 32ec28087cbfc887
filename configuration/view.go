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

// Package configuration exposes a compiler.FieldPlan's human-facing,
// protocol-bounded surface: the subset of fields a given semver.Version can
// see, described for a UI or CLI, and validated
// from freeform string input ahead of engine.Encode.
package configuration

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/internal/semver"
)

// View is the protocol-filtered configuration surface of one compiled
// template, frozen at construction time.
type View struct {
	plan    *compiler.FieldPlan
	version semver.Version
	fields  []compiler.FieldOp
}

// New filters plan.Fields down to those visible at protocol version v:
// fields with no MinProtocol/MaxProtocol bound are always visible; fields
// bound to a ConfigurationField/CompositeConfigurationField/
// AlternativeConfigurationField outside [MinProtocol, MaxProtocol] are
// dropped entirely.
func New(plan *compiler.FieldPlan, v semver.Version) *View {
	view := &View{plan: plan, version: v}
	for _, op := range plan.Fields {
		if _, isSkip := op.Descriptor.(descriptor.ConfigurationSkip); isSkip {
			continue
		}
		minP, maxP, bounded := protocolBounds(op.Descriptor)
		if bounded && !inRange(v, minP, maxP) {
			continue
		}
		view.fields = append(view.fields, op)
	}
	return view
}

func protocolBounds(d descriptor.Descriptor) (min, max string, bounded bool) {
	switch v := d.(type) {
	case descriptor.ConfigurationField:
		return v.MinProtocol, v.MaxProtocol, v.MinProtocol != "" || v.MaxProtocol != ""
	case descriptor.CompositeConfigurationField:
		return v.MinProtocol, v.MaxProtocol, v.MinProtocol != "" || v.MaxProtocol != ""
	case descriptor.AlternativeConfigurationField:
		return v.MinProtocol, v.MaxProtocol, v.MinProtocol != "" || v.MaxProtocol != ""
	default:
		return "", "", false
	}
}

func inRange(v semver.Version, minS, maxS string) bool {
	var minV, maxV semver.Version
	if minS != "" {
		if parsed, err := semver.Parse(minS); err == nil {
			minV = parsed
		}
	}
	if maxS != "" {
		if parsed, err := semver.Parse(maxS); err == nil {
			maxV = parsed
		}
	}
	return semver.InRange(v, minV, maxV)
}

// Describe renders every visible field's configuration metadata, keyed by
// field name, iterating plan.Fields in declaration order for deterministic
// output, never map iteration.
func (view *View) Describe() map[string]interface{} {
	out := make(map[string]interface{}, len(view.fields))
	for _, op := range view.fields {
		if entry, ok := describeField(op.Descriptor); ok {
			out[op.Name] = entry
		}
	}
	return out
}

func describeField(d descriptor.Descriptor) (map[string]interface{}, bool) {
	switch v := d.(type) {
	case descriptor.ConfigurationField:
		return describeConfigurationField(v), true
	case descriptor.CompositeConfigurationField:
		fields := make([]map[string]interface{}, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, describeConfigurationField(f))
		}
		entry := map[string]interface{}{"fields": fields}
		setIfNonEmpty(entry, "short_description", v.ShortDescription)
		setIfNonEmpty(entry, "long_description", v.LongDescription)
		return entry, true
	case descriptor.AlternativeConfigurationField:
		alternatives := make(map[string]interface{}, len(v.Alternatives))
		for name, f := range v.Alternatives {
			alternatives[name] = describeConfigurationField(f)
		}
		return map[string]interface{}{
			"discriminant": v.Discriminant,
			"alternatives": alternatives,
		}, true
	default:
		return nil, false
	}
}

func describeConfigurationField(c descriptor.ConfigurationField) map[string]interface{} {
	entry := map[string]interface{}{}
	setIfNonEmpty(entry, "short_description", c.ShortDescription)
	setIfNonEmpty(entry, "long_description", c.LongDescription)
	setIfNonEmpty(entry, "unit", c.Unit)
	setIfNonEmpty(entry, "pattern", c.Pattern)
	setIfNonEmpty(entry, "min_value", c.MinValue)
	setIfNonEmpty(entry, "max_value", c.MaxValue)
	setIfNonEmpty(entry, "default_value", c.DefaultValue)
	if len(c.Enumeration) > 0 {
		entry["enumeration"] = c.Enumeration
	}
	if c.Charset != "" {
		entry["charset"] = string(c.Charset)
	}
	if c.Radix != 0 {
		entry["radix"] = c.Radix
	}
	return entry
}

func setIfNonEmpty(m map[string]interface{}, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// ValidationError collects every field that failed validation, rather than
// stopping at the first one — the same collect-all-violations posture
// compiler.Compile takes.
type ValidationError struct {
	Failures map[string]string
}

func (e *ValidationError) Error() string {
	s := "configuration: validation failed:"
	for field, reason := range e.Failures {
		s += " " + field + ": " + reason + ";"
	}
	return s
}

// ValidateInput checks each visible ConfigurationField-backed field's
// string value against its pattern/range/enumeration, then assembles a new
// record of the plan's record type ready for engine.Encode.
func (view *View) ValidateInput(input map[string]string) (interface{}, error) {
	table := view.plan.Slots()
	record := table.New()
	failures := map[string]string{}

	for _, op := range view.fields {
		c, ok := op.Descriptor.(descriptor.ConfigurationField)
		if !ok {
			continue
		}
		raw, present := input[op.Name]
		if !present {
			raw = c.DefaultValue
		}
		if err := validateConstraint(c, raw); err != nil {
			failures[op.Name] = err.Error()
			continue
		}
		typed, err := coerce(raw, table.FieldType(op.Slot), c.Radix)
		if err != nil {
			failures[op.Name] = err.Error()
			continue
		}
		if err := validateRange(c, typed); err != nil {
			failures[op.Name] = err.Error()
			continue
		}
		if err := table.Set(record, op.Slot, typed); err != nil {
			failures[op.Name] = err.Error()
		}
	}

	if len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}
	return record.Interface(), nil
}

func errPattern(pattern, raw string) error {
	return fmt.Errorf("value %q does not match pattern %q", raw, pattern)
}

func errEnumeration(raw string) error {
	return fmt.Errorf("value %q is not one of the allowed values", raw)
}

// coerce converts a raw string into fieldType's Go representation, parsing
// integers in radix (default base 10) when fieldType is an integer kind;
// string-kind fields pass through unchanged.
func coerce(raw string, fieldType reflect.Type, radix int) (interface{}, error) {
	base := radix
	if base == 0 {
		base = 10
	}
	switch fieldType.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, base, fieldType.Bits())
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid integer: %w", raw, err)
		}
		return reflect.ValueOf(n).Convert(fieldType).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, base, fieldType.Bits())
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid unsigned integer: %w", raw, err)
		}
		return reflect.ValueOf(n).Convert(fieldType).Interface(), nil
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, fieldType.Bits())
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid number: %w", raw, err)
		}
		return reflect.ValueOf(n).Convert(fieldType).Interface(), nil
	case reflect.Bool:
		n, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid boolean: %w", raw, err)
		}
		return n, nil
	default:
		return raw, nil
	}
}

// validateRange checks a coerced numeric value against MinValue/MaxValue,
// parsed with the same base as the field itself. Non-numeric fields (or
// constraints left blank) are not range-checked.
func validateRange(c descriptor.ConfigurationField, typed interface{}) error {
	if c.MinValue == "" && c.MaxValue == "" {
		return nil
	}
	f, ok := toFloat64(typed)
	if !ok {
		return nil
	}
	parseBound := func(s string) (float64, error) {
		if c.Radix != 0 && c.Radix != 10 {
			n, err := strconv.ParseInt(s, c.Radix, 64)
			return float64(n), err
		}
		return strconv.ParseFloat(s, 64)
	}
	if c.MinValue != "" {
		if min, err := parseBound(c.MinValue); err == nil && f < min {
			return fmt.Errorf("value %v is below minimum %s", typed, c.MinValue)
		}
	}
	if c.MaxValue != "" {
		if max, err := parseBound(c.MaxValue); err == nil && f > max {
			return fmt.Errorf("value %v is above maximum %s", typed, c.MaxValue)
		}
	}
	return nil
}

func toFloat64(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func validateConstraint(c descriptor.ConfigurationField, raw string) error {
	switch {
	case c.Pattern != "":
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return err
		}
		if !re.MatchString(raw) {
			return errPattern(c.Pattern, raw)
		}
	case len(c.Enumeration) > 0:
		for key := range c.Enumeration {
			if key == raw {
				return nil
			}
		}
		return errEnumeration(raw)
	}
	return nil
}
