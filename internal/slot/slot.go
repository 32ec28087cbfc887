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

// Package slot assigns every compiled template field a stable integer
// SlotID once, at compile time, by the compiler package (the only package
// allowed to touch reflect.Type by field name). Every other package —
// codec, engine, configuration, describe — reads and writes record fields
// through a SlotID. The one run-time name lookup is engine's expression
// bridge, which resolves an identifier named in an expression to its
// SlotID through Table.Lookup on every evaluation.
package slot

import (
	"fmt"
	"reflect"
)

// ID identifies one field slot within a compiled record type.
type ID int

// Table maps field names to stable slot ids and back, and knows how to get
// and set a field's reflect.Value on a live *record* instance (a pointer to
// a struct of the compiled type). Table is built once by compiler and
// frozen inside the FieldPlan.
type Table struct {
	recordType reflect.Type
	names      []string          // index == ID
	byName     map[string]ID
	fieldIndex [][]int // reflect.Value.FieldByIndex path, parallel to names
}

// NewTable builds a slot table for recordType (must be a struct type, not a
// pointer) from the field names in declaration order.
func NewTable(recordType reflect.Type) (*Table, error) {
	if recordType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("slot: record type %s is not a struct", recordType)
	}
	t := &Table{
		recordType: recordType,
		byName:     map[string]ID{},
	}
	for i := 0; i < recordType.NumField(); i++ {
		f := recordType.Field(i)
		id := ID(len(t.names))
		t.names = append(t.names, f.Name)
		t.fieldIndex = append(t.fieldIndex, append([]int{}, f.Index...))
		t.byName[f.Name] = id
	}
	return t, nil
}

// Lookup resolves a field name to its stable SlotID, or an error if the
// name doesn't exist on the compiled record type.
func (t *Table) Lookup(name string) (ID, error) {
	id, ok := t.byName[name]
	if !ok {
		return 0, fmt.Errorf("slot: unknown field %q on %s", name, t.recordType)
	}
	return id, nil
}

// Type returns the record's underlying struct type, for callers (engine's
// Object dispatch) that must match a sub-value's runtime type against a
// compiled sub-template without going through field-by-field comparison.
func (t *Table) Type() reflect.Type {
	return t.recordType
}

// Name returns the field name bound to id (for error messages and
// Describer output only — never used for lookup at decode time).
func (t *Table) Name(id ID) string {
	if int(id) < 0 || int(id) >= len(t.names) {
		return fmt.Sprintf("<invalid slot %d>", id)
	}
	return t.names[id]
}

// FieldType returns the Go type of the field bound to id.
func (t *Table) FieldType(id ID) reflect.Type {
	return t.recordType.FieldByIndex(t.fieldIndex[id]).Type
}

// New allocates a zero value of the record type and returns an addressable
// reflect.Value (a pointer's Elem()) ready for Set.
func (t *Table) New() reflect.Value {
	return reflect.New(t.recordType).Elem()
}

// Set assigns v to the slot identified by id on record (an addressable
// struct value obtained from New or from reflect.ValueOf(ptr).Elem()).
func (t *Table) Set(record reflect.Value, id ID, v interface{}) error {
	field := record.FieldByIndex(t.fieldIndex[id])
	if !field.CanSet() {
		return fmt.Errorf("slot: field %q is not settable", t.Name(id))
	}
	rv := reflect.ValueOf(v)
	if v == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if !rv.Type().AssignableTo(field.Type()) {
		if rv.Type().ConvertibleTo(field.Type()) {
			rv = rv.Convert(field.Type())
		} else {
			return fmt.Errorf("slot: cannot assign %s to field %q of type %s", rv.Type(), t.Name(id), field.Type())
		}
	}
	field.Set(rv)
	return nil
}

// Get reads the current value of the slot identified by id on record.
func (t *Table) Get(record reflect.Value, id ID) interface{} {
	return record.FieldByIndex(t.fieldIndex[id]).Interface()
}

// Len returns the number of slots in the table.
func (t *Table) Len() int {
	return len(t.names)
}
