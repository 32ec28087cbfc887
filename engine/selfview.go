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
	"reflect"

	"github.com/mtrevisan/boxon/internal/slot"
)

// recordSelf bridges a live, addressable record value to expr.SelfView, so
// condition/size/choice expressions can read #self.<field> and bare
// <field> without the expr package ever touching reflect.
type recordSelf struct {
	table  *slot.Table
	record reflect.Value
	prefix *int64
}

func (s recordSelf) Field(name string) (interface{}, bool) {
	if name == "prefix" && s.prefix != nil {
		return *s.prefix, true
	}
	id, err := s.table.Lookup(name)
	if err != nil {
		return nil, false
	}
	return s.table.Get(s.record, id), true
}

// withPrefix returns a copy of s exposing "prefix" as the bare identifier
// prefix (used only while evaluating an Object descriptor's choices).
func (s recordSelf) withPrefix(v int64) recordSelf {
	s.prefix = &v
	return s
}
