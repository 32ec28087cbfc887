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

// Package registry holds the set of compiled templates a Core can match an
// incoming buffer against. Templates are declared ahead of time and
// matched by a variable-length header prefix with longest-prefix-wins
// lookup, rather than keyed by a fixed-size id.
package registry

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mtrevisan/boxon/compiler"
)

// ErrOverlappingHeader is returned by Register when a new template's start
// marker is a prefix of (or is prefixed by) an already-registered one;
// headers must be pairwise disjoint.
var ErrOverlappingHeader = errors.New("registry: overlapping header")

// ErrNoMatchingTemplate is returned by Match when no registered template's
// header matches the start of buf.
var ErrNoMatchingTemplate = errors.New("registry: no matching template")

type entry struct {
	marker []byte
	plan   *compiler.FieldPlan
}

// Registry is a header-prefix index of compiled templates. Embedded
// templates (HeaderBinding.Embedded() == true) are registered by name only
// (RegisterEmbedded) and are never matched by Match — they are reached only
// through an Object descriptor's choice list.
type Registry struct {
	entries []entry
	byName  map[string]*compiler.FieldPlan
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byName: map[string]*compiler.FieldPlan{}}
}

// Register adds plan, keyed by every one of its header's StartMarkers.
// It is an error for plan.Header to be embedded, for any marker to be
// empty, or for any marker to overlap (as a byte-prefix) a marker already
// registered, including an earlier marker of plan itself.
func (r *Registry) Register(plan *compiler.FieldPlan) error {
	if plan.Header.Embedded() {
		return fmt.Errorf("registry: template %q has no header to register", plan.Name)
	}
	for _, marker := range plan.Header.StartMarkers {
		if len(marker) == 0 {
			return fmt.Errorf("registry: template %q declares an empty start marker", plan.Name)
		}
		for _, e := range r.entries {
			if bytesPrefixOf(marker, e.marker) || bytesPrefixOf(e.marker, marker) {
				return fmt.Errorf("%w: template %q's marker %x overlaps template %q's marker %x",
					ErrOverlappingHeader, plan.Name, marker, e.plan.Name, e.marker)
			}
		}
		r.entries = append(r.entries, entry{marker: marker, plan: plan})
	}
	r.byName[plan.Name] = plan
	return nil
}

// RegisterEmbedded adds plan by name only, without a wire header — for
// sub-templates reached exclusively through an Object descriptor's choice
// list, never matched directly from Match.
func (r *Registry) RegisterEmbedded(plan *compiler.FieldPlan) error {
	if !plan.Header.Embedded() {
		return fmt.Errorf("registry: template %q has a header and must use Register", plan.Name)
	}
	if _, exists := r.byName[plan.Name]; exists {
		return fmt.Errorf("registry: template %q already registered", plan.Name)
	}
	r.byName[plan.Name] = plan
	return nil
}

func bytesPrefixOf(prefix, s []byte) bool {
	return len(prefix) <= len(s) && bytes.Equal(prefix, s[:len(prefix)])
}

// Match returns the template whose start marker is the longest prefix of
// buf.
func (r *Registry) Match(buf []byte) (*compiler.FieldPlan, error) {
	var best *entry
	for i := range r.entries {
		e := &r.entries[i]
		if bytesPrefixOf(e.marker, buf) {
			if best == nil || len(e.marker) > len(best.marker) {
				best = e
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %x", ErrNoMatchingTemplate, firstBytes(buf, 8))
	}
	return best.plan, nil
}

// Lookup returns the template registered under name (used to resolve
// Object descriptor choices, which reference sub-templates by name rather
// than by header).
func (r *Registry) Lookup(name string) (*compiler.FieldPlan, error) {
	plan, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("registry: no template named %q", name)
	}
	return plan, nil
}

func firstBytes(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}
	return b[:n]
}
