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
	"errors"
	"fmt"
)

// ErrChoiceUnmatched is returned (wrapped in a Fault) when an Object
// descriptor's prefix/condition selects none of its choices and no
// Default is set.
var ErrChoiceUnmatched = errors.New("engine: no object choice matched")

// ErrChecksumMismatch is returned (wrapped in a Fault) when a decoded
// Checksum field disagrees with the value the registered algorithm
// computes over the message range.
var ErrChecksumMismatch = errors.New("engine: checksum mismatch")

// ErrArrayLengthMismatch is returned (wrapped in a Fault) when an AsArray
// field's slice length disagrees with its SizeExpr at encode time.
var ErrArrayLengthMismatch = errors.New("engine: array length does not match size expression")

// Fault wraps any error surfaced while running a FieldPlan, tagging it
// with the field and template that produced it, and the byte offset into
// the buffer at the time of failure — expr's ErrParse/ErrType/
// ErrUnresolvedIdentifier, codec errors, and engine's own sentinels all
// bubble out through Fault untouched.
type Fault struct {
	Template   string
	Field      string
	ByteOffset int
	Cause      error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("engine: template %q field %q (byte offset %d): %v", f.Template, f.Field, f.ByteOffset, f.Cause)
}

func (f *Fault) Unwrap() error { return f.Cause }

func fault(template, field string, offset int, cause error) error {
	if cause == nil {
		return nil
	}
	return &Fault{Template: template, Field: field, ByteOffset: offset, Cause: cause}
}
