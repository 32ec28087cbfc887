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

import "fmt"

// Violation is one failed validation rule, tied to the field that caused it.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

// TemplateError collects every Violation found while compiling a template;
// Compile never stops at the first error, so a caller sees the whole
// shape's problems at once.
type TemplateError struct {
	Template   string
	Violations []Violation
}

func (e *TemplateError) Error() string {
	s := fmt.Sprintf("compiler: template %q has %d violation(s)", e.Template, len(e.Violations))
	for _, v := range e.Violations {
		s += "\n  - " + v.String()
	}
	return s
}

func (e *TemplateError) add(field, reason string, args ...interface{}) {
	e.Violations = append(e.Violations, Violation{Field: field, Reason: fmt.Sprintf(reason, args...)})
}

func (e *TemplateError) errOrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
