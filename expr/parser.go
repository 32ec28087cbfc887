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

package expr

import (
	"fmt"
	"sync"

	"github.com/alecthomas/participle/v2"
)

// ErrParse is wrapped by every grammar failure.
type ErrParse struct {
	Source string
	Cause  error
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("expr: failed to parse %q: %v", e.Source, e.Cause)
}

func (e *ErrParse) Unwrap() error { return e.Cause }

var grammar = participle.MustBuild[Expr](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

var cache sync.Map // string -> *Expr (or cached error)

type cacheEntry struct {
	expr *Expr
	err  error
}

// Parse compiles src into an Expr, caching by source text since the same
// condition/size string is parsed once but evaluated many times (once per
// decoded/encoded record, or once per array element).
func Parse(src string) (*Expr, error) {
	if v, ok := cache.Load(src); ok {
		e := v.(cacheEntry)
		return e.expr, e.err
	}
	ast, err := grammar.ParseString("", src)
	entry := cacheEntry{}
	if err != nil {
		entry.err = &ErrParse{Source: src, Cause: err}
	} else {
		entry.expr = ast
	}
	cache.Store(src, entry)
	return entry.expr, entry.err
}

// MustParse is Parse, panicking on error; intended for test fixtures and
// compiler-internal synthetic expressions known to be well-formed.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// FreeIdentifiers returns every bare/#self identifier referenced anywhere
// in e, used by the compiler to verify that Object
// choice alternatives discriminated by a bit prefix reference nothing but
// that prefix.
func FreeIdentifiers(e *Expr) []string {
	var out []string
	walk(e, &out)
	return out
}

func walk(n interface{}, out *[]string) {
	switch v := n.(type) {
	case *Expr:
		if v != nil {
			walk(v.Ternary, out)
		}
	case *Ternary:
		if v == nil {
			return
		}
		walk(v.Cond, out)
		walk(v.Then, out)
		walk(v.Else, out)
	case *LogicOr:
		if v == nil {
			return
		}
		walk(v.Head, out)
		for _, r := range v.Rest {
			walk(r, out)
		}
	case *LogicAnd:
		if v == nil {
			return
		}
		walk(v.Head, out)
		for _, r := range v.Rest {
			walk(r, out)
		}
	case *Equality:
		if v == nil {
			return
		}
		walk(v.Head, out)
		for _, r := range v.Rest {
			walk(r, out)
		}
	case *Comparison:
		if v == nil {
			return
		}
		walk(v.Head, out)
		for _, r := range v.Rest {
			walk(r, out)
		}
	case *Additive:
		if v == nil {
			return
		}
		walk(v.Head, out)
		for _, r := range v.Rest {
			walk(r, out)
		}
	case *Multiplicative:
		if v == nil {
			return
		}
		walk(v.Head, out)
		for _, r := range v.Rest {
			walk(r, out)
		}
	case *Unary:
		if v == nil {
			return
		}
		walk(v.Primary, out)
	case *Primary:
		if v == nil {
			return
		}
		if v.Bare != nil {
			*out = append(*out, *v.Bare)
		}
		if v.SelfAccess != nil {
			*out = append(*out, v.SelfAccess.Field)
		}
		walk(v.SubExpr, out)
	}
}
