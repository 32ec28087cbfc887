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

// Expr is the root of a parsed expression (a ternary, which is the lowest
// binding form). One Expr is built per distinct source string, then
// evaluated once per field/element.
type Expr struct {
	Ternary *Ternary `@@`
}

// Ternary is `LogicOr ('?' Expr ':' Expr)?`.
type Ternary struct {
	Cond *LogicOr `@@`
	Then *Expr    `( "?" @@`
	Else *Expr    `  ":" @@ )?`
}

// LogicOr is a left-to-right chain of `&&`-bound terms joined by `||`.
type LogicOr struct {
	Head *LogicAnd   `@@`
	Rest []*LogicAnd `( "||" @@ )*`
}

// LogicAnd is a chain of equality terms joined by `&&`.
type LogicAnd struct {
	Head *Equality   `@@`
	Rest []*Equality `( "&&" @@ )*`
}

// Equality is a chain of comparisons joined by `==`/`!=`.
type Equality struct {
	Head *Comparison `@@`
	Ops  []string    `( @("=="|"!=")`
	Rest []*Comparison `  @@ )*`
}

// Comparison is a chain of additive terms joined by `<`, `<=`, `>`, `>=`.
type Comparison struct {
	Head *Additive   `@@`
	Ops  []string    `( @("<="|">="|"<"|">")`
	Rest []*Additive `  @@ )*`
}

// Additive is a chain of multiplicative terms joined by `+`/`-`.
type Additive struct {
	Head *Multiplicative   `@@`
	Ops  []string          `( @("+"|"-")`
	Rest []*Multiplicative `  @@ )*`
}

// Multiplicative is a chain of unary terms joined by `*`, `/`, `%`.
type Multiplicative struct {
	Head *Unary   `@@`
	Ops  []string `( @("*"|"/"|"%")`
	Rest []*Unary `  @@ )*`
}

// Unary is an optionally-negated/negated-boolean primary.
type Unary struct {
	Not     bool     `( @"!"`
	Neg     bool     `| @"-" )?`
	Primary *Primary `@@`
}

// Primary is a literal, a field/root access, a static reference, or a
// parenthesized sub-expression.
type Primary struct {
	Literal    *Literal    `( @@`
	StaticRef  *StaticRef  `| @@`
	SelfAccess *SelfAccess `| @@`
	RootAccess *RootAccess `| @@`
	Bare       *string     `| @Ident`
	SubExpr    *Expr       `| "(" @@ ")" )`
}

// Literal is an integer (decimal or hex), a float, a string, a character,
// or a boolean/null keyword.
type Literal struct {
	Hex   *string `( @Hex`
	Float *string `| @Float`
	Int   *string `| @Int`
	Str   *string `| @String`
	Char  *string `| @Char`
	Bool  *string `| @( "true" | "false" )`
	Null  *string `| @"null" )`
}

// RootAccess is `# <ident>` — a lookup in the process-wide root context.
type RootAccess struct {
	Key string `"#" @Ident`
}

// SelfAccess is `#self . <ident>` — an explicit lookup in the partial
// record.
type SelfAccess struct {
	Marker string `"#" @"self"`
	Field  string `"." @Ident`
}

// StaticRef is `T ( <fqn> ) . <member>` — the fixed allow-list of
// host-supplied static references (e.g. ZonedDateTime.now()).
type StaticRef struct {
	FQN    []string `"T" "(" @Ident ( "." @Ident )* ")"`
	Member string   `"." @Ident ( "(" ")" )?`
}
