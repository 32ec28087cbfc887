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
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ErrType is returned when an operator is applied to operand kinds it
// doesn't support (e.g. arithmetic on a string).
type ErrType struct {
	Op       string
	Operands []Value
}

func (e *ErrType) Error() string {
	kinds := make([]string, len(e.Operands))
	for i, v := range e.Operands {
		kinds[i] = v.Kind.String()
	}
	return fmt.Sprintf("expr: operator %q not defined for %s", e.Op, strings.Join(kinds, ", "))
}

// ErrUnresolvedIdentifier is returned when a bare/root/self identifier has
// no binding in the evaluation Context.
type ErrUnresolvedIdentifier struct {
	Name string
}

func (e *ErrUnresolvedIdentifier) Error() string {
	return fmt.Sprintf("expr: unresolved identifier %q", e.Name)
}

// Kind discriminates the dynamic type carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is the dynamically-typed result of evaluating an expression.
type Value struct {
	Kind Kind
	B    bool
	I    *big.Int
	F    float64
	S    string
}

func boolValue(b bool) Value    { return Value{Kind: KindBool, B: b} }
func intValue(i *big.Int) Value { return Value{Kind: KindInt, I: i} }
func floatValue(f float64) Value { return Value{Kind: KindFloat, F: f} }
func stringValue(s string) Value { return Value{Kind: KindString, S: s} }
func nullValue() Value           { return Value{Kind: KindNull} }

// AsBool coerces v to a boolean the way EvaluateBoolean needs: non-zero
// numbers and non-empty strings are true, null and zero/empty are false.
func (v Value) AsBool() bool {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindInt:
		return v.I != nil && v.I.Sign() != 0
	case KindFloat:
		return v.F != 0
	case KindString:
		return v.S != ""
	default:
		return false
	}
}

// AsInt64 coerces v to an int64, truncating floats, for size expressions.
func (v Value) AsInt64() (int64, error) {
	switch v.Kind {
	case KindInt:
		if !v.I.IsInt64() {
			return 0, fmt.Errorf("expr: %s overflows int64", v.I.String())
		}
		return v.I.Int64(), nil
	case KindFloat:
		return int64(v.F), nil
	case KindBool:
		if v.B {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, &ErrType{Op: "int64()", Operands: []Value{v}}
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt:
		return v.I.String()
	case KindFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case KindString:
		return v.S
	default:
		return "null"
	}
}

// SelfView is the bridge between the expr evaluator and the partially
// decoded/encoded record the compiler keeps behind a slot.Table; engine
// supplies the concrete implementation so expr has no dependency on
// reflect or on internal/slot.
type SelfView interface {
	// Field returns the current value of the named field, and whether
	// that name is bound in the record.
	Field(name string) (interface{}, bool)
}

// Context carries the two namespaces an expression may read from: Root
// (the process-wide root context set on the Core) and Self (the
// partially built record, visible to conditions/sizes/choices evaluated
// mid-decode).
type Context struct {
	Root map[string]interface{}
	Self SelfView
}

func (c Context) lookup(name string) (Value, error) {
	if c.Self != nil {
		if v, ok := c.Self.Field(name); ok {
			return toValue(v)
		}
	}
	if c.Root != nil {
		if v, ok := c.Root[name]; ok {
			return toValue(v)
		}
	}
	return Value{}, &ErrUnresolvedIdentifier{Name: name}
}

func toValue(v interface{}) (Value, error) {
	switch t := v.(type) {
	case nil:
		return nullValue(), nil
	case bool:
		return boolValue(t), nil
	case string:
		return stringValue(t), nil
	case *big.Int:
		return intValue(t), nil
	case int:
		return intValue(big.NewInt(int64(t))), nil
	case int8:
		return intValue(big.NewInt(int64(t))), nil
	case int16:
		return intValue(big.NewInt(int64(t))), nil
	case int32:
		return intValue(big.NewInt(int64(t))), nil
	case int64:
		return intValue(big.NewInt(t)), nil
	case uint:
		return intValue(new(big.Int).SetUint64(uint64(t))), nil
	case uint8:
		return intValue(big.NewInt(int64(t))), nil
	case uint16:
		return intValue(big.NewInt(int64(t))), nil
	case uint32:
		return intValue(big.NewInt(int64(t))), nil
	case uint64:
		return intValue(new(big.Int).SetUint64(t)), nil
	case float32:
		return floatValue(float64(t)), nil
	case float64:
		return floatValue(t), nil
	default:
		return Value{}, fmt.Errorf("expr: cannot lift %T into an expression value", v)
	}
}

// staticRefs is the fixed allow-list of T(Fqn).member() static references
// permitted by default; RegisterStatic extends it for
// host-specific needs (e.g. a clock override in tests).
var staticRefs = map[string]func() (Value, error){}

// RegisterStatic installs or overrides a static reference reachable as
// T(fqn).member() from any expression. fqn and member are joined with "."
// to form the key (e.g. "ZonedDateTime.now").
func RegisterStatic(fqn string, member string, fn func() (Value, error)) {
	staticRefs[fqn+"."+member] = fn
}

// ZonedDateTime.now() is the one static reference available without
// a host opting in (every other T(fqn).member() call is rejected until
// RegisterStatic allows it).
func init() {
	RegisterStatic("ZonedDateTime", "now", func() (Value, error) {
		return intValue(big.NewInt(time.Now().UnixNano())), nil
	})
}

// Evaluate walks e against ctx and returns its dynamic value.
func Evaluate(e *Expr, ctx Context) (Value, error) {
	return evalTernary(e.Ternary, ctx)
}

// EvaluateBoolean evaluates src as a condition: an empty string means
// "unconditionally present", otherwise the parsed
// expression is evaluated and coerced to bool.
func EvaluateBoolean(src string, ctx Context) (bool, error) {
	if strings.TrimSpace(src) == "" {
		return true, nil
	}
	e, err := Parse(src)
	if err != nil {
		return false, err
	}
	v, err := Evaluate(e, ctx)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

// EvaluateSize evaluates src as a size/count expression and coerces the
// result to a non-negative int.
func EvaluateSize(src string, ctx Context) (int, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	v, err := Evaluate(e, ctx)
	if err != nil {
		return 0, err
	}
	n, err := v.AsInt64()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("expr: size expression %q evaluated to negative %d", src, n)
	}
	return int(n), nil
}

func evalTernary(t *Ternary, ctx Context) (Value, error) {
	cond, err := evalLogicOr(t.Cond, ctx)
	if err != nil {
		return Value{}, err
	}
	if t.Then == nil {
		return cond, nil
	}
	if cond.AsBool() {
		return Evaluate(t.Then, ctx)
	}
	return Evaluate(t.Else, ctx)
}

func evalLogicOr(n *LogicOr, ctx Context) (Value, error) {
	head, err := evalLogicAnd(n.Head, ctx)
	if err != nil {
		return Value{}, err
	}
	result := head.AsBool()
	for _, r := range n.Rest {
		v, err := evalLogicAnd(r, ctx)
		if err != nil {
			return Value{}, err
		}
		result = result || v.AsBool()
	}
	if len(n.Rest) == 0 {
		return head, nil
	}
	return boolValue(result), nil
}

func evalLogicAnd(n *LogicAnd, ctx Context) (Value, error) {
	head, err := evalEquality(n.Head, ctx)
	if err != nil {
		return Value{}, err
	}
	result := head.AsBool()
	for _, r := range n.Rest {
		v, err := evalEquality(r, ctx)
		if err != nil {
			return Value{}, err
		}
		result = result && v.AsBool()
	}
	if len(n.Rest) == 0 {
		return head, nil
	}
	return boolValue(result), nil
}

func evalEquality(n *Equality, ctx Context) (Value, error) {
	left, err := evalComparison(n.Head, ctx)
	if err != nil {
		return Value{}, err
	}
	for i, op := range n.Ops {
		right, err := evalComparison(n.Rest[i], ctx)
		if err != nil {
			return Value{}, err
		}
		eq, err := valuesEqual(left, right)
		if err != nil {
			return Value{}, err
		}
		if op == "!=" {
			eq = !eq
		}
		left = boolValue(eq)
	}
	return left, nil
}

func valuesEqual(a, b Value) (bool, error) {
	if a.Kind == KindNull || b.Kind == KindNull {
		return a.Kind == b.Kind, nil
	}
	if a.Kind == KindString || b.Kind == KindString {
		return a.String() == b.String(), nil
	}
	if a.Kind == KindBool || b.Kind == KindBool {
		return a.AsBool() == b.AsBool(), nil
	}
	af, bf, err := numericPair(a, b)
	if err != nil {
		return false, err
	}
	return af == bf, nil
}

func evalComparison(n *Comparison, ctx Context) (Value, error) {
	left, err := evalAdditive(n.Head, ctx)
	if err != nil {
		return Value{}, err
	}
	for i, op := range n.Ops {
		right, err := evalAdditive(n.Rest[i], ctx)
		if err != nil {
			return Value{}, err
		}
		af, bf, err := numericPair(left, right)
		if err != nil {
			return Value{}, &ErrType{Op: op, Operands: []Value{left, right}}
		}
		var result bool
		switch op {
		case "<":
			result = af < bf
		case "<=":
			result = af <= bf
		case ">":
			result = af > bf
		case ">=":
			result = af >= bf
		}
		left = boolValue(result)
	}
	return left, nil
}

func evalAdditive(n *Additive, ctx Context) (Value, error) {
	left, err := evalMultiplicative(n.Head, ctx)
	if err != nil {
		return Value{}, err
	}
	for i, op := range n.Ops {
		right, err := evalMultiplicative(n.Rest[i], ctx)
		if err != nil {
			return Value{}, err
		}
		if op == "+" && (left.Kind == KindString || right.Kind == KindString) {
			left = stringValue(left.String() + right.String())
			continue
		}
		v, err := arith(op, left, right)
		if err != nil {
			return Value{}, err
		}
		left = v
	}
	return left, nil
}

func evalMultiplicative(n *Multiplicative, ctx Context) (Value, error) {
	left, err := evalUnary(n.Head, ctx)
	if err != nil {
		return Value{}, err
	}
	for i, op := range n.Ops {
		right, err := evalUnary(n.Rest[i], ctx)
		if err != nil {
			return Value{}, err
		}
		v, err := arith(op, left, right)
		if err != nil {
			return Value{}, err
		}
		left = v
	}
	return left, nil
}

func arith(op string, left, right Value) (Value, error) {
	if left.Kind == KindInt && right.Kind == KindInt {
		result := new(big.Int)
		switch op {
		case "+":
			result.Add(left.I, right.I)
		case "-":
			result.Sub(left.I, right.I)
		case "*":
			result.Mul(left.I, right.I)
		case "/":
			if right.I.Sign() == 0 {
				return Value{}, fmt.Errorf("expr: division by zero")
			}
			result.Quo(left.I, right.I)
		case "%":
			if right.I.Sign() == 0 {
				return Value{}, fmt.Errorf("expr: division by zero")
			}
			result.Rem(left.I, right.I)
		}
		return intValue(result), nil
	}
	af, bf, err := numericPair(left, right)
	if err != nil {
		return Value{}, &ErrType{Op: op, Operands: []Value{left, right}}
	}
	var result float64
	switch op {
	case "+":
		result = af + bf
	case "-":
		result = af - bf
	case "*":
		result = af * bf
	case "/":
		if bf == 0 {
			return Value{}, fmt.Errorf("expr: division by zero")
		}
		result = af / bf
	case "%":
		return Value{}, &ErrType{Op: op, Operands: []Value{left, right}}
	}
	return floatValue(result), nil
}

func numericPair(a, b Value) (float64, float64, error) {
	af, err := numeric(a)
	if err != nil {
		return 0, 0, err
	}
	bf, err := numeric(b)
	if err != nil {
		return 0, 0, err
	}
	return af, bf, nil
}

func numeric(v Value) (float64, error) {
	switch v.Kind {
	case KindInt:
		f := new(big.Float).SetInt(v.I)
		r, _ := f.Float64()
		return r, nil
	case KindFloat:
		return v.F, nil
	default:
		return 0, &ErrType{Op: "numeric()", Operands: []Value{v}}
	}
}

func evalUnary(n *Unary, ctx Context) (Value, error) {
	v, err := evalPrimary(n.Primary, ctx)
	if err != nil {
		return Value{}, err
	}
	switch {
	case n.Not:
		return boolValue(!v.AsBool()), nil
	case n.Neg:
		switch v.Kind {
		case KindInt:
			return intValue(new(big.Int).Neg(v.I)), nil
		case KindFloat:
			return floatValue(-v.F), nil
		default:
			return Value{}, &ErrType{Op: "-", Operands: []Value{v}}
		}
	default:
		return v, nil
	}
}

func evalPrimary(n *Primary, ctx Context) (Value, error) {
	switch {
	case n.Literal != nil:
		return evalLiteral(n.Literal)
	case n.StaticRef != nil:
		return evalStaticRef(n.StaticRef)
	case n.RootAccess != nil:
		if ctx.Root == nil {
			return Value{}, &ErrUnresolvedIdentifier{Name: n.RootAccess.Key}
		}
		v, ok := ctx.Root[n.RootAccess.Key]
		if !ok {
			return Value{}, &ErrUnresolvedIdentifier{Name: n.RootAccess.Key}
		}
		return toValue(v)
	case n.SelfAccess != nil:
		if ctx.Self == nil {
			return Value{}, &ErrUnresolvedIdentifier{Name: n.SelfAccess.Field}
		}
		v, ok := ctx.Self.Field(n.SelfAccess.Field)
		if !ok {
			return Value{}, &ErrUnresolvedIdentifier{Name: n.SelfAccess.Field}
		}
		return toValue(v)
	case n.Bare != nil:
		return ctx.lookup(*n.Bare)
	case n.SubExpr != nil:
		return Evaluate(n.SubExpr, ctx)
	default:
		return Value{}, fmt.Errorf("expr: empty primary")
	}
}

func evalLiteral(l *Literal) (Value, error) {
	switch {
	case l.Hex != nil:
		i, ok := new(big.Int).SetString((*l.Hex)[2:], 16)
		if !ok {
			return Value{}, fmt.Errorf("expr: invalid hex literal %q", *l.Hex)
		}
		return intValue(i), nil
	case l.Float != nil:
		f, err := strconv.ParseFloat(*l.Float, 64)
		if err != nil {
			return Value{}, err
		}
		return floatValue(f), nil
	case l.Int != nil:
		i, ok := new(big.Int).SetString(*l.Int, 10)
		if !ok {
			return Value{}, fmt.Errorf("expr: invalid integer literal %q", *l.Int)
		}
		return intValue(i), nil
	case l.Str != nil:
		s, err := strconv.Unquote(*l.Str)
		if err != nil {
			return Value{}, err
		}
		return stringValue(s), nil
	case l.Char != nil:
		s, err := strconv.Unquote(*l.Char)
		if err != nil {
			return Value{}, err
		}
		return stringValue(s), nil
	case l.Bool != nil:
		return boolValue(*l.Bool == "true"), nil
	case l.Null != nil:
		return nullValue(), nil
	default:
		return Value{}, fmt.Errorf("expr: empty literal")
	}
}

func evalStaticRef(r *StaticRef) (Value, error) {
	key := strings.Join(r.FQN, ".") + "." + r.Member
	fn, ok := staticRefs[key]
	if !ok {
		return Value{}, fmt.Errorf("expr: unregistered static reference %q", key)
	}
	return fn()
}
