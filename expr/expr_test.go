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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSelf map[string]interface{}

func (m mapSelf) Field(name string) (interface{}, bool) {
	v, ok := m[name]
	return v, ok
}

func TestEvaluateLiterals(t *testing.T) {
	cases := map[string]string{
		"42":      "42",
		"0xFF":    "255",
		"3.5":     "3.5",
		`"hi"`:    "hi",
		"true":    "true",
		"false":   "false",
		"null":    "null",
		"1 + 2":   "3",
		"7 % 2":   "1",
		"2 * 3+1": "7",
	}
	for src, want := range cases {
		v, err := Evaluate(MustParse(src), Context{})
		require.NoError(t, err, src)
		assert.Equal(t, want, v.String(), src)
	}
}

func TestEvaluateSelfAndRoot(t *testing.T) {
	ctx := Context{
		Root: map[string]interface{}{"version": 2},
		Self: mapSelf{"length": 10},
	}
	v, err := Evaluate(MustParse("#self.length > 5"), ctx)
	require.NoError(t, err)
	assert.True(t, v.AsBool())

	v, err = Evaluate(MustParse("#version == 2"), ctx)
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestEvaluateBareIdentifierPrefersSelfOverRoot(t *testing.T) {
	ctx := Context{
		Root: map[string]interface{}{"flag": false},
		Self: mapSelf{"flag": true},
	}
	v, err := Evaluate(MustParse("flag"), ctx)
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestEvaluateTernary(t *testing.T) {
	ctx := Context{Self: mapSelf{"kind": int64(1)}}
	v, err := Evaluate(MustParse(`kind == 1 ? "a" : "b"`), ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", v.String())
}

func TestEvaluateBooleanEmptyStringIsTrue(t *testing.T) {
	ok, err := EvaluateBoolean("", Context{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateBooleanWhitespaceOnlyIsTrue(t *testing.T) {
	ok, err := EvaluateBoolean("   ", Context{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateSize(t *testing.T) {
	ctx := Context{Self: mapSelf{"count": int64(3)}}
	n, err := EvaluateSize("count * 2", ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestEvaluateSizeRejectsNegative(t *testing.T) {
	_, err := EvaluateSize("0 - 1", Context{})
	require.Error(t, err)
}

func TestEvaluateUnresolvedIdentifier(t *testing.T) {
	_, err := Evaluate(MustParse("missing"), Context{})
	require.Error(t, err)
	var target *ErrUnresolvedIdentifier
	require.ErrorAs(t, err, &target)
}

func TestParseCachesBySource(t *testing.T) {
	a, err := Parse("1+1")
	require.NoError(t, err)
	b, err := Parse("1+1")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestParseErrorWraps(t *testing.T) {
	_, err := Parse("1 +")
	require.Error(t, err)
	var target *ErrParse
	require.ErrorAs(t, err, &target)
}

func TestZonedDateTimeNowIsRegisteredByDefault(t *testing.T) {
	v, err := Evaluate(MustParse("T(ZonedDateTime).now() > 0"), Context{})
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestStaticRef(t *testing.T) {
	RegisterStatic("Clock", "epoch", func() (Value, error) {
		return testIntValue(0), nil
	})
	v, err := Evaluate(MustParse("T(Clock).epoch()"), Context{})
	require.NoError(t, err)
	assert.Equal(t, "0", v.String())
}

func testIntValue(n int64) Value {
	v, _ := toValue(n)
	return v
}

func TestFreeIdentifiers(t *testing.T) {
	ids := FreeIdentifiers(MustParse("#self.kind == 1 && other > 0"))
	assert.Contains(t, ids, "kind")
	assert.Contains(t, ids, "other")
}

func TestLogicalShortCircuitNoOpWithSingleOperand(t *testing.T) {
	v, err := Evaluate(MustParse("5"), Context{})
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind)
}

func TestStringConcatenation(t *testing.T) {
	v, err := Evaluate(MustParse(`"a" + "b"`), Context{})
	require.NoError(t, err)
	assert.Equal(t, "ab", v.String())
}
