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

package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookupConverter(t *testing.T) {
	r := NewRegistry()
	r.RegisterConverter("double", func(v interface{}) (interface{}, error) {
		return v.(int64) * 2, nil
	})
	fn, err := r.Converter("double")
	require.NoError(t, err)
	out, err := fn(int64(21))
	require.NoError(t, err)
	assert.Equal(t, int64(42), out)
}

func TestConverterLookupMissing(t *testing.T) {
	r := NewRegistry()
	_, err := r.Converter("nope")
	require.Error(t, err)
}

func TestValidatorRejects(t *testing.T) {
	r := NewRegistry()
	r.RegisterValidator("positive", func(v interface{}) error {
		if v.(int64) <= 0 {
			return errors.New("must be positive")
		}
		return nil
	})
	fn, err := r.Validator("positive")
	require.NoError(t, err)
	assert.Error(t, fn(int64(-1)))
	assert.NoError(t, fn(int64(1)))
}
