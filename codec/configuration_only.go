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

package codec

import (
	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/expr"
)

// configurationOnlyCodec backs the four configuration-surface-only kinds
// (ConfigurationField, CompositeConfigurationField,
// AlternativeConfigurationField, ConfigurationSkip): none of them appear on
// the wire at all. Their value comes from configuration.View.ValidateInput
// instead of engine.Decode, so both directions here are no-ops.
var configurationOnlyCodec = Codec{
	Decode: func(_ *bitio.Reader, _ descriptor.Descriptor, _ expr.Context) (interface{}, error) {
		return nil, nil
	},
	Encode: func(_ *bitio.Writer, _ descriptor.Descriptor, _ expr.Context, _ interface{}) error {
		return nil
	},
}
