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

package configuration

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/internal/semver"
)

type deviceConfig struct {
	Channel  uint8
	Name     string
	LegacyID uint8
}

func deviceTemplate(t *testing.T) *compiler.FieldPlan {
	tpl := descriptor.Template{
		Name: "device",
		Fields: []descriptor.FieldDescriptor{
			{
				TargetField: "Channel",
				Descriptor: descriptor.ConfigurationField{
					ShortDescription: "radio channel",
					MinValue:         "1",
					MaxValue:         "16",
					DefaultValue:     "1",
				},
			},
			{
				TargetField: "Name",
				Descriptor: descriptor.ConfigurationField{
					ShortDescription: "device name",
					Pattern:          `^[a-z]+$`,
				},
			},
			{
				TargetField: "LegacyID",
				Descriptor: descriptor.ConfigurationField{
					ShortDescription: "legacy identifier",
					MaxProtocol:      "2.0.0",
					DefaultValue:     "0",
				},
			},
		},
	}
	plan, err := compiler.Compile(reflect.TypeOf(deviceConfig{}), tpl)
	require.NoError(t, err)
	return plan
}

func mustVersion(t *testing.T, s string) semver.Version {
	v, err := semver.Parse(s)
	require.NoError(t, err)
	return v
}

func TestViewFiltersFieldsByProtocolVersion(t *testing.T) {
	plan := deviceTemplate(t)

	old := New(plan, mustVersion(t, "1.5.0"))
	assert.Len(t, old.fields, 3)

	current := New(plan, mustVersion(t, "3.0.0"))
	assert.Len(t, current.fields, 2)
	for _, op := range current.fields {
		assert.NotEqual(t, "LegacyID", op.Name)
	}
}

func TestDescribeOmitsEmptyAttributes(t *testing.T) {
	plan := deviceTemplate(t)
	view := New(plan, mustVersion(t, "1.0.0"))

	desc := view.Describe()
	channel, ok := desc["Channel"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "radio channel", channel["short_description"])
	assert.Equal(t, "1", channel["min_value"])
	assert.NotContains(t, channel, "pattern")
}

func TestValidateInputAcceptsWellFormedValues(t *testing.T) {
	plan := deviceTemplate(t)
	view := New(plan, mustVersion(t, "1.0.0"))

	record, err := view.ValidateInput(map[string]string{
		"Channel": "5",
		"Name":    "beacon",
	})
	require.NoError(t, err)
	cfg := record.(deviceConfig)
	assert.EqualValues(t, 5, cfg.Channel)
	assert.Equal(t, "beacon", cfg.Name)
	assert.EqualValues(t, 0, cfg.LegacyID)
}

func TestValidateInputRejectsOutOfRangeAndPattern(t *testing.T) {
	plan := deviceTemplate(t)
	view := New(plan, mustVersion(t, "1.0.0"))

	_, err := view.ValidateInput(map[string]string{
		"Channel": "99",
		"Name":    "BadName1",
	})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Failures, "Channel")
	assert.Contains(t, verr.Failures, "Name")
}
