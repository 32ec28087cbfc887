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

package main

import (
	"reflect"

	"github.com/mtrevisan/boxon"
	"github.com/mtrevisan/boxon/bitio"
	"github.com/mtrevisan/boxon/descriptor"
)

// beacon is a small, representative record: a length-prefixed payload
// closed by a CRC-16, with one configuration-only field layered on top to
// exercise describe/configure/validate.
type beacon struct {
	Channel uint8
	Length  uint16
	Values  []uint16
	CRC     uint16
}

func buildFixtureCore() (*boxon.Core, error) {
	tpl := descriptor.Template{
		Name:   "beacon",
		Header: descriptor.HeaderBinding{StartMarkers: [][]byte{{0xBE}}},
		Fields: []descriptor.FieldDescriptor{
			{
				TargetField: "Channel",
				Descriptor: descriptor.ConfigurationField{
					ShortDescription: "radio channel",
					MinValue:         "1",
					MaxValue:         "16",
					DefaultValue:     "1",
					MaxProtocol:      "3.0.0",
				},
			},
			{TargetField: "Length", Descriptor: descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian}},
			{
				TargetField: "Values",
				Descriptor: descriptor.AsArray{
					Element:  descriptor.Integer{SizeBits: 16, ByteOrder: bitio.BigEndian},
					SizeExpr: "Length",
				},
			},
			{TargetField: "CRC", Descriptor: descriptor.Checksum{Algorithm: "CRC-16", SizeBits: 16, ByteOrder: bitio.BigEndian}},
		},
	}
	return boxon.NewBuilder().
		WithTemplate(reflect.TypeOf(beacon{}), tpl).
		Build()
}
