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

// Package describe renders a compiled compiler.FieldPlan into a structured
// document for hosts that need to publish a template's wire layout rather
// than execute it: JSON/YAML/XML for machine consumers, CSV for a flat
// spreadsheet view. Iteration is always in plan.Fields declaration order,
// never map order, so repeated calls against the same plan are byte-for-byte
// identical.
package describe

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/descriptor"
)

// Field is one leaf entry of a Document: the attributes that apply vary by
// Kind, so most are left zero/empty and omitted by every renderer.
type Field struct {
	Name      string `json:"name" yaml:"name" xml:"name,attr"`
	Kind      string `json:"kind" yaml:"kind" xml:"kind,attr"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty" xml:"condition,attr,omitempty"`

	SizeBits  int    `json:"size_bits,omitempty" yaml:"sizeBits,omitempty" xml:"sizeBits,attr,omitempty"`
	ByteOrder string `json:"byte_order,omitempty" yaml:"byteOrder,omitempty" xml:"byteOrder,attr,omitempty"`
	Signed    bool   `json:"signed,omitempty" yaml:"signed,omitempty" xml:"signed,attr,omitempty"`
	Charset   string `json:"charset,omitempty" yaml:"charset,omitempty" xml:"charset,attr,omitempty"`

	IsArray  bool   `json:"is_array,omitempty" yaml:"isArray,omitempty" xml:"isArray,attr,omitempty"`
	SizeExpr string `json:"size_expr,omitempty" yaml:"sizeExpr,omitempty" xml:"sizeExpr,attr,omitempty"`

	ChecksumAlgorithm string `json:"checksum_algorithm,omitempty" yaml:"checksumAlgorithm,omitempty" xml:"checksumAlgorithm,attr,omitempty"`

	ObjectChoices []string `json:"object_choices,omitempty" yaml:"objectChoices,omitempty" xml:"objectChoice,omitempty"`
	ObjectDefault string   `json:"object_default,omitempty" yaml:"objectDefault,omitempty" xml:"objectDefault,attr,omitempty"`

	Converter string `json:"converter,omitempty" yaml:"converter,omitempty" xml:"converter,attr,omitempty"`
	Validator string `json:"validator,omitempty" yaml:"validator,omitempty" xml:"validator,attr,omitempty"`

	PostProcess bool `json:"post_process,omitempty" yaml:"postProcess,omitempty" xml:"postProcess,attr,omitempty"`
}

// Document is the full rendered description of one compiled template.
type Document struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"template"`
	Name    string   `json:"name" yaml:"name" xml:"name,attr"`
	Fields  []Field  `json:"fields" yaml:"fields" xml:"field"`
}

// Describe walks plan's field pass and post-process pass, in declaration
// order, into a Document.
func Describe(plan *compiler.FieldPlan) Document {
	doc := Document{Name: plan.Name}
	for _, op := range plan.Fields {
		doc.Fields = append(doc.Fields, describeOp(op, false))
	}
	for _, op := range plan.PostProcess {
		doc.Fields = append(doc.Fields, describeOp(op, true))
	}
	return doc
}

func describeOp(op compiler.FieldOp, postProcess bool) Field {
	f := Field{
		Name:        op.Name,
		Kind:        string(op.Descriptor.Kind()),
		Condition:   op.Condition,
		IsArray:     op.IsArray,
		SizeExpr:    op.SizeExpr,
		Converter:   op.DefaultConverter,
		Validator:   op.Validator,
		PostProcess: postProcess,
	}
	d := op.Descriptor
	if arr, ok := d.(descriptor.AsArray); ok {
		d = arr.Element
	}
	switch v := d.(type) {
	case descriptor.Integer:
		f.SizeBits = v.SizeBits
		f.ByteOrder = byteOrderName(v.ByteOrder)
		f.Signed = v.Signed
	case descriptor.BitSet:
		f.SizeBits = v.SizeBits
		f.ByteOrder = byteOrderName(v.ByteOrder)
	case descriptor.StringFixed:
		f.SizeBits = v.SizeBytes * 8
		f.Charset = string(v.Charset)
	case descriptor.StringTerminated:
		f.Charset = string(v.Charset)
	case descriptor.Checksum:
		f.SizeBits = v.SizeBits
		f.ByteOrder = byteOrderName(v.ByteOrder)
		f.ChecksumAlgorithm = v.Algorithm
	case descriptor.SkipBits:
		f.SizeBits = v.SizeBits
	case descriptor.Object:
		f.SizeBits = v.PrefixSizeBits
		f.ByteOrder = byteOrderName(v.ByteOrder)
		f.ObjectDefault = v.Default
		for _, choice := range v.Choices {
			f.ObjectChoices = append(f.ObjectChoices, choice.Template)
		}
	}
	return f
}

func byteOrderName(order fmt.Stringer) string {
	return order.String()
}

// JSON renders the document with two-space indentation, readable as a
// standalone artifact.
func (d Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML renders the document through a yaml.v3 encoder with two-space
// indentation.
func (d Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XML renders the document with two-space indentation.
func (d Document) XML() ([]byte, error) {
	out, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// CSV renders one row per leaf field, header first, for hosts that want a
// flat spreadsheet view rather than a nested document.
func (d Document) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"name", "kind", "condition", "size_bits", "byte_order", "signed",
		"charset", "is_array", "size_expr", "checksum_algorithm",
		"object_choices", "object_default", "converter", "validator", "post_process",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, f := range d.Fields {
		row := []string{
			f.Name, f.Kind, f.Condition,
			strconv.Itoa(f.SizeBits), f.ByteOrder, strconv.FormatBool(f.Signed),
			f.Charset, strconv.FormatBool(f.IsArray), f.SizeExpr, f.ChecksumAlgorithm,
			joinChoices(f.ObjectChoices), f.ObjectDefault, f.Converter, f.Validator,
			strconv.FormatBool(f.PostProcess),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinChoices(choices []string) string {
	out := ""
	for i, c := range choices {
		if i > 0 {
			out += ";"
		}
		out += c
	}
	return out
}
