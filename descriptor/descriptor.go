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

// Package descriptor defines the tagged-variant model that hosts describe
// a record's wire layout with: one struct per descriptor kind, so no
// variant can carry data meaningful only to another kind. compiler turns a
// []FieldDescriptor into an immutable, executable FieldPlan; codec supplies
// the decode/encode strategy for each Kind.
package descriptor

import "github.com/mtrevisan/boxon/bitio"

// Kind identifies a descriptor's variant, used by codec.Registry to look up
// its decode/encode strategy.
type Kind string

const (
	KindInteger                       Kind = "integer"
	KindBitSet                        Kind = "bitset"
	KindStringFixed                   Kind = "string_fixed"
	KindStringTerminated              Kind = "string_terminated"
	KindObject                        Kind = "object"
	KindAsArray                       Kind = "as_array"
	KindSkipBits                      Kind = "skip_bits"
	KindSkipUntilTerminator           Kind = "skip_until_terminator"
	KindChecksum                      Kind = "checksum"
	KindEvaluate                      Kind = "evaluate"
	KindPostProcess                   Kind = "post_process"
	KindContextParameter              Kind = "context_parameter"
	KindConfigurationField            Kind = "configuration_field"
	KindCompositeConfigurationField   Kind = "composite_configuration_field"
	KindAlternativeConfigurationField Kind = "alternative_configuration_field"
	KindConfigurationSkip             Kind = "configuration_skip"
)

// Descriptor is the sum type over every descriptor kind. The marker method
// is unexported so only this package can produce implementations,
// keeping the set of kinds closed.
type Descriptor interface {
	Kind() Kind
	isDescriptor()
}

// Integer reads/writes a fixed-width binary integer, promoting to a
// big.Int on overflow of 64 bits.
type Integer struct {
	SizeBits  int
	ByteOrder bitio.ByteOrder
	Signed    bool
}

func (Integer) Kind() Kind { return KindInteger }
func (Integer) isDescriptor() {}

// BitSet reads/writes a raw bit-field, with little-endian byte orders
// reversed over SizeBits.
type BitSet struct {
	SizeBits  int
	ByteOrder bitio.ByteOrder
}

func (BitSet) Kind() Kind { return KindBitSet }
func (BitSet) isDescriptor() {}

// MatchKind selects how a StringFixed's Match constraint is interpreted.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchEqual
	MatchRegex
	MatchExpression
)

// StringFixed reads/writes SizeBytes of text in Charset. When Match is
// non-empty the decoded text must equal it, match it as a regular
// expression, or satisfy an expr expression, per MatchKind.
type StringFixed struct {
	SizeBytes int
	Charset   bitio.Charset
	Match     string
	MatchKind MatchKind
}

func (StringFixed) Kind() Kind { return KindStringFixed }
func (StringFixed) isDescriptor() {}

// StringTerminated reads/writes text up to Terminator.
type StringTerminated struct {
	Terminator        byte
	Charset           bitio.Charset
	ConsumeTerminator bool
}

func (StringTerminated) Kind() Kind { return KindStringTerminated }
func (StringTerminated) isDescriptor() {}

// ObjectChoice is one alternative of an Object descriptor: Condition is
// evaluated, with the read prefix bound to the bare identifier "prefix",
// to select Template on decode. PrefixValue is the literal discriminator
// value this alternative writes as the prefix on encode — engine picks the
// alternative whose Template matches the field's runtime type and writes
// PrefixValue, rather than re-deriving a value from Condition.
type ObjectChoice struct {
	Condition   string
	Template    string // sub-template registered name, looked up by engine at decode/encode time
	PrefixValue int64
}

// Object decodes/encodes a polymorphic sub-record: a PrefixSizeBits-wide
// discriminator (read first, byte order ByteOrder, not consumed from the
// surrounding field unless PrefixConsumed) selects one of Choices in
// order; Default is used if none match and is non-empty.
type Object struct {
	PrefixSizeBits int
	ByteOrder      bitio.ByteOrder
	PrefixConsumed bool
	Choices        []ObjectChoice
	Default        string
}

func (Object) Kind() Kind { return KindObject }
func (Object) isDescriptor() {}

// SkipBits advances the cursor by SizeBits without binding a value;
// encode writes SizeBits zero bits.
type SkipBits struct {
	SizeBits int
}

func (SkipBits) Kind() Kind { return KindSkipBits }
func (SkipBits) isDescriptor() {}

// SkipUntilTerminator advances the cursor past bytes up to and optionally
// including Terminator, without binding a value.
type SkipUntilTerminator struct {
	Terminator        byte
	ConsumeTerminator bool
}

func (SkipUntilTerminator) Kind() Kind { return KindSkipUntilTerminator }
func (SkipUntilTerminator) isDescriptor() {}

// Checksum is computed post-pass over the byte range
// [SkipStart, messageLength-SkipEnd) using Algorithm, and is the last
// on-wire field of its template.
type Checksum struct {
	Algorithm string // name registered in a checksum.Registry
	SizeBits  int
	ByteOrder bitio.ByteOrder
	SkipStart int
	SkipEnd   int
}

func (Checksum) Kind() Kind { return KindChecksum }
func (Checksum) isDescriptor() {}

// Evaluate computes a field's value purely from Expression; it is never
// read from the wire on decode, and writes nothing on encode.
type Evaluate struct {
	Expression string
}

func (Evaluate) Kind() Kind { return KindEvaluate }
func (Evaluate) isDescriptor() {}

// PostProcess overwrites a field's value after the normal field pass:
// ValueDecode runs (if Condition holds) once the whole record is
// populated; ValueEncode runs before the field's own serialization with
// the record as it stood before the pass.
type PostProcess struct {
	Condition   string
	ValueDecode string
	ValueEncode string
}

func (PostProcess) Kind() Kind { return KindPostProcess }
func (PostProcess) isDescriptor() {}

// ContextParameter seeds the root context (Context.Root) with a named
// value computed from Expression when its field is reached in the
// declaration-ordered field pass — used to derive per-message constants
// referenced from the conditions/sizes of fields declared after it.
type ContextParameter struct {
	Name       string
	Expression string
}

func (ContextParameter) Kind() Kind { return KindContextParameter }
func (ContextParameter) isDescriptor() {}

// ConfigurationField is a human-facing, range/pattern/enum validated
// leaf exposed through configuration.View: at most one of Pattern,
// (MinValue, MaxValue), Enumeration may be set.
type ConfigurationField struct {
	ShortDescription string
	LongDescription  string
	Unit             string
	Pattern          string
	MinValue         string
	MaxValue         string
	Enumeration      map[string]string
	DefaultValue     string
	Charset          bitio.Charset
	Radix            int
	MinProtocol      string
	MaxProtocol      string
}

func (ConfigurationField) Kind() Kind { return KindConfigurationField }
func (ConfigurationField) isDescriptor() {}

// CompositeConfigurationField groups several ConfigurationFields under one
// logical name for Describer/ConfigurationView output.
type CompositeConfigurationField struct {
	ShortDescription string
	LongDescription  string
	Fields           []ConfigurationField
	MinProtocol      string
	MaxProtocol      string
}

func (CompositeConfigurationField) Kind() Kind { return KindCompositeConfigurationField }
func (CompositeConfigurationField) isDescriptor() {}

// AlternativeConfigurationField exposes one of several mutually exclusive
// configuration shapes, selected by Discriminant at validation time.
type AlternativeConfigurationField struct {
	Discriminant string
	Alternatives map[string]ConfigurationField
	MinProtocol  string
	MaxProtocol  string
}

func (AlternativeConfigurationField) Kind() Kind { return KindAlternativeConfigurationField }
func (AlternativeConfigurationField) isDescriptor() {}

// ConfigurationSkip marks a field visible on the wire but absent from
// ConfigurationView output entirely (reserved/padding fields a host
// doesn't want to expose to configuration consumers).
type ConfigurationSkip struct{}

func (ConfigurationSkip) Kind() Kind { return KindConfigurationSkip }
func (ConfigurationSkip) isDescriptor() {}

// AsArray wraps Element (any non-array descriptor, Object included) and
// repeats it SizeExpr times; the target field must be a slice (enforced by
// compiler).
type AsArray struct {
	Element  Descriptor
	SizeExpr string
}

func (AsArray) Kind() Kind { return KindAsArray }
func (AsArray) isDescriptor() {}

var (
	_ Descriptor = Integer{}
	_ Descriptor = BitSet{}
	_ Descriptor = StringFixed{}
	_ Descriptor = StringTerminated{}
	_ Descriptor = Object{}
	_ Descriptor = SkipBits{}
	_ Descriptor = SkipUntilTerminator{}
	_ Descriptor = Checksum{}
	_ Descriptor = Evaluate{}
	_ Descriptor = PostProcess{}
	_ Descriptor = ContextParameter{}
	_ Descriptor = ConfigurationField{}
	_ Descriptor = CompositeConfigurationField{}
	_ Descriptor = AlternativeConfigurationField{}
	_ Descriptor = ConfigurationSkip{}
	_ Descriptor = AsArray{}
)
