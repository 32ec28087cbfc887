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

package boxon

import (
	"fmt"
	"reflect"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/mtrevisan/boxon/checksum"
	"github.com/mtrevisan/boxon/codec"
	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/convert"
	"github.com/mtrevisan/boxon/descriptor"
	"github.com/mtrevisan/boxon/engine"
	"github.com/mtrevisan/boxon/registry"
)

type templateSource struct {
	recordType reflect.Type
	template   descriptor.Template
}

type codecOverride struct {
	kind  descriptor.Kind
	codec codec.Codec
}

type checksummerEntry struct {
	name string
	algo checksum.Checksummer
}

type converterEntry struct {
	name string
	fn   convert.Func
}

type validatorEntry struct {
	name string
	fn   convert.ValidatorFunc
}

// Builder accumulates everything a Core needs before it can parse or
// compose a single byte; each setter returns the builder. Nothing it
// accumulates is compiled or validated until Build is called.
type Builder struct {
	templates    []templateSource
	codecs       []codecOverride
	checksummers []checksummerEntry
	converters   []converterEntry
	validators   []validatorEntry
	rootContext  map[string]interface{}
	logger       logr.Logger
}

// NewBuilder returns an empty Builder, logging to the package-wide Log
// until WithLogger overrides it.
func NewBuilder() *Builder {
	return &Builder{logger: Log}
}

// WithTemplate registers one descriptor.Template, compiled against
// recordType's fields by name, when Build runs. Templates whose Header is
// embedded (HeaderBinding.Embedded()) are reachable only through an Object
// descriptor's choice list; all others are matched directly off a wire
// buffer's leading bytes.
func (b *Builder) WithTemplate(recordType reflect.Type, template descriptor.Template) *Builder {
	b.templates = append(b.templates, templateSource{recordType: recordType, template: template})
	return b
}

// WithCodec overrides (or adds) the decode/encode strategy for kind, layered
// on top of codec.NewDefaultRegistry()'s built-ins.
func (b *Builder) WithCodec(kind descriptor.Kind, c codec.Codec) *Builder {
	b.codecs = append(b.codecs, codecOverride{kind: kind, codec: c})
	return b
}

// WithChecksummer registers a named checksum.Checksummer, layered on top of
// checksum.NewRegistry()'s CRC-16/CRC-16-IBM presets.
func (b *Builder) WithChecksummer(name string, algo checksum.Checksummer) *Builder {
	b.checksummers = append(b.checksummers, checksummerEntry{name: name, algo: algo})
	return b
}

// WithConverter registers a named convert.Func for FieldOp.ConverterChoices/
// DefaultConverter to reference.
func (b *Builder) WithConverter(name string, fn convert.Func) *Builder {
	b.converters = append(b.converters, converterEntry{name: name, fn: fn})
	return b
}

// WithValidator registers a named convert.ValidatorFunc for FieldOp.Validator
// to reference.
func (b *Builder) WithValidator(name string, fn convert.ValidatorFunc) *Builder {
	b.validators = append(b.validators, validatorEntry{name: name, fn: fn})
	return b
}

// WithContext seeds every Parse/Compose call's expr.Context.Root with a copy
// of ctx, ahead of whatever ContextParameter fields add during that call.
func (b *Builder) WithContext(ctx map[string]interface{}) *Builder {
	b.rootContext = ctx
	return b
}

// WithLogger overrides the logr.Logger a built Core's Parser/Composer log
// through.
func (b *Builder) WithLogger(l logr.Logger) *Builder {
	b.logger = l
	return b
}

// BuildError aggregates every template's compile failures, rather than
// stopping at the first broken template — the same collect-all-violations
// posture compiler.TemplateError takes for a single template's fields.
type BuildError struct {
	TemplateErrors []*compiler.TemplateError
	Other          []error
}

func (e *BuildError) Error() string {
	s := fmt.Sprintf("boxon: build failed with %d template error(s)", len(e.TemplateErrors)+len(e.Other))
	for _, terr := range e.TemplateErrors {
		s += "\n" + terr.Error()
	}
	for _, err := range e.Other {
		s += "\n" + err.Error()
	}
	return s
}

// Build compiles every accumulated template, assembles the codec/template/
// checksum/converter registries, and returns an immutable Core. Once built,
// a Core can never be mutated — extending it requires a fresh Builder.
func (b *Builder) Build() (*Core, error) {
	buildErr := &BuildError{}

	codecs := codec.NewDefaultRegistry()
	for _, o := range b.codecs {
		codecs.Register(o.kind, o.codec)
	}

	checksums := checksum.NewRegistry()
	for _, c := range b.checksummers {
		checksums.Register(c.name, c.algo)
	}

	converters := convert.NewRegistry()
	for _, c := range b.converters {
		converters.RegisterConverter(c.name, c.fn)
	}
	for _, v := range b.validators {
		converters.RegisterValidator(v.name, v.fn)
	}

	templates := registry.New()
	plans := map[string]*compiler.FieldPlan{}
	for _, src := range b.templates {
		plan, err := compiler.Compile(src.recordType, src.template)
		if err != nil {
			var terr *compiler.TemplateError
			if asTemplateError(err, &terr) {
				buildErr.TemplateErrors = append(buildErr.TemplateErrors, terr)
			} else {
				buildErr.Other = append(buildErr.Other, err)
			}
			continue
		}
		plans[plan.Name] = plan
		if plan.Header.Embedded() {
			err = templates.RegisterEmbedded(plan)
		} else {
			err = templates.Register(plan)
		}
		if err != nil {
			buildErr.Other = append(buildErr.Other, err)
		}
	}

	if len(buildErr.TemplateErrors) > 0 || len(buildErr.Other) > 0 {
		return nil, buildErr
	}

	rootContext := make(map[string]interface{}, len(b.rootContext))
	for k, v := range b.rootContext {
		rootContext[k] = v
	}

	return &Core{
		id: uuid.New(),
		deps: engine.Deps{
			Codecs:     codecs,
			Templates:  templates,
			Checksums:  checksums,
			Converters: converters,
		},
		plans:       plans,
		rootContext: rootContext,
		logger:      b.logger,
	}, nil
}

func asTemplateError(err error, target **compiler.TemplateError) bool {
	terr, ok := err.(*compiler.TemplateError)
	if ok {
		*target = terr
	}
	return ok
}
