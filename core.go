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

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/mtrevisan/boxon/compiler"
	"github.com/mtrevisan/boxon/configuration"
	"github.com/mtrevisan/boxon/describe"
	"github.com/mtrevisan/boxon/engine"
	"github.com/mtrevisan/boxon/internal/semver"
)

// Core is the immutable, compiled result of Builder.Build: every template,
// codec, checksummer and converter a host registered, frozen together.
// Parser/Composer/Configurator/Describer are thin, stateless views borrowed
// from it per call — Core itself is never mutated after Build returns.
type Core struct {
	id          uuid.UUID
	deps        engine.Deps
	plans       map[string]*compiler.FieldPlan
	rootContext map[string]interface{}
	logger      logr.Logger
}

// ID uniquely identifies this Core, generated once at Build time — useful
// for correlating log lines and metrics across hosts that build more than
// one Core in the same process (e.g. one per protocol revision).
func (c *Core) ID() uuid.UUID {
	return c.id
}

func (c *Core) plan(name string) (*compiler.FieldPlan, error) {
	plan, ok := c.plans[name]
	if !ok {
		return nil, fmt.Errorf("boxon: no template named %q", name)
	}
	return plan, nil
}

func (c *Core) newRoot() map[string]interface{} {
	root := make(map[string]interface{}, len(c.rootContext))
	for k, v := range c.rootContext {
		root[k] = v
	}
	return root
}

// Parser reads templates matched automatically off a buffer's leading
// bytes (registry.Registry.Match's longest-prefix-wins rule).
type Parser struct {
	core *Core
}

// Parser borrows a stateless Parser view over Core.
func (c *Core) Parser() *Parser {
	return &Parser{core: c}
}

// Parse matches buf against every registered non-embedded template's
// header and decodes the first match, returning the populated record, the
// number of bytes consumed, and any error (including a no-match error from
// registry.Registry.Match).
func (p *Parser) Parse(buf []byte) (interface{}, int, error) {
	plan, err := p.core.deps.Templates.Match(buf)
	if err != nil {
		return nil, 0, err
	}
	return engine.Decode(p.core.logger, plan, p.core.deps, buf, p.core.newRoot())
}

// ParseTemplate decodes buf against the named template directly, bypassing
// header matching — for hosts that already know which template applies.
func (p *Parser) ParseTemplate(name string, buf []byte) (interface{}, int, error) {
	plan, err := p.core.plan(name)
	if err != nil {
		return nil, 0, err
	}
	return engine.Decode(p.core.logger, plan, p.core.deps, buf, p.core.newRoot())
}

// Composer writes a populated record back out as wire bytes, against a
// named template.
type Composer struct {
	core *Core
}

// Composer borrows a stateless Composer view over Core.
func (c *Core) Composer() *Composer {
	return &Composer{core: c}
}

// Compose encodes value against the named template.
func (cp *Composer) Compose(name string, value interface{}) ([]byte, error) {
	plan, err := cp.core.plan(name)
	if err != nil {
		return nil, err
	}
	return engine.Encode(cp.core.logger, plan, cp.core.deps, value, cp.core.newRoot())
}

// Configurator returns the protocol-filtered configuration.View for the
// named template at protocolVersion (a semver string, e.g. "2.1.0").
func (c *Core) Configurator(name, protocolVersion string) (*configuration.View, error) {
	plan, err := c.plan(name)
	if err != nil {
		return nil, err
	}
	v, err := semver.Parse(protocolVersion)
	if err != nil {
		return nil, fmt.Errorf("boxon: malformed protocol version %q: %w", protocolVersion, err)
	}
	return configuration.New(plan, v), nil
}

// Describer returns the describe.Document for the named template.
func (c *Core) Describer(name string) (describe.Document, error) {
	plan, err := c.plan(name)
	if err != nil {
		return describe.Document{}, err
	}
	return describe.Describe(plan), nil
}
