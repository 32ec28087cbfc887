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
	"context"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// delegatingSink lets Log be captured once at package init and have its
// backing implementation swapped later by SetLogger, so packages can log
// before the host has had a chance to configure anything.
type delegatingSink struct {
	sink atomic.Value // logr.LogSink
}

func newDelegatingSink(initial logr.LogSink) *delegatingSink {
	d := &delegatingSink{}
	d.sink.Store(initial)
	return d
}

func (d *delegatingSink) current() logr.LogSink {
	return d.sink.Load().(logr.LogSink)
}

func (d *delegatingSink) Init(info logr.RuntimeInfo) { d.current().Init(info) }
func (d *delegatingSink) Enabled(level int) bool      { return d.current().Enabled(level) }
func (d *delegatingSink) Info(level int, msg string, keysAndValues ...interface{}) {
	d.current().Info(level, msg, keysAndValues...)
}
func (d *delegatingSink) Error(err error, msg string, keysAndValues ...interface{}) {
	d.current().Error(err, msg, keysAndValues...)
}
func (d *delegatingSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	return d.current().WithValues(keysAndValues...)
}
func (d *delegatingSink) WithName(name string) logr.LogSink {
	return d.current().WithName(name)
}

type nullLogSink struct{}

var _ logr.LogSink = nullLogSink{}

func (nullLogSink) Init(logr.RuntimeInfo)                            {}
func (nullLogSink) Enabled(int) bool                                 { return false }
func (nullLogSink) Info(int, string, ...interface{})                 {}
func (nullLogSink) Error(error, string, ...interface{})              {}
func (s nullLogSink) WithValues(...interface{}) logr.LogSink         { return s }
func (s nullLogSink) WithName(string) logr.LogSink                   { return s }

var root = newDelegatingSink(nullLogSink{})

// Log is the package-wide logger every Core falls back to when built
// without .WithLogger(...). Its sink is empty (discards everything) until
// SetLogger installs a real one.
var Log = logr.New(root)

// SetLogger installs l as the sink for every logr.Logger handed out by
// this package, retroactively — including ones captured as Log before this
// call.
func SetLogger(l logr.Logger) {
	root.sink.Store(l.GetSink())
}

// FromContext returns the logr.Logger carried on ctx, falling back to Log
// if ctx carries none.
func FromContext(ctx context.Context, keysAndValues ...interface{}) logr.Logger {
	log := Log
	if ctx != nil {
		if l, err := logr.FromContext(ctx); err == nil {
			log = l
		}
	}
	return log.WithValues(keysAndValues...)
}

// IntoContext returns a copy of ctx carrying l, retrievable via FromContext
// or logr.FromContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}
