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

// Command boxonctl inspects and validates the templates a host registers
// through its own Builder. Boxon has no descriptor text format of its own
// (templates are authored in Go against a Go record type), so boxonctl
// operates against a registry.Registry of fixture templates compiled in
// this package rather than parsing an input file — a host wiring Boxon
// into its own build would instead vendor this pattern against its own
// templates.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mtrevisan/boxon"
)

func main() {
	var (
		command = flag.String("cmd", "describe", "Command: describe, configure, or validate")
		name    = flag.String("name", "", "Template name (required)")
		format  = flag.String("format", "json", "Output format for describe: json, yaml, xml, or csv")
		version = flag.String("version", "1.0.0", "Protocol version for configure/validate")
		input   = flag.String("input", "", "Comma-separated field=value pairs for validate (e.g. Channel=5)")
		help    = flag.Bool("help", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -cmd describe|configure|validate -name <template> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -cmd describe -name beacon -format yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -cmd configure -name beacon -version 2.1.0\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -cmd validate -name beacon -input Channel=5\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: -name is required\n")
		flag.Usage()
		os.Exit(1)
	}

	core, err := buildFixtureCore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building fixtures: %v\n", err)
		os.Exit(1)
	}

	switch *command {
	case "describe":
		if err := runDescribe(core, *name, *format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "configure":
		if err := runConfigure(core, *name, *version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := runValidate(core, *name, *version, *input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", *command)
		flag.Usage()
		os.Exit(1)
	}
}

func runDescribe(core *boxon.Core, name, format string) error {
	doc, err := core.Describer(name)
	if err != nil {
		return err
	}
	var out []byte
	switch format {
	case "json":
		out, err = doc.JSON()
	case "yaml":
		out, err = doc.YAML()
	case "xml":
		out, err = doc.XML()
	case "csv":
		out, err = doc.CSV()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runConfigure(core *boxon.Core, name, version string) error {
	view, err := core.Configurator(name, version)
	if err != nil {
		return err
	}
	for field, attrs := range view.Describe() {
		fmt.Printf("%s: %v\n", field, attrs)
	}
	return nil
}

func runValidate(core *boxon.Core, name, version, input string) error {
	view, err := core.Configurator(name, version)
	if err != nil {
		return err
	}
	values := map[string]string{}
	for _, pair := range strings.Split(input, ",") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("malformed field=value pair %q", pair)
		}
		values[kv[0]] = kv[1]
	}
	record, err := view.ValidateInput(values)
	if err != nil {
		return err
	}
	fmt.Printf("valid: %+v\n", record)
	return nil
}
