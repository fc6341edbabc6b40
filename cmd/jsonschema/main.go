// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command jsonschema compiles a schema and validates one or more instance
// documents against it, printing a Flag/Basic/Detailed/Verbose output
// structure for any failure.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kortexdev/interrogator"
	_ "github.com/kortexdev/interrogator/httploader"
	"github.com/kortexdev/interrogator/jsondec"
	"github.com/kortexdev/interrogator/loader"
	"github.com/kortexdev/interrogator/yamldec"
)

var (
	output  = pflag.StringP("output", "o", "basic", "output format: flag|basic|detailed|verbose")
	draft   = pflag.String("draft", "", "default draft when a schema has no $schema: 4|6|7|2019|2020")
	format  = pflag.Bool("assert-format", false, "treat format as an assertion, not just an annotation")
	content = pflag.Bool("assert-content", false, "treat contentEncoding/contentMediaType as assertions")
	yamlSrc = pflag.Bool("yaml-schemas", false, "decode fetched schema sources as YAML instead of JSON")
	fastSrc = pflag.Bool("fast-json", false, "decode fetched schema sources with goccy/go-json instead of encoding/json")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: jsonschema [flags] <schema> <instance>...")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() < 2 {
		pflag.Usage()
		os.Exit(2)
	}

	c := jsonschema.NewCompiler()
	if *format {
		c.AssertFormat()
	}
	if *content {
		c.AssertContent()
	}
	if *draft != "" {
		if err := applyDraft(c, *draft); err != nil {
			fatal(err)
		}
	}
	switch {
	case *yamlSrc:
		c.UseDeserializer(yamldec.Deserializer)
	case *fastSrc:
		c.UseDeserializer(jsondec.Deserializer)
	}
	// loader dispatches by URL scheme through a global registry (file/http/https
	// registered by this package's imports) rather than the fixed two-entry
	// chain jsonschema.FileLoader/ResolverFunc would give us, so a caller can
	// loader.Register a custom scheme (e.g. "s3") without touching this file.
	c.UseResolver(jsonschema.ResolverFunc(loader.Load))

	schemaArg := pflag.Arg(0)
	sch, err := c.Compile(schemaArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "schema is invalid:")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	exit := 0
	for _, path := range pflag.Args()[1:] {
		inst, err := loadInstance(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exit = 1
			continue
		}
		if verr := sch.Validate(inst); verr != nil {
			exit = 1
			printResult(path, verr.(*jsonschema.ValidationError))
		} else {
			fmt.Printf("%s: pass\n", path)
		}
	}
	os.Exit(exit)
}

func applyDraft(c *jsonschema.Compiler, name string) error {
	d, ok := jsonschema.BuiltinDialect(name)
	if !ok {
		return fmt.Errorf("unknown draft %q", name)
	}
	return c.DefaultDraft(d.ID)
}

// loadInstance reads an instance document as YAML (a strict superset of
// JSON, so .json files decode the same way), normalized through yamldec so
// format/type keywords see the same Go types regardless of which file
// extension was loaded.
func loadInstance(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return yamldec.Deserializer(data)
}

func printResult(path string, verr *jsonschema.ValidationError) {
	var v any
	switch *output {
	case "flag":
		v = verr.FlagOutput()
	case "detailed":
		v = verr.DetailedOutput()
	case "verbose":
		v = verr.VerboseOutput()
	default:
		v = verr.BasicOutput()
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Printf("%s: fail\n%s\n", path, b)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
