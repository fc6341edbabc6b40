// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package jsonschema compiles and evaluates JSON Schema documents across
drafts 4, 6, 7, 2019-09 and 2020-12.

An example of using this package:

	c := jsonschema.NewCompiler()
	if err := c.AddResource("https://example.com/schema.json", schemaDoc); err != nil {
		return err
	}
	sch, err := c.Compile("https://example.com/schema.json")
	if err != nil {
		return err
	}
	if err := sch.Validate(instance); err != nil {
		return err
	}

Loading the schema document named in Compile from outside the in-memory
resources added via AddResource is pluggable through Resolver; see
UseResolver. Documents reached only through a $ref are not fetched and
must already be added. Numeric/string format assertions live in the jsonschema/formats
package and can be extended with formats.Register.

The ValidationError returned by Validate carries a tree of causes, each
naming the keyword and instance location responsible; see output.go for the
Flag/Basic/Detailed/Verbose renderings of that tree.
*/
package jsonschema
