package jsonschema

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/kortexdev/interrogator/kind"
)

// Legacy keyword vocabulary: shapes that changed across drafts before
// 2020-12 settled on prefixItems/items/dependentRequired/dependentSchemas.
// Kept as distinct Keyword implementations (rather than branching inside
// the 2020-12 ones) so each dialect's Keywords map names the exact set of
// keywords that draft actually recognizes.

// -- legacy "items" (single schema or tuple array) + "additionalItems" --

type legacyItemsCompiled struct {
	tuple  []Key
	single *Key
}

type legacyItemsKeyword struct{}

func (legacyItemsKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionItemsLegacy} }

func (legacyItemsKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	if arr, ok := value.([]any); ok {
		keys := make([]Key, len(arr))
		for i := range arr {
			k, _ := ctx.ChildKey(fmt.Sprint(i))
			keys[i] = k
		}
		return &legacyItemsCompiled{tuple: keys}, nil
	}
	k, ok := ctx.ChildKey("items")
	if !ok {
		return nil, nil
	}
	return &legacyItemsCompiled{single: &k}, nil
}

func (legacyItemsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	c := compiled.(*legacyItemsCompiled)
	var causes []*ValidationError
	if c.single != nil {
		for i, v := range arr {
			if ve := ectx.evaluateChild(*c.single, v, ectx.instanceLoc.append(fmt.Sprint(i)), ectx.keywordLoc); ve != nil {
				causes = append(causes, ve)
			} else {
				ectx.markItem(i)
			}
		}
		return groupError(ectx, causes...)
	}
	for i, v := range arr {
		if i >= len(c.tuple) {
			break
		}
		if ve := ectx.evaluateChild(c.tuple[i], v, ectx.instanceLoc.append(fmt.Sprint(i)), ectx.keywordLoc.append(fmt.Sprint(i))); ve != nil {
			causes = append(causes, ve)
		} else {
			ectx.markItem(i)
		}
	}
	return groupError(ectx, causes...)
}

// additionalItemsCompiled is nil when sibling "items" isn't a tuple array
// (additionalItems is only meaningful alongside tuple "items").
type additionalItemsCompiled struct {
	tupleLen int
	key      Key
}

type additionalItemsKeyword struct{}

func (additionalItemsKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (additionalItemsKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	items, ok := ctx.Sibling("items")
	if !ok {
		return nil, nil
	}
	tuple, ok := items.([]any)
	if !ok {
		return nil, nil
	}
	k, ok := ctx.ChildKey("additionalItems")
	if !ok {
		return nil, nil
	}
	return &additionalItemsCompiled{tupleLen: len(tuple), key: k}, nil
}

func (additionalItemsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	c := compiled.(*additionalItemsCompiled)
	if len(arr) <= c.tupleLen {
		return nil
	}
	var causes []*ValidationError
	for i := c.tupleLen; i < len(arr); i++ {
		if ve := ectx.evaluateChild(c.key, arr[i], ectx.instanceLoc.append(fmt.Sprint(i)), ectx.keywordLoc); ve != nil {
			causes = append(causes, ve)
		} else {
			ectx.markItem(i)
		}
	}
	return groupError(ectx, causes...)
}

// -- legacy combined "dependencies" --

type dependenciesEntry struct {
	required []string // nil when this member is a subschema instead
	schema   Key
	isSchema bool
}

type dependenciesKeyword struct{}

func (dependenciesKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionDependencies} }

func (dependenciesKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dependencies must be an object")
	}
	out := make(map[string]dependenciesEntry, len(m))
	for prop, v := range m {
		if arr, ok := v.([]any); ok {
			req := make([]string, len(arr))
			for i, r := range arr {
				req[i], _ = r.(string)
			}
			out[prop] = dependenciesEntry{required: req}
			continue
		}
		k, ok := ctx.ChildKey(prop)
		if !ok {
			continue
		}
		out[prop] = dependenciesEntry{schema: k, isSchema: true}
	}
	return out, nil
}

func (dependenciesKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	entries := compiled.(map[string]dependenciesEntry)
	props := make([]string, 0, len(entries))
	for p := range entries {
		props = append(props, p)
	}
	sort.Strings(props)
	var causes []*ValidationError
	for _, prop := range props {
		if _, present := obj[prop]; !present {
			continue
		}
		e := entries[prop]
		if e.isSchema {
			if ve := ectx.evaluate(e.schema, instance, ectx.instanceLoc, ectx.keywordLoc); ve != nil {
				causes = append(causes, ve)
			}
			continue
		}
		var missing []string
		for _, req := range e.required {
			if _, ok := obj[req]; !ok {
				missing = append(missing, req)
			}
		}
		if len(missing) > 0 {
			causes = append(causes, &ValidationError{Kind: &kind.Dependency{Prop: prop, Missing: missing}})
		}
	}
	return groupError(ectx, causes...)
}

// -- draft-04 boolean exclusiveMinimum/exclusiveMaximum --

// noopKeyword recognizes a keyword name (so the compiler doesn't report it
// as unrecognized) without compiling or evaluating anything of its own; used
// for draft-04's exclusiveMinimum/exclusiveMaximum, which only take effect
// by being read as a sibling of minimum/maximum.
type noopKeyword struct{}

func (noopKeyword) Compile(_ *CompileContext, _ any) (any, error) { return nil, nil }
func (noopKeyword) Evaluate(_ *EvaluationContext, _ any, _ any) *ValidationError {
	return nil
}

// defsKeyword holds no constraint of its own ("$defs"/"definitions" are
// schema reuse slots, never applied to an instance directly) but must still
// be registered so the identification pass walks into it: a member schema
// reached only through "$defs" otherwise never gets its $id/$anchor/$ref
// discovered unless something happens to $ref a JSON Pointer straight into it.
type defsKeyword struct{}

func (defsKeyword) Compile(_ *CompileContext, _ any) (any, error) { return nil, nil }
func (defsKeyword) Evaluate(_ *EvaluationContext, _ any, _ any) *ValidationError {
	return nil
}
func (defsKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionMap} }

func draft4ExclusiveSibling(ctx *CompileContext, name string) bool {
	v, ok := ctx.Sibling(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

type draft4MinimumKeyword struct{}

func (draft4MinimumKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	r, ok := numRat(value)
	if !ok {
		return nil, &NumberParseError{Value: fmt.Sprint(value)}
	}
	return struct {
		r      *big.Rat
		strict bool
	}{r: r, strict: draft4ExclusiveSibling(ctx, "exclusiveMinimum")}, nil
}

func (draft4MinimumKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	got, ok := numRat(instance)
	if !ok {
		return nil
	}
	c := compiled.(struct {
		r      *big.Rat
		strict bool
	})
	cmp := got.Cmp(c.r)
	if c.strict {
		if cmp > 0 {
			return nil
		}
		return &ValidationError{Kind: &kind.ExclusiveMinimum{Got: got, Want: c.r}}
	}
	if cmp >= 0 {
		return nil
	}
	return &ValidationError{Kind: &kind.Minimum{Got: got, Want: c.r}}
}

type draft4MaximumKeyword struct{}

func (draft4MaximumKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	r, ok := numRat(value)
	if !ok {
		return nil, &NumberParseError{Value: fmt.Sprint(value)}
	}
	return struct {
		r      *big.Rat
		strict bool
	}{r: r, strict: draft4ExclusiveSibling(ctx, "exclusiveMaximum")}, nil
}

func (draft4MaximumKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	got, ok := numRat(instance)
	if !ok {
		return nil
	}
	c := compiled.(struct {
		r      *big.Rat
		strict bool
	})
	cmp := got.Cmp(c.r)
	if c.strict {
		if cmp < 0 {
			return nil
		}
		return &ValidationError{Kind: &kind.ExclusiveMaximum{Got: got, Want: c.r}}
	}
	if cmp <= 0 {
		return nil
	}
	return &ValidationError{Kind: &kind.Maximum{Got: got, Want: c.r}}
}
