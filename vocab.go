package jsonschema

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/kortexdev/interrogator/formats"
	"github.com/kortexdev/interrogator/kind"
)

// This file is the default keyword vocabulary: one Keyword
// implementation per standard JSON Schema keyword, the bundle a Dialect
// wires up in registerBuiltinDialects. It is a default, not a hardcoded
// part of the compiler — a caller may build a Dialect with a different
// Keywords map entirely.

func numRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		r, ok := new(big.Rat).SetString(n.String())
		return r, ok
	case float64:
		return new(big.Rat).SetFloat64(n), true
	}
	return nil, false
}

// -- type --

type typeKeyword struct{}

func (typeKeyword) Compile(_ *CompileContext, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, len(v))
		for i, t := range v {
			s, _ := t.(string)
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("type must be a string or array of strings")
}

func (typeKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	want := compiled.([]string)
	got := jsonType(instance)
	for _, w := range want {
		if w == got {
			return nil
		}
		if w == "integer" && got == "number" {
			if isInteger(instance) {
				return nil
			}
		}
	}
	return &ValidationError{Kind: &kind.Type{Got: got, Want: want}}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}

func isInteger(v any) bool {
	r, ok := numRat(v)
	return ok && r.IsInt()
}

// -- enum --

type enumKeyword struct{}

func (enumKeyword) Compile(_ *CompileContext, value any) (any, error) {
	arr, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("enum must be an array")
	}
	return arr, nil
}

func (enumKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	want := compiled.([]any)
	for _, w := range want {
		if deepEqual(w, instance) {
			return nil
		}
	}
	return &ValidationError{Kind: &kind.Enum{Got: instance, Want: want}}
}

// -- const --

type constKeyword struct{}

func (constKeyword) Compile(_ *CompileContext, value any) (any, error) { return value, nil }

func (constKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	if deepEqual(compiled, instance) {
		return nil
	}
	return &ValidationError{Kind: &kind.Const{Got: instance, Want: compiled}}
}

func deepEqual(a, b any) bool {
	ar, aok := numRat(a)
	br, bok := numRat(b)
	if aok && bok {
		return ar.Cmp(br) == 0
	}
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !deepEqual(v, bvv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// -- numeric keywords --

type numericCompare struct {
	op func(got, want *big.Rat) bool
	mk func(got, want *big.Rat) kind.ErrorKind
}

func (n numericCompare) Compile(_ *CompileContext, value any) (any, error) {
	r, ok := numRat(value)
	if !ok {
		return nil, &NumberParseError{Value: fmt.Sprint(value)}
	}
	return r, nil
}

func (n numericCompare) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	got, ok := numRat(instance)
	if !ok {
		return nil
	}
	want := compiled.(*big.Rat)
	if n.op(got, want) {
		return nil
	}
	return &ValidationError{Kind: n.mk(got, want)}
}

var minimumKeyword = numericCompare{
	op: func(got, want *big.Rat) bool { return got.Cmp(want) >= 0 },
	mk: func(got, want *big.Rat) kind.ErrorKind { return &kind.Minimum{Got: got, Want: want} },
}

var maximumKeyword = numericCompare{
	op: func(got, want *big.Rat) bool { return got.Cmp(want) <= 0 },
	mk: func(got, want *big.Rat) kind.ErrorKind { return &kind.Maximum{Got: got, Want: want} },
}

var exclusiveMinimumKeyword = numericCompare{
	op: func(got, want *big.Rat) bool { return got.Cmp(want) > 0 },
	mk: func(got, want *big.Rat) kind.ErrorKind { return &kind.ExclusiveMinimum{Got: got, Want: want} },
}

var exclusiveMaximumKeyword = numericCompare{
	op: func(got, want *big.Rat) bool { return got.Cmp(want) < 0 },
	mk: func(got, want *big.Rat) kind.ErrorKind { return &kind.ExclusiveMaximum{Got: got, Want: want} },
}

type multipleOfKeyword struct{}

func (multipleOfKeyword) Compile(_ *CompileContext, value any) (any, error) {
	r, ok := numRat(value)
	if !ok {
		return nil, &NumberParseError{Value: fmt.Sprint(value)}
	}
	return r, nil
}

func (multipleOfKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	got, ok := numRat(instance)
	if !ok {
		return nil
	}
	want := compiled.(*big.Rat)
	q := new(big.Rat).Quo(got, want)
	if q.IsInt() {
		return nil
	}
	return &ValidationError{Kind: &kind.MultipleOf{Got: got, Want: want}}
}

// -- string keywords --

type minLengthKeyword struct{}

func (minLengthKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }
func (minLengthKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	s, ok := instance.(string)
	if !ok {
		return nil
	}
	n := len([]rune(s))
	want := compiled.(int)
	if n >= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MinLength{Got: n, Want: want}}
}

type maxLengthKeyword struct{}

func (maxLengthKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }
func (maxLengthKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	s, ok := instance.(string)
	if !ok {
		return nil
	}
	n := len([]rune(s))
	want := compiled.(int)
	if n <= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MaxLength{Got: n, Want: want}}
}

func intOf(value any) (int, error) {
	r, ok := numRat(value)
	if !ok || !r.IsInt() {
		return 0, fmt.Errorf("expected integer, got %v", value)
	}
	return int(r.Num().Int64()), nil
}

type patternKeyword struct{}

func (patternKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("pattern must be a string")
	}
	p, err := ctx.RegexpEngine().Compile(s)
	if err != nil {
		return nil, &RegexCompileError{Keyword: "pattern", Pattern: s, Err: err}
	}
	return struct {
		pat CompiledPattern
		src string
	}{p, s}, nil
}

func (patternKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	s, ok := instance.(string)
	if !ok {
		return nil
	}
	c := compiled.(struct {
		pat CompiledPattern
		src string
	})
	if c.pat.MatchString(s) {
		return nil
	}
	return &ValidationError{Kind: &kind.Pattern{Got: s, Want: c.src}}
}

// -- format --

type formatKeyword struct{}

func (formatKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	name, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("format must be a string")
	}
	if !ctx.AssertFormat() {
		return name, nil
	}
	if _, ok := formats.Get(name); !ok {
		return name, nil // unknown format names are annotation-only, never a compile error
	}
	return name, nil
}

func (formatKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if !ectx.c.assertFormat {
		return nil
	}
	name := compiled.(string)
	f, ok := formats.Get(name)
	if !ok {
		return nil
	}
	s, ok := instance.(string)
	if !ok {
		return nil
	}
	if f(s) {
		return nil
	}
	return &ValidationError{Kind: &kind.Format{Got: s, Want: name}}
}

// -- array keywords --

type minItemsKeyword struct{}

func (minItemsKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }
func (minItemsKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	want := compiled.(int)
	if len(arr) >= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MinItems{Got: len(arr), Want: want}}
}

type maxItemsKeyword struct{}

func (maxItemsKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }
func (maxItemsKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	want := compiled.(int)
	if len(arr) <= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MaxItems{Got: len(arr), Want: want}}
}

type uniqueItemsKeyword struct{}

func (uniqueItemsKeyword) Compile(_ *CompileContext, value any) (any, error) {
	b, _ := value.(bool)
	return b, nil
}

func (uniqueItemsKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	if !compiled.(bool) {
		return nil
	}
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	for i := 0; i < len(arr); i++ {
		for j := i + 1; j < len(arr); j++ {
			if deepEqual(arr[i], arr[j]) {
				return &ValidationError{Kind: &kind.UniqueItems{Duplicates: [2]int{i, j}}}
			}
		}
	}
	return nil
}

// -- required --

type requiredKeyword struct{}

func (requiredKeyword) Compile(_ *CompileContext, value any) (any, error) {
	arr, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("required must be an array")
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		out[i], _ = v.(string)
	}
	return out, nil
}

func (requiredKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	var missing []string
	for _, name := range compiled.([]string) {
		if _, ok := obj[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Kind: &kind.Required{Missing: missing}}
}

// -- maxProperties / minProperties --

type minPropertiesKeyword struct{}

func (minPropertiesKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }
func (minPropertiesKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	want := compiled.(int)
	if len(obj) >= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MinProperties{Got: len(obj), Want: want}}
}

type maxPropertiesKeyword struct{}

func (maxPropertiesKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }
func (maxPropertiesKeyword) Evaluate(_ *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	want := compiled.(int)
	if len(obj) <= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MaxProperties{Got: len(obj), Want: want}}
}

// -- properties / additionalProperties / patternProperties --

type propertiesKeyword struct{}

func (propertiesKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionMap} }

func (propertiesKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("properties must be an object")
	}
	keys := make([]Key, 0, len(m))
	names := make([]string, 0, len(m))
	for name := range m {
		k, ok := ctx.ChildKey(name)
		if !ok {
			continue
		}
		keys = append(keys, k)
		names = append(names, name)
	}
	return propertiesCompiled{names: names, keys: keys}, nil
}

type propertiesCompiled struct {
	names []string
	keys  []Key
}

func (propertiesKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	c := compiled.(propertiesCompiled)
	var causes []*ValidationError
	for i, name := range c.names {
		v, present := obj[name]
		if !present {
			continue
		}
		if ve := ectx.evaluateChild(c.keys[i], v, ectx.instanceLoc.append(name), ectx.keywordLoc.append(name)); ve != nil {
			causes = append(causes, ve)
		} else {
			ectx.markProp(name)
		}
	}
	return groupError(ectx, causes...)
}

type additionalPropertiesKeyword struct{}

func (additionalPropertiesKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (additionalPropertiesKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, ok := ctx.ChildKey("additionalProperties")
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (additionalPropertiesKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	k := compiled.(Key)
	var rejected []string
	var causes []*ValidationError
	names := sortedKeys(obj)
	for _, name := range names {
		if ectx.propEvaluated(name) {
			continue
		}
		v := obj[name]
		if ve := ectx.evaluateChild(k, v, ectx.instanceLoc.append(name), ectx.keywordLoc); ve != nil {
			rejected = append(rejected, name)
			causes = append(causes, ve)
		} else {
			ectx.markProp(name)
		}
	}
	if len(rejected) == 0 {
		return nil
	}
	return &ValidationError{Kind: &kind.AdditionalProperties{Properties: rejected}}
}

type patternPropertiesCompiled struct {
	pats []CompiledPattern
	keys []Key
}

type patternPropertiesKeyword struct{}

func (patternPropertiesKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionMap} }

func (patternPropertiesKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("patternProperties must be an object")
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	c := patternPropertiesCompiled{}
	for _, name := range names {
		k, ok := ctx.ChildKey(name)
		if !ok {
			continue
		}
		pat, err := ctx.RegexpEngine().Compile(name)
		if err != nil {
			return nil, &RegexCompileError{Keyword: "patternProperties", Pattern: name, Err: err}
		}
		c.pats = append(c.pats, pat)
		c.keys = append(c.keys, k)
	}
	return c, nil
}

func (patternPropertiesKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	c := compiled.(patternPropertiesCompiled)
	var causes []*ValidationError
	for _, name := range sortedKeys(obj) {
		v := obj[name]
		matched := false
		for i, pat := range c.pats {
			if !pat.MatchString(name) {
				continue
			}
			matched = true
			if ve := ectx.evaluateChild(c.keys[i], v, ectx.instanceLoc.append(name), ectx.keywordLoc.append(name)); ve != nil {
				causes = append(causes, ve)
			}
		}
		if matched {
			ectx.markProp(name)
		}
	}
	return groupError(ectx, causes...)
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type unevaluatedPropertiesKeyword struct{}

func (unevaluatedPropertiesKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (unevaluatedPropertiesKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, ok := ctx.ChildKey("unevaluatedProperties")
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (unevaluatedPropertiesKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	k := compiled.(Key)
	var rejected []string
	var causes []*ValidationError
	for _, name := range sortedKeys(obj) {
		if ectx.propEvaluated(name) {
			continue
		}
		v := obj[name]
		if ve := ectx.evaluateChild(k, v, ectx.instanceLoc.append(name), ectx.keywordLoc); ve != nil {
			rejected = append(rejected, name)
			causes = append(causes, ve)
		} else {
			ectx.markProp(name)
		}
	}
	if len(rejected) == 0 {
		return nil
	}
	return &ValidationError{Kind: &kind.UnevaluatedProperties{Properties: rejected}}
}

// -- items / prefixItems / unevaluatedItems --

type itemsKeyword struct{}

func (itemsKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (itemsKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, ok := ctx.ChildKey("items")
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (itemsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	k := compiled.(Key)
	skip := 0
	if pre, ok := ectx.siblingCompiledAny("prefixItems").([]Key); ok {
		skip = len(pre)
	}
	var causes []*ValidationError
	for i, v := range arr {
		if i < skip {
			continue
		}
		if ve := ectx.evaluateChild(k, v, ectx.instanceLoc.append(fmt.Sprint(i)), ectx.keywordLoc); ve != nil {
			causes = append(causes, ve)
		} else {
			ectx.markItem(i)
		}
	}
	return groupError(ectx, causes...)
}

type prefixItemsKeyword struct{}

func (prefixItemsKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionArray} }

func (prefixItemsKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	arr, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("prefixItems must be an array")
	}
	keys := make([]Key, len(arr))
	for i := range arr {
		k, _ := ctx.ChildKey(fmt.Sprint(i))
		keys[i] = k
	}
	return keys, nil
}

func (prefixItemsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	keys := compiled.([]Key)
	var causes []*ValidationError
	for i, v := range arr {
		if i >= len(keys) {
			break
		}
		if ve := ectx.evaluateChild(keys[i], v, ectx.instanceLoc.append(fmt.Sprint(i)), ectx.keywordLoc.append(fmt.Sprint(i))); ve != nil {
			causes = append(causes, ve)
		} else {
			ectx.markItem(i)
		}
	}
	return groupError(ectx, causes...)
}

type unevaluatedItemsKeyword struct{}

func (unevaluatedItemsKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (unevaluatedItemsKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, ok := ctx.ChildKey("unevaluatedItems")
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (unevaluatedItemsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	k := compiled.(Key)
	var rejected []int
	var causes []*ValidationError
	for i, v := range arr {
		if ectx.itemEvaluated(i) {
			continue
		}
		if ve := ectx.evaluateChild(k, v, ectx.instanceLoc.append(fmt.Sprint(i)), ectx.keywordLoc); ve != nil {
			rejected = append(rejected, i)
			causes = append(causes, ve)
		} else {
			ectx.markItem(i)
		}
	}
	if len(rejected) == 0 {
		return nil
	}
	return &ValidationError{Kind: &kind.UnevaluatedItems{Indexes: rejected}}
}

// -- contains / minContains / maxContains --

type containsKeyword struct{}

func (containsKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (containsKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, ok := ctx.ChildKey("contains")
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (containsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	matched := matchingIndexes(ectx, compiled.(Key), instance)
	if matched == nil {
		return nil
	}
	if len(matched) == 0 {
		return &ValidationError{Kind: kind.Contains{}}
	}
	for _, i := range matched {
		ectx.markItem(i)
	}
	return nil
}

func matchingIndexes(ectx *EvaluationContext, k Key, instance any) []int {
	arr, ok := instance.([]any)
	if !ok {
		return nil
	}
	var matched []int
	for i, v := range arr {
		if ectx.evaluateChild(k, v, ectx.instanceLoc.append(fmt.Sprint(i)), ectx.keywordLoc) == nil {
			matched = append(matched, i)
		}
	}
	if matched == nil {
		matched = []int{}
	}
	return matched
}

type minContainsKeyword struct{}

func (minContainsKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }

func (minContainsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	n := ectx.graph.node(ectx.dynamicScope[len(ectx.dynamicScope)-1].key)
	ck, ok := n.compiled["contains"]
	if !ok {
		return nil
	}
	matched := matchingIndexes(ectx, ck.(Key), instance)
	want := compiled.(int)
	if len(matched) >= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MinContains{Matched: matched, Want: want}}
}

type maxContainsKeyword struct{}

func (maxContainsKeyword) Compile(_ *CompileContext, value any) (any, error) { return intOf(value) }

func (maxContainsKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	n := ectx.graph.node(ectx.dynamicScope[len(ectx.dynamicScope)-1].key)
	ck, ok := n.compiled["contains"]
	if !ok {
		return nil
	}
	matched := matchingIndexes(ectx, ck.(Key), instance)
	want := compiled.(int)
	if len(matched) <= want {
		return nil
	}
	return &ValidationError{Kind: &kind.MaxContains{Matched: matched, Want: want}}
}

// -- propertyNames --

type propertyNamesKeyword struct{}

func (propertyNamesKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (propertyNamesKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, ok := ctx.ChildKey("propertyNames")
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (propertyNamesKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if compiled == nil {
		return nil
	}
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	k := compiled.(Key)
	for _, name := range sortedKeys(obj) {
		if ectx.evaluateChild(k, name, ectx.instanceLoc, ectx.keywordLoc) != nil {
			return &ValidationError{Kind: &kind.PropertyNames{Property: name}}
		}
	}
	return nil
}

// -- boolean applicators: allOf / anyOf / oneOf / not / if-then-else --

type allOfKeyword struct{}

func (allOfKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionArray} }

func (allOfKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	arr, _ := value.([]any)
	keys := make([]Key, len(arr))
	for i := range arr {
		keys[i], _ = ctx.ChildKey(fmt.Sprint(i))
	}
	return keys, nil
}

func (allOfKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	keys := compiled.([]Key)
	var failed []int
	var causes []*ValidationError
	for i, k := range keys {
		if ve := ectx.evaluate(k, instance, ectx.instanceLoc, ectx.keywordLoc.append(fmt.Sprint(i))); ve != nil {
			failed = append(failed, i)
			causes = append(causes, ve)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	ve := &ValidationError{Kind: &kind.AllOf{Failed: failed}}
	ve.add(causes...)
	return ve
}

type anyOfKeyword struct{}

func (anyOfKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionArray} }

func (anyOfKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	arr, _ := value.([]any)
	keys := make([]Key, len(arr))
	for i := range arr {
		keys[i], _ = ctx.ChildKey(fmt.Sprint(i))
	}
	return keys, nil
}

func (anyOfKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	keys := compiled.([]Key)
	var causes []*ValidationError
	for i, k := range keys {
		sub := ectx.fork()
		if ve := sub.evaluate(k, instance, ectx.instanceLoc, ectx.keywordLoc.append(fmt.Sprint(i))); ve == nil {
			sub.mergeInto(ectx)
			return nil
		} else {
			causes = append(causes, ve)
		}
	}
	ve := &ValidationError{Kind: kind.AnyOf{}}
	ve.add(causes...)
	return ve
}

type oneOfKeyword struct{}

func (oneOfKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionArray} }

func (oneOfKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	arr, _ := value.([]any)
	keys := make([]Key, len(arr))
	for i := range arr {
		keys[i], _ = ctx.ChildKey(fmt.Sprint(i))
	}
	return keys, nil
}

func (oneOfKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	keys := compiled.([]Key)
	var matched []int
	var winner *EvaluationContext
	for i, k := range keys {
		sub := ectx.fork()
		if ve := sub.evaluate(k, instance, ectx.instanceLoc, ectx.keywordLoc.append(fmt.Sprint(i))); ve == nil {
			matched = append(matched, i)
			winner = sub
		}
	}
	if len(matched) == 1 {
		winner.mergeInto(ectx)
		return nil
	}
	return &ValidationError{Kind: &kind.OneOf{Matched: matched}}
}

type notKeyword struct{}

func (notKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (notKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, _ := ctx.ChildKey("not")
	return k, nil
}

func (notKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	k := compiled.(Key)
	if ectx.fork().evaluate(k, instance, ectx.instanceLoc, ectx.keywordLoc) == nil {
		return &ValidationError{Kind: kind.Not{}}
	}
	return nil
}

type ifKeyword struct{}

func (ifKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (ifKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, _ := ctx.ChildKey("if")
	return k, nil
}

// ifKeyword itself never fails evaluation (its result only gates then/else,
// handled below by thenKeyword/elseKeyword re-running it).
func (ifKeyword) Evaluate(_ *EvaluationContext, _ any, _ any) *ValidationError { return nil }

type thenKeyword struct{}

func (thenKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (thenKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, _ := ctx.ChildKey("then")
	return k, nil
}

func (thenKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	ifKey, ok := ectx.siblingCompiled("if")
	if !ok {
		return nil
	}
	trial := ectx.fork()
	if trial.evaluate(ifKey, instance, ectx.instanceLoc, ectx.keywordLoc) != nil {
		return nil
	}
	trial.mergeInto(ectx)
	k := compiled.(Key)
	if ve := ectx.evaluate(k, instance, ectx.instanceLoc, ectx.keywordLoc); ve != nil {
		wrap := &ValidationError{Kind: kind.Then{}}
		wrap.add(ve)
		return wrap
	}
	return nil
}

type elseKeyword struct{}

func (elseKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionSelf} }

func (elseKeyword) Compile(ctx *CompileContext, _ any) (any, error) {
	k, _ := ctx.ChildKey("else")
	return k, nil
}

func (elseKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	ifKey, ok := ectx.siblingCompiled("if")
	if !ok || ectx.fork().evaluate(ifKey, instance, ectx.instanceLoc, ectx.keywordLoc) == nil {
		return nil
	}
	k := compiled.(Key)
	if ve := ectx.evaluate(k, instance, ectx.instanceLoc, ectx.keywordLoc); ve != nil {
		wrap := &ValidationError{Kind: kind.Else{}}
		wrap.add(ve)
		return wrap
	}
	return nil
}

// -- dependentRequired / dependentSchemas --

type dependentRequiredKeyword struct{}

func (dependentRequiredKeyword) Compile(_ *CompileContext, value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dependentRequired must be an object")
	}
	out := map[string][]string{}
	for k, v := range m {
		arr, _ := v.([]any)
		names := make([]string, len(arr))
		for i, n := range arr {
			names[i], _ = n.(string)
		}
		out[k] = names
	}
	return out, nil
}

func (dependentRequiredKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	deps := compiled.(map[string][]string)
	var causes []*ValidationError
	for prop, required := range deps {
		if _, present := obj[prop]; !present {
			continue
		}
		var missing []string
		for _, r := range required {
			if _, ok := obj[r]; !ok {
				missing = append(missing, r)
			}
		}
		if len(missing) > 0 {
			causes = append(causes, &ValidationError{Kind: &kind.DependentRequired{Prop: prop, Missing: missing}})
		}
	}
	return groupError(ectx, causes...)
}

type dependentSchemasKeyword struct{}

func (dependentSchemasKeyword) SubschemaShape() Subschemas { return Subschemas{Path: PositionMap} }

func (dependentSchemasKeyword) Compile(ctx *CompileContext, value any) (any, error) {
	m, _ := value.(map[string]any)
	out := map[string]Key{}
	for name := range m {
		if k, ok := ctx.ChildKey(name); ok {
			out[name] = k
		}
	}
	return out, nil
}

func (dependentSchemasKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	m := compiled.(map[string]Key)
	var causes []*ValidationError
	for prop, k := range m {
		if _, present := obj[prop]; !present {
			continue
		}
		if ve := ectx.evaluate(k, instance, ectx.instanceLoc, ectx.keywordLoc.append(prop)); ve != nil {
			causes = append(causes, ve)
		}
	}
	return groupError(ectx, causes...)
}

// -- content assertions --

type contentEncodingKeyword struct{}

func (contentEncodingKeyword) Compile(_ *CompileContext, value any) (any, error) {
	s, _ := value.(string)
	return s, nil
}

func (contentEncodingKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if !ectx.c.assertContent {
		return nil
	}
	name := compiled.(string)
	dec, ok := GetDecoder(name)
	if !ok {
		return nil
	}
	s, ok := instance.(string)
	if !ok {
		return nil
	}
	if _, err := dec(s); err != nil {
		return &ValidationError{Kind: &kind.ContentEncoding{Want: name, Err: err}}
	}
	return nil
}

type contentMediaTypeKeyword struct{}

func (contentMediaTypeKeyword) Compile(_ *CompileContext, value any) (any, error) {
	s, _ := value.(string)
	return s, nil
}

func (contentMediaTypeKeyword) Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError {
	if !ectx.c.assertContent {
		return nil
	}
	name := compiled.(string)
	mt, ok := GetMediaType(name)
	if !ok {
		return nil
	}
	s, ok := instance.(string)
	if !ok {
		return nil
	}
	raw := []byte(s)
	if enc, ok := ectx.c.graph.node(ectx.dynamicScope[len(ectx.dynamicScope)-1].key).compiled["contentEncoding"]; ok {
		if dec, ok := GetDecoder(enc.(string)); ok {
			if decoded, err := dec(s); err == nil {
				raw = decoded
			}
		}
	}
	if err := mt(raw); err != nil {
		return &ValidationError{Kind: &kind.ContentMediaType{Want: name, Err: err}}
	}
	return nil
}
