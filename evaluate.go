package jsonschema

import (
	"sort"

	"github.com/kortexdev/interrogator/kind"
)

// keywordTier orders keyword evaluation within one schema node so that a
// keyword marking properties/items evaluated (properties, patternProperties,
// items, prefixItems, $ref/if-then-else via references) always runs before
// the keyword reading that annotation (additionalProperties/additionalItems,
// then last unevaluatedProperties/unevaluatedItems). Map iteration order is
// otherwise unspecified, which would make those keywords' results depend on
// random iteration order.
func keywordTier(name string) int {
	switch name {
	case "unevaluatedProperties", "unevaluatedItems":
		return 2
	case "additionalProperties", "additionalItems":
		return 1
	default:
		return 0
	}
}

func evaluationOrder(keywords map[string]Keyword) []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		ti, tj := keywordTier(names[i]), keywordTier(names[j])
		if ti != tj {
			return ti < tj
		}
		return names[i] < names[j]
	})
	return names
}

// evalState is the per-node evaluation state machine: every
// node's evaluation starts, runs its keywords, and lands on Valid or
// Invalid. It exists as a type (rather than bool) so future short-circuit
// policies (stop at first Invalid for a Flag-only output) have somewhere
// to branch on an explicit state rather than inferring it from err==nil.
type evalState uint8

const (
	evalStart evalState = iota
	evalRunning
	evalValid
	evalInvalid
)

// dynamicFrame is one entry on the EvaluationContext's dynamic_scope stack
// the schema node currently being evaluated and the path that led
// to it, consulted by $dynamicRef to find the outermost node along the
// current evaluation path that declares a matching $dynamicAnchor.
type dynamicFrame struct {
	key Key
	loc schemaLocation
}

// EvaluationContext carries the state that must survive across an entire
// Validate call: the dynamic scope stack for $dynamicRef/$recursiveRef
// resolution, and the evaluated-properties/evaluated-items sets consumed
// by unevaluatedProperties/unevaluatedItems.
type EvaluationContext struct {
	c     *Compiler
	graph *schemaGraph

	dynamicScope []dynamicFrame

	instanceLoc jsonPointer
	keywordLoc  jsonPointer

	// evaluatedProps/evaluatedItems are stacks of sets, one pushed per
	// object/array instance being walked, so a keyword can mark a
	// property/index evaluated and unevaluatedProperties/unevaluatedItems
	// at the same instance location can see it, per draft 2019-09+
	// "annotations collected from sibling and in-place applicators".
	evaluatedProps  []map[string]bool
	evaluatedItems  []map[int]bool

	shortCircuit bool
}

func newEvaluationContext(c *Compiler, shortCircuit bool) *EvaluationContext {
	return &EvaluationContext{c: c, graph: c.graph, shortCircuit: shortCircuit}
}

func (ectx *EvaluationContext) pushDynamic(k Key) {
	ectx.dynamicScope = append(ectx.dynamicScope, dynamicFrame{key: k, loc: ectx.graph.node(k).loc})
}

func (ectx *EvaluationContext) popDynamic() {
	ectx.dynamicScope = ectx.dynamicScope[:len(ectx.dynamicScope)-1]
}

// resolveDynamicAnchor implements $dynamicRef's lookup: starting
// from the outermost frame of the current dynamic scope, find the first
// one whose node's base resource declares anchor as a $dynamicAnchor, and
// return that one instead of the lexically nearest target. Falling
// through to the lexical target (lexicalTarget) matches a plain $ref
// when no dynamic scope frame resolves the anchor.
func (ectx *EvaluationContext) resolveDynamicAnchor(anchor string, lexicalTarget Key) Key {
	for _, frame := range ectx.dynamicScope {
		aliasName := frame.loc.url.String() + "#" + anchor
		if k, ok := ectx.graph.getByURI(aliasName); ok {
			return k
		}
	}
	return lexicalTarget
}

func (ectx *EvaluationContext) pushProps() { ectx.evaluatedProps = append(ectx.evaluatedProps, map[string]bool{}) }
func (ectx *EvaluationContext) popProps() map[string]bool {
	top := ectx.evaluatedProps[len(ectx.evaluatedProps)-1]
	ectx.evaluatedProps = ectx.evaluatedProps[:len(ectx.evaluatedProps)-1]
	return top
}
func (ectx *EvaluationContext) markProp(name string) {
	if len(ectx.evaluatedProps) > 0 {
		ectx.evaluatedProps[len(ectx.evaluatedProps)-1][name] = true
	}
}
func (ectx *EvaluationContext) propEvaluated(name string) bool {
	if len(ectx.evaluatedProps) == 0 {
		return false
	}
	return ectx.evaluatedProps[len(ectx.evaluatedProps)-1][name]
}

func (ectx *EvaluationContext) pushItems() { ectx.evaluatedItems = append(ectx.evaluatedItems, map[int]bool{}) }
func (ectx *EvaluationContext) popItems() map[int]bool {
	top := ectx.evaluatedItems[len(ectx.evaluatedItems)-1]
	ectx.evaluatedItems = ectx.evaluatedItems[:len(ectx.evaluatedItems)-1]
	return top
}
func (ectx *EvaluationContext) markItem(i int) {
	if len(ectx.evaluatedItems) > 0 {
		ectx.evaluatedItems[len(ectx.evaluatedItems)-1][i] = true
	}
}
func (ectx *EvaluationContext) itemEvaluated(i int) bool {
	if len(ectx.evaluatedItems) == 0 {
		return false
	}
	return ectx.evaluatedItems[len(ectx.evaluatedItems)-1][i]
}

// Schema is a compiled schema handle returned by Compiler.Compile.
// It is safe to call Validate concurrently from multiple goroutines: an
// evaluation never mutates the compiled graph, only its own
// EvaluationContext.
type Schema struct {
	c   *Compiler
	key Key
}

// Validate evaluates instance (already decoded the way a Deserializer
// would produce it) against s, returning the first ValidationError from
// the root node on failure, or nil on success.
func (s *Schema) Validate(instance any) error {
	ectx := newEvaluationContext(s.c, false)
	ectx.pushProps()
	ectx.pushItems()
	ve := ectx.evaluate(s.key, instance, rootPointer, rootPointer)
	if ve != nil {
		return ve
	}
	return nil
}

// evaluateChild evaluates k against a child instance location (a property
// value, array element, or property name) reached from ectx, opening a
// fresh evaluated-properties/evaluated-items frame for that location. Every
// in-place applicator (allOf, anyOf, oneOf, not, if/then/else, $ref and
// friends, dependentSchemas) instead calls evaluate directly at the same
// instanceLoc, so their annotations merge into the current frame rather
// than starting a new one.
func (ectx *EvaluationContext) evaluateChild(k Key, instance any, instanceLoc, keywordLoc jsonPointer) *ValidationError {
	child := &EvaluationContext{
		c:            ectx.c,
		graph:        ectx.graph,
		dynamicScope: ectx.dynamicScope,
		instanceLoc:  instanceLoc,
		keywordLoc:   keywordLoc,
		shortCircuit: ectx.shortCircuit,
	}
	child.pushProps()
	child.pushItems()
	defer child.popItems()
	defer child.popProps()
	return child.evaluate(k, instance, instanceLoc, keywordLoc)
}

// fork returns an EvaluationContext sharing ectx's dynamic scope but with
// its own copy of the current evaluated-properties/evaluated-items frame,
// for keywords (anyOf, oneOf, not, if) that must trial-evaluate a subschema
// without committing its annotations unless the trial is kept. Pair with
// mergeInto to commit a winning trial's annotations back into the parent.
func (ectx *EvaluationContext) fork() *EvaluationContext {
	f := *ectx
	if n := len(ectx.evaluatedProps); n > 0 {
		cp := make(map[string]bool, len(ectx.evaluatedProps[n-1]))
		for k, v := range ectx.evaluatedProps[n-1] {
			cp[k] = v
		}
		f.evaluatedProps = append(append([]map[string]bool{}, ectx.evaluatedProps[:n-1]...), cp)
	}
	if n := len(ectx.evaluatedItems); n > 0 {
		cp := make(map[int]bool, len(ectx.evaluatedItems[n-1]))
		for k, v := range ectx.evaluatedItems[n-1] {
			cp[k] = v
		}
		f.evaluatedItems = append(append([]map[int]bool{}, ectx.evaluatedItems[:n-1]...), cp)
	}
	return &f
}

// mergeInto commits fork's top evaluated-properties/evaluated-items frame
// into parent's top frame, used once a forked trial (anyOf's matching
// branch, oneOf's sole match, if's successful trial) is kept.
func (fork *EvaluationContext) mergeInto(parent *EvaluationContext) {
	if n, pn := len(fork.evaluatedProps), len(parent.evaluatedProps); n > 0 && pn > 0 {
		for k := range fork.evaluatedProps[n-1] {
			parent.evaluatedProps[pn-1][k] = true
		}
	}
	if n, pn := len(fork.evaluatedItems), len(parent.evaluatedItems); n > 0 && pn > 0 {
		for k := range fork.evaluatedItems[n-1] {
			parent.evaluatedItems[pn-1][k] = true
		}
	}
}

// siblingCompiled returns the compiled value of keyword name on the schema
// node currently being evaluated, if present and of type Key — used by
// then/else to re-run the sibling "if" subschema.
func (ectx *EvaluationContext) siblingCompiled(name string) (Key, bool) {
	if len(ectx.dynamicScope) == 0 {
		return Key{}, false
	}
	n := ectx.graph.node(ectx.dynamicScope[len(ectx.dynamicScope)-1].key)
	v, ok := n.compiled[name]
	if !ok {
		return Key{}, false
	}
	k, ok := v.(Key)
	return k, ok
}

// siblingCompiledAny returns the raw compiled value of keyword name on the
// schema node currently being evaluated, whatever its shape, or nil if
// absent — used by keywords (e.g. "items" consulting "prefixItems") whose
// sibling's compiled value isn't a bare Key.
func (ectx *EvaluationContext) siblingCompiledAny(name string) any {
	if len(ectx.dynamicScope) == 0 {
		return nil
	}
	n := ectx.graph.node(ectx.dynamicScope[len(ectx.dynamicScope)-1].key)
	return n.compiled[name]
}

// evaluate runs node k against instance, returning nil on success or a
// *ValidationError (possibly wrapping nested Causes) on failure. It is the
// recursive core of the evaluator: Start -> Running -> Valid|Invalid per node.
func (ectx *EvaluationContext) evaluate(k Key, instance any, instanceLoc, keywordLoc jsonPointer) *ValidationError {
	n := ectx.graph.node(k)

	if n.boolSchema != nil {
		if !*n.boolSchema {
			return &ValidationError{
				KeywordLocation:         keywordLoc.String(),
				AbsoluteKeywordLocation: n.loc.String(),
				InstanceLocation:        instanceLoc.String(),
				Kind:                    kind.FalseSchema{},
			}
		}
		return nil
	}

	ectx.pushDynamic(k)
	defer ectx.popDynamic()

	// References ($ref/$dynamicRef/$recursiveRef) run before this node's own
	// keywords so unevaluatedProperties/unevaluatedItems (always last in
	// evaluationOrder) can see annotations a referenced subschema produced
	// at the same instance location.
	var causes []*ValidationError
	for _, ref := range n.references {
		target := ref.target
		if !ref.eager {
			target = ectx.resolveDynamicAnchorForEdge(ref, k)
		}
		if ve := ectx.evaluate(target, instance, instanceLoc, keywordLoc.append(ref.keyword)); ve != nil {
			causes = append(causes, ve)
			if ectx.shortCircuit {
				break
			}
		}
	}

	for _, name := range evaluationOrder(n.keywords) {
		kw := n.keywords[name]
		compiled, ok := n.compiled[name]
		if !ok {
			continue
		}
		sub := &EvaluationContext{
			c: ectx.c, graph: ectx.graph,
			dynamicScope:   ectx.dynamicScope,
			instanceLoc:    instanceLoc,
			keywordLoc:     keywordLoc.append(name),
			evaluatedProps: ectx.evaluatedProps,
			evaluatedItems: ectx.evaluatedItems,
			shortCircuit:   ectx.shortCircuit,
		}
		if ve := kw.Evaluate(sub, compiled, instance); ve != nil {
			causes = append(causes, ve)
			if ectx.shortCircuit {
				break
			}
		}
	}

	if len(causes) == 0 {
		return nil
	}
	ve := &ValidationError{
		KeywordLocation:         keywordLoc.String(),
		AbsoluteKeywordLocation: n.loc.String(),
		InstanceLocation:        instanceLoc.String(),
		Kind:                    &kind.Schema{Location: n.loc.String()},
	}
	ve.add(causes...)
	return ve
}

func (ectx *EvaluationContext) resolveDynamicAnchorForEdge(ref referenceEdge, from Key) Key {
	targetNode := ectx.graph.node(ref.target)
	if ref.keyword != "$dynamicRef" {
		return ref.target // $recursiveRef: lexical target is already the right resolution scope
	}
	anchor := ""
	if frag := lastAliasFragment(ectx.graph, ref.target); frag != "" {
		anchor = frag
	}
	_ = targetNode
	if anchor == "" {
		return ref.target
	}
	return ectx.resolveDynamicAnchor(anchor, ref.target)
}

// lastAliasFragment finds the $dynamicAnchor name (if any) aliased onto k,
// so a $dynamicRef edge's lexical target can be re-resolved dynamically.
func lastAliasFragment(g *schemaGraph, k Key) string {
	loc := g.node(k).loc
	prefix := loc.url.String() + "#"
	for name, aliased := range g.aliases {
		if aliased == k && len(name) > len(prefix) && name[:len(prefix)] == prefix {
			return name[len(prefix):]
		}
	}
	return ""
}
