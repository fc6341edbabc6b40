package jsonschema

import (
	"context"
	"fmt"
)

// Compiler is the configuration object and entry point for turning schema
// documents into a compiled Schema handle, following a direct-method
// configuration style (AssertFormat as a method, a Compiler-owned
// loader/regexpEngine/vocabularies) rather than functional options.
type Compiler struct {
	dialects *DialectRegistry
	source   *sourceStore
	resolver Resolver

	regexpEngine RegexpEngine

	assertFormat  bool
	assertContent bool

	graph *schemaGraph
}

// NewCompiler returns a Compiler with every built-in dialect registered and
// the standard library's regexp as its RegexpEngine; callers select an
// alternate engine with UseRegexpEngine.
func NewCompiler() *Compiler {
	c := &Compiler{
		dialects:     NewDialectRegistry(),
		source:       newSourceStore(nil),
		regexpEngine: goRegexpEngine{},
		graph:        newSchemaGraph(),
	}
	registerBuiltinDialects(c.dialects)
	return c
}

// AssertFormat enables validation of the "format" keyword's assertions
// (disabled by default, matching every draft from 2019-09 on treating
// format as annotation-only unless a vocabulary opts in).
func (c *Compiler) AssertFormat() { c.assertFormat = true }

// AssertContent enables validation of contentEncoding/contentMediaType.
func (c *Compiler) AssertContent() { c.assertContent = true }

// UseRegexpEngine swaps the engine used to compile "pattern" and
// "patternProperties" patterns.
func (c *Compiler) UseRegexpEngine(e RegexpEngine) { c.regexpEngine = e }

// UseDeserializer swaps the format used to decode bytes fetched through the
// Resolver chain. It replaces the compiler's source store, so documents
// added with AddResource before the call are dropped.
func (c *Compiler) UseDeserializer(d Deserializer) { c.source = newSourceStore(d) }

// UseResolver installs the Resolver chain consulted when the document named
// in Compile/CompileContext has not been added via AddResource. A document
// reached only through a $ref is looked up among the documents already
// present; the chain is not consulted for it, and a missing one fails with
// SourceNotFoundError.
func (c *Compiler) UseResolver(r Resolver) { c.resolver = r }

// DefaultDraft sets the dialect assumed for a root schema that gives no
// $schema and matches no dialect's IsPertinentTo probe.
func (c *Compiler) DefaultDraft(metaschemaURL string) error {
	return c.dialects.SetDefault(metaschemaURL)
}

// RegisterDialect adds a custom Dialect (e.g. one with an extension
// vocabulary layered on top of a draft) to this Compiler's registry.
func (c *Compiler) RegisterDialect(d *Dialect) error { return c.dialects.Register(d) }

// AddResource registers doc (already decoded) under url, as if it had been
// fetched by the Resolver chain. Use this to seed schemas the caller
// already has in memory.
func (c *Compiler) AddResource(url string, doc any) error {
	u, err := ParseAbsoluteUri(url)
	if err != nil {
		return err
	}
	return c.source.put(u.WithoutFragment(), doc)
}

// resolve returns the decoded document for the fragment-free form of url,
// fetching it through the Resolver chain (and deserializing) on a cache
// miss.
func (c *Compiler) resolve(ctx context.Context, url string) (*sourceEntry, error) {
	u, err := ParseAbsoluteUri(url)
	if err != nil {
		return nil, err
	}
	base := u.WithoutFragment()
	if e, ok := c.source.get(base); ok {
		return e, nil
	}
	if c.resolver == nil {
		return nil, &SourceNotFoundError{URL: base.String()}
	}
	data, err := c.resolver.Resolve(ctx, base.String())
	if err != nil {
		return nil, err
	}
	if err := c.source.putBytes(base, data); err != nil {
		return nil, err
	}
	e, _ := c.source.get(base)
	return e, nil
}

// Compile resolves url (fetching it if necessary), locates the schema at
// its fragment, and returns a compiled Schema handle. Compilation is
// atomic: a failure partway through never leaves partially-compiled nodes
// reachable through the Compiler's public API, and recompiling the same
// url is idempotent (returns the already-compiled Schema).
func (c *Compiler) Compile(url string) (*Schema, error) {
	return c.CompileContext(context.Background(), url)
}

// MustCompile is Compile, panicking on error; for tests and package init.
func (c *Compiler) MustCompile(url string) *Schema {
	s, err := c.Compile(url)
	if err != nil {
		panic(err)
	}
	return s
}

// CompileContext is Compile with an explicit context, threaded through to
// any Resolver fetch needed along the way.
func (c *Compiler) CompileContext(ctx context.Context, url string) (*Schema, error) {
	u, err := ParseUri(url)
	if err != nil {
		return nil, &CompileError{URL: url, Err: err}
	}
	abs, err := u.AsAbsolute()
	if err != nil {
		return nil, &CompileError{URL: url, Err: err}
	}

	base := abs.WithoutFragment()
	entry, err := c.resolve(ctx, base.String())
	if err != nil {
		return nil, &CompileError{URL: url, Err: err}
	}

	deflt, err := c.dialects.Default()
	if err != nil {
		return nil, &CompileError{URL: url, Err: err}
	}

	// Identification and compilation mutate the shared graph incrementally
	// as they walk a (possibly cross-document) subtree; a failure partway
	// through must leave nothing of this call observable, so every node,
	// canonical location, and alias touched below is tracked by tx and
	// rolled back unless committed reaches the end.
	tx := c.graph.beginTx()
	committed := false
	defer func() { c.graph.endTx(tx, committed) }()

	ic := &identifyCtx{c: c, entry: entry, dialect: deflt}

	var k Key
	if frag := abs.Fragment(); frag != "" && !jsonPointerLike(frag) {
		// Anchor fragment: resolveAnchor identifies the whole document
		// before trusting entry's anchor table, so #Name works directly
		// from Compile, not just when reached through a $ref.
		k, err = ic.resolveAnchor(entry, frag)
		if err != nil {
			return nil, &CompileError{URL: url, Err: err}
		}
	} else {
		root, rootLoc, err := locateFragment(entry, abs)
		if err != nil {
			return nil, &CompileError{URL: url, Err: err}
		}
		if existing, ok := c.graph.get(rootLoc); ok {
			committed = true
			return &Schema{c: c, key: existing}, nil
		}
		k, err = ic.identify(root, rootLoc, nil, deflt)
		if err != nil {
			return nil, &CompileError{URL: url, Err: err}
		}
	}
	if err := c.graph.detectEagerCycle(k); err != nil {
		return nil, &CompileError{URL: url, Err: err}
	}
	cc := &compileCtx{c: c}
	if err := cc.compileNode(k); err != nil {
		return nil, &CompileError{URL: url, Err: err}
	}
	committed = true
	return &Schema{c: c, key: k}, nil
}

// locateFragment resolves abs's fragment (a JSON Pointer, or empty for the
// document root) against entry's document, returning the located node
// together with its schemaLocation.
func locateFragment(entry *sourceEntry, abs AbsoluteUri) (any, schemaLocation, error) {
	frag := abs.Fragment()
	if frag == "" || frag == "/" {
		return entry.doc, schemaLocation{url: entry.url, ptr: rootPointer}, nil
	}
	ptr, err := newJSONPointer(frag)
	if err != nil {
		return nil, schemaLocation{}, err
	}
	v, err := entry.resolvePointer(ptr)
	if err != nil {
		return nil, schemaLocation{}, err
	}
	return v, schemaLocation{url: entry.url, ptr: ptr}, nil
}

// identifyCtx performs the depth-first identification pass: for every
// schema object reachable from a root, select its dialect, extract
// $id/$anchor/$dynamicAnchor, allocate a graph node, and recurse into its
// subschemas and references.
type identifyCtx struct {
	c       *Compiler
	entry   *sourceEntry
	dialect *Dialect
}

func (ic *identifyCtx) identify(doc any, loc schemaLocation, parent *Key, parentDialect *Dialect) (Key, error) {
	if k, ok := ic.c.graph.get(loc); ok {
		return k, nil
	}

	if b, ok := doc.(bool); ok {
		k := ic.c.graph.insert(loc, parentDialect)
		ic.c.graph.node(k).boolSchema = &b
		if parent != nil {
			ic.c.graph.addChild(*parent, k)
		}
		return k, nil
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return Key{}, fmt.Errorf("jsonschema: %s: schema must be an object or boolean", loc.String())
	}

	schemaKW, _ := obj["$schema"].(string)
	d, err := ic.c.dialects.Select(schemaKW, obj, parentDialect)
	if err != nil {
		return Key{}, err
	}

	if rawID, ok := obj[d.IDKeyword].(string); ok && rawID != "" {
		idURI, err := ParseUri(rawID)
		if err != nil {
			return Key{}, err
		}
		if idURI.IsAbsolute() {
			abs, _ := idURI.AsAbsolute()
			if !abs.NoFragment() {
				return Key{}, &FragmentedIdError{ID: rawID}
			}
		}
	}

	k := ic.c.graph.insert(loc, d)
	node := ic.c.graph.node(k)
	node.keywords = d.Keywords
	if parent != nil {
		ic.c.graph.addChild(*parent, k)
	}

	if anchor, ok := obj["$anchor"].(string); ok && anchor != "" {
		if err := ic.entry.addAnchor(anchor, loc.ptr); err != nil {
			return Key{}, err
		}
		ic.c.graph.addAlias(loc.url.String()+"#"+anchor, k)
	}
	if anchor, ok := obj["$dynamicAnchor"].(string); ok && anchor != "" {
		if err := ic.entry.addAnchor(anchor, loc.ptr); err != nil {
			return Key{}, err
		}
		ic.c.graph.addAlias(loc.url.String()+"#"+anchor, k)
	}

	for name, kw := range d.Keywords {
		val, present := obj[name]
		if !present {
			continue
		}
		if err := ic.identifySubschemas(name, kw, val, k, loc, d); err != nil {
			return Key{}, err
		}
	}

	if ref, ok := obj["$ref"].(string); ok {
		if err := ic.identifyReference(k, loc, "$ref", ref, true); err != nil {
			return Key{}, err
		}
	}
	if ref, ok := obj["$dynamicRef"].(string); ok {
		if err := ic.identifyReference(k, loc, "$dynamicRef", ref, false); err != nil {
			return Key{}, err
		}
	}
	if ref, ok := obj["$recursiveRef"].(string); ok {
		if err := ic.identifyReference(k, loc, "$recursiveRef", ref, false); err != nil {
			return Key{}, err
		}
	}

	return k, nil
}

// identifySubschemas dispatches on a keyword's declared Subschemas.Path
// shape to recurse into every subschema it carries.
func (ic *identifyCtx) identifySubschemas(name string, kw Keyword, val any, parent Key, parentLoc schemaLocation, d *Dialect) error {
	sub, ok := kw.(interface{ SubschemaShape() Subschemas })
	if !ok {
		return nil
	}
	switch sub.SubschemaShape().Path {
	case PositionSelf:
		return ic.recurse(val, parentLoc, name, parent, d)
	case PositionArray:
		arr, ok := val.([]any)
		if !ok {
			return nil
		}
		for i, item := range arr {
			if err := ic.recurse(item, parentLoc, fmt.Sprintf("%d", i), parent, d); err != nil {
				return err
			}
		}
	case PositionMap:
		m, ok := val.(map[string]any)
		if !ok {
			return nil
		}
		for name, item := range m {
			if err := ic.recurse(item, parentLoc, name, parent, d); err != nil {
				return err
			}
		}
	case PositionItemsLegacy:
		if arr, ok := val.([]any); ok {
			for i, item := range arr {
				if err := ic.recurse(item, parentLoc, fmt.Sprintf("%d", i), parent, d); err != nil {
					return err
				}
			}
			return nil
		}
		return ic.recurse(val, parentLoc, name, parent, d)
	case PositionDependencies:
		m, ok := val.(map[string]any)
		if !ok {
			return nil
		}
		for prop, item := range m {
			if _, isArr := item.([]any); isArr {
				continue
			}
			if err := ic.recurse(item, parentLoc, prop, parent, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ic *identifyCtx) recurse(val any, parentLoc schemaLocation, tok string, parent Key, d *Dialect) error {
	childPtr := parentLoc.ptr
	if tok != "" {
		childPtr = childPtr.append(tok)
	}
	childLoc := schemaLocation{url: parentLoc.url, ptr: childPtr}
	_, err := ic.identify(val, childLoc, &parent, d)
	return err
}

// identifyReference resolves a $ref-family URI, recursively identifying
// its target if that target hasn't been reached yet, then records the
// edge on the graph (eager for $ref, non-eager for $dynamicRef/$recursiveRef
// in the graph).
func (ic *identifyCtx) identifyReference(from Key, loc schemaLocation, keyword, ref string, eager bool) error {
	target, err := ResolveString(loc.url, ref)
	if err != nil {
		return err
	}
	targetEntry := ic.entry
	if target.WithoutFragment().String() != loc.url.String() {
		e, ok := ic.c.source.get(target.WithoutFragment())
		if !ok {
			return &SourceNotFoundError{URL: target.WithoutFragment().String()}
		}
		targetEntry = e
	}

	var tk Key
	if anchor := target.Fragment(); anchor != "" && !jsonPointerLike(anchor) {
		k, err := ic.resolveAnchor(targetEntry, anchor)
		if err != nil {
			return err
		}
		tk = k
	} else {
		v, tloc, err := locateFragment(targetEntry, target)
		if err != nil {
			return err
		}
		if k, ok := ic.c.graph.get(tloc); ok {
			tk = k
		} else {
			ic2 := &identifyCtx{c: ic.c, entry: targetEntry, dialect: ic.dialect}
			tk, err = ic2.identify(v, tloc, nil, ic.dialect)
			if err != nil {
				return err
			}
		}
	}

	ic.c.graph.addReference(from, keyword, tk, eager)
	return nil
}

func jsonPointerLike(frag string) bool { return frag == "" || frag[0] == '/' }

// resolveAnchor looks up anchor in entry, identifying entry's whole document
// first if the anchor hasn't been registered yet. $anchor/$dynamicAnchor
// declarations are only recorded as a side effect of identify() visiting the
// node that carries them, so an anchor nested away from whatever path first
// reached entry (a fresh cross-document target, or the top-level Compile
// entry point landing on a non-pointer fragment) needs the full document
// walked before the anchor table can be trusted.
func (ic *identifyCtx) resolveAnchor(entry *sourceEntry, anchor string) (Key, error) {
	ptr, ok := entry.lookupAnchor(anchor)
	if !ok {
		ic2 := &identifyCtx{c: ic.c, entry: entry, dialect: ic.dialect}
		if _, err := ic2.identify(entry.doc, schemaLocation{url: entry.url, ptr: rootPointer}, nil, ic.dialect); err != nil {
			return Key{}, err
		}
		ptr, ok = entry.lookupAnchor(anchor)
		if !ok {
			return Key{}, &UnknownAnchorError{Anchor: anchor, URL: entry.url.String()}
		}
	}
	tloc := schemaLocation{url: entry.url, ptr: ptr}
	if k, ok := ic.c.graph.get(tloc); ok {
		return k, nil
	}
	v, err := entry.resolvePointer(ptr)
	if err != nil {
		return Key{}, err
	}
	ic2 := &identifyCtx{c: ic.c, entry: entry, dialect: ic.dialect}
	return ic2.identify(v, tloc, nil, ic.dialect)
}

// compileCtx runs the keyword-compilation pass over an already-identified
// subtree: depth first, so a keyword's Compile can assume its subschemas'
// Key handles are already usable.
type compileCtx struct {
	c     *Compiler
	visit map[int]bool
}

func (cc *compileCtx) compileNode(k Key) error {
	if cc.visit == nil {
		cc.visit = map[int]bool{}
	}
	if cc.visit[k.idx] {
		return nil
	}
	cc.visit[k.idx] = true

	n := cc.c.graph.node(k)
	for _, child := range n.children {
		if err := cc.compileNode(child); err != nil {
			return err
		}
	}
	for _, ref := range n.references {
		if ref.eager {
			if err := cc.compileNode(ref.target); err != nil {
				return err
			}
		}
	}
	if n.boolSchema != nil {
		return nil
	}

	obj, err := cc.objectAt(n)
	if err != nil {
		return err
	}
	for name, kw := range n.keywords {
		val, present := obj[name]
		if !present {
			continue
		}
		ctx := &CompileContext{c: cc.c, node: n, graph: cc.c.graph}
		compiled, err := kw.Compile(ctx, val)
		if err != nil {
			return &SchemaError{SchemaURL: n.loc.String(), Err: err}
		}
		if compiled != nil {
			n.compiled[name] = compiled
		}
	}
	return nil
}

func (cc *compileCtx) objectAt(n *schemaNode) (map[string]any, error) {
	e, ok := cc.c.source.get(n.loc.url)
	if !ok {
		return nil, &SourceNotFoundError{URL: n.loc.url.String()}
	}
	v, err := e.resolvePointer(n.loc.ptr)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return obj, nil
}

// CompileContext is passed to Keyword.Compile, giving it access to the
// enclosing node's already-identified subschema Keys and a way to look up
// a sibling keyword's raw value.
type CompileContext struct {
	c     *Compiler
	node  *schemaNode
	graph *schemaGraph
}

// ChildKey returns the Key of the subschema located at tok within this
// keyword's value (an array index or object member name), previously
// discovered during identification.
func (cc *CompileContext) ChildKey(tok string) (Key, bool) {
	childPtr := cc.node.loc.ptr
	if tok != "" {
		childPtr = childPtr.append(tok)
	}
	loc := schemaLocation{url: cc.node.loc.url, ptr: childPtr}
	return cc.graph.get(loc)
}

// Sibling returns the raw (uncompiled) JSON value of another keyword on the
// same schema object, for keywords whose compiled meaning depends on a
// sibling's value rather than its compiled form (draft-04's boolean
// exclusiveMinimum/exclusiveMaximum modifying minimum/maximum).
func (cc *CompileContext) Sibling(name string) (any, bool) {
	e, ok := cc.c.source.get(cc.node.loc.url)
	if !ok {
		return nil, false
	}
	v, err := e.resolvePointer(cc.node.loc.ptr)
	if err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	val, present := obj[name]
	return val, present
}

// RegexpEngine returns the Compiler's configured pattern engine.
func (cc *CompileContext) RegexpEngine() RegexpEngine { return cc.c.regexpEngine }

// AssertFormat reports whether format assertions are enabled.
func (cc *CompileContext) AssertFormat() bool { return cc.c.assertFormat }

// AssertContent reports whether contentEncoding/contentMediaType assertions
// are enabled.
func (cc *CompileContext) AssertContent() bool { return cc.c.assertContent }

// Location returns the enclosing schema node's own location string, for
// keywords that embed it in a compiled error message.
func (cc *CompileContext) Location() string { return cc.node.loc.String() }
