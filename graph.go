package jsonschema

// Key identifies one compiled schema node within a Compiler's graph.
// It is an opaque arena index; zero value is never a valid key.
type Key struct {
	idx int
}

// valid reports whether k was ever issued by a graph (does not check
// whether it belongs to *this* graph; graph.node panics on a foreign key
// the way a slice index out of range would).
func (k Key) valid() bool { return k.idx > 0 }

// schemaNode is one compiled schema resource or subschema: the keywords
// compiled for it, its location, and the graph edges connecting it to
// parents, children, and $ref targets.
type schemaNode struct {
	key Key

	// loc is the node's own location: source URL plus the JSON Pointer
	// within that source's document.
	loc schemaLocation

	// dialect is the Dialect this node was compiled under.
	dialect *Dialect

	// compiled holds one entry per Keyword present on this node, keyed by
	// keyword name, value is that Keyword's Compile() result.
	compiled map[string]any
	keywords map[string]Keyword

	boolSchema   *bool // non-nil for a `true`/`false` schema, in which case compiled/keywords are unused
	parent       Key
	hasParent    bool
	children     []Key
	references   []referenceEdge
	// dependents lists nodes with a referenceEdge pointing at this one.
	// Nothing reads it yet (it's bookkeeping for a future incremental
	// recompile/invalidation pass); a rolled-back transaction can leave a
	// stale entry here pointing at a Key that no longer resolves, which is
	// harmless only because of that.
	dependents []Key
}

type schemaLocation struct {
	url AbsoluteUri // fragment-free
	ptr jsonPointer
}

func (l schemaLocation) String() string {
	if l.ptr.isEmpty() {
		return l.url.String() + "#"
	}
	return l.url.String() + "#" + l.ptr.String()
}

// referenceEdge records one $ref/$dynamicRef/$recursiveRef from a schema
// node to its target. Eager edges participate in cycle detection during
// compilation; non-eager ones ($dynamicRef/$recursiveRef) are resolved
// lazily at evaluation time instead.
type referenceEdge struct {
	keyword string
	target  Key
	eager   bool
}

// schemaGraph is the keyed arena: nodes are appended and, once a compile
// commits, never removed or mutated in a way that changes what's already
// reachable through the canonical/alias maps. A compile that fails partway
// rolls back through the active graphTx instead, so no half-identified or
// half-compiled node is ever reachable by a later Compile call or by
// evaluation — see beginTx/endTx.
type schemaGraph struct {
	nodes []*schemaNode // index 0 unused so the zero Key is invalid

	// canonical maps a node's own fragment-free-or-pointer location string
	// to its Key; aliases additionally maps every $anchor/$dynamicAnchor
	// name, as url#name, to the same Key. A $id declared by a subschema is
	// not registered in either map.
	canonical map[string]Key
	aliases   map[string]Key

	tx *graphTx // non-nil while a CompileContext call is in flight
}

// graphTx records every node/canonical/alias addition made since it began,
// so CompileContext can undo them all in one step if compilation fails
// before reaching a committed Schema. One transaction spans a whole
// top-level CompileContext call, including any cross-document identify
// triggered by a $ref along the way, since those share the same graph.
type graphTx struct {
	startLen  int
	canonical []string
	aliases   []string
}

// beginTx starts the graph's active transaction. A nested call made while
// one is already active gets a nil handle: its mutations are recorded in
// the active transaction, and its endTx does nothing.
func (g *schemaGraph) beginTx() *graphTx {
	if g.tx != nil {
		return nil
	}
	tx := &graphTx{startLen: len(g.nodes)}
	g.tx = tx
	return tx
}

// endTx finishes tx: commit keeps every mutation made since beginTx,
// !commit undoes them (deletes the canonical/alias entries added and
// truncates the arena back to its pre-transaction length). A call whose tx
// isn't the graph's current owner is a nested call finishing before its
// enclosing transaction and does nothing.
func (g *schemaGraph) endTx(tx *graphTx, commit bool) {
	if g.tx != tx {
		return
	}
	if !commit {
		for _, name := range tx.canonical {
			delete(g.canonical, name)
		}
		for _, name := range tx.aliases {
			delete(g.aliases, name)
		}
		g.nodes = g.nodes[:tx.startLen]
	}
	g.tx = nil
}

func newSchemaGraph() *schemaGraph {
	return &schemaGraph{
		nodes:     make([]*schemaNode, 1),
		canonical: map[string]Key{},
		aliases:   map[string]Key{},
	}
}

// insert allocates a new node at loc and returns its Key. The caller is
// responsible for populating compiled/keywords before the node is
// reachable from evaluation.
func (g *schemaGraph) insert(loc schemaLocation, dialect *Dialect) Key {
	k := Key{idx: len(g.nodes)}
	g.nodes = append(g.nodes, &schemaNode{
		key:      k,
		loc:      loc,
		dialect:  dialect,
		compiled: map[string]any{},
		keywords: map[string]Keyword{},
	})
	name := loc.String()
	g.canonical[name] = k
	if g.tx != nil {
		g.tx.canonical = append(g.tx.canonical, name)
	}
	return k
}

func (g *schemaGraph) node(k Key) *schemaNode {
	if k.idx <= 0 || k.idx >= len(g.nodes) {
		panic((&UnknownKeyError{}).Error())
	}
	return g.nodes[k.idx]
}

// get returns the Key previously inserted at loc, if any.
func (g *schemaGraph) get(loc schemaLocation) (Key, bool) {
	k, ok := g.canonical[loc.String()]
	return k, ok
}

// getByURI resolves a full URI (possibly carrying a fragment that is
// itself an alias/anchor name or a JSON Pointer) to a Key, checking
// aliases after canonical locations.
func (g *schemaGraph) getByURI(u string) (Key, bool) {
	if k, ok := g.canonical[u]; ok {
		return k, true
	}
	k, ok := g.aliases[u]
	return k, ok
}

// addAlias registers name (a full URI string, e.g. a resolved $anchor or
// secondary $id) as also addressing k. Re-aliasing the same name to the
// same key is a no-op; aliasing to a different key is a caller bug and
// panics, since alias collisions within one dialect's $anchor scope are
// already rejected earlier as DuplicateAnchorError.
func (g *schemaGraph) addAlias(name string, k Key) {
	if existing, ok := g.aliases[name]; ok {
		if existing != k {
			panic("BUG: alias " + name + " re-pointed to a different key")
		}
		return
	}
	g.aliases[name] = k
	if g.tx != nil {
		g.tx.aliases = append(g.tx.aliases, name)
	}
}

func (g *schemaGraph) addChild(parent, child Key) {
	p := g.node(parent)
	p.children = append(p.children, child)
	c := g.node(child)
	c.parent, c.hasParent = parent, true
}

func (g *schemaGraph) addReference(from Key, keyword string, to Key, eager bool) {
	n := g.node(from)
	n.references = append(n.references, referenceEdge{keyword: keyword, target: to, eager: eager})
	target := g.node(to)
	target.dependents = append(target.dependents, from)
}

// detectEagerCycle walks eager reference edges reachable from start,
// returning a CyclicDependencyError if start is reachable from itself
// through eager edges only. Called once per root compile, after every
// reference in that root has been extracted.
func (g *schemaGraph) detectEagerCycle(start Key) error {
	visited := map[int]bool{}
	path := []string{}
	var walk func(k Key, onStack map[int]bool) error
	walk = func(k Key, onStack map[int]bool) error {
		if onStack[k.idx] {
			path = append(path, g.node(k).loc.String())
			return &CyclicDependencyError{Path: append([]string(nil), path...)}
		}
		if visited[k.idx] {
			return nil
		}
		onStack[k.idx] = true
		path = append(path, g.node(k).loc.String())
		defer func() { path = path[:len(path)-1] }()
		n := g.node(k)
		for _, ref := range n.references {
			if !ref.eager {
				continue
			}
			if err := walk(ref.target, onStack); err != nil {
				return err
			}
		}
		visited[k.idx] = true
		delete(onStack, k.idx)
		return nil
	}
	return walk(start, map[int]bool{})
}
