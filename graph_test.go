package jsonschema

import "testing"

func testLoc(t *testing.T, url, ptr string) schemaLocation {
	t.Helper()
	u := mustAbsURI(t, url)
	p, err := newJSONPointer(ptr)
	if err != nil {
		t.Fatalf("newJSONPointer(%q): %v", ptr, err)
	}
	return schemaLocation{url: u, ptr: p}
}

func TestSchemaGraphInsertAndGet(t *testing.T) {
	g := newSchemaGraph()
	loc := testLoc(t, "https://example.com/schema.json", "")
	k := g.insert(loc, nil)
	if !k.valid() {
		t.Fatal("insert returned an invalid key")
	}
	got, ok := g.get(loc)
	if !ok || got != k {
		t.Errorf("get() = (%v, %v), want (%v, true)", got, ok, k)
	}
}

func TestSchemaGraphAddChildSetsParent(t *testing.T) {
	g := newSchemaGraph()
	parent := g.insert(testLoc(t, "https://example.com/schema.json", ""), nil)
	child := g.insert(testLoc(t, "https://example.com/schema.json", "/properties/x"), nil)
	g.addChild(parent, child)

	p := g.node(parent)
	if len(p.children) != 1 || p.children[0] != child {
		t.Errorf("parent.children = %v, want [%v]", p.children, child)
	}
	c := g.node(child)
	if !c.hasParent || c.parent != parent {
		t.Errorf("child.parent = (%v, %v), want (%v, true)", c.parent, c.hasParent, parent)
	}
}

func TestSchemaGraphAddAliasIdempotentThenPanicsOnConflict(t *testing.T) {
	g := newSchemaGraph()
	k := g.insert(testLoc(t, "https://example.com/schema.json", ""), nil)
	g.addAlias("https://example.com/other#frag", k)
	// re-aliasing the same name to the same key is fine.
	g.addAlias("https://example.com/other#frag", k)

	other := g.insert(testLoc(t, "https://example.com/schema.json", "/definitions/x"), nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic re-pointing an alias to a different key")
		}
	}()
	g.addAlias("https://example.com/other#frag", other)
}

func TestSchemaGraphNodePanicsOnUnknownKey(t *testing.T) {
	g := newSchemaGraph()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range key")
		}
	}()
	g.node(Key{idx: 99})
}

func TestSchemaGraphDetectEagerCycleOnSelfReference(t *testing.T) {
	g := newSchemaGraph()
	a := g.insert(testLoc(t, "https://example.com/schema.json", ""), nil)
	g.addReference(a, "$ref", a, true)
	if err := g.detectEagerCycle(a); err == nil {
		t.Fatal("expected CyclicDependencyError for self-reference")
	}
}

func TestSchemaGraphDetectEagerCycleThroughChain(t *testing.T) {
	g := newSchemaGraph()
	a := g.insert(testLoc(t, "https://example.com/a.json", ""), nil)
	b := g.insert(testLoc(t, "https://example.com/b.json", ""), nil)
	c := g.insert(testLoc(t, "https://example.com/c.json", ""), nil)
	g.addReference(a, "$ref", b, true)
	g.addReference(b, "$ref", c, true)
	g.addReference(c, "$ref", a, true)
	if err := g.detectEagerCycle(a); err == nil {
		t.Fatal("expected CyclicDependencyError for a->b->c->a")
	}
}

func TestSchemaGraphDetectEagerCycleIgnoresNonEagerEdges(t *testing.T) {
	g := newSchemaGraph()
	a := g.insert(testLoc(t, "https://example.com/a.json", ""), nil)
	b := g.insert(testLoc(t, "https://example.com/b.json", ""), nil)
	// a non-eager edge ($dynamicRef-style) back to a must not trip cycle
	// detection: it is resolved lazily at evaluation time instead.
	g.addReference(a, "$ref", b, true)
	g.addReference(b, "$dynamicRef", a, false)
	if err := g.detectEagerCycle(a); err != nil {
		t.Errorf("unexpected cycle error for a non-eager back edge: %v", err)
	}
}

func TestSchemaGraphTxRollbackUndoesInsertAndAlias(t *testing.T) {
	g := newSchemaGraph()
	committed := g.insert(testLoc(t, "https://example.com/schema.json", ""), nil)
	nodesBefore := len(g.nodes)

	tx := g.beginTx()
	k := g.insert(testLoc(t, "https://example.com/schema.json", "/$defs/pos"), nil)
	g.addAlias("https://example.com/schema.json#Positive", k)
	g.endTx(tx, false)

	if _, ok := g.get(testLoc(t, "https://example.com/schema.json", "/$defs/pos")); ok {
		t.Error("rolled-back node is still reachable by canonical location")
	}
	if _, ok := g.getByURI("https://example.com/schema.json#Positive"); ok {
		t.Error("rolled-back alias is still reachable")
	}
	if len(g.nodes) != nodesBefore {
		t.Errorf("arena length = %d, want %d (truncated back to pre-tx size)", len(g.nodes), nodesBefore)
	}
	if _, ok := g.get(testLoc(t, "https://example.com/schema.json", "")); !ok {
		t.Error("node committed before the transaction should survive a rollback")
	}
	_ = committed
}

func TestSchemaGraphTxCommitKeepsInsertAndAlias(t *testing.T) {
	g := newSchemaGraph()
	tx := g.beginTx()
	k := g.insert(testLoc(t, "https://example.com/schema.json", "/$defs/pos"), nil)
	g.addAlias("https://example.com/schema.json#Positive", k)
	g.endTx(tx, true)

	if got, ok := g.get(testLoc(t, "https://example.com/schema.json", "/$defs/pos")); !ok || got != k {
		t.Error("committed node should remain reachable by canonical location")
	}
	if got, ok := g.getByURI("https://example.com/schema.json#Positive"); !ok || got != k {
		t.Error("committed alias should remain reachable")
	}
}

func TestSchemaGraphDetectEagerCycleAllowsDiamond(t *testing.T) {
	g := newSchemaGraph()
	a := g.insert(testLoc(t, "https://example.com/a.json", ""), nil)
	b := g.insert(testLoc(t, "https://example.com/b.json", ""), nil)
	c := g.insert(testLoc(t, "https://example.com/c.json", ""), nil)
	d := g.insert(testLoc(t, "https://example.com/d.json", ""), nil)
	// a -> b -> d, a -> c -> d: shared target via two paths, no cycle.
	g.addReference(a, "$ref", b, true)
	g.addReference(a, "$ref", c, true)
	g.addReference(b, "$ref", d, true)
	g.addReference(c, "$ref", d, true)
	if err := g.detectEagerCycle(a); err != nil {
		t.Errorf("unexpected cycle error for diamond reference shape: %v", err)
	}
}
