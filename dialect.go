package jsonschema

// Dialect is a pluggable vocabulary set: the metaschema URI it claims,
// which keywords it recognizes, and the probes the compiler uses to tell
// schemas belonging to it apart from schemas of other dialects when $schema
// is absent. Dialect selection itself reads the literal "$schema" member
// rather than asking each keyword for a per-keyword probe: every built-in
// dialect keys off the same standard member, so a dialect-wide IsPertinentTo
// hook covers every draft this package ships without per-keyword indirection.
type Dialect struct {
	// ID is the dialect's canonical metaschema URI, e.g.
	// "https://json-schema.org/draft/2020-12/schema".
	ID string

	// IDKeyword names the property used for resource identification:
	// "id" for draft-04, "$id" from draft-06 on.
	IDKeyword string

	// Keywords is this dialect's recognized keyword set, keyed by
	// keyword name.
	Keywords map[string]Keyword

	// IsPertinentTo probes a decoded schema document (map[string]any or
	// bool) and reports whether it looks like it was authored against
	// this dialect, used only when $schema is missing. May be nil, in
	// which case this dialect can never be inferred and must always be
	// named explicitly by $schema.
	IsPertinentTo func(schema any) bool

	// SupportsDynamicRef reports whether $recursiveRef/$recursiveAnchor
	// (false) or $dynamicRef/$dynamicAnchor (true) apply to this dialect;
	// only meaningful for 2019-09/2020-12.
	SupportsDynamicRef bool
}

// DialectRegistry holds every Dialect a Compiler knows about and picks one
// for a given schema document: explicit
// $schema wins; otherwise each dialect's IsPertinentTo is probed in
// registration order; otherwise fall back to parentDialect (the dialect of
// the enclosing resource) or the registry default.
type DialectRegistry struct {
	byID    map[string]*Dialect
	order   []*Dialect
	deflt   *Dialect
}

func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{byID: map[string]*Dialect{}}
}

// Register adds d to the registry. A second registration under the same
// ID is a DuplicateDialectError.
func (r *DialectRegistry) Register(d *Dialect) error {
	if _, ok := r.byID[d.ID]; ok {
		return &DuplicateDialectError{URL: d.ID}
	}
	r.byID[d.ID] = d
	r.order = append(r.order, d)
	if r.deflt == nil {
		r.deflt = d
	}
	return nil
}

// SetDefault names the dialect used when a root schema gives no $schema
// and no IsPertinentTo probe claims it.
func (r *DialectRegistry) SetDefault(id string) error {
	d, ok := r.byID[id]
	if !ok {
		return &DefaultDialectNotFoundError{URL: id}
	}
	r.deflt = d
	return nil
}

func (r *DialectRegistry) ByID(id string) (*Dialect, bool) {
	d, ok := r.byID[id]
	return d, ok
}

func (r *DialectRegistry) Default() (*Dialect, error) {
	if len(r.order) == 0 {
		return nil, &NoDialectsError{}
	}
	return r.deflt, nil
}

// Select implements the dialect-selection algorithm for one schema
// resource: explicit $schema (schemaKeyword) wins when present, otherwise
// each registered dialect's IsPertinentTo is probed in registration order,
// otherwise parent is used.
func (r *DialectRegistry) Select(schemaKeyword string, doc any, parent *Dialect) (*Dialect, error) {
	if schemaKeyword != "" {
		d, ok := r.byID[schemaKeyword]
		if !ok {
			return nil, &DefaultDialectNotFoundError{URL: schemaKeyword}
		}
		return d, nil
	}
	for _, d := range r.order {
		if d.IsPertinentTo != nil && d.IsPertinentTo(doc) {
			return d, nil
		}
	}
	if parent != nil {
		return parent, nil
	}
	return r.Default()
}
