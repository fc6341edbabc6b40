package jsonschema

// Built-in dialects: one Dialect per draft this package understands,
// registered onto every new Compiler by registerBuiltinDialects. Each
// dialect's Keywords map is built from the shared vocabulary in vocab.go,
// with the pre-2020-12 keyword shapes from vocab_legacy.go swapped in where
// a draft's grammar differs (legacy "items"+"additionalItems" vs
// "prefixItems"+"items", combined "dependencies" vs
// "dependentRequired"+"dependentSchemas", boolean vs numeric
// exclusiveMinimum/exclusiveMaximum).

const (
	Draft4ID    = "http://json-schema.org/draft-04/schema#"
	Draft6ID    = "http://json-schema.org/draft-06/schema#"
	Draft7ID    = "http://json-schema.org/draft-07/schema#"
	Draft2019ID = "https://json-schema.org/draft/2019-09/schema"
	Draft2020ID = "https://json-schema.org/draft/2020-12/schema"
)

// sharedValidationKeywords is every keyword whose shape hasn't changed
// across the drafts that carry it at all (type/enum and the
// string/number/array/object bound assertions).
func sharedValidationKeywords() map[string]Keyword {
	return map[string]Keyword{
		"type":          typeKeyword{},
		"enum":          enumKeyword{},
		"multipleOf":    multipleOfKeyword{},
		"minLength":     minLengthKeyword{},
		"maxLength":     maxLengthKeyword{},
		"pattern":       patternKeyword{},
		"format":        formatKeyword{},
		"minItems":      minItemsKeyword{},
		"maxItems":      maxItemsKeyword{},
		"uniqueItems":   uniqueItemsKeyword{},
		"required":             requiredKeyword{},
		"minProperties":        minPropertiesKeyword{},
		"maxProperties":        maxPropertiesKeyword{},
		"properties":           propertiesKeyword{},
		"patternProperties":    patternPropertiesKeyword{},
		"additionalProperties": additionalPropertiesKeyword{},
	}
}

func withKeywords(base map[string]Keyword, extra map[string]Keyword) map[string]Keyword {
	out := make(map[string]Keyword, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func draft4Keywords() map[string]Keyword {
	return withKeywords(sharedValidationKeywords(), map[string]Keyword{
		"minimum":          draft4MinimumKeyword{},
		"maximum":          draft4MaximumKeyword{},
		"exclusiveMinimum": noopKeyword{},
		"exclusiveMaximum": noopKeyword{},
		"items":            legacyItemsKeyword{},
		"additionalItems":  additionalItemsKeyword{},
		"dependencies":     dependenciesKeyword{},
		"allOf":            allOfKeyword{},
		"anyOf":            anyOfKeyword{},
		"oneOf":            oneOfKeyword{},
		"not":              notKeyword{},
		"definitions":      defsKeyword{},
	})
}

func draft6Keywords() map[string]Keyword {
	return withKeywords(draft4Keywords(), map[string]Keyword{
		"const":            constKeyword{},
		"contains":         containsKeyword{},
		"propertyNames":    propertyNamesKeyword{},
		"exclusiveMinimum": exclusiveMinimumKeyword,
		"exclusiveMaximum": exclusiveMaximumKeyword,
		"minimum":          minimumKeyword,
		"maximum":          maximumKeyword,
	})
}

func draft7Keywords() map[string]Keyword {
	return withKeywords(draft6Keywords(), map[string]Keyword{
		"if":               ifKeyword{},
		"then":             thenKeyword{},
		"else":             elseKeyword{},
		"contentEncoding":  contentEncodingKeyword{},
		"contentMediaType": contentMediaTypeKeyword{},
	})
}

func draft2019Keywords() map[string]Keyword {
	kws := withKeywords(draft7Keywords(), map[string]Keyword{
		"dependentRequired":     dependentRequiredKeyword{},
		"dependentSchemas":      dependentSchemasKeyword{},
		"unevaluatedProperties": unevaluatedPropertiesKeyword{},
		"unevaluatedItems":      unevaluatedItemsKeyword{},
		"minContains":           minContainsKeyword{},
		"maxContains":           maxContainsKeyword{},
		"$defs":                 defsKeyword{},
	})
	delete(kws, "dependencies")
	return kws
}

func draft2020Keywords() map[string]Keyword {
	kws := withKeywords(draft2019Keywords(), map[string]Keyword{
		"prefixItems": prefixItemsKeyword{},
		"items":       itemsKeyword{},
	})
	delete(kws, "additionalItems")
	return kws
}

// registerBuiltinDialects populates r with every draft this package
// understands, in newest-to-oldest registration order so IsPertinentTo
// probing (used only when $schema is absent) prefers the dialect most
// likely intended by a modern schema author.
func registerBuiltinDialects(r *DialectRegistry) {
	drafts := []*Dialect{
		{
			ID:                 Draft2020ID,
			IDKeyword:          "$id",
			Keywords:           draft2020Keywords(),
			SupportsDynamicRef: true,
			IsPertinentTo:      hasAny("$dynamicRef", "$dynamicAnchor", "prefixItems"),
		},
		{
			ID:                 Draft2019ID,
			IDKeyword:          "$id",
			Keywords:           draft2019Keywords(),
			SupportsDynamicRef: false,
			IsPertinentTo:      hasAny("$recursiveRef", "$recursiveAnchor", "unevaluatedProperties", "unevaluatedItems"),
		},
		{
			ID:            Draft7ID,
			IDKeyword:     "$id",
			Keywords:      draft7Keywords(),
			IsPertinentTo: hasAny("if", "then", "else", "contentEncoding", "contentMediaType"),
		},
		{
			ID:            Draft6ID,
			IDKeyword:     "$id",
			Keywords:      draft6Keywords(),
			IsPertinentTo: hasAny("const", "contains", "propertyNames"),
		},
		{
			ID:            Draft4ID,
			IDKeyword:     "id",
			Keywords:      draft4Keywords(),
			IsPertinentTo: hasAny("id"),
		},
	}
	for _, d := range drafts {
		if err := r.Register(d); err != nil {
			panic(err) // duplicate built-in dialect ID
		}
	}
	if err := r.SetDefault(Draft2020ID); err != nil {
		panic(err) // Draft2020ID was just registered above
	}
}

// hasAny builds an IsPertinentTo probe that claims a schema document if it
// has any of the given top-level members, for dialect inference when
// $schema is absent.
func hasAny(names ...string) func(schema any) bool {
	return func(schema any) bool {
		obj, ok := schema.(map[string]any)
		if !ok {
			return false
		}
		for _, name := range names {
			if _, ok := obj[name]; ok {
				return true
			}
		}
		return false
	}
}

// BuiltinDialect looks up a draft by short name ("4", "6", "7", "2019",
// "2020") for callers (the jsonschema CLI's --draft flag) that want to pin
// DefaultDraft without spelling out the full metaschema URI.
func BuiltinDialect(name string) (*Dialect, bool) {
	r := NewDialectRegistry()
	registerBuiltinDialects(r)
	switch name {
	case "4":
		return r.ByID(Draft4ID)
	case "6":
		return r.ByID(Draft6ID)
	case "7":
		return r.ByID(Draft7ID)
	case "2019":
		return r.ByID(Draft2019ID)
	case "2020":
		return r.ByID(Draft2020ID)
	default:
		return nil, false
	}
}
