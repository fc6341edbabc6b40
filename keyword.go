package jsonschema

import "github.com/kortexdev/interrogator/kind"

// Keyword is the extension point every vocabulary member implements.
// Compile turns the keyword's raw JSON value into an opaque compiled form;
// Evaluate applies that compiled form to an instance during evaluation.
// Either hook may be nil for a keyword that is purely annotative or purely
// structural (e.g. "$comment").
type Keyword interface {
	// Compile receives the keyword's raw value and a CompileContext giving
	// access to sibling keywords, the enclosing schema's location, and the
	// Keys of its already-identified subschemas. It returns an opaque value stored on
	// the graph node and handed back to Evaluate, or an error aborting
	// compilation of the whole schema (an error here fails the whole compile).
	Compile(ctx *CompileContext, value any) (any, error)

	// Evaluate applies compiled (this keyword's Compile result) to
	// instance within ectx, returning a non-nil *ValidationError on
	// failure or nil on success.
	Evaluate(ectx *EvaluationContext, compiled any, instance any) *ValidationError
}

// ExtSchema probes are implemented by a Keyword that also participates in
// resource identification (custom $id-like keywords) rather than plain
// validation.
type ExtSchema interface {
	Keyword
	// Identify returns the resource URI this keyword's value names, if
	// any; ok is false when the value names no resource.
	Identify(value any) (id string, ok bool)
}

// Subschemas describes, for one keyword, where its subschemas live so the
// compiler's identification/reference-extraction pass can walk them
// generically instead of every Keyword re-implementing traversal. Path is
// the Position shape of the keyword's value: whether the value itself, each
// array element, or each object member value is a subschema.
type Subschemas struct {
	Path Position
}

// Position enumerates the subschema-location shapes a keyword's value can
// take, so compiler code can switch on it instead of type-asserting ad hoc.
type Position uint8

const (
	// PositionNone: the keyword's value holds no subschemas.
	PositionNone Position = iota
	// PositionSelf: the keyword's value is itself a single subschema
	// ("not", "if", "then", "else", "contains", "propertyNames",
	// "additionalProperties", "unevaluatedProperties", "items" (2020-12
	// single-schema form), "unevaluatedItems").
	PositionSelf
	// PositionArray: the keyword's value is an array of subschemas
	// ("allOf", "anyOf", "oneOf", "prefixItems").
	PositionArray
	// PositionMap: the keyword's value is an object whose every member
	// value is a subschema ("properties", "patternProperties",
	// "$defs"/"definitions", "dependentSchemas").
	PositionMap
	// PositionItemsLegacy: pre-2020-12 "items", whose value is either a
	// single subschema (applies to every element) or an array of
	// subschemas (tuple validation, paired with "additionalItems").
	PositionItemsLegacy
	// PositionDependencies: pre-2019-09 "dependencies", whose value is an
	// object each of whose members is either a required-properties array
	// (no subschema) or a subschema.
	PositionDependencies
)

// groupError wraps per-subschema causes into one parent ValidationError
// whose own Kind is kind.Group, collecting per-subschema failures under
// one parent node.
func groupError(ectx *EvaluationContext, causes ...*ValidationError) *ValidationError {
	if len(causes) == 0 {
		return nil
	}
	ve := &ValidationError{
		InstanceLocation: ectx.instanceLoc.String(),
		Kind:             kind.Group{},
	}
	ve.add(causes...)
	return ve
}
