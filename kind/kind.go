// Package kind defines the structured payloads a failing keyword attaches
// to a ValidationError. Each type implements ErrorKind so callers can
// switch on the concrete kind instead of parsing a rendered message.
package kind

import (
	"fmt"
	"math/big"
	"strings"
)

// ErrorKind is implemented by every keyword-specific failure payload.
// KeywordPath names the keyword (and, for map-shaped keywords, the
// sub-key) the failure is attached to; String renders the human message.
type ErrorKind interface {
	KeywordPath() []string
	String() string
}

// --

type Group struct{}

func (Group) KeywordPath() []string { return nil }
func (Group) String() string        { return "validation failed" }

// --

type Schema struct {
	Location string
}

func (*Schema) KeywordPath() []string { return nil }
func (k *Schema) String() string      { return fmt.Sprintf("doesn't validate with %s", quote(k.Location)) }

// --

type FalseSchema struct{}

func (FalseSchema) KeywordPath() []string { return nil }
func (FalseSchema) String() string        { return "false schema" }

// --

type Type struct {
	Got  string
	Want []string
}

func (*Type) KeywordPath() []string { return []string{"type"} }
func (k *Type) String() string {
	return fmt.Sprintf("got %s, want %s", k.Got, strings.Join(k.Want, " or "))
}

// --

type Enum struct {
	Got  any
	Want []any
}

func (*Enum) KeywordPath() []string { return []string{"enum"} }
func (k *Enum) String() string {
	if !allPrimitive(k.Want) {
		return "enum failed"
	}
	if len(k.Want) == 1 {
		return fmt.Sprintf("value must be %s", display(k.Want[0]))
	}
	want := make([]string, len(k.Want))
	for i, v := range k.Want {
		want[i] = display(v)
	}
	return fmt.Sprintf("value must be one of %s", strings.Join(want, ", "))
}

// --

type Const struct {
	Got  any
	Want any
}

func (*Const) KeywordPath() []string { return []string{"const"} }
func (k *Const) String() string {
	switch k.Want.(type) {
	case []any, map[string]any:
		return "const failed"
	default:
		return fmt.Sprintf("value must be %s", display(k.Want))
	}
}

// --

type Format struct {
	Got  any
	Want string
	Err  error
}

func (*Format) KeywordPath() []string { return []string{"format"} }
func (k *Format) String() string      { return fmt.Sprintf("%s is not valid %s: %v", display(k.Got), k.Want, k.Err) }

// --

type Reference struct {
	Keyword string
	URL     string
}

func (k *Reference) KeywordPath() []string { return []string{k.Keyword} }
func (*Reference) String() string          { return "validation failed" }

// --

type Not struct{}

func (Not) KeywordPath() []string { return []string{"not"} }
func (Not) String() string        { return "not failed" }

// --

type AllOf struct{ Failed []int }

func (*AllOf) KeywordPath() []string { return []string{"allOf"} }
func (k *AllOf) String() string      { return fmt.Sprintf("allOf failed at %v", k.Failed) }

// --

type AnyOf struct{}

func (AnyOf) KeywordPath() []string { return []string{"anyOf"} }
func (AnyOf) String() string        { return "anyOf failed" }

// --

type OneOf struct {
	// Matched gives the indexes that matched; empty means none matched,
	// two-or-more means more than one matched (both are failures).
	Matched []int
}

func (*OneOf) KeywordPath() []string { return []string{"oneOf"} }
func (k *OneOf) String() string {
	if len(k.Matched) == 0 {
		return "oneOf failed, none matched"
	}
	return fmt.Sprintf("oneOf failed, subschemas %v matched", k.Matched)
}

// --

type Then struct{}

func (Then) KeywordPath() []string { return []string{"then"} }
func (Then) String() string        { return "if-then failed" }

// --

type Else struct{}

func (Else) KeywordPath() []string { return []string{"else"} }
func (Else) String() string        { return "if-else failed" }

// --

type MinProperties struct{ Got, Want int }

func (*MinProperties) KeywordPath() []string { return []string{"minProperties"} }
func (k *MinProperties) String() string {
	return fmt.Sprintf("minProperties: got %d, want %d", k.Got, k.Want)
}

// --

type MaxProperties struct{ Got, Want int }

func (*MaxProperties) KeywordPath() []string { return []string{"maxProperties"} }
func (k *MaxProperties) String() string {
	return fmt.Sprintf("maxProperties: got %d, want %d", k.Got, k.Want)
}

// --

type Required struct{ Missing []string }

func (*Required) KeywordPath() []string { return []string{"required"} }
func (k *Required) String() string {
	if len(k.Missing) == 1 {
		return fmt.Sprintf("missing property %s", quote(k.Missing[0]))
	}
	return fmt.Sprintf("missing properties %s", joinQuoted(k.Missing))
}

// --

type Dependency struct {
	Prop    string
	Missing []string
}

func (k *Dependency) KeywordPath() []string { return []string{"dependencies", k.Prop} }
func (k *Dependency) String() string {
	return fmt.Sprintf("properties %s required, if %s exists", joinQuoted(k.Missing), quote(k.Prop))
}

// --

type DependentRequired struct {
	Prop    string
	Missing []string
}

func (k *DependentRequired) KeywordPath() []string { return []string{"dependentRequired", k.Prop} }
func (k *DependentRequired) String() string {
	return fmt.Sprintf("properties %s required, if %s exists", joinQuoted(k.Missing), quote(k.Prop))
}

// --

type AdditionalProperties struct{ Properties []string }

func (*AdditionalProperties) KeywordPath() []string { return []string{"additionalProperties"} }
func (k *AdditionalProperties) String() string {
	return fmt.Sprintf("additional properties %s not allowed", joinQuoted(k.Properties))
}

// --

type UnevaluatedProperties struct{ Properties []string }

func (*UnevaluatedProperties) KeywordPath() []string { return []string{"unevaluatedProperties"} }
func (k *UnevaluatedProperties) String() string {
	return fmt.Sprintf("unevaluated properties %s not allowed", joinQuoted(k.Properties))
}

// --

type UnevaluatedItems struct{ Indexes []int }

func (*UnevaluatedItems) KeywordPath() []string { return []string{"unevaluatedItems"} }
func (k *UnevaluatedItems) String() string {
	return fmt.Sprintf("unevaluated items at %v not allowed", k.Indexes)
}

// --

type PropertyNames struct{ Property string }

func (*PropertyNames) KeywordPath() []string { return []string{"propertyNames"} }
func (k *PropertyNames) String() string      { return fmt.Sprintf("invalid property name %s", quote(k.Property)) }

// --

type MinItems struct{ Got, Want int }

func (*MinItems) KeywordPath() []string { return []string{"minItems"} }
func (k *MinItems) String() string      { return fmt.Sprintf("minItems: got %d, want %d", k.Got, k.Want) }

// --

type MaxItems struct{ Got, Want int }

func (*MaxItems) KeywordPath() []string { return []string{"maxItems"} }
func (k *MaxItems) String() string      { return fmt.Sprintf("maxItems: got %d, want %d", k.Got, k.Want) }

// --

type UniqueItems struct{ Duplicates [2]int }

func (*UniqueItems) KeywordPath() []string { return []string{"uniqueItems"} }
func (k *UniqueItems) String() string {
	return fmt.Sprintf("items at %d and %d are equal", k.Duplicates[0], k.Duplicates[1])
}

// --

type AdditionalItems struct{ Count int }

func (*AdditionalItems) KeywordPath() []string { return []string{"additionalItems"} }
func (k *AdditionalItems) String() string {
	return fmt.Sprintf("last %d additional item(s) not allowed", k.Count)
}

// --

type Contains struct{}

func (Contains) KeywordPath() []string { return []string{"contains"} }
func (Contains) String() string        { return "no items match contains schema" }

// --

type MinContains struct {
	Matched []int
	Want    int
}

func (*MinContains) KeywordPath() []string { return []string{"minContains"} }
func (k *MinContains) String() string {
	return fmt.Sprintf("min %d items required to match contains schema, but matched %d", k.Want, len(k.Matched))
}

// --

type MaxContains struct {
	Matched []int
	Want    int
}

func (*MaxContains) KeywordPath() []string { return []string{"maxContains"} }
func (k *MaxContains) String() string {
	return fmt.Sprintf("max %d items allowed to match contains schema, but matched %d", k.Want, len(k.Matched))
}

// --

type MinLength struct{ Got, Want int }

func (*MinLength) KeywordPath() []string { return []string{"minLength"} }
func (k *MinLength) String() string      { return fmt.Sprintf("minLength: got %d, want %d", k.Got, k.Want) }

// --

type MaxLength struct{ Got, Want int }

func (*MaxLength) KeywordPath() []string { return []string{"maxLength"} }
func (k *MaxLength) String() string      { return fmt.Sprintf("maxLength: got %d, want %d", k.Got, k.Want) }

// --

type Pattern struct{ Got, Want string }

func (*Pattern) KeywordPath() []string { return []string{"pattern"} }
func (k *Pattern) String() string {
	return fmt.Sprintf("%s does not match pattern %s", quote(k.Got), quote(k.Want))
}

// --

type ContentEncoding struct {
	Want string
	Err  error
}

func (*ContentEncoding) KeywordPath() []string { return []string{"contentEncoding"} }
func (k *ContentEncoding) String() string {
	return fmt.Sprintf("value is not %s encoded: %v", quote(k.Want), k.Err)
}

// --

type ContentMediaType struct {
	Want string
	Err  error
}

func (*ContentMediaType) KeywordPath() []string { return []string{"contentMediaType"} }
func (k *ContentMediaType) String() string {
	return fmt.Sprintf("value is not of mediatype %s: %v", quote(k.Want), k.Err)
}

// --

type Minimum struct{ Got, Want *big.Rat }

func (*Minimum) KeywordPath() []string { return []string{"minimum"} }
func (k *Minimum) String() string      { return fmt.Sprintf("minimum: got %s, want >= %s", ratStr(k.Got), ratStr(k.Want)) }

// --

type Maximum struct{ Got, Want *big.Rat }

func (*Maximum) KeywordPath() []string { return []string{"maximum"} }
func (k *Maximum) String() string      { return fmt.Sprintf("maximum: got %s, want <= %s", ratStr(k.Got), ratStr(k.Want)) }

// --

type ExclusiveMinimum struct{ Got, Want *big.Rat }

func (*ExclusiveMinimum) KeywordPath() []string { return []string{"exclusiveMinimum"} }
func (k *ExclusiveMinimum) String() string {
	return fmt.Sprintf("exclusiveMinimum: got %s, want > %s", ratStr(k.Got), ratStr(k.Want))
}

// --

type ExclusiveMaximum struct{ Got, Want *big.Rat }

func (*ExclusiveMaximum) KeywordPath() []string { return []string{"exclusiveMaximum"} }
func (k *ExclusiveMaximum) String() string {
	return fmt.Sprintf("exclusiveMaximum: got %s, want < %s", ratStr(k.Got), ratStr(k.Want))
}

// --

type MultipleOf struct{ Got, Want *big.Rat }

func (*MultipleOf) KeywordPath() []string { return []string{"multipleOf"} }
func (k *MultipleOf) String() string {
	return fmt.Sprintf("%s is not a multiple of %s", ratStr(k.Got), ratStr(k.Want))
}

// -- helpers --

func ratStr(r *big.Rat) string {
	if r == nil {
		return "?"
	}
	f, _ := r.Float64()
	return fmt.Sprintf("%v", f)
}

func allPrimitive(vs []any) bool {
	for _, v := range vs {
		switch v.(type) {
		case []any, map[string]any:
			return false
		}
	}
	return true
}

func display(v any) string {
	switch v := v.(type) {
	case string:
		return quote(v)
	case []any, map[string]any:
		return "value"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func quote(s string) string {
	q := fmt.Sprintf("%q", s)
	q = strings.ReplaceAll(q, `\"`, `"`)
	return "'" + q[1:len(q)-1] + "'"
}

func joinQuoted(arr []string) string {
	var b strings.Builder
	for i, s := range arr {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(s))
	}
	return b.String()
}
