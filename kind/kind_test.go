package kind

import (
	"math/big"
	"testing"
)

func TestTypeString(t *testing.T) {
	k := &Type{Got: "string", Want: []string{"integer", "number"}}
	if got := k.String(); got != "got string, want integer or number" {
		t.Errorf("String() = %q", got)
	}
	if path := k.KeywordPath(); len(path) != 1 || path[0] != "type" {
		t.Errorf("KeywordPath() = %v", path)
	}
}

func TestEnumStringSingleAndMultiple(t *testing.T) {
	single := &Enum{Got: "x", Want: []any{"a"}}
	if got := single.String(); got != "value must be 'a'" {
		t.Errorf("single String() = %q", got)
	}
	multi := &Enum{Got: "x", Want: []any{"a", "b"}}
	if got := multi.String(); got != "value must be one of 'a', 'b'" {
		t.Errorf("multi String() = %q", got)
	}
	nonPrimitive := &Enum{Got: "x", Want: []any{[]any{1, 2}}}
	if got := nonPrimitive.String(); got != "enum failed" {
		t.Errorf("non-primitive String() = %q", got)
	}
}

func TestMinimumAndMultipleOfUseRatStr(t *testing.T) {
	min := &Minimum{Got: big.NewRat(1, 2), Want: big.NewRat(3, 1)}
	if got := min.String(); got != "minimum: got 0.5, want >= 3" {
		t.Errorf("Minimum.String() = %q", got)
	}
	mo := &MultipleOf{Got: big.NewRat(5, 1), Want: big.NewRat(2, 1)}
	if got := mo.String(); got != "5 is not a multiple of 2" {
		t.Errorf("MultipleOf.String() = %q", got)
	}
	withNil := &Minimum{Got: nil, Want: big.NewRat(1, 1)}
	if got := withNil.String(); got != "minimum: got ?, want >= 1" {
		t.Errorf("Minimum.String() with nil Got = %q", got)
	}
}

func TestRequiredStringJoinsQuotedNames(t *testing.T) {
	k := &Required{Missing: []string{"foo", "bar"}}
	if got := k.String(); got != "missing properties 'foo', 'bar'" {
		t.Errorf("Required.String() = %q", got)
	}
	single := &Required{Missing: []string{"foo"}}
	if got := single.String(); got != "missing property 'foo'" {
		t.Errorf("Required.String() (single) = %q", got)
	}
}

func TestDependencyKeywordPathIncludesProperty(t *testing.T) {
	k := &Dependency{Prop: "credit_card"}
	path := k.KeywordPath()
	if len(path) != 2 || path[0] != "dependencies" || path[1] != "credit_card" {
		t.Errorf("KeywordPath() = %v", path)
	}
}

func TestFalseSchemaAndGroupAreStable(t *testing.T) {
	if (FalseSchema{}).String() != "false schema" {
		t.Error("FalseSchema.String() changed")
	}
	if (Group{}).String() != "validation failed" {
		t.Error("Group.String() changed")
	}
	if (FalseSchema{}).KeywordPath() != nil {
		t.Error("FalseSchema.KeywordPath() should be nil")
	}
}

func TestPropertyNamesStringQuotesTheOffendingName(t *testing.T) {
	k := &PropertyNames{Property: "bad name"}
	if got := k.String(); got != "invalid property name 'bad name'" {
		t.Errorf("PropertyNames.String() = %q", got)
	}
}
