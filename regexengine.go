package jsonschema

import (
	"regexp"

	"github.com/dlclark/regexp2"
)

// CompiledPattern is the opaque result of RegexpEngine.Compile, stored on
// the graph node by the pattern/patternProperties keywords
// and later handed back to MatchString during evaluation.
type CompiledPattern interface {
	MatchString(s string) bool
	String() string
}

// RegexpEngine is the pluggable pattern engine, generalizing
// a pattern-matching backend into a single Compile entry point so a
// Compiler can own one engine instance instead of a global provider
// function.
type RegexpEngine interface {
	Compile(expr string) (CompiledPattern, error)
}

// goRegexpEngine is the default RegexpEngine, backed by the standard
// library's RE2 engine (no backreferences/lookaround, linear-time).
type goRegexpEngine struct{}

func (goRegexpEngine) Compile(expr string) (CompiledPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return goPattern{re}, nil
}

type goPattern struct{ re *regexp.Regexp }

func (p goPattern) MatchString(s string) bool { return p.re.MatchString(s) }
func (p goPattern) String() string            { return p.re.String() }

// ECMARegexpEngine compiles patterns with dlclark/regexp2 in ECMAScript
// mode, matching the regex flavor the JSON Schema specification actually
// names (ECMA-262), including backreferences and lookaround that RE2
// cannot express.
type ECMARegexpEngine struct{}

func (ECMARegexpEngine) Compile(expr string) (CompiledPattern, error) {
	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	return ecmaPattern{re}, nil
}

type ecmaPattern struct{ re *regexp2.Regexp }

func (p ecmaPattern) MatchString(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

func (p ecmaPattern) String() string { return p.re.String() }
