// Package bench parses the small YAML benchmark format used to describe a
// safety-checking problem for cmd/gopdr: a state alphabet, an initial
// condition, a transition relation, and a property, each given as a
// boolean/arithmetic expression string.
//
// Keeping this parser out of pkg/formula and internal/lia is deliberate:
// the core canonicalizer and decision procedure never import a parser, so
// nothing about the benchmark file format leaks into the PDR engine's
// API.
package bench

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/formula"
)

// ErrMalformedSpec marks a benchmark document missing required fields.
var ErrMalformedSpec = errors.New("bench: malformed benchmark spec")

// Doc is the raw YAML shape:
//
//	vars: [x, y]
//	init: "x = 0 && y = 8"
//	trans: "(x < 8 && x' = x + 2) || (x = 8 && x' = 0)"
//	prop: "!(x = 0 && y = 0)"
type Doc struct {
	Vars  []string `yaml:"vars"`
	Init  string   `yaml:"init"`
	Trans string   `yaml:"trans"`
	Prop  string   `yaml:"prop"`
}

// Spec is a Doc parsed into the engine's input types.
type Spec struct {
	Name  string
	Vars  []lia.Var
	Init  formula.Formula
	Trans formula.Formula
	Prop  formula.Formula
}

// ParseFile reads and parses a single benchmark file.
func ParseFile(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bench: reading %s: %w", path, err)
	}
	spec, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("bench: parsing %s: %w", path, err)
	}
	spec.Name = path
	return spec, nil
}

// Parse decodes YAML bytes into a Spec.
func Parse(raw []byte) (*Spec, error) {
	var doc Doc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("bench: invalid yaml: %w", err)
	}
	if len(doc.Vars) == 0 {
		return nil, fmt.Errorf("bench: %w: no vars declared", ErrMalformedSpec)
	}

	vars := make([]lia.Var, len(doc.Vars))
	for i, name := range doc.Vars {
		if err := checkIdent(name); err != nil {
			return nil, fmt.Errorf("bench: vars: %w", err)
		}
		vars[i] = lia.NewVar(name)
	}

	init, err := ParseExpr(doc.Init)
	if err != nil {
		return nil, fmt.Errorf("bench: init: %w", err)
	}
	trans, err := ParseExpr(doc.Trans)
	if err != nil {
		return nil, fmt.Errorf("bench: trans: %w", err)
	}
	prop, err := ParseExpr(doc.Prop)
	if err != nil {
		return nil, fmt.Errorf("bench: prop: %w", err)
	}

	return &Spec{Vars: vars, Init: init, Trans: trans, Prop: prop}, nil
}
