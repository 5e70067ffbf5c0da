package fuzzy

import (
	"fmt"
	"math"
)

// Degrees holds fuzzified inputs: variable name -> term name -> degree.
type Degrees map[string]map[string]float64

// Expr is a rule antecedent. Implementations are Is, And and Or.
type Expr interface {
	Strength(d Degrees) (float64, error)
	String() string
	refs(visit func(variable, term string))
}

type termRef struct {
	variable, term string
}

// Is references the degree of variable[term].
func Is(variable, term string) Expr {
	return termRef{variable: variable, term: term}
}

func (t termRef) Strength(d Degrees) (float64, error) {
	terms, ok := d[t.variable]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownVariable, t.variable)
	}
	v, ok := terms[t.term]
	if !ok {
		return 0, fmt.Errorf("%w: %s[%s]", ErrUnknownTerm, t.variable, t.term)
	}
	return v, nil
}

func (t termRef) String() string {
	return t.variable + "[" + t.term + "]"
}

func (t termRef) refs(visit func(variable, term string)) {
	visit(t.variable, t.term)
}

type binary struct {
	op       string
	lhs, rhs Expr
	combine  func(a, b float64) float64
}

// And is the fuzzy conjunction (minimum).
func And(lhs, rhs Expr) Expr {
	return binary{op: "AND", lhs: lhs, rhs: rhs, combine: math.Min}
}

// Or is the fuzzy disjunction (maximum).
func Or(lhs, rhs Expr) Expr {
	return binary{op: "OR", lhs: lhs, rhs: rhs, combine: math.Max}
}

func (b binary) Strength(d Degrees) (float64, error) {
	l, err := b.lhs.Strength(d)
	if err != nil {
		return 0, err
	}
	r, err := b.rhs.Strength(d)
	if err != nil {
		return 0, err
	}
	return b.combine(l, r), nil
}

func (b binary) String() string {
	return "(" + b.lhs.String() + " " + b.op + " " + b.rhs.String() + ")"
}

func (b binary) refs(visit func(variable, term string)) {
	b.lhs.refs(visit)
	b.rhs.refs(visit)
}

// Rule maps an antecedent to one term of the output variable.
type Rule struct {
	If   Expr
	Then string
}

func (r Rule) String() string {
	return fmt.Sprintf("IF %s THEN %s", r.If, r.Then)
}
