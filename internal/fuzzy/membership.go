// Package fuzzy implements a small Mamdani-style fuzzy inference toolkit:
// discretized universes, triangular and shoulder membership functions,
// rule expressions and centroid defuzzification.
package fuzzy

import (
	"fmt"
	"math"
)

// DefaultTermNames are the labels AutoPartition uses when none are given.
var DefaultTermNames = []string{"low", "medium", "high"}

// Universe is a discretized closed range [Min, Max] sampled every Step.
type Universe struct {
	Min  float64
	Max  float64
	Step float64
}

// NewUniverse validates the range and resolution.
func NewUniverse(min, max, step float64) (Universe, error) {
	if !(max > min) || !(step > 0) {
		return Universe{}, fmt.Errorf("fuzzy: invalid universe [%v, %v] step %v", min, max, step)
	}
	return Universe{Min: min, Max: max, Step: step}, nil
}

// Points returns the sample points of the universe, both ends included.
func (u Universe) Points() []float64 {
	n := int(math.Round((u.Max-u.Min)/u.Step)) + 1
	pts := make([]float64, n)
	for i := range pts {
		pts[i] = u.Min + float64(i)*u.Step
	}
	return pts
}

// Contains reports whether x lies inside [Min, Max]. NaN is never contained.
func (u Universe) Contains(x float64) bool {
	return x >= u.Min && x <= u.Max
}

// MembershipFunc maps a crisp value to a degree of truth in [0, 1].
type MembershipFunc interface {
	Degree(x float64) float64
}

// Triangle is the triangular function with feet A, C and peak B (A <= B <= C).
// A degenerate side (A == B or B == C) is vertical: the degree is 1 exactly at
// B and 0 elsewhere on that side.
type Triangle struct {
	A, B, C float64
}

func (t Triangle) Degree(x float64) float64 {
	switch {
	case x == t.B:
		return 1
	case x > t.A && x < t.B:
		return (x - t.A) / (t.B - t.A)
	case x > t.B && x < t.C:
		return (t.C - x) / (t.C - t.B)
	}
	return 0
}

// LeftShoulder is 1 up to Peak and falls linearly to 0 at Foot.
type LeftShoulder struct {
	Peak, Foot float64
}

func (s LeftShoulder) Degree(x float64) float64 {
	switch {
	case x <= s.Peak:
		return 1
	case x >= s.Foot:
		return 0
	}
	return (s.Foot - x) / (s.Foot - s.Peak)
}

// RightShoulder rises linearly from 0 at Foot and stays at 1 from Peak on.
type RightShoulder struct {
	Foot, Peak float64
}

func (s RightShoulder) Degree(x float64) float64 {
	switch {
	case x >= s.Peak:
		return 1
	case x <= s.Foot:
		return 0
	}
	return (x - s.Foot) / (s.Peak - s.Foot)
}

// Term is a named linguistic value of a variable.
type Term struct {
	Name string
	MF   MembershipFunc
}

// AutoPartition splits a universe into len(names) overlapping terms with
// evenly spaced peaks. The outer terms are shoulders saturating at the ends
// of the range; inner terms are symmetric triangles between neighbouring peaks.
func AutoPartition(u Universe, names ...string) ([]Term, error) {
	if len(names) == 0 {
		names = DefaultTermNames
	}
	n := len(names)
	if n < 2 {
		return nil, fmt.Errorf("fuzzy: auto partition needs at least 2 terms, got %d", n)
	}

	peaks := make([]float64, n)
	span := u.Max - u.Min
	for i := range peaks {
		peaks[i] = u.Min + span*float64(i)/float64(n-1)
	}

	terms := make([]Term, n)
	for i, name := range names {
		var mf MembershipFunc
		switch i {
		case 0:
			mf = LeftShoulder{Peak: peaks[0], Foot: peaks[1]}
		case n - 1:
			mf = RightShoulder{Foot: peaks[n-2], Peak: peaks[n-1]}
		default:
			mf = Triangle{A: peaks[i-1], B: peaks[i], C: peaks[i+1]}
		}
		terms[i] = Term{Name: name, MF: mf}
	}
	return terms, nil
}

// Variable is a linguistic variable: a universe plus an ordered set of terms.
type Variable struct {
	Name     string
	Universe Universe
	terms    []Term
	index    map[string]int
}

// NewVariable creates a variable with the given terms. Term names must be unique.
func NewVariable(name string, u Universe, terms ...Term) (*Variable, error) {
	v := &Variable{Name: name, Universe: u, index: make(map[string]int)}
	for _, t := range terms {
		if err := v.AddTerm(t); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// AddTerm appends a term.
func (v *Variable) AddTerm(t Term) error {
	if t.MF == nil {
		return fmt.Errorf("fuzzy: term %s[%s] has no membership function", v.Name, t.Name)
	}
	if _, ok := v.index[t.Name]; ok {
		return fmt.Errorf("fuzzy: duplicate term %s[%s]", v.Name, t.Name)
	}
	v.index[t.Name] = len(v.terms)
	v.terms = append(v.terms, t)
	return nil
}

// Terms returns the terms in definition order.
func (v *Variable) Terms() []Term {
	out := make([]Term, len(v.terms))
	copy(out, v.terms)
	return out
}

// Term looks a term up by name.
func (v *Variable) Term(name string) (Term, bool) {
	i, ok := v.index[name]
	if !ok {
		return Term{}, false
	}
	return v.terms[i], true
}

// Fuzzify evaluates every term of v at x.
func (v *Variable) Fuzzify(x float64) (map[string]float64, error) {
	if !v.Universe.Contains(x) {
		return nil, &InputOutOfRangeError{Variable: v.Name, Value: x, Min: v.Universe.Min, Max: v.Universe.Max}
	}
	out := make(map[string]float64, len(v.terms))
	for _, t := range v.terms {
		out[t.Name] = t.MF.Degree(x)
	}
	return out, nil
}

// Sample evaluates the named term at every point of the universe.
func (v *Variable) Sample(term string) ([]float64, error) {
	t, ok := v.Term(term)
	if !ok {
		return nil, fmt.Errorf("%w: %s[%s]", ErrUnknownTerm, v.Name, term)
	}
	pts := v.Universe.Points()
	out := make([]float64, len(pts))
	for i, x := range pts {
		out[i] = t.MF.Degree(x)
	}
	return out, nil
}
