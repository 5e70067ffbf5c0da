package fuzzy

import (
	"fmt"
)

// System is an immutable rule base over a set of input variables and a single
// output variable. It is safe for concurrent use.
type System struct {
	inputs  []*Variable
	byName  map[string]*Variable
	output  *Variable
	rules   []Rule
	points  []float64
	samples map[string][]float64
}

// Result is the full trace of one inference.
type Result struct {
	// Strengths holds the firing strength of each rule, in rule order.
	Strengths []float64
	// Aggregate is the union of the clipped consequents over the output universe.
	Aggregate []float64
	Score     float64
}

// NewSystem validates every rule reference and precomputes the output term samples.
func NewSystem(output *Variable, inputs []*Variable, rules []Rule) (*System, error) {
	if output == nil {
		return nil, fmt.Errorf("fuzzy: system needs an output variable")
	}
	s := &System{
		inputs:  inputs,
		byName:  make(map[string]*Variable, len(inputs)),
		output:  output,
		rules:   append([]Rule(nil), rules...),
		points:  output.Universe.Points(),
		samples: make(map[string][]float64),
	}
	for _, in := range inputs {
		if _, dup := s.byName[in.Name]; dup {
			return nil, fmt.Errorf("fuzzy: duplicate input variable %s", in.Name)
		}
		s.byName[in.Name] = in
	}

	for i, r := range s.rules {
		if r.If == nil {
			return nil, fmt.Errorf("fuzzy: rule %d has no antecedent", i+1)
		}
		var refErr error
		r.If.refs(func(variable, term string) {
			if refErr != nil {
				return
			}
			v, ok := s.byName[variable]
			if !ok {
				refErr = fmt.Errorf("rule %d: %w: %s", i+1, ErrUnknownVariable, variable)
				return
			}
			if _, ok := v.Term(term); !ok {
				refErr = fmt.Errorf("rule %d: %w: %s[%s]", i+1, ErrUnknownTerm, variable, term)
			}
		})
		if refErr != nil {
			return nil, refErr
		}
		if _, ok := s.samples[r.Then]; ok {
			continue
		}
		sample, err := output.Sample(r.Then)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		s.samples[r.Then] = sample
	}
	return s, nil
}

// Rules returns the rule base in definition order.
func (s *System) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Output returns the output variable.
func (s *System) Output() *Variable {
	return s.output
}

// Fuzzify evaluates every input variable at its crisp value.
func (s *System) Fuzzify(crisp map[string]float64) (Degrees, error) {
	d := make(Degrees, len(s.inputs))
	for _, in := range s.inputs {
		x, ok := crisp[in.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, in.Name)
		}
		m, err := in.Fuzzify(x)
		if err != nil {
			return nil, err
		}
		d[in.Name] = m
	}
	return d, nil
}

// Evaluate runs fuzzification, rule firing, clipping, max-aggregation and
// centroid defuzzification.
func (s *System) Evaluate(crisp map[string]float64) (*Result, error) {
	d, err := s.Fuzzify(crisp)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Strengths: make([]float64, len(s.rules)),
		Aggregate: make([]float64, len(s.points)),
	}
	for i, r := range s.rules {
		w, err := r.If.Strength(d)
		if err != nil {
			return nil, err
		}
		res.Strengths[i] = w
		if w == 0 {
			continue
		}
		for j, mu := range s.samples[r.Then] {
			res.Aggregate[j] = max(res.Aggregate[j], min(w, mu))
		}
	}

	score, err := Centroid(s.points, res.Aggregate)
	if err != nil {
		return nil, err
	}
	res.Score = score
	return res, nil
}

// Infer returns only the defuzzified score.
func (s *System) Infer(crisp map[string]float64) (float64, error) {
	res, err := s.Evaluate(crisp)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// Centroid is the discrete centre of gravity sum(x*mu) / sum(mu).
func Centroid(xs, mu []float64) (float64, error) {
	if len(xs) != len(mu) {
		return 0, fmt.Errorf("fuzzy: centroid over %d points with %d degrees", len(xs), len(mu))
	}
	var num, den float64
	for i, x := range xs {
		num += x * mu[i]
		den += mu[i]
	}
	if den == 0 {
		return 0, ErrDegenerateInference
	}
	return num / den, nil
}
