package fuzzy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinySystem(t *testing.T, rules ...Rule) *System {
	t.Helper()
	in, _ := NewUniverse(0, 10, 1)
	terms, _ := AutoPartition(in)
	x, err := NewVariable("x", in, terms...)
	require.NoError(t, err)

	out, _ := NewUniverse(0, 100, 1)
	y, err := NewVariable("y", out,
		Term{Name: "small", MF: Triangle{0, 20, 40}},
		Term{Name: "large", MF: Triangle{60, 80, 100}},
		Term{Name: "never", MF: Triangle{0, 0, 0}},
	)
	require.NoError(t, err)

	s, err := NewSystem(y, []*Variable{x}, rules)
	require.NoError(t, err)
	return s
}

func TestExprStrength(t *testing.T) {
	d := Degrees{
		"a": {"low": 0.2, "high": 0.7},
		"b": {"low": 0.9},
	}

	and := And(Is("a", "high"), Is("b", "low"))
	v, err := and.Strength(d)
	require.NoError(t, err)
	assert.Equal(t, 0.7, v)

	or := Or(Is("a", "low"), And(Is("a", "high"), Is("b", "low")))
	v, err = or.Strength(d)
	require.NoError(t, err)
	assert.Equal(t, 0.7, v)

	assert.Equal(t, "(a[low] OR (a[high] AND b[low]))", or.String())

	_, err = Is("c", "low").Strength(d)
	assert.True(t, errors.Is(err, ErrUnknownVariable))
	_, err = Is("b", "high").Strength(d)
	assert.True(t, errors.Is(err, ErrUnknownTerm))
}

func TestSystemSymmetricSingleRule(t *testing.T) {
	s := tinySystem(t, Rule{If: Is("x", "low"), Then: "small"})

	// a symmetric triangle clipped at any height keeps its centroid on the peak
	for _, x := range []float64{0, 1, 2.5, 4} {
		score, err := s.Infer(map[string]float64{"x": x})
		require.NoError(t, err)
		assert.InDelta(t, 20.0, score, 1e-9, "x=%v", x)
	}
}

func TestSystemAggregatesByUnion(t *testing.T) {
	s := tinySystem(t,
		Rule{If: Is("x", "low"), Then: "small"},
		Rule{If: Is("x", "high"), Then: "large"},
	)

	// neither rule fires at the midpoint
	_, err := s.Evaluate(map[string]float64{"x": 5})
	assert.ErrorIs(t, err, ErrDegenerateInference)

	res, err := s.Evaluate(map[string]float64{"x": 7.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5}, res.Strengths)
	assert.InDelta(t, 80.0, res.Score, 1e-9)
	for i, mu := range res.Aggregate {
		assert.LessOrEqual(t, mu, 0.5, "y=%d", i)
	}

	// equal masses on both sides of 50
	s2 := tinySystem(t,
		Rule{If: Or(Is("x", "low"), Is("x", "high")), Then: "small"},
		Rule{If: Or(Is("x", "low"), Is("x", "high")), Then: "large"},
	)
	score, err := s2.Infer(map[string]float64{"x": 0})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, score, 1e-9)
}

func TestSystemDegenerateOutputTerm(t *testing.T) {
	s := tinySystem(t, Rule{If: Is("x", "medium"), Then: "never"})

	// the consequent is 1 only at y=0, so the centroid collapses onto 0
	score, err := s.Infer(map[string]float64{"x": 5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestSystemInputErrors(t *testing.T) {
	s := tinySystem(t, Rule{If: Is("x", "low"), Then: "small"})

	_, err := s.Infer(map[string]float64{})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = s.Infer(map[string]float64{"x": 11})
	assert.ErrorIs(t, err, ErrInputOutOfRange)
}

func TestNewSystemValidatesReferences(t *testing.T) {
	in, _ := NewUniverse(0, 10, 1)
	terms, _ := AutoPartition(in)
	x, _ := NewVariable("x", in, terms...)
	out, _ := NewUniverse(0, 100, 1)
	y, _ := NewVariable("y", out, Term{Name: "small", MF: Triangle{0, 20, 40}})

	_, err := NewSystem(y, []*Variable{x}, []Rule{{If: Is("z", "low"), Then: "small"}})
	assert.ErrorIs(t, err, ErrUnknownVariable)

	_, err = NewSystem(y, []*Variable{x}, []Rule{{If: Is("x", "extreme"), Then: "small"}})
	assert.ErrorIs(t, err, ErrUnknownTerm)

	_, err = NewSystem(y, []*Variable{x}, []Rule{{If: Is("x", "low"), Then: "huge"}})
	assert.ErrorIs(t, err, ErrUnknownTerm)

	_, err = NewSystem(y, []*Variable{x, x}, nil)
	assert.Error(t, err)
}

func TestCentroid(t *testing.T) {
	got, err := Centroid([]float64{0, 1, 2}, []float64{0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got, 1e-12)

	_, err = Centroid([]float64{0, 1}, []float64{0, 0})
	assert.ErrorIs(t, err, ErrDegenerateInference)

	_, err = Centroid([]float64{0, 1}, []float64{0})
	assert.Error(t, err)
}
