// Package triage turns raw symptom severities into an urgency level using a
// fixed Mamdani rule base over pain, breathing difficulty and consciousness.
package triage

import (
	"fmt"

	"er-triage/internal/fuzzy"
)

// Linguistic variable names used by the rule base.
const (
	VarPain          = "pain"
	VarBreathing     = "breathing"
	VarConsciousness = "consciousness"
	VarPriority      = "priority"
)

// Output term names.
const (
	TermRoutine  = "routine"
	TermLow      = "low"
	TermMedium   = "medium"
	TermHigh     = "high"
	TermCritical = "critical"
)

const (
	inputMin, inputMax   = 0.0, 10.0
	outputMin, outputMax = 0.0, 100.0
)

// Rules returns the triage rule base in evaluation order.
func Rules() []fuzzy.Rule {
	is := fuzzy.Is
	return []fuzzy.Rule{
		{
			If:   fuzzy.Or(fuzzy.Or(is(VarConsciousness, "high"), is(VarBreathing, "high")), is(VarPain, "high")),
			Then: TermCritical,
		},
		{
			If:   fuzzy.Or(is(VarConsciousness, "medium"), is(VarBreathing, "medium")),
			Then: TermHigh,
		},
		{
			If:   is(VarPain, "medium"),
			Then: TermMedium,
		},
		{
			If:   fuzzy.And(is(VarPain, "low"), is(VarBreathing, "low")),
			Then: TermLow,
		},
		{
			If:   is(VarConsciousness, "low"),
			Then: TermRoutine,
		},
	}
}

func priorityVariable() (*fuzzy.Variable, error) {
	u, err := fuzzy.NewUniverse(outputMin, outputMax, 1)
	if err != nil {
		return nil, err
	}
	return fuzzy.NewVariable(VarPriority, u,
		fuzzy.Term{Name: TermRoutine, MF: fuzzy.Triangle{A: 0, B: 20, C: 40}},
		fuzzy.Term{Name: TermLow, MF: fuzzy.Triangle{A: 30, B: 50, C: 70}},
		fuzzy.Term{Name: TermMedium, MF: fuzzy.Triangle{A: 60, B: 75, C: 90}},
		fuzzy.Term{Name: TermHigh, MF: fuzzy.Triangle{A: 80, B: 90, C: 100}},
		fuzzy.Term{Name: TermCritical, MF: fuzzy.Triangle{A: 95, B: 100, C: 100}},
	)
}

// Engine scores symptoms with the triage rule base. It is immutable and safe
// for concurrent use.
type Engine struct {
	sys *fuzzy.System
}

func NewEngine() (*Engine, error) {
	u, err := fuzzy.NewUniverse(inputMin, inputMax, 1)
	if err != nil {
		return nil, err
	}

	var inputs []*fuzzy.Variable
	for _, name := range []string{VarPain, VarBreathing, VarConsciousness} {
		terms, err := fuzzy.AutoPartition(u)
		if err != nil {
			return nil, err
		}
		v, err := fuzzy.NewVariable(name, u, terms...)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, v)
	}

	out, err := priorityVariable()
	if err != nil {
		return nil, err
	}

	sys, err := fuzzy.NewSystem(out, inputs, Rules())
	if err != nil {
		return nil, fmt.Errorf("build triage rule base: %w", err)
	}
	return &Engine{sys: sys}, nil
}

// RuleFiring is the strength one rule fired with.
type RuleFiring struct {
	Rule     string  `json:"rule"`
	Then     string  `json:"then"`
	Strength float64 `json:"strength"`
}

// Assessment is the outcome of scoring a set of symptoms.
type Assessment struct {
	Score    float64      `json:"score"`
	Priority Level        `json:"priority"`
	Label    string       `json:"label"`
	Rules    []RuleFiring `json:"rules"`
}

// Infer returns the crisp score in [0, 100] for the three raw severities.
func (e *Engine) Infer(pain, breathing, consciousness float64) (float64, error) {
	return e.sys.Infer(crisp(pain, breathing, consciousness))
}

// Assess scores the inference symptoms of s. Missing symptoms count as 0.
func (e *Engine) Assess(s Symptoms) (Assessment, error) {
	res, err := e.sys.Evaluate(crisp(
		s.Severity(PainLevel),
		s.Severity(BreathingDifficulty),
		s.Severity(ConsciousnessLevel),
	))
	if err != nil {
		return Assessment{}, err
	}

	rules := e.sys.Rules()
	firings := make([]RuleFiring, len(rules))
	for i, r := range rules {
		firings[i] = RuleFiring{Rule: r.If.String(), Then: r.Then, Strength: res.Strengths[i]}
	}

	level := LevelFromScore(res.Score)
	return Assessment{
		Score:    res.Score,
		Priority: level,
		Label:    level.String(),
		Rules:    firings,
	}, nil
}

func crisp(pain, breathing, consciousness float64) map[string]float64 {
	return map[string]float64{
		VarPain:          pain,
		VarBreathing:     breathing,
		VarConsciousness: consciousness,
	}
}
