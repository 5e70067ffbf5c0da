package triage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Symptom keys the rule base reads. Any other key is carried along untouched.
const (
	PainLevel           = "painLevel"
	BreathingDifficulty = "breathingDifficulty"
	ConsciousnessLevel  = "consciousnessLevel"
)

// InferenceKeys lists the symptoms fed into the fuzzy engine, in input order.
var InferenceKeys = []string{PainLevel, BreathingDifficulty, ConsciousnessLevel}

type Symptom struct {
	Name     string
	Severity float64
}

// Symptoms is an ordered symptom -> severity mapping. It encodes as a JSON
// object and keeps the key order of the document it was decoded from.
type Symptoms []Symptom

// NewSymptoms builds the three inference symptoms in their canonical order.
func NewSymptoms(pain, breathing, consciousness float64) Symptoms {
	return Symptoms{
		{Name: PainLevel, Severity: pain},
		{Name: BreathingDifficulty, Severity: breathing},
		{Name: ConsciousnessLevel, Severity: consciousness},
	}
}

// Severity returns the severity of name, or 0 when the symptom is absent.
func (s Symptoms) Severity(name string) float64 {
	if v, ok := s.Lookup(name); ok {
		return v
	}
	return 0
}

func (s Symptoms) Lookup(name string) (float64, bool) {
	for _, sym := range s {
		if sym.Name == name {
			return sym.Severity, true
		}
	}
	return 0, false
}

// Set replaces the severity of name, appending it when absent.
func (s Symptoms) Set(name string, severity float64) Symptoms {
	for i := range s {
		if s[i].Name == name {
			s[i].Severity = severity
			return s
		}
	}
	return append(s, Symptom{Name: name, Severity: severity})
}

func (s Symptoms) Clone() Symptoms {
	if s == nil {
		return nil
	}
	return append(Symptoms(nil), s...)
}

func (s Symptoms) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sym := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sym.Name)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(sym.Severity) || math.IsInf(sym.Severity, 0) {
			return nil, fmt.Errorf("symptom %s: severity %v is not representable", sym.Name, sym.Severity)
		}
		val, err := json.Marshal(sym.Severity)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Symptoms) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("symptoms: expected object, got %v", tok)
	}

	out := Symptoms{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)

		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("symptom %s: %w", name, err)
		}
		severity := 0.0
		if v != nil {
			severity = *v
		}
		out = out.Set(name, severity)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}
