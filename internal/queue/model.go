package queue

import (
	"time"

	"er-triage/internal/triage"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// PatientRecord is one admitted patient. The queue owns every record and
// never removes one.
type PatientRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Age      *int            `json:"age,omitempty"`
	Symptoms triage.Symptoms `json:"symptoms"`

	// Score is the crisp inference output the priority was derived from
	Score    float64      `json:"score"`
	Priority triage.Level `json:"priority"`
	Status   Status       `json:"status"`

	// EstimatedWaitTime is in minutes and fixed at admission
	EstimatedWaitTime int       `json:"estimatedWaitTime"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// AgeOrZero returns the age, treating an unknown age as 0.
func (p PatientRecord) AgeOrZero() int {
	if p.Age == nil {
		return 0
	}
	return *p.Age
}

func (p PatientRecord) clone() PatientRecord {
	c := p
	c.Symptoms = p.Symptoms.Clone()
	if p.Age != nil {
		age := *p.Age
		c.Age = &age
	}
	return c
}

type AdmitRequest struct {
	Name     string          `json:"name"`
	Age      *int            `json:"age"`
	Symptoms triage.Symptoms `json:"symptoms"`
	// Status defaults to waiting
	Status Status `json:"status"`
}
