// Package analytics summarizes a snapshot of the patient queue.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"er-triage/internal/queue"
	"er-triage/internal/triage"
)

const (
	topSymptomLimit   = 5
	notableSeverity   = 5.0
	criticalBandLevel = triage.LevelHigh
)

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type AgeCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

// Summary is the dashboard view of the queue.
type Summary struct {
	TotalPatients      int             `json:"totalPatients"`
	CriticalPatients   int             `json:"criticalPatients"`
	CompletedPatients  int             `json:"completedPatients"`
	InProgressPatients int             `json:"inProgressPatients"`
	WaitingPatients    int             `json:"waitingPatients"`
	AvgWaitTime        int             `json:"avgWaitTime"`
	PriorityData       []PriorityCount `json:"priorityData"`
	StatusData         []StatusCount   `json:"statusData"`
	AgeData            []AgeCount      `json:"ageData"`
	HourlyData         []HourCount     `json:"hourlyData"`
	TopSymptoms        []SymptomCount  `json:"topSymptoms"`
}

type ageBucket struct {
	label    string
	min, max int
}

// Inclusive bounds. The oldest bucket is labelled 70+ but starts at 71.
var ageBuckets = []ageBucket{
	{"0-18", 0, 18},
	{"19-35", 19, 35},
	{"36-55", 36, 55},
	{"56-70", 56, 70},
	{"70+", 71, 200},
}

// Summarize is a pure function of records; it never mutates them.
func Summarize(records []queue.PatientRecord) Summary {
	s := Summary{
		TotalPatients: len(records),
		PriorityData:  make([]PriorityCount, 0, 5),
		AgeData:       make([]AgeCount, len(ageBuckets)),
		HourlyData:    make([]HourCount, 24),
	}

	byPriority := make(map[triage.Level]int)
	totalWait := 0
	for _, r := range records {
		if r.Priority <= criticalBandLevel {
			s.CriticalPatients++
		}
		switch r.Status {
		case queue.StatusCompleted:
			s.CompletedPatients++
		case queue.StatusInProgress:
			s.InProgressPatients++
		case queue.StatusWaiting:
			s.WaitingPatients++
		}
		byPriority[r.Priority]++
		totalWait += r.EstimatedWaitTime

		age := r.AgeOrZero()
		for i, b := range ageBuckets {
			if age >= b.min && age <= b.max {
				s.AgeData[i].Count++
			}
		}
		if !r.CreatedAt.IsZero() {
			s.HourlyData[r.CreatedAt.UTC().Hour()].Count++
		}
	}

	if len(records) > 0 {
		s.AvgWaitTime = int(math.RoundToEven(float64(totalWait) / float64(len(records))))
	}

	for l := triage.LevelCritical; l <= triage.LevelRoutine; l++ {
		s.PriorityData = append(s.PriorityData, PriorityCount{
			Priority: fmt.Sprintf("Priority %d", int(l)),
			Count:    byPriority[l],
		})
	}

	s.StatusData = []StatusCount{
		{Name: "Waiting", Value: s.WaitingPatients},
		{Name: "In Progress", Value: s.InProgressPatients},
		{Name: "Completed", Value: s.CompletedPatients},
	}

	for i, b := range ageBuckets {
		s.AgeData[i].Range = b.label
	}
	for h := range s.HourlyData {
		s.HourlyData[h].Hour = fmt.Sprintf("%02d:00", h)
	}

	s.TopSymptoms = topSymptoms(records)
	return s
}

// topSymptoms counts patients per symptom reported with severity above 5.
// Equal counts keep the order in which the symptoms were first seen.
func topSymptoms(records []queue.PatientRecord) []SymptomCount {
	var counts []SymptomCount
	index := make(map[string]int)
	for _, r := range records {
		for _, sym := range r.Symptoms {
			if sym.Severity <= notableSeverity {
				continue
			}
			i, ok := index[sym.Name]
			if !ok {
				i = len(counts)
				index[sym.Name] = i
				counts = append(counts, SymptomCount{Symptom: sym.Name})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > topSymptomLimit {
		counts = counts[:topSymptomLimit]
	}
	if counts == nil {
		counts = []SymptomCount{}
	}
	return counts
}
