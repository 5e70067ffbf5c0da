package queue

import (
	"sort"

	"er-triage/internal/triage"
)

const (
	minutesPerPatientAhead = 20
	fallbackBaseWait       = 30
	unknownStatusRank      = 4
)

var baseWaitMinutes = map[triage.Level]int{
	triage.LevelCritical: 5,
	triage.LevelHigh:     15,
	triage.LevelMedium:   30,
	triage.LevelLow:      45,
	triage.LevelRoutine:  60,
}

var statusRank = map[Status]int{
	StatusWaiting:    1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

func rankOf(s Status) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return unknownStatusRank
}

// Active reports whether a patient still occupies a place in the queue.
func (s Status) Active() bool {
	return s == StatusWaiting || s == StatusInProgress
}

// PatientsAhead counts active records whose priority is at least as urgent as p.
func PatientsAhead(p triage.Level, records []PatientRecord) int {
	n := 0
	for _, r := range records {
		if r.Priority <= p && r.Status.Active() {
			n++
		}
	}
	return n
}

// EstimateWait is the base wait of the level plus a fixed treatment time for
// every patient ahead.
func EstimateWait(p triage.Level, records []PatientRecord) int {
	base, ok := baseWaitMinutes[p]
	if !ok {
		base = fallbackBaseWait
	}
	return base + PatientsAhead(p, records)*minutesPerPatientAhead
}

// SortForDisplay orders records by status rank, then priority. Ties keep
// admission order.
func SortForDisplay(records []PatientRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := rankOf(records[i].Status), rankOf(records[j].Status)
		if ri != rj {
			return ri < rj
		}
		return records[i].Priority < records[j].Priority
	})
}
