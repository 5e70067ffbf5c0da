package report

import (
	"context"
	"fmt"
	"strings"

	"er-triage/internal/events"
	"er-triage/internal/triage"
)

// CriticalAlerter messages the doctor chat whenever a patient is admitted at
// or above MinLevel. It is an events.Publisher.
type CriticalAlerter struct {
	tgClient     TelegramClient
	doctorChatID int64
	MinLevel     triage.Level
}

var _ events.Publisher = (*CriticalAlerter)(nil)

func NewCriticalAlerter(tg TelegramClient, doctorChatID int64) *CriticalAlerter {
	return &CriticalAlerter{
		tgClient:     tg,
		doctorChatID: doctorChatID,
		MinLevel:     triage.LevelCritical,
	}
}

func (a *CriticalAlerter) Publish(ctx context.Context, ev events.Event) error {
	if ev.Type != events.TypePatientAdmitted || ev.Patient.Priority > a.MinLevel {
		return nil
	}
	return a.tgClient.SendMessage(ctx, a.doctorChatID, alertText(ev))
}

func alertText(ev events.Event) string {
	p := ev.Patient
	var b strings.Builder
	fmt.Fprintf(&b, "Priority %d (%s) patient admitted: %s", int(p.Priority), p.Priority, p.ID)
	if p.Name != "" {
		fmt.Fprintf(&b, ", %s", p.Name)
	}
	if p.Age != nil {
		fmt.Fprintf(&b, ", age %d", *p.Age)
	}
	fmt.Fprintf(&b, "\nScore: %.1f, estimated wait: %d min", p.Score, p.EstimatedWaitTime)
	for _, s := range p.Symptoms {
		fmt.Fprintf(&b, "\n- %s: %g", s.Name, s.Severity)
	}
	return b.String()
}
