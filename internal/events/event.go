// Package events carries queue changes to live subscribers and message brokers.
package events

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"er-triage/internal/queue"
)

type Type string

const (
	TypePatientAdmitted Type = "patient.admitted"
	TypeStatusChanged   Type = "patient.status_changed"
)

type Event struct {
	ID             string              `json:"id"`
	Type           Type                `json:"type"`
	Patient        queue.PatientRecord `json:"patient"`
	PreviousStatus queue.Status        `json:"previousStatus,omitempty"`
	OccurredAt     time.Time           `json:"occurredAt"`
}

// Publisher delivers an event to one destination.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

const defaultPublishTimeout = 5 * time.Second

// Dispatcher turns queue notifications into events and hands each one to
// every registered publisher concurrently. A failing publisher is logged and
// never affects the others or the queue operation.
type Dispatcher struct {
	publishers []Publisher
	timeout    time.Duration
	now        func() time.Time
}

var _ queue.Notifier = (*Dispatcher)(nil)

func NewDispatcher(pubs ...Publisher) *Dispatcher {
	return &Dispatcher{
		publishers: pubs,
		timeout:    defaultPublishTimeout,
		now:        time.Now,
	}
}

// Add registers a publisher. It must be called before the dispatcher is in use.
func (d *Dispatcher) Add(p Publisher) {
	d.publishers = append(d.publishers, p)
}

func (d *Dispatcher) PatientAdmitted(ctx context.Context, rec queue.PatientRecord) {
	d.Dispatch(ctx, d.newEvent(TypePatientAdmitted, rec, ""))
}

func (d *Dispatcher) StatusChanged(ctx context.Context, rec queue.PatientRecord, previous queue.Status) {
	d.Dispatch(ctx, d.newEvent(TypeStatusChanged, rec, previous))
}

func (d *Dispatcher) newEvent(t Type, rec queue.PatientRecord, previous queue.Status) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           t,
		Patient:        rec,
		PreviousStatus: previous,
		OccurredAt:     d.now().UTC(),
	}
}

// Dispatch publishes ev everywhere and waits for every publisher to return.
// Publishing outlives the caller's cancellation but not the dispatch timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if len(d.publishers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	var g errgroup.Group
	for _, p := range d.publishers {
		p := p
		g.Go(func() error {
			if err := p.Publish(ctx, ev); err != nil {
				log.Printf("events: publishing %s for %s via %T failed: %v", ev.Type, ev.Patient.ID, p, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
