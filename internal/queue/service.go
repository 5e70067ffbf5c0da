package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"er-triage/internal/triage"
)

// Assessor scores symptoms. *triage.Engine implements it.
type Assessor interface {
	Assess(s triage.Symptoms) (triage.Assessment, error)
}

// Notifier is told about queue changes after they are committed. It must not
// block for long; failures are its own to log.
type Notifier interface {
	PatientAdmitted(ctx context.Context, rec PatientRecord)
	StatusChanged(ctx context.Context, rec PatientRecord, previous Status)
}

type Service interface {
	Admit(ctx context.Context, req AdmitRequest) (*PatientRecord, error)
	SetStatus(ctx context.Context, id string, status Status) (*PatientRecord, error)
	Get(ctx context.Context, id string) (*PatientRecord, error)
	ListOrdered(ctx context.Context) ([]PatientRecord, error)
	Snapshot(ctx context.Context) ([]PatientRecord, error)
}

type service struct {
	// mu serializes the read-compute-append of admissions and status writes
	mu       sync.Mutex
	repo     Repository
	assessor Assessor
	notifier Notifier
	now      func() time.Time
}

type Option func(*service)

// WithNotifier registers the receiver of queue events.
func WithNotifier(n Notifier) Option {
	return func(s *service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(repo Repository, assessor Assessor, opts ...Option) Service {
	s := &service{
		repo:     repo,
		assessor: assessor,
		notifier: nopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Admit(ctx context.Context, req AdmitRequest) (*PatientRecord, error) {
	if req.Age != nil && *req.Age < 0 {
		return nil, fmt.Errorf("%w: age %d", ErrInvalidPatient, *req.Age)
	}
	status := Status(strings.TrimSpace(string(req.Status)))
	if status == "" {
		status = StatusWaiting
	}

	a, err := s.assessor.Assess(req.Symptoms)
	if err != nil {
		return nil, err
	}

	rec, err := s.insert(ctx, req, status, a)
	if err != nil {
		return nil, err
	}
	s.notifier.PatientAdmitted(ctx, rec.clone())
	return rec, nil
}

func (s *service) insert(ctx context.Context, req AdmitRequest, status Status, a triage.Assessment) (*PatientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	now := s.now()
	rec := PatientRecord{
		ID:                fmt.Sprintf("PAT-%d", len(existing)+1),
		Name:              strings.TrimSpace(req.Name),
		Symptoms:          req.Symptoms.Clone(),
		Score:             a.Score,
		Priority:          a.Priority,
		Status:            status,
		EstimatedWaitTime: EstimateWait(a.Priority, existing),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Age != nil {
		age := *req.Age
		rec.Age = &age
	}
	if rec.Symptoms == nil {
		rec.Symptoms = triage.Symptoms{}
	}

	if err := s.repo.Insert(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetStatus overwrites the status of a record. The estimated wait is kept as
// computed at admission.
func (s *service) SetStatus(ctx context.Context, id string, status Status) (*PatientRecord, error) {
	status = Status(strings.TrimSpace(string(status)))
	if status == "" {
		return nil, fmt.Errorf("%w: empty status", ErrInvalidPatient)
	}

	s.mu.Lock()
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rec, err := s.repo.UpdateStatus(ctx, id, status, s.now())
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if prev.Status != rec.Status {
		s.notifier.StatusChanged(ctx, rec.clone(), prev.Status)
	}
	return rec, nil
}

func (s *service) Get(ctx context.Context, id string) (*PatientRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrdered returns every record in display order.
func (s *service) ListOrdered(ctx context.Context) ([]PatientRecord, error) {
	recs, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	SortForDisplay(recs)
	return recs, nil
}

// Snapshot returns a copy of every record in admission order.
func (s *service) Snapshot(ctx context.Context) ([]PatientRecord, error) {
	s.mu.Lock()
	recs, err := s.repo.List(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	if recs == nil {
		recs = []PatientRecord{}
	}
	return recs, nil
}

type nopNotifier struct{}

func (nopNotifier) PatientAdmitted(context.Context, PatientRecord)        {}
func (nopNotifier) StatusChanged(context.Context, PatientRecord, Status) {}
