package queue

import (
	"context"
	"sync"
	"time"
)

// Repository stores patient records in admission order.
type Repository interface {
	Insert(ctx context.Context, rec *PatientRecord) error
	GetByID(ctx context.Context, id string) (*PatientRecord, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) (*PatientRecord, error)
	List(ctx context.Context) ([]PatientRecord, error)
}

type memoryRepo struct {
	mu      sync.RWMutex
	records []PatientRecord
	byID    map[string]int
}

// NewMemoryRepository returns a process-local store. Records are lost on restart.
func NewMemoryRepository() Repository {
	return &memoryRepo{byID: make(map[string]int)}
}

func (r *memoryRepo) Insert(_ context.Context, rec *PatientRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.ID]; ok {
		return ErrDuplicateID
	}
	r.byID[rec.ID] = len(r.records)
	r.records = append(r.records, rec.clone())
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*PatientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec := r.records[i].clone()
	return &rec, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id string, status Status, at time.Time) (*PatientRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.records[i].Status = status
	r.records[i].UpdatedAt = at
	rec := r.records[i].clone()
	return &rec, nil
}

func (r *memoryRepo) List(_ context.Context) ([]PatientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PatientRecord, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.clone()
	}
	return out, nil
}
