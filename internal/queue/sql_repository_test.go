package queue

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"er-triage/internal/platform/database"
	"er-triage/internal/triage"
)

func newSQLiteRepo(t *testing.T) Repository {
	t.Helper()
	target, err := database.ParseURL("sqlite://" + filepath.Join(t.TempDir(), "triage.db"))
	require.NoError(t, err)

	db, err := database.Open(context.Background(), target, 1, 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, target, ""))
	return NewSQLiteRepository(db)
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	age := 30
	created := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)
	in := PatientRecord{
		ID:                "PAT-1",
		Name:              "Noor",
		Age:               &age,
		Symptoms:          triage.Symptoms{{Name: "rash", Severity: 6}, {Name: triage.PainLevel, Severity: 2}},
		Score:             41.25,
		Priority:          triage.LevelLow,
		Status:            StatusWaiting,
		EstimatedWaitTime: 45,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	require.NoError(t, repo.Insert(ctx, &in))
	require.NoError(t, repo.Insert(ctx, &PatientRecord{
		ID: "PAT-2", Priority: triage.LevelCritical, Status: StatusWaiting,
		EstimatedWaitTime: 5, CreatedAt: created, UpdatedAt: created,
	}))

	got, err := repo.GetByID(ctx, "PAT-1")
	require.NoError(t, err)
	assert.Equal(t, "Noor", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 30, *got.Age)
	assert.Equal(t, in.Symptoms, got.Symptoms)
	assert.Equal(t, 41.25, got.Score)
	assert.Equal(t, triage.LevelLow, got.Priority)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PAT-1", "PAT-2"}, ids(list))
	assert.Nil(t, list[1].Age)

	later := created.Add(time.Hour)
	updated, err := repo.UpdateStatus(ctx, "PAT-2", StatusCompleted, later)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	assert.WithinDuration(t, later, updated.UpdatedAt, time.Second)

	_, err = repo.UpdateStatus(ctx, "PAT-9", StatusCompleted, later)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, "PAT-9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBackedService(t *testing.T) {
	ctx := context.Background()
	engine, err := triage.NewEngine()
	require.NoError(t, err)
	svc := NewService(newSQLiteRepo(t), engine)

	first, err := svc.Admit(ctx, critical())
	require.NoError(t, err)
	second, err := svc.Admit(ctx, critical())
	require.NoError(t, err)
	assert.Equal(t, 5, first.EstimatedWaitTime)
	assert.Equal(t, "PAT-2", second.ID)
	assert.Equal(t, 25, second.EstimatedWaitTime)
}

func TestRebind(t *testing.T) {
	pg := &sqlRepo{dialect: DialectPostgres}
	lite := &sqlRepo{dialect: DialectSQLite}
	q := `UPDATE patients SET status = ?, updated_at = ? WHERE id = ?`
	assert.Equal(t, `UPDATE patients SET status = $1, updated_at = $2 WHERE id = $3`, pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}
