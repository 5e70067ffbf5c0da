package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"er-triage/internal/triage"
)

// Dialect selects the placeholder style of a SQL store.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

type sqlRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewPostgresRepository stores records in the patients table through lib/pq.
func NewPostgresRepository(db *sql.DB) Repository {
	return &sqlRepo{db: db, dialect: DialectPostgres}
}

// NewSQLiteRepository stores records in the patients table through modernc.org/sqlite.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqlRepo{db: db, dialect: DialectSQLite}
}

const patientColumns = `id, name, age, symptoms, score, priority, status, estimated_wait_time, created_at, updated_at`

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (r *sqlRepo) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *sqlRepo) Insert(ctx context.Context, rec *PatientRecord) error {
	symptomsJSON, err := json.Marshal(rec.Symptoms)
	if err != nil {
		return fmt.Errorf("failed to marshal symptoms: %w", err)
	}

	var age sql.NullInt64
	if rec.Age != nil {
		age = sql.NullInt64{Int64: int64(*rec.Age), Valid: true}
	}

	query := r.rebind(`
		INSERT INTO patients (` + patientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, age, string(symptomsJSON), rec.Score, int(rec.Priority),
		string(rec.Status), rec.EstimatedWaitTime, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert patient %s: %w", rec.ID, err)
	}
	return nil
}

func (r *sqlRepo) GetByID(ctx context.Context, id string) (*PatientRecord, error) {
	query := r.rebind(`SELECT ` + patientColumns + ` FROM patients WHERE id = ?`)
	rec, err := scanPatient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *sqlRepo) UpdateStatus(ctx context.Context, id string, status Status, at time.Time) (*PatientRecord, error) {
	query := r.rebind(`UPDATE patients SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, string(status), at.UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update patient %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *sqlRepo) List(ctx context.Context) ([]PatientRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var out []PatientRecord
	for rows.Next() {
		rec, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*PatientRecord, error) {
	var (
		rec          PatientRecord
		age          sql.NullInt64
		symptomsJSON string
		priority     int
		status       string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&age,
		&symptomsJSON,
		&rec.Score,
		&priority,
		&status,
		&rec.EstimatedWaitTime,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		a := int(age.Int64)
		rec.Age = &a
	}
	if symptomsJSON != "" {
		if err := json.Unmarshal([]byte(symptomsJSON), &rec.Symptoms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal symptoms of %s: %w", rec.ID, err)
		}
	}
	rec.Priority = triage.Level(priority)
	rec.Status = Status(status)
	return &rec, nil
}
