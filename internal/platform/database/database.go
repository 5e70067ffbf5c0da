// Package database opens the SQL record stores and applies their migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"er-triage/migrations"
)

type Kind string

const (
	KindMemory   Kind = "memory"
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// Target is a parsed DATABASE_URL.
type Target struct {
	Kind Kind
	// DSN is what database/sql receives. For SQLite it is the file path plus pragmas.
	DSN string
}

// ParseURL maps a DATABASE_URL onto a store. An empty value selects the memory store.
func ParseURL(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Target{Kind: KindMemory}, nil
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return Target{Kind: KindPostgres, DSN: raw}, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return Target{}, fmt.Errorf("database: sqlite url %q has no path", raw)
		}
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		return Target{Kind: KindSQLite, DSN: dsn}, nil
	}
	return Target{}, fmt.Errorf("database: unsupported url %q", raw)
}

func driverName(k Kind) string {
	if k == KindSQLite {
		return "sqlite"
	}
	return "postgres"
}

// Open connects to the target, retrying the ping up to attempts times.
func Open(ctx context.Context, t Target, attempts int, backoff time.Duration) (*sql.DB, error) {
	if t.Kind == KindMemory {
		return nil, errors.New("database: memory store has no connection")
	}
	db, err := sql.Open(driverName(t.Kind), t.DSN)
	if err != nil {
		return nil, err
	}
	if t.Kind == KindSQLite {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}

	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return db, nil
		}
		log.Printf("Waiting for DB... (%d/%d): %v", i+1, attempts, err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	db.Close()
	return nil, fmt.Errorf("database: could not connect: %w", err)
}

// Migrate applies every pending up migration. An empty sourceURL uses the
// schema embedded in the binary.
func Migrate(db *sql.DB, t Target, sourceURL string) error {
	var (
		driver database.Driver
		err    error
	)
	switch t.Kind {
	case KindPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case KindSQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return fmt.Errorf("database: no migrations for %s", t.Kind)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	var m *migrate.Migrate
	if sourceURL != "" {
		m, err = migrate.NewWithDatabaseInstance(strings.TrimSuffix(sourceURL, "/")+"/"+string(t.Kind), string(t.Kind), driver)
	} else {
		src, srcErr := iofs.New(migrations.FS, string(t.Kind))
		if srcErr != nil {
			return fmt.Errorf("migration source: %w", srcErr)
		}
		m, err = migrate.NewWithInstance("iofs", src, string(t.Kind), driver)
	}
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}
