package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("store: session not found")

// pragma is one connection setting and the value SQLite reports back once
// it is applied.
type pragma struct {
	name   string
	value  string
	report string
}

// tracePragmas tune the log for one writer (the engine goroutine) and any
// number of readers (trace, replay). Events reference their session row.
var tracePragmas = []pragma{
	{name: "journal_mode", value: "WAL", report: "wal"},
	{name: "synchronous", value: "NORMAL", report: "1"},
	{name: "busy_timeout", value: "5000", report: "5000"},
	{name: "foreign_keys", value: "ON", report: "1"},
}

// migration upgrades a trace database to version. Migrations run in order
// on databases whose user_version is below their version.
type migration struct {
	version int
	name    string
	stmt    string
}

var migrations = []migration{
	{
		version: 1,
		name:    "events by kind",
		// ListSessions counts commands and ticks per session.
		stmt: `CREATE INDEX IF NOT EXISTS idx_events_session_kind ON events(session_id, kind)`,
	},
}

// schemaVersion is the user_version of a fully migrated trace database.
var schemaVersion = migrations[len(migrations)-1].version

// Store is the durable trace log. It satisfies engine.Recorder.
type Store struct {
	db *sql.DB
}

// Open creates or opens the trace database at path, applying the
// pragmas, the base schema and any pending migrations. Opening an existing
// trace log leaves its sessions untouched.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to trace database %s: %w", path, err)
	}

	// One connection: events from a session are written in seq order.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create trace schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	for _, p := range tracePragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if _, err := db.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate trace schema to v%d (%s): %w", m.version, m.name, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("set trace schema version %d: %w", m.version, err)
		}
	}
	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read trace schema version: %w", err)
	}
	return version, nil
}

// checkPragmas reports the first setting that did not take effect.
func (s *Store) checkPragmas() error {
	for _, p := range tracePragmas {
		var got string
		if err := s.db.QueryRow("PRAGMA " + p.name).Scan(&got); err != nil {
			return fmt.Errorf("read pragma %s: %w", p.name, err)
		}
		if got != p.report {
			return fmt.Errorf("pragma %s = %q, want %q", p.name, got, p.report)
		}
	}
	return nil
}
