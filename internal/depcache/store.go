package depcache

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is the durable stage-build record for one workspace.
// Uses SQLite with WAL mode; a workspace is owned by exactly one pipeline
// at a time, so a single writer connection suffices.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at the given path and applies
// pragmas and schema. Idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect cache: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY on the linear stage chain.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Build is one recorded stage build.
type Build struct {
	Entry       string
	Stage       int
	Fingerprint string
	OutputHash  string
	RunID       string
	BuiltAt     time.Time
}

// UpToDate reports whether the recorded fingerprint for (entry, stage)
// matches fp. A missing row is simply not up to date.
func (s *Store) UpToDate(ctx context.Context, entry string, stage int, fp string) (bool, error) {
	var recorded string
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM stage_builds WHERE entry = ? AND stage = ?`,
		entry, stage).Scan(&recorded)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query stage build: %w", err)
	}
	return recorded == fp, nil
}

// Record upserts the build row for (entry, stage). One row per stage: a
// rebuild replaces the previous record.
func (s *Store) Record(ctx context.Context, b Build) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stage_builds (entry, stage, fingerprint, output_hash, run_id, built_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(entry, stage) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			output_hash = excluded.output_hash,
			run_id      = excluded.run_id,
			built_at    = excluded.built_at
	`, b.Entry, b.Stage, b.Fingerprint, b.OutputHash, b.RunID, b.BuiltAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record stage build: %w", err)
	}
	return nil
}

// Builds returns every recorded build for an entry point, ordered by stage.
func (s *Store) Builds(ctx context.Context, entry string) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry, stage, fingerprint, output_hash, run_id, built_at
		FROM stage_builds WHERE entry = ? ORDER BY stage ASC
	`, entry)
	if err != nil {
		return nil, fmt.Errorf("query stage builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var builtAt string
		if err := rows.Scan(&b.Entry, &b.Stage, &b.Fingerprint, &b.OutputHash, &b.RunID, &builtAt); err != nil {
			return nil, fmt.Errorf("scan stage build: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, builtAt); parseErr == nil {
			b.BuiltAt = t
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// DropEntry removes every build record for an entry point, for retiring
// one proof from a workspace without discarding the others' records.
func (s *Store) DropEntry(ctx context.Context, entry string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM stage_builds WHERE entry = ?`, entry); err != nil {
		return fmt.Errorf("drop entry builds: %w", err)
	}
	return nil
}
