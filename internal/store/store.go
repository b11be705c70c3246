// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists batch sessions in SQLite so the parse, resolve,
// and export steps can run as separate CLI invocations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubdoi/internal/batch"
	"github.com/pdiddy/pubdoi/pkg/types"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "pubdoi.db"

// ErrSessionNotFound is returned by Load and Delete for unknown names.
var ErrSessionNotFound = errors.New("session not found")

// Store manages the session SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the session database at cfg.Path, creating the
// parent directory and schema if needed.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			name TEXT PRIMARY KEY,
			resolved INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			session TEXT NOT NULL REFERENCES sessions(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			year TEXT,
			authors TEXT,
			title TEXT NOT NULL,
			venue TEXT,
			doi TEXT,
			doi_url TEXT,
			status TEXT,
			similarity REAL,
			PRIMARY KEY (session, position)
		)`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			session TEXT NOT NULL REFERENCES sessions(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			idx INTEGER,
			snippet TEXT,
			message TEXT,
			PRIMARY KEY (session, position)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save writes the session, replacing any stored session of the same
// name. Records keep their order.
func (s *Store) Save(ctx context.Context, sess *batch.Session) error {
	if sess.Name == "" {
		return fmt.Errorf("session name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	updated := sess.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (name, resolved, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET resolved=excluded.resolved, updated_at=excluded.updated_at`,
		sess.Name, sess.Resolved, created.Format(time.RFC3339Nano), updated.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	for _, table := range []string{"records", "diagnostics"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE session = ?`, sess.Name); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (session, position, year, authors, title, venue, doi, doi_url, status, similarity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	for i, r := range sess.Records {
		_, err := recStmt.ExecContext(ctx, sess.Name, i,
			r.Year, r.Authors, r.Title, r.Venue, r.DOI, r.DOIURL, string(r.Status), r.Similarity)
		if err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	diagStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (session, position, kind, idx, snippet, message) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing diagnostic insert: %w", err)
	}
	defer diagStmt.Close()

	for i, d := range sess.Diagnostics {
		if _, err := diagStmt.ExecContext(ctx, sess.Name, i, string(d.Kind), d.Index, d.Snippet, d.Message); err != nil {
			return fmt.Errorf("inserting diagnostic %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Load reads the named session. It returns ErrSessionNotFound when no
// session has that name.
func (s *Store) Load(ctx context.Context, name string) (*batch.Session, error) {
	sess := &batch.Session{Name: name}
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT resolved, created_at, updated_at FROM sessions WHERE name = ?`, name,
	).Scan(&sess.Resolved, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", name, err)
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	sess.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)

	rows, err := s.db.QueryContext(ctx,
		`SELECT year, authors, title, venue, doi, doi_url, status, similarity
		 FROM records WHERE session = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r types.Publication
		var status string
		if err := rows.Scan(&r.Year, &r.Authors, &r.Title, &r.Venue, &r.DOI, &r.DOIURL, &status, &r.Similarity); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Status = types.LookupStatus(status)
		sess.Records = append(sess.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	drows, err := s.db.QueryContext(ctx,
		`SELECT kind, idx, snippet, message FROM diagnostics WHERE session = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer drows.Close()

	for drows.Next() {
		var d types.Diagnostic
		var kind string
		if err := drows.Scan(&kind, &d.Index, &d.Snippet, &d.Message); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Kind = types.DiagnosticKind(kind)
		sess.Diagnostics = append(sess.Diagnostics, d)
	}
	return sess, drows.Err()
}

// SessionInfo summarizes a stored session for listing.
type SessionInfo struct {
	Name      string    `json:"name"`
	Records   int       `json:"records"`
	WithDOI   int       `json:"with_doi"`
	Resolved  bool      `json:"resolved"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List returns all stored sessions, most recently updated first.
func (s *Store) List(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.name, s.resolved, s.updated_at,
			COUNT(r.position),
			COALESCE(SUM(CASE WHEN r.doi LIKE '10.%' THEN 1 ELSE 0 END), 0)
		 FROM sessions s LEFT JOIN records r ON r.session = s.name
		 GROUP BY s.name
		 ORDER BY s.updated_at DESC, s.name`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var updated string
		if err := rows.Scan(&info.Name, &info.Resolved, &updated, &info.Records, &info.WithDOI); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the named session with its records and diagnostics.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	return nil
}
