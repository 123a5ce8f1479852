// Package storage provides SQLite-based history of saved level files.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/pophale/internal/config"
)

// ErrNotFound is returned when a revision does not exist.
var ErrNotFound = errors.New("storage: revision not found")

// Store manages the SQLite database connection for level history.
type Store struct {
	db *sql.DB
}

// Revision is one saved copy of a level file.
type Revision struct {
	ID        int64
	Container string // base name of the container the level belongs to
	Level     int
	Size      int
	Checksum  string // hex SHA-256 of Data
	Data      []byte // nil when listed without content
	Note      string
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	dbPath, err := config.ExpandPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS revisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			container TEXT NOT NULL,
			level INTEGER NOT NULL,
			size INTEGER NOT NULL,
			checksum TEXT NOT NULL,
			data BLOB NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_revisions_level ON revisions(container, level, id DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Checksum returns the hex SHA-256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RecordRevision stores a copy of a level file. When the latest revision of
// the same level already has identical content nothing is inserted and its
// ID is returned.
func (s *Store) RecordRevision(container string, level int, data []byte, note string) (int64, error) {
	sum := Checksum(data)

	var lastID int64
	var lastSum string
	err := s.db.QueryRow(
		`SELECT id, checksum FROM revisions
		 WHERE container = ? AND level = ?
		 ORDER BY id DESC LIMIT 1`,
		container, level,
	).Scan(&lastID, &lastSum)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("storage: cannot query latest revision: %w", err)
	}
	if err == nil && lastSum == sum {
		return lastID, nil
	}

	result, err := s.db.Exec(
		"INSERT INTO revisions (container, level, size, checksum, data, note) VALUES (?, ?, ?, ?, ?, ?)",
		container, level, len(data), sum, data, note,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save revision: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Revisions lists the newest revisions of a level, without their data.
func (s *Store) Revisions(container string, level, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, container, level, size, checksum, note, created_at
		 FROM revisions
		 WHERE container = ? AND level = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		container, level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Container, &r.Level, &r.Size, &r.Checksum, &r.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		revs = append(revs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return revs, nil
}

// Revision retrieves one revision with its data.
func (s *Store) Revision(id int64) (*Revision, error) {
	var r Revision
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, container, level, size, checksum, data, note, created_at
		 FROM revisions
		 WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Container, &r.Level, &r.Size, &r.Checksum, &r.Data, &r.Note, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query revision: %w", err)
	}

	if Checksum(r.Data) != r.Checksum {
		return nil, fmt.Errorf("storage: revision %d is corrupt (checksum mismatch)", id)
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// ClearRevisions deletes the history of one level.
func (s *Store) ClearRevisions(container string, level int) error {
	_, err := s.db.Exec("DELETE FROM revisions WHERE container = ? AND level = ?", container, level)
	if err != nil {
		return fmt.Errorf("storage: cannot clear revisions: %w", err)
	}
	return nil
}

// LevelStats summarizes the history of one level.
type LevelStats struct {
	Level     int
	Revisions int
	LastSaved time.Time
}

// Stats returns per-level history counts for a container.
func (s *Store) Stats(container string) ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level, COUNT(*), MAX(created_at)
		 FROM revisions
		 WHERE container = ?
		 GROUP BY level
		 ORDER BY level`,
		container,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var st LevelStats
		var lastSaved any
		if err := rows.Scan(&st.Level, &st.Revisions, &lastSaved); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastSaved = parseTime(lastSaved)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles the datetime as either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
