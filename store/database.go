// Package store database for per-session gallery state
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDSN keeps every session in memory so nothing outlives the process.
const MemoryDSN = ":memory:"

const defaultViewMode = "grid"

var ErrSessionNotFound = errors.New("session not found")

type Database struct {
	db *sql.DB
}

func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}

	// Create table if it doesn't exist
	if err := database.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return database, nil
}

func (d *Database) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id   TEXT NOT NULL,
		position     INTEGER NOT NULL,
		view_mode    TEXT NOT NULL,
		shuffle      INTEGER NOT NULL,
		shuffle_seed INTEGER NOT NULL,
		last_seen    INTEGER NOT NULL,
		PRIMARY KEY (session_id)
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen);
	`
	_, err := d.db.Exec(query)
	return err
}

// TouchSession records activity for id, creating the session with defaults
// when it does not exist yet.
func (d *Database) TouchSession(id string, now time.Time) error {
	const stmt = `
		INSERT INTO sessions (session_id, position, view_mode, shuffle, shuffle_seed, last_seen)
		VALUES (?, 1, ?, 0, 0, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			last_seen = excluded.last_seen
	`
	if _, err := d.db.Exec(stmt, id, defaultViewMode, now.Unix()); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (d *Database) GetSession(id string) (*Session, error) {
	const query = `
		SELECT session_id,
		       position,
		       view_mode,
		       shuffle,
		       shuffle_seed,
		       last_seen
		FROM sessions
		WHERE session_id = ?
	`

	var s Session
	var shuffleInt int
	var lastSeen int64

	err := d.db.QueryRow(query, id).Scan(&s.ID, &s.Position, &s.ViewMode, &shuffleInt, &s.ShuffleSeed, &lastSeen)
	if err == sql.ErrNoRows {
		// Bootstrap defaults if no session row exists yet
		defaults := &Session{
			ID:       id,
			Position: 1,
			ViewMode: defaultViewMode,
			LastSeen: time.Now(),
		}
		if err := d.UpsertSession(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	s.Shuffle = shuffleInt != 0
	s.LastSeen = time.Unix(lastSeen, 0)
	return &s, nil
}

func (d *Database) UpsertSession(s *Session) error {
	const stmt = `
		INSERT INTO sessions (
			session_id,
			position,
			view_mode,
			shuffle,
			shuffle_seed,
			last_seen
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			position     = excluded.position,
			view_mode    = excluded.view_mode,
			shuffle      = excluded.shuffle,
			shuffle_seed = excluded.shuffle_seed,
			last_seen    = excluded.last_seen
	`

	lastSeen := s.LastSeen
	if lastSeen.IsZero() {
		lastSeen = time.Now()
	}

	_, err := d.db.Exec(
		stmt,
		s.ID,
		s.Position,
		s.ViewMode,
		boolToInt(s.Shuffle),
		s.ShuffleSeed,
		lastSeen.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (d *Database) UpdatePosition(id string, position int) error {
	query := `UPDATE sessions SET position = ? WHERE session_id = ?`
	result, err := d.db.Exec(query, position, id)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return nil
}

func (d *Database) DeleteSession(id string) error {
	query := `DELETE FROM sessions WHERE session_id = ?`
	result, err := d.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return nil
}

// PruneSessions drops sessions last seen before cutoff and returns how many
// were removed.
func (d *Database) PruneSessions(cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE last_seen < ?`
	result, err := d.db.Exec(query, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return result.RowsAffected()
}

func (d *Database) SessionCount() (int, error) {
	query := `SELECT COUNT(*) FROM sessions`
	var count int
	err := d.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get session count: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (d *Database) Close() error {
	return d.db.Close()
}
