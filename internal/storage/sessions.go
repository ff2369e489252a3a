package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Session represents a journaled play session in the database.
type Session struct {
	SessionID      string
	StartedAt      time.Time
	EndedAt        *time.Time
	Seed           uint64
	AnimationSteps int
	Notes          *string
	AppVersion     *string
	TurnCount      int
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session and returns its ID.
func (r *SessionRepository) Create(seed uint64, animationSteps int, notes, appVersion string) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	var notesPtr, appVersionPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	if appVersion != "" {
		appVersionPtr = &appVersion
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, seed, animation_steps, notes, app_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, startedAt.Format(timeLayout), strconv.FormatUint(seed, 10), animationSteps, notesPtr, appVersionPtr)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// End marks a session as ended.
func (r *SessionRepository) End(sessionID string) error {
	res, err := r.db.Exec(`
		UPDATE sessions SET ended_at = ? WHERE session_id = ? AND ended_at IS NULL
	`, time.Now().UTC().Format(timeLayout), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s not found or already ended", sessionID)
	}
	return nil
}

const sessionColumns = `
	s.session_id, s.started_at, s.ended_at, s.seed, s.animation_steps, s.notes, s.app_version,
	(SELECT COUNT(*) FROM turns t WHERE t.session_id = s.session_id)
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var startedAt, seed string
	var endedAt *string
	err := row.Scan(&s.SessionID, &startedAt, &endedAt, &seed, &s.AnimationSteps, &s.Notes, &s.AppVersion, &s.TurnCount)
	if err != nil {
		return nil, err
	}

	s.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if endedAt != nil {
		t, err := time.Parse(timeLayout, *endedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ended_at: %w", err)
		}
		s.EndedAt = &t
	}
	s.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &s, nil
}

// Get retrieves a session by ID. It returns nil if none exists.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	row := r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions s WHERE s.session_id = ?`, sessionID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetLast retrieves the most recently started session, or nil.
func (r *SessionRepository) GetLast() (*Session, error) {
	sessions, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// List returns up to limit sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	rows, err := r.db.Query(`
		SELECT `+sessionColumns+`
		FROM sessions s
		ORDER BY s.started_at DESC, s.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes a session and its turns.
func (r *SessionRepository) Delete(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
