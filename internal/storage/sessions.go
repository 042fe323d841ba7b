package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Session is one recorded run of the simulator, from start to End.
type Session struct {
	SessionID  string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs *int64
	Scramble   *string
	Notes      *string
	MoveCount  int
	Solved     bool
	AppVersion *string
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create creates a new session and returns its ID.
func (r *SessionRepository) Create(notes, scramble, appVersion string) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, notes, scramble_text, app_version)
		VALUES (?, ?, ?, ?, ?)
	`, id, startedAt.Format(timeLayout), optional(notes), optional(scramble), optional(appVersion))
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// SetScramble records the shuffle sequence once it is known.
func (r *SessionRepository) SetScramble(sessionID, scramble string) error {
	_, err := r.db.Exec(`UPDATE sessions SET scramble_text = ? WHERE session_id = ?`,
		optional(scramble), sessionID)
	if err != nil {
		return fmt.Errorf("failed to set scramble: %w", err)
	}
	return nil
}

// End marks a session as complete.
func (r *SessionRepository) End(sessionID string, moveCount int, solved bool) error {
	s, err := r.Get(sessionID)
	if err != nil {
		return err
	}

	endedAt := time.Now().UTC()
	durationMs := endedAt.Sub(s.StartedAt).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, duration_ms = ?, move_count = ?, solved = ?
		WHERE session_id = ?
	`, endedAt.Format(timeLayout), durationMs, moveCount, boolToInt(solved), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

const sessionColumns = `session_id, started_at, ended_at, duration_ms, scramble_text, notes, move_count, solved, app_version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var startedAt string
	var endedAt sql.NullString
	var solved int

	err := row.Scan(&s.SessionID, &startedAt, &endedAt, &s.DurationMs, &s.Scramble,
		&s.Notes, &s.MoveCount, &solved, &s.AppVersion)
	if err != nil {
		return nil, err
	}

	s.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time: %w", err)
	}
	if endedAt.Valid {
		t, err := time.Parse(timeLayout, endedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end time: %w", err)
		}
		s.EndedAt = &t
	}
	s.Solved = solved == 1
	return &s, nil
}

// Get retrieves a session by ID. A missing session returns ErrNotFound.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	row := r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`, sessionID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// FindByPrefix resolves an abbreviated session ID. It fails unless exactly
// one session matches.
func (r *SessionRepository) FindByPrefix(prefix string) (*Session, error) {
	rows, err := r.db.Query(`SELECT `+sessionColumns+` FROM sessions WHERE session_id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	defer rows.Close()

	var found []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("session %s: %w", prefix, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("session prefix %s is ambiguous", prefix)
	}
}

// List returns the most recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
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
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a session and everything recorded under it.
func (r *SessionRepository) Delete(sessionID string) error {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}
