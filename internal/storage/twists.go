package storage

import (
	"fmt"
)

// TwistRecord is one completed twist as stored.
type TwistRecord struct {
	TwistID     int64
	SessionID   string
	Seq         int
	TsMs        int64
	Notation    string
	Quarters    int
	MoveCount   int
	IsShuffle   bool
	Fingerprint string
}

// TwistRepository provides CRUD operations for twists.
type TwistRepository struct {
	db *DB
}

// NewTwistRepository creates a new twist repository.
func NewTwistRepository(db *DB) *TwistRepository {
	return &TwistRepository{db: db}
}

// Create stores a twist and returns its ID.
func (r *TwistRepository) Create(t TwistRecord) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO twists (session_id, seq, ts_ms, notation, quarters, move_count, is_shuffle, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.SessionID, t.Seq, t.TsMs, t.Notation, t.Quarters, t.MoveCount, boolToInt(t.IsShuffle), t.Fingerprint)
	if err != nil {
		return 0, fmt.Errorf("failed to create twist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get twist ID: %w", err)
	}

	return id, nil
}

// GetBySession retrieves every twist of a session in order.
func (r *TwistRepository) GetBySession(sessionID string) ([]TwistRecord, error) {
	rows, err := r.db.Query(`
		SELECT twist_id, session_id, seq, ts_ms, notation, quarters, move_count, is_shuffle, fingerprint
		FROM twists
		WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get twists: %w", err)
	}
	defer rows.Close()

	var twists []TwistRecord
	for rows.Next() {
		var t TwistRecord
		var shuffle int
		err := rows.Scan(&t.TwistID, &t.SessionID, &t.Seq, &t.TsMs, &t.Notation,
			&t.Quarters, &t.MoveCount, &shuffle, &t.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("failed to scan twist: %w", err)
		}
		t.IsShuffle = shuffle == 1
		twists = append(twists, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read twists: %w", err)
	}

	return twists, nil
}

// NextSeq returns the sequence number the next twist of a session gets.
func (r *TwistRepository) NextSeq(sessionID string) (int, error) {
	var next int
	err := r.db.QueryRow(`SELECT COALESCE(MAX(seq) + 1, 0) FROM twists WHERE session_id = ?`, sessionID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next twist seq: %w", err)
	}
	return next, nil
}

// Count returns the number of twists for a session.
func (r *TwistRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM twists WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count twists: %w", err)
	}
	return count, nil
}
