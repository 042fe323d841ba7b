package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Snapshot labels written by the recorder.
const (
	SnapshotShuffled = "shuffled"
	SnapshotEnd      = "end"
)

// Snapshot is the full sticker state of the cube at a point in a session.
type Snapshot struct {
	SnapshotID  int64
	SessionID   string
	TsMs        int64
	Label       string
	Facelets    string
	Fingerprint string
}

// SnapshotRepository provides CRUD operations for snapshots.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create stores a snapshot and returns its ID.
func (r *SnapshotRepository) Create(s Snapshot) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO snapshots (session_id, ts_ms, label, facelets, fingerprint)
		VALUES (?, ?, ?, ?, ?)
	`, s.SessionID, s.TsMs, s.Label, s.Facelets, s.Fingerprint)
	if err != nil {
		return 0, fmt.Errorf("failed to create snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot ID: %w", err)
	}

	return id, nil
}

// GetBySession retrieves all snapshots for a session.
func (r *SnapshotRepository) GetBySession(sessionID string) ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT snapshot_id, session_id, ts_ms, label, facelets, fingerprint
		FROM snapshots
		WHERE session_id = ?
		ORDER BY ts_ms, snapshot_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.SnapshotID, &s.SessionID, &s.TsMs, &s.Label, &s.Facelets, &s.Fingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// GetLast retrieves the most recent snapshot with the given label.
func (r *SnapshotRepository) GetLast(sessionID, label string) (*Snapshot, error) {
	var s Snapshot
	err := r.db.QueryRow(`
		SELECT snapshot_id, session_id, ts_ms, label, facelets, fingerprint
		FROM snapshots
		WHERE session_id = ? AND label = ?
		ORDER BY ts_ms DESC, snapshot_id DESC
		LIMIT 1
	`, sessionID, label).Scan(&s.SnapshotID, &s.SessionID, &s.TsMs, &s.Label, &s.Facelets, &s.Fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s/%s: %w", sessionID, label, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &s, nil
}
