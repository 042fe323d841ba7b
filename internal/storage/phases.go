package storage

import (
	"fmt"
)

// PhaseDef represents a phase definition.
type PhaseDef struct {
	PhaseKey    string
	DisplayName string
	OrderIndex  int
}

// PhaseMark records the moment a session first reached a phase.
type PhaseMark struct {
	PhaseMarkID int64
	SessionID   string
	TsMs        int64
	PhaseKey    string
	MoveCount   int
}

// PhaseSplit is the time and move count spent reaching a phase from the
// previous mark.
type PhaseSplit struct {
	PhaseKey   string
	DurationMs int64
	Moves      int
}

// PhaseRepository provides CRUD operations for phases.
type PhaseRepository struct {
	db *DB
}

// NewPhaseRepository creates a new phase repository.
func NewPhaseRepository(db *DB) *PhaseRepository {
	return &PhaseRepository{db: db}
}

// GetAllPhaseDefs retrieves all phase definitions in order.
func (r *PhaseRepository) GetAllPhaseDefs() ([]PhaseDef, error) {
	rows, err := r.db.Query(`
		SELECT phase_key, display_name, order_index
		FROM phase_defs
		ORDER BY order_index
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get phase defs: %w", err)
	}
	defer rows.Close()

	var defs []PhaseDef
	for rows.Next() {
		var d PhaseDef
		if err := rows.Scan(&d.PhaseKey, &d.DisplayName, &d.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan phase def: %w", err)
		}
		defs = append(defs, d)
	}

	return defs, rows.Err()
}

// CreatePhaseMark creates a new phase mark.
func (r *PhaseRepository) CreatePhaseMark(sessionID string, tsMs int64, phaseKey string, moveCount int) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO phase_marks (session_id, ts_ms, phase_key, move_count)
		VALUES (?, ?, ?, ?)
	`, sessionID, tsMs, phaseKey, moveCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create phase mark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get phase mark ID: %w", err)
	}

	return id, nil
}

// GetPhaseMarks retrieves all phase marks for a session.
func (r *PhaseRepository) GetPhaseMarks(sessionID string) ([]PhaseMark, error) {
	rows, err := r.db.Query(`
		SELECT phase_mark_id, session_id, ts_ms, phase_key, move_count
		FROM phase_marks
		WHERE session_id = ?
		ORDER BY ts_ms, phase_mark_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phase marks: %w", err)
	}
	defer rows.Close()

	var marks []PhaseMark
	for rows.Next() {
		var m PhaseMark
		if err := rows.Scan(&m.PhaseMarkID, &m.SessionID, &m.TsMs, &m.PhaseKey, &m.MoveCount); err != nil {
			return nil, fmt.Errorf("failed to scan phase mark: %w", err)
		}
		marks = append(marks, m)
	}

	return marks, rows.Err()
}

// Splits derives per-phase splits from the marks of a session. The first
// split is measured from the start of the session.
func (r *PhaseRepository) Splits(sessionID string) ([]PhaseSplit, error) {
	marks, err := r.GetPhaseMarks(sessionID)
	if err != nil {
		return nil, err
	}

	splits := make([]PhaseSplit, 0, len(marks))
	var lastTs int64
	var lastMoves int
	for _, m := range marks {
		splits = append(splits, PhaseSplit{
			PhaseKey:   m.PhaseKey,
			DurationMs: m.TsMs - lastTs,
			Moves:      m.MoveCount - lastMoves,
		})
		lastTs, lastMoves = m.TsMs, m.MoveCount
	}
	return splits, nil
}
