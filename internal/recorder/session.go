package recorder

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Errors returned by Session.
var (
	ErrRecording    = errors.New("recorder: session already in progress")
	ErrNotRecording = errors.New("recorder: no session in progress")
)

// Session records a cube's completed twists, shuffles and solve phases into
// the database.
//
// Cube callbacks arrive on whichever goroutine drives the cube. Start, End
// and Resume read the cube too and belong on that same goroutine; the
// accessors may be called from anywhere.
type Session struct {
	db        *storage.DB
	cube      *gocube.Cube
	tracker   *gocube.Tracker
	stateFile *StateFile
	logger    *zap.Logger

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	seq       int
	scramble  []string
	err       error

	// Repositories
	sessionRepo  *storage.SessionRepository
	twistRepo    *storage.TwistRepository
	phaseRepo    *storage.PhaseRepository
	snapshotRepo *storage.SnapshotRepository

	// Callbacks
	onTwist func(storage.TwistRecord)
	onPhase func(gocube.Phase)
}

// NewSession attaches a recorder to cube. Nothing is written until Start.
// stateFile may be nil.
func NewSession(db *storage.DB, cube *gocube.Cube, stateFile *StateFile) *Session {
	s := &Session{
		db:           db,
		cube:         cube,
		stateFile:    stateFile,
		logger:       cube.Logger().Named("recorder"),
		state:        StateIdle,
		sessionRepo:  storage.NewSessionRepository(db),
		twistRepo:    storage.NewTwistRepository(db),
		phaseRepo:    storage.NewPhaseRepository(db),
		snapshotRepo: storage.NewSnapshotRepository(db),
	}

	cube.OnTwistComplete(s.handleTwist)
	cube.OnShuffleComplete(s.handleShuffle)

	// The tracker subscribes after the recorder so a phase mark always
	// follows the twist that reached it.
	s.tracker = gocube.NewTracker(cube)
	s.tracker.OnPhase(s.handlePhase)
	return s
}

// SetTwistCallback sets the callback for stored twists.
func (s *Session) SetTwistCallback(cb func(storage.TwistRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTwist = cb
}

// SetPhaseCallback sets the callback for newly reached phases.
func (s *Session) SetPhaseCallback(cb func(gocube.Phase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPhase = cb
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// TwistCount returns the number of twists stored so far.
func (s *Session) TwistCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Err returns the first error hit while persisting cube events.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Start starts a new recording session.
func (s *Session) Start(notes, appVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrRecording
	}

	sessionID, err := s.sessionRepo.Create(notes, "", appVersion)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = sessionID
	s.seq = 0
	s.scramble = nil
	s.err = nil
	s.state = StateRecording
	s.tracker.Reset()

	s.saveActive(sessionID)
	s.logger.Info("session started", zap.String("session", sessionID))
	return sessionID, nil
}

// Resume continues recording an interrupted session.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return ErrRecording
	}

	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session.EndedAt != nil {
		return fmt.Errorf("session %s already ended", sessionID)
	}

	next, err := s.twistRepo.NextSeq(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get next twist seq: %w", err)
	}

	s.sessionID = sessionID
	s.seq = next
	s.scramble = nil
	s.err = nil
	s.state = StateRecording
	s.tracker.Reset()

	s.saveActive(sessionID)
	return nil
}

// End ends the current session, storing a final snapshot.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	if err := s.snapshot(storage.SnapshotEnd); err != nil {
		return err
	}
	if err := s.sessionRepo.End(s.sessionID, s.cube.MoveCount(), s.cube.IsSolved()); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded
	if s.stateFile != nil {
		if err := s.stateFile.Deactivate(); err != nil {
			s.logger.Warn("failed to clear state file", zap.Error(err))
		}
	}

	s.logger.Info("session ended",
		zap.String("session", s.sessionID),
		zap.Int("twists", s.seq),
		zap.Int("moves", s.cube.MoveCount()),
	)
	return nil
}

func (s *Session) saveActive(sessionID string) {
	if s.stateFile == nil {
		return
	}
	if err := s.stateFile.Activate(sessionID, time.Now()); err != nil {
		s.logger.Warn("failed to update state file", zap.Error(err))
	}
}

// fail records the first persistence error. Callers hold mu.
func (s *Session) fail(err error) {
	s.logger.Error("failed to record", zap.Error(err))
	if s.err == nil {
		s.err = err
	}
}

func (s *Session) snapshot(label string) error {
	_, err := s.snapshotRepo.Create(storage.Snapshot{
		SessionID:   s.sessionID,
		TsMs:        s.cube.Elapsed().Milliseconds(),
		Label:       label,
		Facelets:    s.cube.String(),
		Fingerprint: s.cube.FingerprintHex(),
	})
	if err != nil {
		return fmt.Errorf("failed to store %s snapshot: %w", label, err)
	}
	return nil
}

func (s *Session) handleTwist(e gocube.TwistEvent) {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return
	}

	rec := storage.TwistRecord{
		SessionID:   s.sessionID,
		Seq:         s.seq,
		TsMs:        s.cube.Elapsed().Milliseconds(),
		Notation:    e.Twist.String(),
		Quarters:    e.Quarters,
		MoveCount:   e.MoveCount,
		IsShuffle:   e.Twist.IsShuffle,
		Fingerprint: s.cube.FingerprintHex(),
	}
	id, err := s.twistRepo.Create(rec)
	if err != nil {
		s.fail(err)
		s.mu.Unlock()
		return
	}
	rec.TwistID = id
	s.seq++
	if e.Twist.IsShuffle {
		s.scramble = append(s.scramble, rec.Notation)
	}
	cb := s.onTwist
	s.mu.Unlock()

	if cb != nil {
		cb(rec)
	}
}

func (s *Session) handleShuffle(gocube.TwistEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return
	}

	if err := s.sessionRepo.SetScramble(s.sessionID, strings.Join(s.scramble, " ")); err != nil {
		s.fail(err)
	}
	s.scramble = nil
	if err := s.snapshot(storage.SnapshotShuffled); err != nil {
		s.fail(err)
	}
}

func (s *Session) handlePhase(phase gocube.Phase) {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return
	}

	_, err := s.phaseRepo.CreatePhaseMark(s.sessionID, s.cube.Elapsed().Milliseconds(), phase.String(), s.cube.MoveCount())
	if err != nil {
		s.fail(fmt.Errorf("failed to mark phase: %w", err))
		s.mu.Unlock()
		return
	}
	cb := s.onPhase
	s.mu.Unlock()

	if cb != nil {
		cb(phase)
	}
}
