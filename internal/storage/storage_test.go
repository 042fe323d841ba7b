package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateSession(t *testing.T, sessions *SessionRepository) string {
	t.Helper()
	id, err := sessions.Create("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestOpenMigrates(t *testing.T) {
	db := openTestDB(t)
	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != LatestVersion() {
		t.Errorf("version = %d, want %d", v, LatestVersion())
	}

	// Running the migrations again is a no-op.
	if err := applyMigrations(db.DB); err != nil {
		t.Errorf("second migration run: %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cubesim.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening an existing file keeps its version.
	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != LatestVersion() {
		t.Errorf("version = %d, want %d", v, LatestVersion())
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	id, err := sessions.Create("practice", "", "test")
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 36 {
		t.Errorf("id %q is not a uuid", id)
	}

	s, err := sessions.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.EndedAt != nil || s.Scramble != nil {
		t.Errorf("fresh session = %+v", s)
	}
	if s.Notes == nil || *s.Notes != "practice" {
		t.Errorf("Notes = %v", s.Notes)
	}

	if err := sessions.SetScramble(id, "R U F"); err != nil {
		t.Fatal(err)
	}
	if err := sessions.End(id, 12, true); err != nil {
		t.Fatal(err)
	}

	s, err = sessions.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.EndedAt == nil || s.DurationMs == nil {
		t.Fatalf("ended session = %+v", s)
	}
	if *s.DurationMs < 0 {
		t.Errorf("DurationMs = %d", *s.DurationMs)
	}
	if s.Scramble == nil || *s.Scramble != "R U F" {
		t.Errorf("Scramble = %v", s.Scramble)
	}
	if s.MoveCount != 12 || !s.Solved {
		t.Errorf("MoveCount = %d, Solved = %v", s.MoveCount, s.Solved)
	}

	found, err := sessions.FindByPrefix(id[:8])
	if err != nil {
		t.Fatal(err)
	}
	if found.SessionID != id {
		t.Errorf("FindByPrefix = %s, want %s", found.SessionID, id)
	}
}

func TestSessionNotFound(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	_, getErr := sessions.Get("missing")
	_, findErr := sessions.FindByPrefix("zz")
	errs := map[string]error{
		"Get":          getErr,
		"FindByPrefix": findErr,
		"Delete":       sessions.Delete("missing"),
		"End":          sessions.End("missing", 0, false),
	}
	for name, err := range errs {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestSessionListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, mustCreateSession(t, sessions))
	}

	list, err := sessions.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("List(2) returned %d sessions", len(list))
	}
	if list[0].SessionID != ids[2] || list[1].SessionID != ids[1] {
		t.Errorf("List order = %s, %s", list[0].SessionID, list[1].SessionID)
	}
}

func TestTwistsCascadeWithSession(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	twists := NewTwistRepository(db)

	id := mustCreateSession(t, sessions)

	next, err := twists.NextSeq(id)
	if err != nil {
		t.Fatal(err)
	}
	if next != 0 {
		t.Errorf("NextSeq on empty session = %d", next)
	}

	for i, n := range []string{"R", "U", "r"} {
		_, err := twists.Create(TwistRecord{
			SessionID: id, Seq: i, TsMs: int64(i * 100), Notation: n,
			Quarters: 3, MoveCount: i + 1, Fingerprint: "00ff",
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := twists.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("GetBySession returned %d twists", len(got))
	}
	if got[1].Notation != "U" || got[1].MoveCount != 2 {
		t.Errorf("twist 1 = %+v", got[1])
	}

	next, err = twists.NextSeq(id)
	if err != nil {
		t.Fatal(err)
	}
	if next != 3 {
		t.Errorf("NextSeq = %d, want 3", next)
	}

	if _, err := twists.Create(TwistRecord{SessionID: id, Seq: 1, Notation: "F", Fingerprint: "x"}); err == nil {
		t.Error("duplicate seq was accepted")
	}
	if _, err := twists.Create(TwistRecord{SessionID: "nobody", Seq: 0, Notation: "F", Fingerprint: "x"}); err == nil {
		t.Error("twist for an unknown session was accepted")
	}

	if err := sessions.Delete(id); err != nil {
		t.Fatal(err)
	}
	n, err := twists.Count(id)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d twists survived their session", n)
	}
}

func TestPhaseMarksAndSplits(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	phases := NewPhaseRepository(db)

	defs, err := phases.GetAllPhaseDefs()
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 8 {
		t.Fatalf("%d phase defs, want 8", len(defs))
	}
	if defs[0].PhaseKey != "scrambled" || defs[7].PhaseKey != "solved" {
		t.Errorf("phase order = %s .. %s", defs[0].PhaseKey, defs[7].PhaseKey)
	}

	id := mustCreateSession(t, sessions)

	if _, err := phases.CreatePhaseMark(id, 1000, "cross", 6); err != nil {
		t.Fatal(err)
	}
	if _, err := phases.CreatePhaseMark(id, 4000, "first_layer", 20); err != nil {
		t.Fatal(err)
	}
	if _, err := phases.CreatePhaseMark(id, 5000, "no_such_phase", 21); err == nil {
		t.Error("unknown phase key was accepted")
	}

	splits, err := phases.Splits(id)
	if err != nil {
		t.Fatal(err)
	}
	want := []PhaseSplit{
		{PhaseKey: "cross", DurationMs: 1000, Moves: 6},
		{PhaseKey: "first_layer", DurationMs: 3000, Moves: 14},
	}
	if !reflect.DeepEqual(splits, want) {
		t.Errorf("Splits = %+v, want %+v", splits, want)
	}
}

func TestSnapshots(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	snaps := NewSnapshotRepository(db)

	id := mustCreateSession(t, sessions)

	if _, err := snaps.GetLast(id, SnapshotEnd); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLast on empty session: err = %v", err)
	}

	if _, err := snaps.Create(Snapshot{SessionID: id, TsMs: 10, Label: SnapshotShuffled, Facelets: "a", Fingerprint: "1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := snaps.Create(Snapshot{SessionID: id, TsMs: 20, Label: SnapshotEnd, Facelets: "b", Fingerprint: "2"}); err != nil {
		t.Fatal(err)
	}

	last, err := snaps.GetLast(id, SnapshotEnd)
	if err != nil {
		t.Fatal(err)
	}
	if last.Facelets != "b" {
		t.Errorf("GetLast = %+v", last)
	}

	all, err := snaps.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("GetBySession returned %d snapshots", len(all))
	}
}

func TestTransactionRollsBack(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	id := mustCreateSession(t, sessions)

	errRollback := errors.New("roll back")
	err := db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`UPDATE sessions SET move_count = 99 WHERE session_id = ?`, id); err != nil {
			return err
		}
		return errRollback
	})
	if !errors.Is(err, errRollback) {
		t.Errorf("Transaction err = %v", err)
	}

	s, err := sessions.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.MoveCount != 0 {
		t.Errorf("MoveCount = %d after rollback", s.MoveCount)
	}
}
