package recorder

import (
	"strings"
	"testing"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

func recordedSession(t *testing.T) ([]storage.TwistRecord, []storage.Snapshot, *gocube.Cube) {
	t.Helper()
	s, cube, db := newTestSession(t, gocube.WithSeed(11))

	id, err := s.Start("", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cube.Shuffle(6)
	cube.Settle()
	if err := cube.Apply("R U180 X"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	cube.Undo()
	cube.Settle()
	if err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	records, err := storage.NewTwistRepository(db).GetBySession(id)
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	snapshots, err := storage.NewSnapshotRepository(db).GetBySession(id)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	return records, snapshots, cube
}

func TestReplayMatchesRecording(t *testing.T) {
	records, snapshots, cube := recordedSession(t)

	var steps int
	result, err := Replay(records, snapshots, func(storage.TwistRecord, *gocube.Cube) { steps++ })
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if !result.OK() {
		t.Errorf("mismatches: %+v", result.Mismatches)
	}
	if result.Twists != len(records) || steps != len(records) {
		t.Errorf("replayed %d twists with %d steps, want %d", result.Twists, steps, len(records))
	}
	if result.Fingerprint != cube.FingerprintHex() {
		t.Errorf("fingerprint = %s, want %s", result.Fingerprint, cube.FingerprintHex())
	}
	if result.Facelets != cube.String() {
		t.Errorf("facelets differ:\n%s\nwant\n%s", result.Facelets, cube.String())
	}
	if result.Solved != cube.IsSolved() {
		t.Errorf("Solved = %v", result.Solved)
	}
}

func TestReplayReportsMismatches(t *testing.T) {
	records, snapshots, _ := recordedSession(t)

	records[len(records)-1].Fingerprint = "0000000000000000"
	for i := range snapshots {
		if snapshots[i].Label == storage.SnapshotEnd {
			snapshots[i].Fingerprint = "ffffffffffffffff"
		}
	}

	result, err := Replay(records, snapshots, nil)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(result.Mismatches) != 2 {
		t.Fatalf("mismatches = %+v, want 2", result.Mismatches)
	}
	if m := result.Mismatches[0]; m.Label != "twist" || m.Seq != records[len(records)-1].Seq {
		t.Errorf("first mismatch = %+v", m)
	}
	if m := result.Mismatches[1]; m.Label != storage.SnapshotEnd || m.Seq != -1 {
		t.Errorf("second mismatch = %+v", m)
	}
}

func TestReplayRejectsBadNotation(t *testing.T) {
	_, err := Replay([]storage.TwistRecord{{Seq: 4, Notation: "R?"}}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "twist 4") {
		t.Errorf("err = %v, want one naming twist 4", err)
	}
}

func TestRestore(t *testing.T) {
	records, _, recorded := recordedSession(t)

	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	if err := Restore(cube, records); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if cube.FingerprintHex() != recorded.FingerprintHex() {
		t.Error("restored cube differs from the recorded one")
	}
}
