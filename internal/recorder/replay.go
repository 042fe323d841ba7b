package recorder

import (
	"fmt"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

// Mismatch is a point where a replayed cube disagrees with what was recorded.
type Mismatch struct {
	Seq   int    // Twist seq, or -1 for the end snapshot
	Label string // "twist" or a snapshot label
	Want  string
	Got   string
}

// ReplayResult summarises a replay.
type ReplayResult struct {
	Twists      int
	Moves       int
	Solved      bool
	Fingerprint string
	Facelets    string
	Mismatches  []Mismatch
}

// OK reports whether the replay matched every recorded fingerprint.
func (r *ReplayResult) OK() bool {
	return len(r.Mismatches) == 0
}

// Replay re-applies recorded twists on a fresh solved cube and checks the
// state after each against the stored fingerprint. Shuffled snapshots are
// checked as each shuffle run ends and the end snapshot once every twist has
// run. onStep, if not nil, sees the cube after each twist.
//
// Undo inverses are replayed as ordinary twists, so Moves may exceed the
// recorded move count.
func Replay(records []storage.TwistRecord, snapshots []storage.Snapshot, onStep func(storage.TwistRecord, *gocube.Cube)) (*ReplayResult, error) {
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	result := &ReplayResult{}

	var shuffled []storage.Snapshot
	var end *storage.Snapshot
	for i := range snapshots {
		switch snapshots[i].Label {
		case storage.SnapshotShuffled:
			shuffled = append(shuffled, snapshots[i])
		case storage.SnapshotEnd:
			end = &snapshots[i]
		}
	}

	check := func(seq int, label, want string) {
		if want == "" {
			return
		}
		if got := cube.FingerprintHex(); got != want {
			result.Mismatches = append(result.Mismatches, Mismatch{Seq: seq, Label: label, Want: want, Got: got})
		}
	}

	for i, rec := range records {
		if err := applyRecord(cube, rec); err != nil {
			return nil, err
		}
		result.Twists++

		check(rec.Seq, "twist", rec.Fingerprint)

		runEnds := i == len(records)-1 || !records[i+1].IsShuffle
		if rec.IsShuffle && runEnds && len(shuffled) > 0 {
			check(rec.Seq, storage.SnapshotShuffled, shuffled[0].Fingerprint)
			shuffled = shuffled[1:]
		}

		if onStep != nil {
			onStep(rec, cube)
		}
	}

	if end != nil {
		check(-1, storage.SnapshotEnd, end.Fingerprint)
	}

	result.Moves = cube.MoveCount()
	result.Solved = cube.IsSolved()
	result.Fingerprint = cube.FingerprintHex()
	result.Facelets = cube.String()
	return result, nil
}

// Restore brings cube to the state a recording left it in by applying its
// twists instantly. Call it before attaching a Session that resumes the
// recording, or the restored twists are recorded again.
func Restore(cube *gocube.Cube, records []storage.TwistRecord) error {
	for _, rec := range records {
		if err := applyRecord(cube, rec); err != nil {
			return err
		}
	}
	return nil
}

func applyRecord(cube *gocube.Cube, rec storage.TwistRecord) error {
	twists, err := gocube.ParseTwistsStrict(rec.Notation)
	if err != nil {
		return fmt.Errorf("twist %d: %w", rec.Seq, err)
	}
	for i := range twists {
		twists[i].IsShuffle = rec.IsShuffle
	}
	cube.TwistMoves(twists...)
	cube.Settle()
	return nil
}
