package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/notation"
	"github.com/SeamusWaldron/gocube_sim/internal/recorder"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

var (
	replayLast  bool
	replaySteps bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Replay a recorded session and verify it",
	Long: `Re-apply the twists of a recorded session to a solved cube and check the
cube state after each one against the fingerprint stored with it, and
against the shuffled and end snapshots.

A session that started from a scrambled cube cannot be verified and
reports a mismatch on its first twist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
	replayCmd.Flags().BoolVar(&replaySteps, "steps", false, "Print every twist as it is replayed")
}

func runReplay(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := pickSession(db, args, replayLast)
	if err != nil {
		return err
	}
	records, err := storage.NewTwistRepository(db).GetBySession(session.SessionID)
	if err != nil {
		return err
	}
	snapshots, err := storage.NewSnapshotRepository(db).GetBySession(session.SessionID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var onStep func(storage.TwistRecord, *gocube.Cube)
	if replaySteps {
		onStep = func(rec storage.TwistRecord, cube *gocube.Cube) {
			t, _ := gocube.ParseTwistsStrict(rec.Notation)
			kind := ""
			if rec.IsShuffle {
				kind = " (shuffle)"
			}
			fmt.Fprintf(out, "%4d  %8s  %-8s %-28s %s%s\n",
				rec.Seq, formatDuration(msDuration(rec.TsMs)), rec.Notation,
				notation.DescribeSequence(t), cube.Phase().DisplayName(), kind)
		}
	}

	result, err := recorder.Replay(records, snapshots, onStep)
	if err != nil {
		return err
	}

	if replaySteps {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Session:     %s\n", session.SessionID)
	fmt.Fprintf(out, "Twists:      %d\n", result.Twists)
	fmt.Fprintf(out, "Moves:       %d\n", result.Moves)
	fmt.Fprintf(out, "Solved:      %s\n", yesNo(result.Solved))
	fmt.Fprintf(out, "Fingerprint: %s\n", result.Fingerprint)

	if result.OK() {
		fmt.Fprintln(out, "Replay matches the recording")
		return nil
	}
	for _, m := range result.Mismatches {
		at := fmt.Sprintf("twist %d", m.Seq)
		if m.Seq < 0 {
			at = "end"
		}
		fmt.Fprintf(out, "  mismatch at %s (%s): recorded %s, replayed %s\n", at, m.Label, m.Want, m.Got)
	}
	return fmt.Errorf("replay diverged from the recording in %d places", len(result.Mismatches))
}
