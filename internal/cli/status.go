package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_sim/internal/recorder"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and recording status",
	Long:  `Display the database location and schema version, recorded session counts, and any session left recording.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "cubesim Status")
	fmt.Fprintln(out, "==============")
	fmt.Fprintln(out)

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(out, "Database: %s\n", db.Path())
	if v, err := db.CurrentVersion(); err == nil {
		fmt.Fprintf(out, "Schema:   v%d (latest v%d)\n", v, storage.LatestVersion())
	}

	var total, solved int
	if err := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(solved), 0) FROM sessions`).Scan(&total, &solved); err != nil {
		return fmt.Errorf("failed to count sessions: %w", err)
	}
	fmt.Fprintf(out, "Sessions: %d (%d solved)\n", total, solved)

	if sessions, err := storage.NewSessionRepository(db).List(1); err == nil && len(sessions) > 0 {
		fmt.Fprintf(out, "Last:     %s at %s\n", sessions[0].SessionID, sessions[0].StartedAt.Local().Format(time.RFC3339))
	}
	fmt.Fprintln(out)

	stateFile, err := recorder.LoadDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	state := stateFile.Snapshot()
	if state.Active != "" {
		fmt.Fprintf(out, "Active session: %s\n", state.Active)
		if state.ActiveSince != nil {
			fmt.Fprintf(out, "  Open for %s\n", formatDuration(time.Since(*state.ActiveSince)))
		}
		fmt.Fprintln(out, "  (Use 'cubesim play --resume "+shortID(state.Active)+"' to continue it)")
	} else {
		fmt.Fprintln(out, "No active session")
	}
	if state.LastEnded != "" {
		fmt.Fprintf(out, "Last recorded: %s\n", state.LastEnded)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
