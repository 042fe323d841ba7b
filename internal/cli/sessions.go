package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/analysis"
	"github.com/SeamusWaldron/gocube_sim/internal/notation"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

var (
	listLimit    int
	showLast     bool
	showJSON     bool
	exportLast   bool
	exportFormat string
	exportOutput string
	trendsLimit  int
	trendsJSON   bool
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Browse recorded sessions",
	Long:    `Commands for listing, inspecting, exporting and deleting recorded sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	Long:  `Display a list of recent sessions with basic statistics.`,
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the analysis of a session",
	Long: `Display a session summary including:
- Duration, moves and TPS
- Time and moves per solve phase
- Pauses and wasted motion

The ID may be abbreviated to any unique prefix. Use --last to show the most
recent session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsShow,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export the twists of a session",
	Long: `Export the twists of a session.

Formats:
  txt   simulator notation, shuffle excluded
  wca   standard notation, shuffle excluded
  json  every stored twist record

Examples:
  cubesim sessions export --last
  cubesim sessions export 3f2a --format json -o session.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsExport,
}

var sessionsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show trends across recent sessions",
	Long: `Analyse recent sessions together: average time, moves and TPS of solved
sessions, best and worst, improvement between the first and last quarter,
consistency, rolling averages and per-phase trends.`,
	Args: cobra.NoArgs,
	RunE: runSessionsTrends,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and everything recorded under it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")
	sessionsShowCmd.Flags().BoolVar(&showJSON, "json", false, "Print the summary as JSON")

	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsExportCmd.Flags().BoolVar(&exportLast, "last", false, "Export the most recent session")
	sessionsExportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, wca, json)")
	sessionsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")

	sessionsCmd.AddCommand(sessionsTrendsCmd)
	sessionsTrendsCmd.Flags().IntVar(&trendsLimit, "limit", 50, "Number of recent sessions to analyse")
	sessionsTrendsCmd.Flags().BoolVar(&trendsJSON, "json", false, "Print the report as JSON")

	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

// resolveSession finds a session by ID or unique prefix.
func resolveSession(db *storage.DB, id string) (*storage.Session, error) {
	return storage.NewSessionRepository(db).FindByPrefix(id)
}

// pickSession resolves the session named by args, or the latest one when
// last is set.
func pickSession(db *storage.DB, args []string, last bool) (*storage.Session, error) {
	if last {
		sessions, err := storage.NewSessionRepository(db).List(1)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest session: %w", err)
		}
		if len(sessions) == 0 {
			return nil, fmt.Errorf("no sessions found")
		}
		return &sessions[0], nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("please provide a session ID or use --last")
	}
	return resolveSession(db, args[0])
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(listLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet")
		fmt.Fprintln(out, "Record one with: cubesim play --record")
		return nil
	}

	fmt.Fprintf(out, "Recent sessions (showing %d):\n", len(sessions))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-36s  %-19s  %-10s  %-6s  %-6s  %s\n", "ID", "Started", "Duration", "Moves", "Solved", "Notes")
	fmt.Fprintln(out, "------------------------------------  -------------------  ----------  ------  ------  -----")

	for _, s := range sessions {
		duration := "-"
		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}

		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
			if len(notes) > 30 {
				notes = notes[:27] + "..."
			}
		}
		if s.EndedAt == nil {
			notes += " (active)"
		}

		fmt.Fprintf(out, "%-36s  %-19s  %-10s  %-6d  %-6s  %s\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			s.MoveCount,
			yesNo(s.Solved),
			strings.TrimSpace(notes),
		)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := pickSession(db, args, showLast)
	if err != nil {
		return err
	}

	records, err := storage.NewTwistRepository(db).GetBySession(session.SessionID)
	if err != nil {
		return err
	}
	splits, err := storage.NewPhaseRepository(db).Splits(session.SessionID)
	if err != nil {
		return err
	}

	summary := analysis.Summarize(session, records, splits)
	out := cmd.OutOrStdout()
	if showJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprint(out, analysis.FormatReport(summary))
	if session.Notes != nil && *session.Notes != "" {
		fmt.Fprintf(out, "  Notes:      %s\n", *session.Notes)
	}
	return nil
}

// exportRecord is the JSON form of a stored twist.
type exportRecord struct {
	Seq         int    `json:"seq"`
	TsMs        int64  `json:"ts_ms"`
	Notation    string `json:"notation"`
	Quarters    int    `json:"quarters"`
	MoveCount   int    `json:"move_count"`
	Shuffle     bool   `json:"shuffle,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := pickSession(db, args, exportLast)
	if err != nil {
		return err
	}
	records, err := storage.NewTwistRepository(db).GetBySession(session.SessionID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no twists found for session %s", session.SessionID)
	}

	var output string
	switch strings.ToLower(exportFormat) {
	case "txt":
		output = gocube.FormatTwists(solveTwists(records))

	case "wca":
		output, err = notation.ToWCA(solveTwists(records))
		if err != nil {
			return err
		}

	case "json":
		out := make([]exportRecord, len(records))
		for i, r := range records {
			out[i] = exportRecord{
				Seq:         r.Seq,
				TsMs:        r.TsMs,
				Notation:    r.Notation,
				Quarters:    r.Quarters,
				MoveCount:   r.MoveCount,
				Shuffle:     r.IsShuffle,
				Fingerprint: r.Fingerprint,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = string(data)

	default:
		return fmt.Errorf("unknown format %q (use txt, wca or json)", exportFormat)
	}

	if exportOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d twists to %s\n", len(records), exportOutput)
	return nil
}

// solveTwists returns the non-shuffle twists of a recording.
func solveTwists(records []storage.TwistRecord) []gocube.Twist {
	steps := analysis.StepsFromRecords(records)
	twists := make([]gocube.Twist, len(steps))
	for i, s := range steps {
		twists[i] = s.Twist
	}
	return twists
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := resolveSession(db, args[0])
	if err != nil {
		return err
	}
	if err := storage.NewSessionRepository(db).Delete(session.SessionID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", session.SessionID)
	return nil
}

func runSessionsTrends(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(trendsLimit)
	if err != nil {
		return err
	}

	twistRepo := storage.NewTwistRepository(db)
	phaseRepo := storage.NewPhaseRepository(db)
	data := make([]analysis.SessionData, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		records, err := twistRepo.GetBySession(s.SessionID)
		if err != nil {
			return err
		}
		splits, err := phaseRepo.Splits(s.SessionID)
		if err != nil {
			return err
		}
		data = append(data, analysis.SessionDataFrom(s, analysis.Summarize(s, records, splits)))
	}

	report := analysis.AnalyzeTrends(data)
	out := cmd.OutOrStdout()
	if trendsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprint(out, analysis.FormatTrendReport(report))
	return nil
}
