package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/recorder"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
	"github.com/SeamusWaldron/gocube_sim/internal/tui"
)

var (
	playRecord bool
	playNotes  string
	playResume string
	playWCA    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play with the cube in the terminal",
	Long: `Open an interactive cube in the terminal.

Type a twist letter from XLMRYUEDZFSB, upper case to turn clockwise and
lower case to turn anticlockwise. Press ? for the other keys.

With --record every twist, shuffle and phase reached is stored in the
database; the session ends when you quit. --resume continues an
interrupted recording from where it stopped.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playRecord, "record", false, "Record the session")
	playCmd.Flags().StringVar(&playNotes, "notes", "", "Notes for the recorded session")
	playCmd.Flags().StringVar(&playResume, "resume", "", "Resume recording an unfinished session (ID or prefix)")
	playCmd.Flags().BoolVar(&playWCA, "wca", false, "Show history in WCA notation")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cube := newCube()
	opts := tui.Options{
		ShuffleLength: cfg.Cube.ShuffleLength,
		WCA:           playWCA,
	}

	if playRecord || playResume != "" {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		session, err := startRecording(db, cube)
		if err != nil {
			return err
		}
		opts.Session = session
	}

	model := tui.New(cube, opts)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	if opts.Session != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s: %d twists recorded\n", opts.Session.SessionID(), opts.Session.TwistCount())
		if err := opts.Session.Err(); err != nil {
			return fmt.Errorf("recording failed: %w", err)
		}
	}
	return nil
}

// startRecording attaches a recorder to cube and starts or resumes a
// session. A resumed session's twists are replayed onto cube first.
func startRecording(db *storage.DB, cube *gocube.Cube) (*recorder.Session, error) {
	stateFile, err := recorder.LoadDefaultStateFile()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	if err := stateFile.RememberDB(db.Path()); err != nil {
		logger.Warn("failed to save database path", zap.Error(err))
	}

	if playResume == "" {
		session := recorder.NewSession(db, cube, stateFile)
		if _, err := session.Start(playNotes, version); err != nil {
			return nil, err
		}
		return session, nil
	}

	s, err := resolveSession(db, playResume)
	if err != nil {
		return nil, err
	}
	records, err := storage.NewTwistRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return nil, err
	}
	if err := recorder.Restore(cube, records); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	session := recorder.NewSession(db, cube, stateFile)
	if err := session.Resume(s.SessionID); err != nil {
		return nil, err
	}
	return session, nil
}
