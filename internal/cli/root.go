// Package cli implements the command-line interface for cubesim.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/config"
	"github.com/SeamusWaldron/gocube_sim/internal/logging"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
	logFormat  string

	// Set up by PersistentPreRunE for every command.
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubesim",
	Short: "3x3x3 twisty cube simulator",
	Long: `cubesim - A simulator for a 3x3x3 twisty cube.

Twist a cube from the command line or play with it in the terminal, record
sessions to a local database, replay and analyse them, or serve the cube
over a websocket with Prometheus metrics.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.gocube_sim/cubesim.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		loaded.Database.Path = dbPath
	}

	level := loaded.Log.Level
	if verbose {
		level = logging.LevelDebug
	}
	format := loaded.Log.Format
	if logFormat != "" {
		format = logFormat
	}

	l, err := logging.New(level, format)
	if err != nil {
		return err
	}

	cfg, logger = loaded, l
	return nil
}

// openDB opens the configured database.
func openDB() (*storage.DB, error) {
	db, err := storage.OpenDefault(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("opened database", zap.String("path", db.Path()))
	return db, nil
}

// newCube builds a cube from the configuration. opts are applied last.
func newCube(opts ...gocube.Option) *gocube.Cube {
	return gocube.NewCube(append(cfg.Cube.Options(logger), opts...)...)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
