package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SeamusWaldron/gocube_sim/internal/config"
	"github.com/SeamusWaldron/gocube_sim/internal/metrics"
	"github.com/SeamusWaldron/gocube_sim/internal/recorder"
	"github.com/SeamusWaldron/gocube_sim/internal/stream"
)

const shutdownTimeout = 5 * time.Second

var (
	serveAddr   string
	serveRecord bool
	serveNotes  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live cube over a websocket",
	Long: `Run a cube and serve it to websocket clients.

Clients receive the cube state on connect and an event for every twist,
shuffle, phase reached and sticker click. They drive the cube by sending
commands: twist, undo, redo, shuffle, solve, reset, and pointer gestures
(viewport, pointer_down, pointer_move, pointer_up).

Prometheus metrics are served alongside, and /healthz reports liveness.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
	serveCmd.Flags().BoolVar(&serveRecord, "record", false, "Record the session")
	serveCmd.Flags().StringVar(&serveNotes, "notes", "", "Notes for the recorded session")
}

// newServeMux routes the websocket, metrics and health endpoints.
func newServeMux(server config.ServerConfig, hub *stream.Hub, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(server.StreamPath, hub)
	mux.Handle(server.MetricsPath, collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	return mux
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	cube := newCube()
	hub := stream.NewHub(logger)
	collector := metrics.NewCollector()
	collector.Attach(cube)
	collector.TrackClients(hub.ClientCount)
	hub.Attach(cube)

	driver := stream.NewDriver(cube, hub, cfg.Server.TickRate)
	cfg.Interaction.Apply(driver.Interaction())

	var session *recorder.Session
	if serveRecord {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stateFile, err := recorder.LoadDefaultStateFile()
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		session = recorder.NewSession(db, cube, stateFile)
		id, err := session.Start(serveNotes, version)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recording session %s\n", id)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeMux(cfg.Server, hub, collector),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return driver.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("serving cube",
			zap.String("addr", addr),
			zap.String("stream", cfg.Server.StreamPath),
			zap.String("metrics", cfg.Server.MetricsPath),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	// The driver has stopped, so the cube is safe to read here.
	if session != nil {
		if endErr := session.End(); endErr != nil {
			logger.Error("failed to end session", zap.Error(endErr))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s: %d twists recorded\n", session.SessionID(), session.TwistCount())
		}
	}

	logger.Info("server stopped")
	return err
}
