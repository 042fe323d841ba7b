package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

// Default viewport until a client reports its own.
const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
)

// ErrUnknownCommand is returned for a command type the driver does not know.
var ErrUnknownCommand = errors.New("stream: unknown command")

// Driver owns a cube: it ticks it on a fixed interval and applies commands
// from a hub, all on the goroutine that calls Run.
type Driver struct {
	cube        *gocube.Cube
	hub         *Hub
	projector   *gocube.Projector
	interaction *gocube.Interaction
	interval    time.Duration
	logger      *zap.Logger
}

// NewDriver creates a driver. hub may be nil for a cube that only ticks.
func NewDriver(cube *gocube.Cube, hub *Hub, interval time.Duration) *Driver {
	projector := gocube.NewProjector(cube, gocube.DefaultCamera(), DefaultViewportWidth, DefaultViewportHeight)
	return &Driver{
		cube:        cube,
		hub:         hub,
		projector:   projector,
		interaction: gocube.NewInteraction(cube, projector),
		interval:    interval,
		logger:      cube.Logger().Named("driver"),
	}
}

// Interaction returns the pointer handler so its tuning can be adjusted
// before Run.
func (d *Driver) Interaction() *gocube.Interaction {
	return d.interaction
}

// Run drives the cube until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	var commands <-chan Command
	if d.hub != nil {
		commands = d.hub.Commands()
	}

	start := time.Now()
	d.cube.Tick(0)
	d.logger.Info("driving cube", zap.Duration("interval", d.interval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("driver stopped")
			return nil

		case t := <-ticker.C:
			d.cube.Tick(t.Sub(start))

		case cmd := <-commands:
			if err := d.Apply(cmd, time.Since(start)); err != nil {
				d.logger.Warn("command failed", zap.String("type", cmd.Type), zap.Error(err))
			}
		}
	}
}

// Apply performs a single command. now is the driver clock used for pointer
// velocities.
func (d *Driver) Apply(cmd Command, now time.Duration) error {
	switch cmd.Type {
	case CommandTwist:
		twists, err := gocube.ParseTwistsStrict(cmd.Notation)
		if err != nil {
			return err
		}
		d.cube.TwistMoves(twists...)

	case CommandUndo:
		d.cube.Undo()

	case CommandRedo:
		d.cube.Redo()

	case CommandShuffle:
		d.cube.Shuffle(cmd.Amount)

	case CommandSolve:
		return d.cube.Solve()

	case CommandReset:
		d.interaction.Cancel()
		d.cube.Reset()

	case CommandViewport:
		if cmd.Width <= 0 || cmd.Height <= 0 {
			return fmt.Errorf("viewport %gx%g: must be positive", cmd.Width, cmd.Height)
		}
		d.projector.Width = cmd.Width
		d.projector.Height = cmd.Height

	case CommandPointerDown:
		d.interaction.PointerDown(cmd.X, cmd.Y, now)

	case CommandPointerMove:
		d.interaction.PointerMove(cmd.X, cmd.Y, now)

	case CommandPointerUp:
		if t, ok := d.interaction.PointerUp(cmd.X, cmd.Y, now); ok {
			d.logger.Debug("drag released", zap.Stringer("twist", t))
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}
