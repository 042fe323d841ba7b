package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

func mustApply(t *testing.T, d *Driver, cmd Command, now time.Duration) {
	t.Helper()
	if err := d.Apply(cmd, now); err != nil {
		t.Fatalf("Apply(%+v): %v", cmd, err)
	}
}

func TestDriverApply(t *testing.T) {
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	d := NewDriver(cube, nil, time.Millisecond)

	mustApply(t, d, Command{Type: CommandTwist, Notation: "R U"}, 0)
	cube.Settle()
	if cube.MoveCount() != 2 {
		t.Errorf("MoveCount = %d, want 2", cube.MoveCount())
	}

	if err := d.Apply(Command{Type: CommandTwist, Notation: "R Q"}, 0); err == nil {
		t.Error("bad notation was accepted")
	}

	mustApply(t, d, Command{Type: CommandUndo}, 0)
	cube.Settle()
	if got := gocube.FormatTwists(cube.History()); got != "R" {
		t.Errorf("history after undo = %q", got)
	}

	mustApply(t, d, Command{Type: CommandRedo}, 0)
	cube.Settle()
	if cube.MoveCount() != 2 {
		t.Errorf("MoveCount after redo = %d", cube.MoveCount())
	}

	if err := d.Apply(Command{Type: CommandSolve}, 0); !errors.Is(err, gocube.ErrNoSolver) {
		t.Errorf("solve: err = %v, want ErrNoSolver", err)
	}

	mustApply(t, d, Command{Type: CommandReset}, 0)
	if !cube.IsSolved() || cube.MoveCount() != 0 {
		t.Errorf("after reset solved = %v, moves = %d", cube.IsSolved(), cube.MoveCount())
	}

	if err := d.Apply(Command{Type: "spin"}, 0); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command: err = %v", err)
	}
}

func TestDriverShuffle(t *testing.T) {
	cube := gocube.NewCube(gocube.WithTwistDuration(0), gocube.WithSeed(9))
	d := NewDriver(cube, nil, time.Millisecond)

	shuffled := 0
	cube.OnShuffleComplete(func(gocube.TwistEvent) { shuffled++ })

	mustApply(t, d, Command{Type: CommandShuffle, Amount: 4}, 0)
	if !cube.IsShuffling() {
		t.Error("shuffle should be running")
	}
	cube.Settle()
	if shuffled != 1 {
		t.Errorf("shuffle completed %d times", shuffled)
	}
	if cube.MoveCount() != 0 {
		t.Errorf("shuffle counted %d moves", cube.MoveCount())
	}
}

func TestDriverViewport(t *testing.T) {
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	d := NewDriver(cube, nil, time.Millisecond)

	if err := d.Apply(Command{Type: CommandViewport, Width: 0, Height: 10}, 0); err == nil {
		t.Error("zero width was accepted")
	}
	mustApply(t, d, Command{Type: CommandViewport, Width: 200, Height: 100}, 0)
	if d.projector.Width != 200 || d.projector.Height != 100 {
		t.Errorf("viewport = %vx%v", d.projector.Width, d.projector.Height)
	}
}

func TestDriverPointerClick(t *testing.T) {
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	d := NewDriver(cube, nil, time.Millisecond)

	var clicks []gocube.ClickEvent
	cube.OnClick(func(e gocube.ClickEvent) { clicks = append(clicks, e) })

	x, y := DefaultViewportWidth/2.0, DefaultViewportHeight/2.0
	mustApply(t, d, Command{Type: CommandPointerDown, X: x, Y: y}, 0)
	if !d.Interaction().Active() {
		t.Error("pointer down over the cube should start an interaction")
	}
	mustApply(t, d, Command{Type: CommandPointerUp, X: x, Y: y}, time.Millisecond)

	if len(clicks) != 1 {
		t.Fatalf("%d clicks, want 1", len(clicks))
	}
	if clicks[0].Cubelet == nil {
		t.Error("click carries no cubelet")
	}
	if d.Interaction().Active() {
		t.Error("interaction still active after release")
	}
	if cube.MoveCount() != 0 {
		t.Errorf("click twisted %d moves", cube.MoveCount())
	}
}

func TestDriverRunAppliesHubCommands(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	d := NewDriver(cube, hub, time.Millisecond)

	twisted := make(chan struct{}, 4)
	cube.OnTwistComplete(func(gocube.TwistEvent) { twisted <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	hub.commands <- Command{Type: CommandTwist, Notation: "F"}

	select {
	case <-twisted:
	case <-time.After(2 * time.Second):
		t.Fatal("twist was not applied")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop")
	}
	if cube.MoveCount() != 1 {
		t.Errorf("MoveCount = %d, want 1", cube.MoveCount())
	}
}
