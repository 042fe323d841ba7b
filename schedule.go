package gocube

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
	"github.com/SeamusWaldron/gocube_sim/internal/tween"
)

// maxSettleTicks bounds Settle when something keeps the cube busy forever,
// such as a solver that never finishes or a drag that never ends.
const maxSettleTicks = 1 << 16

// inflight is the twist currently animating.
type inflight struct {
	twist   Twist
	slices  []*Slice
	targets []float64
}

// Tick advances the cube to now. The host calls it once per frame with a
// monotonic timestamp; time spent paused does not count towards animations
// or Elapsed.
func (c *Cube) Tick(now time.Duration) {
	if c.ticked && !c.paused {
		if dt := now - c.lastTick; dt > 0 {
			c.clock += dt
			c.spin(dt)
		}
	}
	c.lastTick = now
	c.ticked = true

	if c.paused {
		return
	}
	c.tweens.Update(c.clock)
	c.step()
}

// Settle runs the scheduler on a virtual clock until all queued work has
// finished. It returns immediately while paused.
func (c *Cube) Settle() {
	if c.paused {
		return
	}
	stride := c.cfg.twistDuration
	if stride < time.Millisecond {
		stride = time.Millisecond
	}

	now := c.lastTick
	for i := 0; c.Busy() && i < maxSettleTicks; i++ {
		if c.dragging {
			c.logger.Warn("settle stopped by an active drag")
			return
		}
		now += stride
		c.Tick(now)
	}
}

// Busy reports whether a twist is turning or any work is waiting.
func (c *Cube) Busy() bool {
	return c.current != nil ||
		c.historyQueue.IsReady() ||
		(!c.undoing && c.twistQueue.IsReady()) ||
		len(c.taskQueue) > 0 ||
		c.solving
}

// IsTweening reports whether a twist is mid-animation.
func (c *Cube) IsTweening() bool {
	return c.current != nil
}

// step advances the queues by at most one twist.
func (c *Cube) step() {
	if c.paused || c.current != nil || c.dragging {
		return
	}

	var queue *Queue[Twist]
	switch {
	case c.historyQueue.IsReady():
		queue = c.historyQueue
	case !c.undoing && c.twistQueue.IsReady():
		queue = c.twistQueue
	}

	if queue == nil {
		if c.solving {
			c.solving = c.cfg.solver.Consider(c)
			if !c.solving {
				c.logger.Debug("solver finished")
			}
			return
		}
		if len(c.taskQueue) > 0 {
			task := c.taskQueue[0]
			c.taskQueue = c.taskQueue[1:]
			task()
		}
		return
	}

	if t, ok := queue.Do(); ok {
		c.execute(t)
	}
}

// execute starts animating t. Each driven slice turns from wherever it was
// left, typically a partial drag, to its quarter target.
func (c *Cube) execute(t Twist) {
	slices, signs := c.resolve(t)
	if len(slices) == 0 {
		c.logger.Warn("twist has no slice", zap.Stringer("twist", t))
		return
	}

	cur := &inflight{twist: t, slices: slices, targets: make([]float64, len(slices))}
	froms := make([]float64, len(slices))
	for i, s := range slices {
		froms[i] = s.rotation
		cur.targets[i] = t.Radians() * signs[i]
		for _, cb := range s.Cubelets() {
			cb.tweening = true
			cb.engaged = s.axisIndex()
		}
	}
	c.current = cur

	c.logger.Debug("twist started",
		zap.Stringer("twist", t),
		zap.Bool("shuffle", t.IsShuffle),
		zap.Bool("reverting", t.reverting),
	)

	duration := c.duration(t)
	if duration <= 0 {
		for i, s := range slices {
			s.SetRotation(cur.targets[i])
		}
		c.complete()
		return
	}

	c.tweens.Add(&tween.Tween{
		From:     0,
		To:       1,
		Duration: duration,
		Easing:   c.cfg.easing,
		OnUpdate: func(p float64) {
			for i, s := range slices {
				s.SetRotation(froms[i] + (cur.targets[i]-froms[i])*p)
			}
		},
		OnComplete: c.complete,
	})
}

// duration scales the configured quarter-turn duration by the twist size,
// with a quarter of it as the floor so small corrections still animate.
func (c *Cube) duration(t Twist) time.Duration {
	d := c.cfg.twistDuration
	if d <= 0 {
		return 0
	}
	scale := math.Max(t.Degrees/90, 0.25)
	return time.Duration(float64(d) * scale)
}

// resolve returns the slices a twist drives and the sign each one turns with
// relative to the twist.
func (c *Cube) resolve(t Twist) ([]*Slice, []float64) {
	letter := t.Letter()
	if ref, ok := rotationAxes[letter]; ok {
		axis := c.slices[ref].axis
		idx := axis.DominantAxis()

		// The positive slice leads so its quarters describe the rotation.
		var slices []*Slice
		var signs []float64
		for _, cmd := range []byte{slicesByAxis[idx][2], slicesByAxis[idx][1], slicesByAxis[idx][0]} {
			s := c.slices[cmd]
			slices = append(slices, s)
			signs = append(signs, s.axis.Dot(axis))
		}
		return slices, signs
	}

	s, ok := c.slices[letter]
	if !ok {
		return nil, nil
	}
	return []*Slice{s}, []float64{1}
}

// complete settles every slice of the current twist, updates the counters
// and dispatches events.
func (c *Cube) complete() {
	cur := c.current
	if cur == nil {
		return
	}

	quarters := 0
	for i, s := range cur.slices {
		q := s.settle()
		if i == 0 {
			quarters = q
		}
	}
	for _, s := range c.order {
		s.refresh()
	}
	for i := range c.pieces {
		c.pieces[i].tweening = false
		c.pieces[i].engaged = axisNone
	}
	c.current = nil

	t := cur.twist
	if quarters == 0 {
		// Net zero twists never belong in history.
		c.twistQueue.Purge(func(h Twist) bool { return h.serial == t.serial })
		c.historyQueue.Purge(func(h Twist) bool { return h.serial == t.serial })
	} else if !t.IsRotation() && !t.IsShuffle {
		if t.reverting {
			c.moveCount--
		} else {
			c.moveCount++
		}
	}

	e := TwistEvent{Slice: cur.slices[0], Twist: t, Quarters: quarters, MoveCount: c.moveCount}

	shuffleDone := t.IsShuffle && c.shuffleLast != 0 && t.serial == c.shuffleLast
	if t.IsShuffle {
		c.twistQueue.Purge(func(h Twist) bool { return h.serial == t.serial })
	}
	if shuffleDone {
		c.shuffleLast = 0
	}

	c.logger.Debug("twist complete",
		zap.Stringer("twist", t),
		zap.Int("quarters", quarters),
		zap.Int("moves", c.moveCount),
	)
	c.emitTwist(e)

	if shuffleDone {
		c.logger.Debug("shuffle complete", zap.Stringer("last", t))
		c.emitShuffle(e)
	}
}

// validateTwists drops zero twists and stamps each survivor with a serial
// so it can be found again after it runs.
func (c *Cube) validateTwists(in []Twist) []Twist {
	out := make([]Twist, 0, len(in))
	for _, t := range in {
		if t.IsZero() {
			continue
		}
		if t.serial == 0 {
			c.serial++
			t.serial = c.serial
		}
		out = append(out, t)
	}
	return out
}

// Twist parses notation and queues the twists it describes. Characters the
// notation grammar does not recognise are dropped with a warning. It returns
// the number of twists queued.
func (c *Cube) Twist(notation string) int {
	twists, dropped := parseTwists(notation)
	if len(dropped) > 0 {
		c.logger.Warn("dropped unrecognised notation",
			zap.String("notation", notation),
			zap.Strings("dropped", dropped),
		)
	}
	c.twist(twists)
	return len(twists)
}

// TwistMoves queues already constructed twists.
func (c *Cube) TwistMoves(twists ...Twist) {
	c.twist(twists)
}

// Apply queues notation strictly and runs the cube until it settles.
func (c *Cube) Apply(notation string) error {
	twists, err := ParseTwistsStrict(notation)
	if err != nil {
		return err
	}
	c.twist(twists)
	c.Settle()
	return nil
}

func (c *Cube) twist(twists []Twist) {
	if len(twists) == 0 {
		return
	}
	if c.undoing {
		c.twistQueue.Empty(false)
		c.undoing = false
	}
	c.historyQueue.Empty(true)
	c.twistQueue.Add(twists...)
}

// Undo queues the inverse of the last executed twist. It reports false when
// there is nothing to undo.
func (c *Cube) Undo() bool {
	t, ok := c.twistQueue.Undo()
	if !ok {
		return false
	}
	inv := t.Inverse()
	inv.reverting = true
	c.historyQueue.Add(inv)
	c.undoing = true
	return true
}

// Redo replays the most recently undone twist. An undo still waiting to run
// is cancelled instead. It reports false when there is nothing to redo.
func (c *Cube) Redo() bool {
	if !c.undoing {
		return false
	}
	if c.historyQueue.IsReady() {
		c.historyQueue.Pop()
		c.twistQueue.Do()
		return true
	}

	t, ok := c.twistQueue.Redo()
	if !ok {
		return false
	}
	c.undoing = true
	c.historyQueue.Add(t)
	return true
}

// CanUndo reports whether Undo would do anything.
func (c *Cube) CanUndo() bool {
	return c.twistQueue.HistoryLen() > 0
}

// CanRedo reports whether Redo would do anything.
func (c *Cube) CanRedo() bool {
	return c.historyQueue.IsReady() || (c.undoing && c.twistQueue.IsReady())
}

// History returns the executed twists that Undo can reach, oldest first.
func (c *Cube) History() []Twist {
	return c.twistQueue.History()
}

// Pending returns the queued twists that have not run yet.
func (c *Cube) Pending() []Twist {
	return c.twistQueue.Future()
}

// Defer queues a task to run on an idle tick, after all queued twists.
func (c *Cube) Defer(task func()) {
	if task != nil {
		c.taskQueue = append(c.taskQueue, task)
	}
}

// Solve hands idle ticks to the configured solver until it reports done.
func (c *Cube) Solve() error {
	if c.cfg.solver == nil {
		return fmt.Errorf("solve: %w", ErrNoSolver)
	}
	c.solving = true
	return nil
}

// StopSolving stops consulting the solver. Twists it already queued still run.
func (c *Cube) StopSolving() {
	c.solving = false
}

// Pause freezes the scheduler and the clock. An in-flight twist holds its
// current angle until Resume.
func (c *Cube) Pause() {
	c.paused = true
}

// Resume undoes Pause.
func (c *Cube) Resume() {
	c.paused = false
}

// IsPaused reports whether the cube is paused.
func (c *Cube) IsPaused() bool { return c.paused }

// IsUndoing reports whether the scheduler is replaying undo history.
func (c *Cube) IsUndoing() bool { return c.undoing }

// IsSolving reports whether the solver is in charge.
func (c *Cube) IsSolving() bool { return c.solving }

// IsShuffling reports whether shuffle twists are still outstanding.
func (c *Cube) IsShuffling() bool { return c.shuffleLast != 0 }

// MoveCount returns the number of counted twists. Whole-cube rotations,
// shuffle twists and twists that settle back where they started are not
// counted; undone twists count down.
func (c *Cube) MoveCount() int { return c.moveCount }

// Elapsed returns the unpaused time the cube has been ticked for.
func (c *Cube) Elapsed() time.Duration { return c.clock }

// spin advances the idle auto-rotation.
func (c *Cube) spin(dt time.Duration) {
	if !c.cfg.autoRotate || c.dragging || c.current != nil {
		return
	}
	step := c.cfg.autoRotateSpeed * dt.Seconds()
	c.orientation = c.orientation.Then(linalg.OrientationFromAxisAngle(linalg.UnitY, step))
}
