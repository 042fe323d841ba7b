package gocube

// Tracker follows a cube's solve progress and reports each phase the first
// time it is reached.
type Tracker struct {
	cube         *Cube
	lastPhase    Phase
	highestPhase Phase // Monotonic - never goes backwards
	callbacks    []func(phase Phase)
}

// NewTracker attaches a tracker to cube. Tracking starts from the cube's
// current phase, so a tracker attached after a shuffle starts low.
func NewTracker(cube *Cube) *Tracker {
	t := &Tracker{cube: cube}
	t.lastPhase = cube.Phase()
	t.highestPhase = t.lastPhase

	cube.OnTwistComplete(func(e TwistEvent) {
		if e.Twist.IsShuffle {
			return
		}
		t.check()
	})
	cube.OnShuffleComplete(func(TwistEvent) {
		t.Reset()
	})
	return t
}

// OnPhase registers a callback fired when a new highest phase is reached.
func (t *Tracker) OnPhase(cb func(phase Phase)) {
	t.callbacks = append(t.callbacks, cb)
}

// Reset restarts tracking from the cube's current phase.
func (t *Tracker) Reset() {
	t.lastPhase = t.cube.Phase()
	t.highestPhase = t.lastPhase
}

func (t *Tracker) check() {
	current := t.cube.Phase()
	t.lastPhase = current

	// Phases only count once; a cube that drops back and recovers does not
	// report the same phase again.
	if current > t.highestPhase {
		t.highestPhase = current
		for _, cb := range t.callbacks {
			cb(current)
		}
	}
}

// CurrentPhase returns the phase after the last completed twist. It may go
// backwards while solving.
func (t *Tracker) CurrentPhase() Phase {
	return t.lastPhase
}

// HighestPhase returns the highest phase reached since the last reset.
func (t *Tracker) HighestPhase() Phase {
	return t.highestPhase
}
