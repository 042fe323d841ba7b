package gocube

// TwistEvent is dispatched once per completed twist, including twists that
// settled back to where they started.
type TwistEvent struct {
	Slice     *Slice // Primary slice; R, U or F for whole-cube rotations
	Twist     Twist
	Quarters  int // Net positive quarter turns about Slice's axis, 0 to 3
	MoveCount int
}

// ClickEvent is dispatched when a pointer is pressed and released on the cube
// without dragging.
type ClickEvent struct {
	Cubelet *Cubelet
	Face    Direction
}

// Solver is an optional consumer that takes over the scheduler while the
// cube is solving. Consider is called on idle ticks and may queue twists; it
// returns false once it is done.
type Solver interface {
	Consider(c *Cube) bool
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(c *Cube) bool

// Consider calls f(c).
func (f SolverFunc) Consider(c *Cube) bool {
	return f(c)
}

// OnTwistComplete registers a callback for every completed twist.
func (c *Cube) OnTwistComplete(fn func(TwistEvent)) {
	c.twistHandlers = append(c.twistHandlers, fn)
}

// OnShuffleComplete registers a callback fired with the last twist of a
// shuffle once it completes.
func (c *Cube) OnShuffleComplete(fn func(TwistEvent)) {
	c.shuffleHandlers = append(c.shuffleHandlers, fn)
}

// OnClick registers a callback for pointer clicks on the cube.
func (c *Cube) OnClick(fn func(ClickEvent)) {
	c.clickHandlers = append(c.clickHandlers, fn)
}

func (c *Cube) emitTwist(e TwistEvent) {
	for _, fn := range c.twistHandlers {
		fn(e)
	}
}

func (c *Cube) emitShuffle(e TwistEvent) {
	for _, fn := range c.shuffleHandlers {
		fn(e)
	}
}

func (c *Cube) emitClick(e ClickEvent) {
	for _, fn := range c.clickHandlers {
		fn(e)
	}
}
