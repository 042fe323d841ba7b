package gocube

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
)

// Interaction defaults.
const (
	DefaultDragThreshold = 0.1 // cube-local units before a drag locks an axis
	DefaultDragSpeed     = 1.0 // radians per cube-local unit dragged
	DefaultFlickVelocity = 4.0 // radians per second that commits to the next quarter
)

// Interaction turns pointer gestures into slice rotations.
//
// Pressing on the cube picks a cubelet and the three slices through it. Once
// the pointer has moved far enough, the drag direction fixes the rotation
// axis and with it the slice; further movement rotates that slice directly.
// Releasing issues a twist that carries the slice to a quarter turn. A press
// and release without a drag is reported as a click.
type Interaction struct {
	DragThreshold float64
	DragSpeed     float64
	FlickVelocity float64

	cube      *Cube
	projector *Projector

	active     bool
	hit        Hit
	candidates [3]*Slice

	locked   bool
	axis     linalg.Vec3
	slice    *Slice
	angle    float64
	velocity float64
	lastX    float64
	lastY    float64
	lastTime time.Duration
}

// NewInteraction binds pointer handling to a cube through a projector.
func NewInteraction(cube *Cube, projector *Projector) *Interaction {
	if projector.cube == nil {
		projector.cube = cube
	}
	return &Interaction{
		DragThreshold: DefaultDragThreshold,
		DragSpeed:     DefaultDragSpeed,
		FlickVelocity: DefaultFlickVelocity,
		cube:          cube,
		projector:     projector,
	}
}

// Active reports whether a gesture is in progress.
func (in *Interaction) Active() bool {
	return in.active
}

// Slice returns the slice locked by the current drag, if any.
func (in *Interaction) Slice() *Slice {
	if !in.locked {
		return nil
	}
	return in.slice
}

// PointerDown starts a gesture at pixel (x, y). It reports false when the
// pointer misses the cube or a twist is still animating.
func (in *Interaction) PointerDown(x, y float64, now time.Duration) bool {
	if in.active || in.cube.IsTweening() {
		return false
	}

	hit, ok := in.projector.PickAt(x, y)
	if !ok {
		return false
	}

	in.reset()
	in.active = true
	in.hit = hit
	for axis := 0; axis < 3; axis++ {
		in.candidates[axis] = in.cube.sliceAt(axis, hit.Coords[axis])
	}
	in.lastX, in.lastY = x, y
	in.lastTime = now
	in.cube.dragging = true
	return true
}

// PointerMove updates the gesture with the pointer at pixel (x, y).
func (in *Interaction) PointerMove(x, y float64, now time.Duration) {
	if !in.active {
		return
	}
	in.lastX, in.lastY = x, y

	p, ok := in.projector.ProjectPlane(x, y, in.hit.Plane)
	if !ok {
		return
	}
	drag := p.Sub(in.hit.Point)
	normal := in.hit.Face.Normal

	if !in.locked {
		if drag.Length() < in.DragThreshold {
			return
		}
		in.axis = normal.Cross(drag).Snap()
		in.slice = in.candidates[in.axis.DominantAxis()]
		in.locked = true
		in.cube.logger.Debug("drag locked",
			zap.String("slice", in.slice.Name),
			zap.Stringer("face", in.hit.Face),
		)
	}

	angle := drag.Dot(in.axis.Cross(normal)) * in.DragSpeed
	rotation := angle * in.slice.axis.Dot(in.axis)

	if dt := (now - in.lastTime).Seconds(); dt > 0 {
		in.velocity = (rotation - in.angle) / dt
	}
	in.angle = rotation
	in.lastTime = now
	in.slice.SetRotation(rotation)
}

// PointerUp ends the gesture. A locked drag issues the twist that settles
// the slice and returns it; a click returns false. Releasing where the
// pointer last moved keeps the velocity of that move.
func (in *Interaction) PointerUp(x, y float64, now time.Duration) (Twist, bool) {
	if !in.active {
		return Twist{}, false
	}
	if x != in.lastX || y != in.lastY {
		in.PointerMove(x, y, now)
	}
	defer in.reset()
	in.cube.dragging = false

	if !in.locked {
		in.cube.emitClick(ClickEvent{Cubelet: in.hit.Cubelet, Face: in.hit.Face})
		return Twist{}, false
	}

	t := releaseTwist(in.slice, in.slice.rotation, in.velocity, in.FlickVelocity)
	in.cube.TwistMoves(t)
	return t, true
}

// Cancel abandons the gesture and lets the slice spring back.
func (in *Interaction) Cancel() {
	if !in.active {
		return
	}
	in.cube.dragging = false
	if in.locked {
		in.cube.TwistMoves(MustTwist(in.slice.Command, 0))
	}
	in.reset()
}

func (in *Interaction) reset() {
	in.active = false
	in.locked = false
	in.slice = nil
	in.angle = 0
	in.velocity = 0
	in.candidates = [3]*Slice{}
}

// releaseTwist picks the twist that carries slice from rotation to a quarter
// turn. Slow releases round to the nearest quarter; a flick faster than
// flick commits to the next quarter in the direction of motion.
func releaseTwist(slice *Slice, rotation, velocity, flick float64) Twist {
	q := rotation / quarterTurn
	var quarters int
	switch {
	case velocity > flick:
		quarters = int(math.Ceil(q))
	case velocity < -flick:
		quarters = int(math.Floor(q))
	default:
		quarters = int(math.Round(q))
	}

	// Positive rotation about the slice axis is anticlockwise.
	degrees := float64(quarters) * 90
	if quarters < 0 {
		return MustTwist(slice.Command, -degrees)
	}
	return MustTwist(flipCase(slice.Command), degrees)
}
