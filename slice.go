package gocube

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
)

// Compass names the nine positions of a slice, read as a 3x3 grid:
//
//	NW N NE
//	W  O  E
//	SW S SE
type Compass int

const (
	NorthWest Compass = 0
	North     Compass = 1
	NorthEast Compass = 2
	West      Compass = 3
	Origin    Compass = 4
	East      Compass = 5
	SouthWest Compass = 6
	South     Compass = 7
	SouthEast Compass = 8
)

const quarterTurn = math.Pi / 2

// Slice is a rotatable plane of nine cubelet slots.
//
// A slice names fixed addresses, not cubelets: after a turn completes the
// cubelets occupying those addresses change and every sub-group is rebuilt.
type Slice struct {
	cube *Cube

	Name    string
	Command byte

	indices  [9]int
	axis     linalg.Vec3
	rotation float64

	face    Direction
	hasFace bool
	color   Color

	neighbours       []*Slice
	interiorsVisible bool

	// Rows, read with the slice's north at the top.
	Up, Equator, Down Group
	// Columns.
	Left, Middle, Right Group

	Corners, Edges, Centers Group
	Cross, Ring             Group
	Dexter, Sinister        Group
}

func newSlice(cube *Cube, name string, command byte, indices []int, axis linalg.Vec3) (*Slice, error) {
	if len(indices) != 9 {
		return nil, fmt.Errorf("%w: %s has %d indices, want 9", ErrInvalidSlice, name, len(indices))
	}
	if !axis.IsAxisAligned() {
		return nil, fmt.Errorf("%w: %s axis %v is not a unit axis", ErrInvalidSlice, name, axis)
	}

	s := &Slice{cube: cube, Name: name, Command: command, axis: axis}
	seen := make(map[int]bool, 9)
	for i, addr := range indices {
		if !IsValidAddress(addr) {
			return nil, fmt.Errorf("%w: %s index %d out of range", ErrInvalidSlice, name, addr)
		}
		if seen[addr] {
			return nil, fmt.Errorf("%w: %s repeats index %d", ErrInvalidSlice, name, addr)
		}
		seen[addr] = true
		s.indices[i] = addr
	}

	s.refresh()
	return s, nil
}

// Indices returns the nine addresses in compass order.
func (s *Slice) Indices() [9]int {
	return s.indices
}

// Axis returns the unit rotation axis. Positive rotation follows the
// right-hand rule about it, so a clockwise twist is a negative rotation.
func (s *Slice) Axis() linalg.Vec3 {
	return s.axis
}

// Rotation returns the current rotation in radians.
func (s *Slice) Rotation() float64 {
	return s.rotation
}

// Face returns the cube face this slice forms, if any.
func (s *Slice) Face() (Direction, bool) {
	return s.face, s.hasFace
}

// IsFace reports whether the slice is an outward-facing side of the cube.
func (s *Slice) IsFace() bool {
	return s.hasFace
}

// Color returns the sticker color of the slice's origin, Colorless for the
// inner slices.
func (s *Slice) Color() Color {
	return s.color
}

// Neighbours returns the parallel slices whose interiors show while this
// slice turns: the inner slice for an outer one and both outer slices for an
// inner one.
func (s *Slice) Neighbours() []*Slice {
	return s.neighbours
}

// InteriorsVisible reports whether the interior faces are currently revealed.
func (s *Slice) InteriorsVisible() bool {
	return s.interiorsVisible
}

// At returns the cubelet at a compass position.
func (s *Slice) At(pos Compass) *Cubelet {
	return &s.cube.pieces[s.cube.table[s.indices[pos]]]
}

// Origin returns the cubelet in the middle of the slice.
func (s *Slice) Origin() *Cubelet {
	return s.At(Origin)
}

// Group returns the nine current occupants in compass order.
func (s *Slice) Group() Group {
	ids := make([]int, 9)
	for i, addr := range s.indices {
		ids[i] = s.cube.table[addr]
	}
	return groupOf(s.cube, ids...)
}

// Cubelets returns the nine current occupants in compass order.
func (s *Slice) Cubelets() []*Cubelet {
	return s.Group().Cubelets()
}

// IsSolved reports whether the slice shows a single color towards face.
func (s *Slice) IsSolved(face ...Direction) bool {
	return s.Group().IsSolved(face...)
}

// Contains reports whether the cubelet currently occupies one of the slots.
func (s *Slice) Contains(c *Cubelet) bool {
	for _, addr := range s.indices {
		if addr == c.Address {
			return true
		}
	}
	return false
}

// SetRotation is the per-frame setter the animation and the pointer drag
// write into. While the angle is off the quarter grid the interiors along
// the axis are revealed if the cube hides them.
func (s *Slice) SetRotation(radians float64) {
	s.rotation = radians
	if s.cube.cfg.hideInteriors {
		s.revealInteriors(!isQuarter(radians))
	}
}

func (s *Slice) revealInteriors(visible bool) {
	s.interiorsVisible = visible
	for _, n := range s.neighbours {
		n.interiorsVisible = visible
	}
}

func (s *Slice) String() string {
	return fmt.Sprintf("%s(%c)", s.Name, s.Command)
}

// refresh rebuilds the sub-groups and face detection from the current table.
func (s *Slice) refresh() {
	c := s.cube
	id := func(p Compass) int { return c.table[s.indices[p]] }

	s.Up = groupOf(c, id(NorthWest), id(North), id(NorthEast))
	s.Equator = groupOf(c, id(West), id(Origin), id(East))
	s.Down = groupOf(c, id(SouthWest), id(South), id(SouthEast))

	s.Left = groupOf(c, id(NorthWest), id(West), id(SouthWest))
	s.Middle = groupOf(c, id(North), id(Origin), id(South))
	s.Right = groupOf(c, id(NorthEast), id(East), id(SouthEast))

	s.Corners = groupOf(c, id(NorthWest), id(NorthEast), id(SouthEast), id(SouthWest))
	s.Edges = groupOf(c, id(North), id(East), id(South), id(West))
	s.Centers = groupOf(c, id(Origin))
	s.Cross = groupOf(c, id(Origin), id(North), id(East), id(South), id(West))
	s.Ring = groupOf(c, id(NorthWest), id(North), id(NorthEast), id(East),
		id(SouthEast), id(South), id(SouthWest), id(West))
	s.Dexter = groupOf(c, id(NorthWest), id(Origin), id(SouthEast))
	s.Sinister = groupOf(c, id(NorthEast), id(Origin), id(SouthWest))

	s.hasFace = false
	s.color = Colorless
	for _, f := range s.Origin().Faces {
		if !f.Color.IsColorless() {
			s.face = f.Normal
			s.hasFace = true
			s.color = f.Color
			break
		}
	}
}

// settle snaps the rotation to the nearest quarter turn and remaps the
// address table and face orientations to match. It returns the net number of
// positive quarter turns about the axis, in [0, 3].
func (s *Slice) settle() int {
	quarters := mod(int(math.Round(s.rotation/quarterTurn)), 4)
	m := linalg.AxisAngle(s.axis, float64(quarters)*quarterTurn).Round()

	c := s.cube
	snapshot := c.table
	along := s.axis.Abs()
	mask := linalg.One.Sub(along)

	for _, addr := range s.indices {
		id := snapshot[addr]
		p := c.pieces[id].Position()

		r := m.Apply(p.Mul(mask)).Round().Add(p.Mul(along))
		dest := CoordsAddress(int(r.X), int(r.Y), int(r.Z))
		c.table[dest] = id
	}

	for addr, id := range c.table {
		c.pieces[id].SetAddress(addr)
	}

	for _, addr := range s.indices {
		c.pieces[c.table[addr]].reorient(m)
	}

	if err := c.checkBijection(); err != nil {
		panic(err)
	}

	s.rotation = 0
	if c.cfg.hideInteriors {
		s.revealInteriors(false)
	}

	c.logger.Debug("slice settled",
		zap.String("slice", s.Name),
		zap.Int("quarters", quarters),
	)
	return quarters
}

// axisIndex returns 0, 1 or 2 for the X, Y or Z axis.
func (s *Slice) axisIndex() int {
	return s.axis.DominantAxis()
}

func isQuarter(radians float64) bool {
	q := radians / quarterTurn
	return math.Abs(q-math.Round(q)) < 1e-6
}
