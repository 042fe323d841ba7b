package gocube

import (
	"strings"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
)

// Direction is one of the six facings of the cube.
//
// Each direction knows its four neighbors as a cycle ordered clockwise when
// looking at the direction from outside the cube, which is what makes
// "what is to the right of Up when looking at Front" a table lookup.
type Direction struct {
	ID      int
	Name    string
	Initial byte
	Normal  linalg.Vec3
}

const (
	frontID = 0
	upID    = 1
	rightID = 2
	downID  = 3
	leftID  = 4
	backID  = 5
)

// The six canonical directions.
var (
	Front = Direction{ID: frontID, Name: "front", Initial: 'F', Normal: linalg.V(0, 0, 1)}
	Up    = Direction{ID: upID, Name: "up", Initial: 'U', Normal: linalg.V(0, 1, 0)}
	Right = Direction{ID: rightID, Name: "right", Initial: 'R', Normal: linalg.V(1, 0, 0)}
	Down  = Direction{ID: downID, Name: "down", Initial: 'D', Normal: linalg.V(0, -1, 0)}
	Left  = Direction{ID: leftID, Name: "left", Initial: 'L', Normal: linalg.V(-1, 0, 0)}
	Back  = Direction{ID: backID, Name: "back", Initial: 'B', Normal: linalg.V(0, 0, -1)}
)

// Directions is indexed by Direction.ID.
var Directions = [6]Direction{Front, Up, Right, Down, Left, Back}

// neighbors[id] is the clockwise 4-cycle around direction id.
var neighbors = [6][4]int{
	frontID: {upID, rightID, downID, leftID},
	upID:    {backID, rightID, frontID, leftID},
	rightID: {upID, backID, downID, frontID},
	downID:  {frontID, rightID, backID, leftID},
	leftID:  {upID, frontID, downID, backID},
	backID:  {upID, leftID, downID, rightID},
}

var opposites = [6]int{
	frontID: backID,
	upID:    downID,
	rightID: leftID,
	downID:  upID,
	leftID:  rightID,
	backID:  frontID,
}

func (d Direction) String() string {
	return d.Name
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	return Directions[opposites[d.ID]]
}

// Neighbors returns the clockwise cycle of the four adjacent directions.
func (d Direction) Neighbors() [4]Direction {
	var out [4]Direction
	for i, id := range neighbors[d.ID] {
		out[i] = Directions[id]
	}
	return out
}

// Rotation steps around d's neighbor cycle starting at from. vector is +1 for
// clockwise and -1 for anticlockwise; steps is taken modulo 4. It returns
// false when from is d itself or its opposite, since neither lies on the cycle.
func (d Direction) Rotation(vector int, from Direction, steps int) (Direction, bool) {
	if from.ID == d.ID || from.ID == opposites[d.ID] {
		return Direction{}, false
	}

	cycle := neighbors[d.ID]
	i := 0
	for ; i < 4; i++ {
		if cycle[i] == from.ID {
			break
		}
	}

	next := mod(i+mod(steps, 4)*vector, 4)
	return Directions[cycle[next]], true
}

// Clockwise steps clockwise around d starting at from.
func (d Direction) Clockwise(from Direction, steps int) (Direction, bool) {
	return d.Rotation(1, from, steps)
}

// Anticlockwise steps anticlockwise around d starting at from.
func (d Direction) Anticlockwise(from Direction, steps int) (Direction, bool) {
	return d.Rotation(-1, from, steps)
}

// UpOf returns what appears as "up" when looking at d with up as reference.
func (d Direction) UpOf(up Direction) (Direction, bool) {
	return d.Clockwise(up, 0)
}

// RightOf returns what appears as "right" when looking at d.
func (d Direction) RightOf(up Direction) (Direction, bool) {
	return d.Clockwise(up, 1)
}

// DownOf returns what appears as "down" when looking at d.
func (d Direction) DownOf(up Direction) (Direction, bool) {
	return d.Clockwise(up, 2)
}

// LeftOf returns what appears as "left" when looking at d.
func (d Direction) LeftOf(up Direction) (Direction, bool) {
	return d.Clockwise(up, 3)
}

// DirectionByID looks up a direction by id.
func DirectionByID(id int) (Direction, bool) {
	if id < 0 || id >= len(Directions) {
		return Direction{}, false
	}
	return Directions[id], true
}

// DirectionByName looks up a direction by name, case-insensitively.
func DirectionByName(name string) (Direction, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range Directions {
		if d.Name == name {
			return d, true
		}
	}
	return Direction{}, false
}

// DirectionByInitial looks up a direction by its initial (F, U, R, D, L, B).
func DirectionByInitial(initial byte) (Direction, bool) {
	if initial >= 'a' && initial <= 'z' {
		initial -= 'a' - 'A'
	}
	for _, d := range Directions {
		if d.Initial == initial {
			return d, true
		}
	}
	return Direction{}, false
}

// DirectionByNormal matches a vector against the six canonical normals after
// rounding away floating point drift.
func DirectionByNormal(v linalg.Vec3) (Direction, bool) {
	r := v.Round()
	for _, d := range Directions {
		if d.Normal == r {
			return d, true
		}
	}
	return Direction{}, false
}

// mod is the always non-negative remainder.
func mod(a, n int) int {
	return ((a % n) + n) % n
}
