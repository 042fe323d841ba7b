package gocube

import (
	"fmt"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
)

// CubeletType classifies a cubelet by how many stickers it carries.
type CubeletType int

const (
	TypeCore   CubeletType = 0
	TypeCenter CubeletType = 1
	TypeEdge   CubeletType = 2
	TypeCorner CubeletType = 3
)

func (t CubeletType) String() string {
	switch t {
	case TypeCore:
		return "core"
	case TypeCenter:
		return "center"
	case TypeEdge:
		return "edge"
	case TypeCorner:
		return "corner"
	default:
		return "unknown"
	}
}

// CubeletFace is one of the six logical sides of a cubelet.
type CubeletFace struct {
	ID     int       // Face slot this sticker started in
	Color  Color     // Colorless for interior faces
	Normal Direction // Where the face currently points
}

// Cubelet is one of the 27 unit cubes.
//
// Addresses use a raster order with the front-top-left cubelet at 0:
//
//	address = (1-z)*9 + (1-y)*3 + (x+1)
//
// Y and Z run opposite to screen space (y up, z towards the viewer), so
// address 0 is (-1, 1, 1) and address 26 is (1, -1, -1).
type Cubelet struct {
	ID      int
	Address int

	AddressX int
	AddressY int
	AddressZ int

	// Faces is indexed by the direction each face currently points to.
	Faces [6]CubeletFace
	Type  CubeletType

	tweening bool
	engaged  int
}

const (
	axisNone = -1
	axisX    = 0
	axisY    = 1
	axisZ    = 2
)

func newCubelet(id int, colors [6]Color) Cubelet {
	c := Cubelet{ID: id, engaged: axisNone}
	stickers := 0
	for i, color := range colors {
		c.Faces[i] = CubeletFace{ID: i, Color: color, Normal: Directions[i]}
		if !color.IsColorless() {
			stickers++
		}
	}
	c.Type = CubeletType(stickers)
	c.SetAddress(id)
	return c
}

// SetAddress moves the cubelet to a new slot. Face orientation is untouched.
func (c *Cubelet) SetAddress(address int) {
	c.Address = address
	c.AddressX, c.AddressY, c.AddressZ = AddressCoords(address)
}

// Position returns the grid coordinates as a vector.
func (c *Cubelet) Position() linalg.Vec3 {
	return linalg.V(float64(c.AddressX), float64(c.AddressY), float64(c.AddressZ))
}

// Front returns the face currently pointing front.
func (c *Cubelet) Front() CubeletFace { return c.Faces[frontID] }

// Up returns the face currently pointing up.
func (c *Cubelet) Up() CubeletFace { return c.Faces[upID] }

// Right returns the face currently pointing right.
func (c *Cubelet) Right() CubeletFace { return c.Faces[rightID] }

// Down returns the face currently pointing down.
func (c *Cubelet) Down() CubeletFace { return c.Faces[downID] }

// Left returns the face currently pointing left.
func (c *Cubelet) Left() CubeletFace { return c.Faces[leftID] }

// Back returns the face currently pointing back.
func (c *Cubelet) Back() CubeletFace { return c.Faces[backID] }

// IsTweening reports whether the cubelet's slice is mid-animation.
func (c *Cubelet) IsTweening() bool {
	return c.tweening
}

// FaceIn returns the face pointing in d.
func (c *Cubelet) FaceIn(d Direction) CubeletFace {
	return c.Faces[d.ID]
}

// ColorIn returns the sticker color pointing in d.
func (c *Cubelet) ColorIn(d Direction) Color {
	return c.Faces[d.ID].Color
}

// HasColor reports whether any face carries color.
func (c *Cubelet) HasColor(color Color) bool {
	for _, f := range c.Faces {
		if f.Color == color {
			return true
		}
	}
	return false
}

// HasColors reports whether every listed color is present.
func (c *Cubelet) HasColors(colors ...Color) bool {
	for _, color := range colors {
		if !c.HasColor(color) {
			return false
		}
	}
	return true
}

// IsEngagedOn reports whether the cubelet sits in the plane at coordinate
// value along axis (0=X, 1=Y, 2=Z).
func (c *Cubelet) IsEngagedOn(axis, value int) bool {
	switch axis {
	case 0:
		return c.AddressX == value
	case 1:
		return c.AddressY == value
	default:
		return c.AddressZ == value
	}
}

// reorient rotates every face normal by m and rebuilds the face table.
func (c *Cubelet) reorient(m linalg.Mat3) {
	var faces [6]CubeletFace
	for _, f := range c.Faces {
		d, ok := DirectionByNormal(m.Apply(f.Normal.Normal))
		if !ok {
			panic(fmt.Sprintf("gocube: cubelet %d face %d rotated off-axis", c.ID, f.ID))
		}
		f.Normal = d
		faces[d.ID] = f
	}
	c.Faces = faces
}

func (c *Cubelet) String() string {
	s := fmt.Sprintf("#%02d@%02d %s [", c.ID, c.Address, c.Type)
	for i, f := range c.Faces {
		if i > 0 {
			s += " "
		}
		s += string(Directions[i].Initial) + ":" + f.Color.String()
	}
	return s + "]"
}

// AddressCoords converts a linear address to grid coordinates.
func AddressCoords(address int) (x, y, z int) {
	x = address%3 - 1
	y = 1 - (address%9)/3
	z = 1 - address/9
	return x, y, z
}

// CoordsAddress converts grid coordinates back to a linear address.
func CoordsAddress(x, y, z int) int {
	return (1-z)*9 + (1-y)*3 + (x + 1)
}

// IsValidAddress reports whether a is one of the 27 slots.
func IsValidAddress(a int) bool {
	return a >= 0 && a < 27
}
