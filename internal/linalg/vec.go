// Package linalg provides the small amount of 3D math the cube engine needs:
// vectors, axis-angle rotation matrices, rays and the usual intersections.
// Arithmetic is done by mgl64; this package adds the cube-specific helpers
// (snapping, dominant axes, rounding away trig drift).
package linalg

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used when comparing floating point geometry.
const Epsilon = 1e-9

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Canonical unit vectors.
var (
	Zero  = Vec3{}
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
	One   = Vec3{1, 1, 1}
)

// V is shorthand for Vec3{x, y, z}.
func V(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// FromGL converts an mgl64 vector.
func FromGL(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// GL converts a to an mgl64 vector.
func (a Vec3) GL() mgl64.Vec3 {
	return mgl64.Vec3{a.X, a.Y, a.Z}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return FromGL(a.GL().Add(b.GL()))
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return FromGL(a.GL().Sub(b.GL()))
}

func (a Vec3) Scale(s float64) Vec3 {
	return FromGL(a.GL().Mul(s))
}

// Mul multiplies component-wise.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.GL().Dot(b.GL())
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return FromGL(a.GL().Cross(b.GL()))
}

func (a Vec3) Length() float64 {
	return a.GL().Len()
}

// Normalize returns the unit vector in the direction of a.
// The zero vector is returned unchanged.
func (a Vec3) Normalize() Vec3 {
	if a.Length() < Epsilon {
		return a
	}
	return FromGL(a.GL().Normalize())
}

// Abs returns the component-wise absolute value.
func (a Vec3) Abs() Vec3 {
	return Vec3{math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)}
}

// Round rounds every component to the nearest integer, clearing -0.
func (a Vec3) Round() Vec3 {
	return Vec3{round(a.X), round(a.Y), round(a.Z)}
}

func round(f float64) float64 {
	r := math.Round(f)
	if r == 0 {
		return 0
	}
	return r
}

// Component returns the i-th component (0=X, 1=Y, 2=Z).
func (a Vec3) Component(i int) float64 {
	return a.GL()[i]
}

// ApproxEqual reports whether a and b differ by less than eps per component.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return a.GL().ApproxEqualThreshold(b.GL(), eps)
}

// DominantAxis returns the index of the component with the largest magnitude.
func (a Vec3) DominantAxis() int {
	abs := a.Abs()
	switch {
	case abs.X >= abs.Y && abs.X >= abs.Z:
		return 0
	case abs.Y >= abs.Z:
		return 1
	default:
		return 2
	}
}

// Snap returns the signed canonical basis vector closest to a.
func (a Vec3) Snap() Vec3 {
	i := a.DominantAxis()
	var out mgl64.Vec3
	out[i] = math.Copysign(1, a.Component(i))
	return FromGL(out)
}

// IsAxisAligned reports whether a is a unit vector along ±X, ±Y or ±Z.
func (a Vec3) IsAxisAligned() bool {
	abs := a.Abs()
	ones, zeros := 0, 0
	for i := 0; i < 3; i++ {
		c := abs.Component(i)
		switch {
		case math.Abs(c-1) < Epsilon:
			ones++
		case c < Epsilon:
			zeros++
		}
	}
	return ones == 1 && zeros == 2
}
