package linalg

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/westphae/quaternion"
)

// Orientation is a rigid rotation of the whole cube in world space.
type Orientation quaternion.Quaternion

// IdentityOrientation leaves vectors unchanged.
var IdentityOrientation = Orientation{W: 1}

// OrientationFromAxisAngle returns the rotation of angle radians about axis.
func OrientationFromAxisAngle(axis Vec3, angle float64) Orientation {
	q := mgl64.QuatRotate(angle, axis.Normalize().GL())
	return Orientation{W: q.W, X: q.V[0], Y: q.V[1], Z: q.V[2]}
}

// Rotate applies o to v.
func (o Orientation) Rotate(v Vec3) Vec3 {
	r := quaternion.Quaternion(o).RotateVec3(quaternion.Vec3{X: v.X, Y: v.Y, Z: v.Z})
	return Vec3{r.X, r.Y, r.Z}
}

// Inverse returns the conjugate, which undoes a unit rotation.
func (o Orientation) Inverse() Orientation {
	return Orientation(quaternion.Quaternion(o).Conj())
}

// Then returns the rotation that applies o first and next second. The result
// is renormalised so repeated composition does not drift.
func (o Orientation) Then(next Orientation) Orientation {
	q := quaternion.Prod(quaternion.Quaternion(next), quaternion.Quaternion(o))
	return Orientation(q.Unit())
}
