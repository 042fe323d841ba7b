package linalg

import "github.com/go-gl/mathgl/mgl64"

// Mat3 is a 3x3 matrix in mgl64's column-major layout.
type Mat3 mgl64.Mat3

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3(mgl64.Ident3())
}

// AxisAngle builds the right-handed rotation of angle radians about axis.
// The axis does not need to be normalized.
func AxisAngle(axis Vec3, angle float64) Mat3 {
	return Mat3(mgl64.HomogRotate3D(angle, axis.Normalize().GL()).Mat3())
}

// At returns the element at row i, column j.
func (m Mat3) At(i, j int) float64 {
	return mgl64.Mat3(m).At(i, j)
}

// Apply returns m * v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return FromGL(mgl64.Mat3(m).Mul3x1(v.GL()))
}

// Mul returns m * n.
func (m Mat3) Mul(n Mat3) Mat3 {
	return Mat3(mgl64.Mat3(m).Mul3(mgl64.Mat3(n)))
}

// Transpose returns the transpose of m, which is its inverse for rotations.
func (m Mat3) Transpose() Mat3 {
	return Mat3(mgl64.Mat3(m).Transpose())
}

// Round rounds every element to the nearest integer. Quarter-turn rotation
// matrices only contain -1, 0 and 1, so rounding removes trig drift.
func (m Mat3) Round() Mat3 {
	var out Mat3
	for i := range m {
		out[i] = round(m[i])
	}
	return out
}
