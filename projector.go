package gocube

import (
	"math"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
)

// CubeletSize is the edge length of one cubelet in world units. The cube is
// centred on the origin, so its faces lie at ±1.5 cubelets.
const CubeletSize = 1.0

const halfExtent = 1.5 * CubeletSize

// Camera is a perspective pinhole camera.
type Camera struct {
	Position linalg.Vec3
	Target   linalg.Vec3
	Up       linalg.Vec3
	FOV      float64 // vertical field of view in radians
	Aspect   float64 // width over height; zero derives it from the viewport
}

// DefaultCamera looks at the front-up-right corner from a slight angle.
func DefaultCamera() Camera {
	return Camera{
		Position: linalg.V(4, 5, 9),
		Target:   linalg.Zero,
		Up:       linalg.UnitY,
		FOV:      35 * math.Pi / 180,
	}
}

// Projector turns pointer coordinates into rays in the cube's local space and
// picks cubelets with them.
type Projector struct {
	Camera Camera
	Width  float64
	Height float64

	cube *Cube
}

// NewProjector returns a projector over cube for a viewport of w by h pixels.
func NewProjector(cube *Cube, camera Camera, w, h float64) *Projector {
	return &Projector{Camera: camera, Width: w, Height: h, cube: cube}
}

// Hit is a ray intersection with the cube's bounding box.
type Hit struct {
	Point   linalg.Vec3 // cube-local intersection point
	Face    Direction   // face of the cube that was hit
	Plane   linalg.Plane
	Cubelet *Cubelet
	Coords  [3]int // grid cell, each in {-1, 0, 1}
}

// Ray returns the world-space ray through pixel (x, y), with y growing down.
func (p *Projector) Ray(x, y float64) linalg.Ray {
	cam := p.Camera
	forward := cam.Target.Sub(cam.Position).Normalize()
	right := forward.Cross(cam.Up).Normalize()
	up := right.Cross(forward)

	aspect := cam.Aspect
	if aspect == 0 && p.Height > 0 {
		aspect = p.Width / p.Height
	}
	if aspect == 0 {
		aspect = 1
	}

	ndcX := 2*x/p.Width - 1
	ndcY := 1 - 2*y/p.Height
	t := math.Tan(cam.FOV / 2)

	dir := forward.
		Add(right.Scale(ndcX * t * aspect)).
		Add(up.Scale(ndcY * t))
	return linalg.Ray{Origin: cam.Position, Direction: dir.Normalize()}
}

// LocalRay returns the ray through pixel (x, y) in the cube's local frame,
// undoing the cube's current orientation.
func (p *Projector) LocalRay(x, y float64) linalg.Ray {
	return p.toLocal(p.Ray(x, y))
}

func (p *Projector) toLocal(r linalg.Ray) linalg.Ray {
	if p.cube == nil {
		return r
	}
	inv := p.cube.Orientation().Inverse()
	return linalg.Ray{
		Origin:    inv.Rotate(r.Origin),
		Direction: inv.Rotate(r.Direction),
	}
}

// PickAt casts a ray through pixel (x, y) and picks the cubelet under it.
func (p *Projector) PickAt(x, y float64) (Hit, bool) {
	return p.Pick(p.LocalRay(x, y))
}

// Pick intersects a cube-local ray with the cube. A bounding sphere rejects
// clear misses before the box test.
func (p *Projector) Pick(r linalg.Ray) (Hit, bool) {
	if _, ok := r.IntersectSphere(linalg.Zero, halfExtent*math.Sqrt(3)); !ok {
		return Hit{}, false
	}

	lo := linalg.V(-halfExtent, -halfExtent, -halfExtent)
	t, ok := r.IntersectBox(lo, lo.Scale(-1))
	if !ok {
		return Hit{}, false
	}

	point := r.At(t)
	face, ok := DirectionByNormal(point.Snap())
	if !ok {
		return Hit{}, false
	}

	hit := Hit{
		Point: point,
		Face:  face,
		Plane: linalg.Plane{Normal: face.Normal, Point: point},
	}
	for i := 0; i < 3; i++ {
		hit.Coords[i] = gridCell(point.Component(i))
	}
	if p.cube != nil {
		hit.Cubelet = p.cube.CubeletAt(CoordsAddress(hit.Coords[0], hit.Coords[1], hit.Coords[2]))
	}
	return hit, true
}

// ProjectPlane intersects the ray through pixel (x, y) with a cube-local plane.
func (p *Projector) ProjectPlane(x, y float64, plane linalg.Plane) (linalg.Vec3, bool) {
	r := p.LocalRay(x, y)
	t, ok := r.IntersectPlane(plane)
	if !ok {
		return linalg.Vec3{}, false
	}
	return r.At(t), true
}

// gridCell bins a cube-local coordinate into -1, 0 or 1.
func gridCell(v float64) int {
	cell := int(math.Floor((v + halfExtent) / CubeletSize))
	if cell < 0 {
		cell = 0
	}
	if cell > 2 {
		cell = 2
	}
	return cell - 1
}
