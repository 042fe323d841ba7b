package linalg

import "math"

// Ray is a half-line starting at Origin.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Plane is the set of points p with Normal·(p-Point) == 0.
type Plane struct {
	Normal Vec3
	Point  Vec3
}

// IntersectSphere returns the nearest non-negative hit distance.
func (r Ray) IntersectSphere(center Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	a := r.Direction.Dot(r.Direction)
	b := 2 * oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 || a < Epsilon {
		return 0, false
	}

	sq := math.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectBox returns the entry distance into the axis-aligned box
// [min, max] using the slab method.
func (r Ray) IntersectBox(min, max Vec3) (float64, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)

	for i := 0; i < 3; i++ {
		o := r.Origin.Component(i)
		d := r.Direction.Component(i)
		lo, hi := min.Component(i), max.Component(i)

		if math.Abs(d) < Epsilon {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return tMax, true
	}
	return tMin, true
}

// IntersectPlane returns the hit distance with p. Rays parallel to the plane
// and planes behind the origin do not intersect.
func (r Ray) IntersectPlane(p Plane) (float64, bool) {
	denom := p.Normal.Dot(r.Direction)
	if math.Abs(denom) < Epsilon {
		return 0, false
	}
	t := p.Normal.Dot(p.Point.Sub(r.Origin)) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
