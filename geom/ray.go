// Package geom implements the primitive geometry of the renderer: rays,
// axis-aligned bounding boxes, the four supported surface types, and the
// rigid transform that positions a surface in world space.
package geom

import "pathtracer/math"

// shiftEpsilon offsets a secondary ray's origin along its own direction so
// it escapes the numerical thickness of the surface it was spawned from.
const shiftEpsilon = 1e-4

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// NewRay normalizes direction before storing it; callers must not rely on
// the original magnitude.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewShiftedRay is NewRay with the origin nudged along the (normalized)
// direction by shiftEpsilon, used for every secondary ray cast during
// shading to avoid self-intersection with the surface just hit.
func NewShiftedRay(origin, direction math.Vec3) Ray {
	d := direction.Normalize()
	return Ray{Origin: origin.Add(d.Mul(shiftEpsilon)), Direction: d}
}

// At evaluates the ray's position at parameter t.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
