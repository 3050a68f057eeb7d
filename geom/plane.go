package geom

import (
	stdmath "math"

	"pathtracer/math"
)

// Plane passes through the local origin with the given unit normal. It has
// no finite AABB and cannot be sampled as a light.
type Plane struct {
	Normal math.Vec3
}

func (p Plane) Intersect(r Ray) (Hit, bool) {
	denom := r.Direction.Dot(p.Normal)
	t := -r.Origin.Dot(p.Normal) / denom
	if t < 0 || stdmath.IsNaN(float64(t)) {
		return Hit{}, false
	}
	return Hit{
		T:      t,
		N:      p.Normal,
		Inside: p.Normal.Dot(r.Origin) < 0,
	}, true
}

// AABB returns an unbounded box; callers exclude planes from BVH leaves.
func (p Plane) AABB() AABB {
	inf := float32(stdmath.Inf(1))
	return AABB{
		Min: math.Vec3{X: -inf, Y: -inf, Z: -inf},
		Max: math.Vec3{X: inf, Y: inf, Z: inf},
	}
}
