package geom

import (
	stdmath "math"

	"pathtracer/math"
)

// AABB is an axis-aligned bounding box. The empty AABB satisfies
// EmptyAABB().Union(x) == x for any x, so nodes can be built by repeated
// extension without a special first-iteration case.
type AABB struct {
	Min, Max math.Vec3
}

// EmptyAABB returns the sentinel empty box: Min = +Inf, Max = -Inf.
func EmptyAABB() AABB {
	inf := float32(stdmath.Inf(1))
	return AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Center returns (Min+Max)/2. Meaningless on an empty box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfSizes returns (Max-Min)/2.
func (b AABB) HalfSizes() math.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// ExtendPoint grows the box to contain p.
func (b AABB) ExtendPoint(p math.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Area is half the surface area (xy+yz+zx): order-preserving and used only
// as an SAH cost proxy, never as a physical quantity.
func (b AABB) Area() float32 {
	s := b.Max.Sub(b.Min)
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return 0
	}
	return s.X*s.Y + s.Y*s.Z + s.Z*s.X
}

// Contains reports whether other is fully inside b.
func (b AABB) Contains(other AABB) bool {
	return b.Min.X <= other.Min.X && b.Min.Y <= other.Min.Y && b.Min.Z <= other.Min.Z &&
		other.Max.X <= b.Max.X && other.Max.Y <= b.Max.Y && other.Max.Z <= b.Max.Z
}

// ContainsPoint reports whether p lies within the box.
func (b AABB) ContainsPoint(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersect returns the entry distance of ray into the box via the slab
// method, or +Inf if the ray misses it.
func (b AABB) Intersect(r Ray) float32 {
	tEntry := float32(stdmath.Inf(-1))
	tExit := float32(stdmath.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.At(axis)
		d := r.Direction.At(axis)
		lo, hi := b.Min.At(axis), b.Max.At(axis)

		if d == 0 {
			if o < lo || o > hi {
				return float32(stdmath.Inf(1))
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tEntry = max(tEntry, t1)
		tExit = min(tExit, t2)
	}

	if tEntry > tExit {
		return float32(stdmath.Inf(1))
	}
	return tEntry
}
