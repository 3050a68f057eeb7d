package geom

import "pathtracer/math"

// Box is an axis-aligned parallelepiped centered at the local origin with
// per-axis half-sizes.
type Box struct {
	HalfSizes math.Vec3
}

func (b Box) Intersect(r Ray) (Hit, bool) {
	o, d, s := r.Origin, r.Direction, b.HalfSizes

	var t1, t2 float32
	entry := float32(-1e30)
	exit := float32(1e30)
	for axis := 0; axis < 3; axis++ {
		oa, da, sa := o.At(axis), d.At(axis), s.At(axis)
		if da == 0 {
			if oa < -sa || oa > sa {
				return Hit{}, false
			}
			continue
		}
		t1 = (sa - oa) / da
		t2 = (-sa - oa) / da
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		entry = max(entry, t1)
		exit = min(exit, t2)
	}

	if entry > exit {
		return Hit{}, false
	}
	var t float32
	switch {
	case entry >= 0:
		t = entry
	case exit >= 0:
		t = exit
	default:
		return Hit{}, false
	}

	p := o.Add(d.Mul(t)).DivVec(s)
	axis := p.MaxAbsAxis()
	var n math.Vec3
	val := p.At(axis)
	sign := float32(1)
	if val < 0 {
		sign = -1
	}
	n.SetAt(axis, sign)

	return Hit{
		T:      t,
		N:      n,
		Inside: o.DivVec(s).Abs().MaxAbsComponent() < 1,
	}, true
}

func (b Box) AABB() AABB {
	box := EmptyAABB()
	for _, c := range cubeCorners(b.HalfSizes.Negate(), b.HalfSizes) {
		box = box.ExtendPoint(c)
	}
	return box
}

// SamplePoint picks one of the six faces with probability proportional to
// its area, then draws a uniform point on that face. The earlier
// implementations in the source material disagreed on the face-selection
// scheme; this follows the physically correct one: P(face) ∝ its area.
func (b Box) SamplePoint(rnd Rand) math.Vec3 {
	sx, sy, sz := b.HalfSizes.X, b.HalfSizes.Y, b.HalfSizes.Z
	areaXY := sx * sy // faces at +-Z
	areaYZ := sy * sz // faces at +-X
	areaXZ := sx * sz // faces at +-Y
	total := areaXY + areaYZ + areaXZ
	if total <= 0 {
		return math.Vec3{}
	}

	u := rnd.Float32() * total
	u1 := rnd.Float32()*2 - 1
	u2 := rnd.Float32()*2 - 1
	sign := float32(1)
	if rnd.Float32() < 0.5 {
		sign = -1
	}

	switch {
	case u < areaXY:
		return math.Vec3{X: u1 * sx, Y: u2 * sy, Z: sign * sz}
	case u < areaXY+areaYZ:
		return math.Vec3{X: sign * sx, Y: u1 * sy, Z: u2 * sz}
	default:
		return math.Vec3{X: u1 * sx, Y: sign * sy, Z: u2 * sz}
	}
}

// AreaPDF is uniform across the box's surface: 1/(total surface area).
func (b Box) AreaPDF(p math.Vec3) float32 {
	sx, sy, sz := b.HalfSizes.X, b.HalfSizes.Y, b.HalfSizes.Z
	total := 8 * (sx*sy + sy*sz + sx*sz)
	return 1 / total
}
