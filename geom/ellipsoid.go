package geom

import (
	stdmath "math"

	"pathtracer/math"
)

// Ellipsoid is centered at the local origin with per-axis radii.
type Ellipsoid struct {
	Radii math.Vec3
}

func (e Ellipsoid) Intersect(r Ray) (Hit, bool) {
	u := r.Origin.DivVec(e.Radii)
	v := r.Direction.DivVec(e.Radii)

	a := v.LengthSqr()
	b := u.Dot(v)
	c := u.LengthSqr() - 1

	det := b*b - a*c
	if det < 0 {
		return Hit{}, false
	}
	sq := float32(stdmath.Sqrt(float64(det)))

	t1 := (-b + sq) / a
	t2 := (-b - sq) / a
	if t1 > t2 {
		t1, t2 = t2, t1
	}

	var t float32
	switch {
	case t1 > 0:
		t = t1
	case t2 > 0:
		t = t2
	default:
		return Hit{}, false
	}

	n := u.Add(v.Mul(t)).DivVec(e.Radii)
	return Hit{
		T:      t,
		N:      n,
		Inside: u.LengthSqr() < 1,
	}, true
}

func (e Ellipsoid) AABB() AABB {
	box := EmptyAABB()
	for _, c := range cubeCorners(e.Radii.Negate(), e.Radii) {
		box = box.ExtendPoint(c)
	}
	return box
}

// SamplePoint draws a uniform point on the ellipsoid's surface by scaling a
// uniform sphere sample by the per-axis radii.
func (e Ellipsoid) SamplePoint(rnd Rand) math.Vec3 {
	return SphereUniform(rnd).MulVec(e.Radii)
}

// AreaPDF is the exact area element of a scaled sphere at p (p must already
// lie on the surface): 1/(4*pi*sqrt(ry^2 rz^2 nx^2 + rx^2 rz^2 ny^2 + rx^2 ry^2 nz^2))
// where n = p/radii.
func (e Ellipsoid) AreaPDF(p math.Vec3) float32 {
	n := p.DivVec(e.Radii)
	n = n.MulVec(n)
	r := e.Radii.MulVec(e.Radii)

	denom := n.X*r.Y*r.Z + r.X*n.Y*r.Z + r.X*r.Y*n.Z
	return 1 / (4 * float32(stdmath.Pi) * float32(stdmath.Sqrt(float64(denom))))
}

func cubeCorners(minV, maxV math.Vec3) [8]math.Vec3 {
	var out [8]math.Vec3
	for i := 0; i < 8; i++ {
		var c math.Vec3
		if i&1 == 0 {
			c.X = minV.X
		} else {
			c.X = maxV.X
		}
		if i&2 == 0 {
			c.Y = minV.Y
		} else {
			c.Y = maxV.Y
		}
		if i&4 == 0 {
			c.Z = minV.Z
		} else {
			c.Z = maxV.Z
		}
		out[i] = c
	}
	return out
}
